package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordKernel(t *testing.T) {
	before := testutil.ToFloat64(KernelCalls.WithLabelValues("test_kernel"))
	elemsBefore := testutil.ToFloat64(ElementsProcessed.WithLabelValues("test_kernel"))

	RecordKernel("test_kernel", 1024, 10*time.Microsecond)
	RecordKernel("test_kernel", 16, 2*time.Microsecond)

	if got := testutil.ToFloat64(KernelCalls.WithLabelValues("test_kernel")) - before; got != 2 {
		t.Errorf("calls delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(ElementsProcessed.WithLabelValues("test_kernel")) - elemsBefore; got != 1040 {
		t.Errorf("elements delta = %v, want 1040", got)
	}
}

func TestRecordThroughput(t *testing.T) {
	RecordThroughput("simd", "1024", 512.5)
	if got := testutil.ToFloat64(Throughput.WithLabelValues("simd", "1024")); got != 512.5 {
		t.Errorf("throughput = %v, want 512.5", got)
	}
}

func TestRecordWorkers(t *testing.T) {
	RecordWorkers(8)
	if got := testutil.ToFloat64(Workers); got != 8 {
		t.Errorf("workers = %v, want 8", got)
	}
}

func TestRecordToleranceViolation(t *testing.T) {
	before := testutil.ToFloat64(ToleranceViolations.WithLabelValues("fused"))
	RecordToleranceViolation("fused")
	if got := testutil.ToFloat64(ToleranceViolations.WithLabelValues("fused")) - before; got != 1 {
		t.Errorf("violations delta = %v, want 1", got)
	}
}

func TestRecordFixtureLoadError(t *testing.T) {
	RecordFixtureLoadError("misaligned")
	RecordFixtureLoadError("open")
	if got := testutil.ToFloat64(FixtureLoadErrors.WithLabelValues("misaligned")); got < 1 {
		t.Errorf("misaligned count = %v, want >= 1", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	RecordKernel("textfile_kernel", 8, time.Microsecond)
	path := filepath.Join(t.TempDir(), "softmax.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `softmax_kernel_calls_total{kernel="textfile_kernel"}`) {
		t.Errorf("textfile missing kernel counter:\n%s", data)
	}
}
