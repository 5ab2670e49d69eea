package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	KernelDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "softmax_kernel_duration_seconds",
		Help:    "Histogram of softmax kernel execution times",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
	}, []string{"kernel"})

	KernelCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "softmax_kernel_calls_total",
		Help: "Total number of softmax kernel invocations",
	}, []string{"kernel"})

	ElementsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "softmax_elements_total",
		Help: "Total number of vector elements transformed",
	}, []string{"kernel"})

	VectorLength = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "softmax_vector_length",
		Help:    "Distribution of vector lengths passed to kernels",
		Buckets: []float64{0, 8, 64, 1024, 4096, 16384, 65536, 262144, 1048576},
	})

	Throughput = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "softmax_throughput_melems_per_second",
		Help: "Last measured throughput in millions of elements per second",
	}, []string{"kernel", "size"})

	Workers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "softmax_workers",
		Help: "Worker count used by the parallel kernels",
	})

	ToleranceViolations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "softmax_tolerance_violations_total",
		Help: "Kernel outputs that disagreed with the reference beyond tolerance",
	}, []string{"kernel"})

	FixtureLoadErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "softmax_fixture_load_errors_total",
		Help: "Vector fixture files that could not be loaded",
	}, []string{"reason"})
)

func RecordKernel(name string, n int, duration time.Duration) {
	KernelDuration.WithLabelValues(name).Observe(duration.Seconds())
	KernelCalls.WithLabelValues(name).Inc()
	ElementsProcessed.WithLabelValues(name).Add(float64(n))
	VectorLength.Observe(float64(n))
}

func RecordThroughput(name, size string, melemsPerSec float64) {
	Throughput.WithLabelValues(name, size).Set(melemsPerSec)
}

func RecordWorkers(n int) {
	Workers.Set(float64(n))
}

func RecordToleranceViolation(name string) {
	ToleranceViolations.WithLabelValues(name).Inc()
}

func RecordFixtureLoadError(reason string) {
	FixtureLoadErrors.WithLabelValues(reason).Inc()
}

// WriteTextfile dumps every registered metric in the Prometheus text format,
// suitable for the node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
