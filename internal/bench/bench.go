// Package bench measures kernel throughput over fixture vectors.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/23skdu/longbow-softmax/internal/logger"
	"github.com/23skdu/longbow-softmax/internal/metrics"
	"github.com/23skdu/longbow-softmax/internal/softmax"
	"github.com/23skdu/longbow-softmax/internal/vecio"
)

// DefaultSizes are the vector lengths measured when none are configured.
var DefaultSizes = []int{1024, 4096, 16384, 65536, 262144}

// Result is one kernel measured at one size.
type Result struct {
	RunID        string
	Kernel       string
	N            int
	Iterations   int
	Total        time.Duration
	PerOp        time.Duration
	MElemsPerSec float64
}

// Runner benchmarks kernels from an Engine. Fixtures are read from
// DataDir/vector_<n>.bin when present and generated from Seed otherwise.
type Runner struct {
	Engine     *softmax.Engine
	Kernels    []string
	Sizes      []int
	Iterations int
	Warmup     int
	DataDir    string
	Seed       uint64
	Low, High  float32
}

// Run measures every selected kernel at every size. All results of one call
// share a run id.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	if r.Engine == nil {
		return nil, errors.New("bench: runner has no engine")
	}
	if r.Iterations <= 0 {
		return nil, fmt.Errorf("bench: iterations must be positive, got %d", r.Iterations)
	}
	specs, err := r.selected()
	if err != nil {
		return nil, err
	}
	sizes := r.Sizes
	if len(sizes) == 0 {
		sizes = DefaultSizes
	}

	runID := uuid.NewString()
	log := logger.Log.With("bench")
	log.Info("starting benchmark", "run_id", runID, "kernels", len(specs),
		"sizes", sizes, "iterations", r.Iterations, "workers", r.Engine.Workers())
	metrics.RecordWorkers(r.Engine.Workers())

	var results []Result
	for _, n := range sizes {
		fixture, err := r.fixture(n)
		if err != nil {
			return results, err
		}
		buf := make([]float32, n)
		for _, s := range specs {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			res := r.measure(s, fixture, buf)
			res.RunID = runID
			log.Debug("measured kernel", "kernel", res.Kernel, "n", n,
				"per_op", res.PerOp, "melems_per_sec", res.MElemsPerSec)
			results = append(results, res)
		}
	}
	log.Info("benchmark finished", "run_id", runID, "results", len(results))
	return results, nil
}

func (r *Runner) selected() ([]softmax.Spec, error) {
	if len(r.Kernels) == 0 {
		return r.Engine.Kernels(), nil
	}
	specs := make([]softmax.Spec, 0, len(r.Kernels))
	for _, name := range r.Kernels {
		s, err := r.Engine.Lookup(name)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}

func (r *Runner) fixture(n int) ([]float32, error) {
	if r.DataDir != "" {
		path := vecio.FixturePath(r.DataDir, n)
		if _, err := os.Stat(path); err == nil {
			v, err := vecio.Load(path)
			if err != nil {
				return nil, err
			}
			if len(v) != n {
				return nil, fmt.Errorf("fixture %s holds %d elements, want %d", path, len(v), n)
			}
			return v, nil
		}
	}
	lo, hi := r.Low, r.High
	if lo >= hi {
		lo, hi = -10, 10
	}
	return vecio.Generate(n, r.Seed, lo, hi), nil
}

func (r *Runner) measure(s softmax.Spec, fixture, buf []float32) Result {
	for i := 0; i < r.Warmup; i++ {
		copy(buf, fixture)
		s.Fn(buf)
	}

	var total time.Duration
	for i := 0; i < r.Iterations; i++ {
		copy(buf, fixture)
		start := time.Now()
		s.Fn(buf)
		d := time.Since(start)
		total += d
		metrics.RecordKernel(s.Name, len(buf), d)
	}

	res := Result{
		Kernel:     s.Name,
		N:          len(buf),
		Iterations: r.Iterations,
		Total:      total,
		PerOp:      total / time.Duration(r.Iterations),
	}
	if total > 0 {
		res.MElemsPerSec = float64(len(buf)) * float64(r.Iterations) / total.Seconds() / 1e6
	}
	metrics.RecordThroughput(s.Name, strconv.Itoa(len(buf)), res.MElemsPerSec)
	return res
}

// WriteTable prints results as an aligned text table.
func WriteTable(w io.Writer, results []Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "KERNEL\tN\tITERS\tPER OP\tMELEM/S\t")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%.1f\t\n", r.Kernel, r.N, r.Iterations, r.PerOp, r.MElemsPerSec)
	}
	return tw.Flush()
}
