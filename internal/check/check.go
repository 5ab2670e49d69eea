// Package check compares softmax kernels against the scalar reference and
// verifies the probability-vector properties of their output.
package check

import (
	"errors"
	"fmt"
	"math"

	"github.com/23skdu/longbow-softmax/internal/metrics"
	"github.com/23skdu/longbow-softmax/internal/softmax"
	"github.com/23skdu/longbow-softmax/internal/vecio"
)

// SumTolerance bounds |sum(p) - 1| for a normalized output.
const SumTolerance = 1e-4

var (
	ErrMismatch      = errors.New("outputs differ beyond tolerance")
	ErrNotNormalized = errors.New("probabilities do not sum to one")
	ErrNegative      = errors.New("negative or NaN probability")
)

// AllClose reports whether every pair satisfies
// |got - want| <= atol + rtol*max(|got|, |want|). The first offending index is
// named in the returned error.
func AllClose(got, want []float32, atol, rtol float64) error {
	if len(got) != len(want) {
		return fmt.Errorf("%w: length %d, want %d", ErrMismatch, len(got), len(want))
	}
	for i := range got {
		g, w := float64(got[i]), float64(want[i])
		diff := math.Abs(g - w)
		if math.IsNaN(diff) || diff > atol+rtol*math.Max(math.Abs(g), math.Abs(w)) {
			return fmt.Errorf("%w: index %d: got %g, want %g (diff %.3g, atol %g, rtol %g)",
				ErrMismatch, i, got[i], want[i], diff, atol, rtol)
		}
	}
	return nil
}

// MaxAbsDiff returns the largest elementwise |a - b| over the common prefix.
func MaxAbsDiff(a, b []float32) float64 {
	var m float64
	for i := range min(len(a), len(b)) {
		if d := math.Abs(float64(a[i]) - float64(b[i])); d > m || math.IsNaN(d) {
			m = d
		}
	}
	return m
}

// Properties checks that p is a probability vector: every entry is
// non-negative and the entries sum to one within SumTolerance. An empty
// vector passes.
func Properties(p []float32) error {
	if len(p) == 0 {
		return nil
	}
	var sum float64
	for i, v := range p {
		if !(v >= 0) {
			return fmt.Errorf("%w: index %d is %g", ErrNegative, i, v)
		}
		sum += float64(v)
	}
	if math.Abs(sum-1) > SumTolerance {
		return fmt.Errorf("%w: sum is %.7g", ErrNotNormalized, sum)
	}
	return nil
}

// Result is the outcome of one kernel at one size.
type Result struct {
	Kernel  string
	N       int
	MaxDiff float64
	Err     error
}

func (r Result) Passed() bool { return r.Err == nil }

// Suite runs every kernel registered with an Engine over generated inputs and
// compares each against the reference kernel.
type Suite struct {
	Engine *softmax.Engine
	Sizes  []int
	Seed   uint64
	Low    float32
	High   float32
}

// DefaultSizes covers the empty vector, lengths shorter than one lane and
// lengths that span many parallel partitions.
var DefaultSizes = []int{0, 1, 3, 16, 1024, 65536}

// Run returns one Result per kernel and size, in registration order. The
// reference itself is included and is only held to the probability
// properties.
func (s Suite) Run() []Result {
	sizes := s.Sizes
	if len(sizes) == 0 {
		sizes = DefaultSizes
	}
	lo, hi := s.Low, s.High
	if lo >= hi {
		lo, hi = -50, 50
	}

	ref := s.Engine.Reference()
	var results []Result
	for _, n := range sizes {
		input := vecio.Generate(n, s.Seed, lo, hi)
		want := append([]float32(nil), input...)
		ref.Fn(want)

		for _, k := range s.Engine.Kernels() {
			got := append([]float32(nil), input...)
			k.Fn(got)

			r := Result{Kernel: k.Name, N: n, MaxDiff: MaxAbsDiff(got, want)}
			if k.Name != ref.Name {
				r.Err = AllClose(got, want, k.ATol, k.RTol)
			}
			if r.Err == nil {
				r.Err = Properties(got)
			}
			if r.Err != nil {
				metrics.RecordToleranceViolation(k.Name)
			}
			results = append(results, r)
		}
	}
	return results
}

// Failures filters results down to the failing ones.
func Failures(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed() {
			out = append(out, r)
		}
	}
	return out
}
