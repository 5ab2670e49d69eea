// Package softmax implements the numerically stable softmax transform
//
//	p[i] = exp(x[i] - max(x)) / sum_j exp(x[j] - max(x))
//
// over float32 vectors using several interchangeable kernels: a scalar
// reference, a hand-flattened scalar loop, an eight-lane vectorized kernel, a
// partitioned multi-worker variant of it, a two-pass fused kernel and an
// adapter for externally provided backends.
//
// Every kernel transforms its argument in place, never retains it, and is a
// no-op on an empty slice. Inputs containing NaN are outside the contract.
//
// When the accumulated sum of exponentials is zero the buffer keeps the raw
// exponentials and is not divided.
package softmax

import "math"

// Kernel is the common contract of every softmax implementation.
type Kernel func(x []float32)

// expf is the accurate scalar exponential used by the reference kernels and
// by every lane kernel for its tail elements.
func expf(x float32) float32 {
	return float32(math.Exp(float64(x)))
}

// maxRange returns the largest element of a non-empty slice.
func maxRange(x []float32) float32 {
	m := x[0]
	for _, v := range x[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func max32(a, b float32) float32 { return max(a, b) }

func add32(a, b float32) float32 { return a + b }
