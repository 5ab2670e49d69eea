// Package simd provides a fixed-width float32 lane type and the vector math
// used by the softmax kernels.
//
// A Lane mirrors one 256-bit register holding eight packed float32 values.
// Operations are written as straight-line loops over the eight elements so
// the compiler can keep the whole lane in registers.
package simd

import "math"

// Width is the number of float32 values held by a Lane.
const Width = 8

// Lane is eight packed float32 values.
type Lane [Width]float32

// Load copies Width contiguous values starting at src[0].
// src must hold at least Width elements.
func Load(src []float32) Lane {
	_ = src[Width-1]
	return Lane{src[0], src[1], src[2], src[3], src[4], src[5], src[6], src[7]}
}

// Store writes v to dst[0:Width]. dst must hold at least Width elements.
func Store(dst []float32, v Lane) {
	_ = dst[Width-1]
	dst[0] = v[0]
	dst[1] = v[1]
	dst[2] = v[2]
	dst[3] = v[3]
	dst[4] = v[4]
	dst[5] = v[5]
	dst[6] = v[6]
	dst[7] = v[7]
}

// Broadcast returns a lane with x in every element.
func Broadcast(x float32) Lane {
	return Lane{x, x, x, x, x, x, x, x}
}

func Add(a, b Lane) Lane {
	return Lane{
		a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3],
		a[4] + b[4], a[5] + b[5], a[6] + b[6], a[7] + b[7],
	}
}

func Sub(a, b Lane) Lane {
	return Lane{
		a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3],
		a[4] - b[4], a[5] - b[5], a[6] - b[6], a[7] - b[7],
	}
}

// Mul multiplies elementwise. Each product is rounded to float32 so it is
// never contracted into a following add.
func Mul(a, b Lane) Lane {
	return Lane{
		float32(a[0] * b[0]), float32(a[1] * b[1]), float32(a[2] * b[2]), float32(a[3] * b[3]),
		float32(a[4] * b[4]), float32(a[5] * b[5]), float32(a[6] * b[6]), float32(a[7] * b[7]),
	}
}

// FMA returns a*b + c per element without rounding the intermediate product.
func FMA(a, b, c Lane) Lane {
	var r Lane
	for i := range r {
		r[i] = fma32(a[i], b[i], c[i])
	}
	return r
}

// Min returns the elementwise minimum of a and b.
func Min(a, b Lane) Lane {
	var r Lane
	for i := range r {
		r[i] = min(a[i], b[i])
	}
	return r
}

// Max returns the elementwise maximum of a and b.
func Max(a, b Lane) Lane {
	var r Lane
	for i := range r {
		r[i] = max(a[i], b[i])
	}
	return r
}

// HSum reduces v to a scalar by pairwise halving: the upper four elements are
// added onto the lower four, then the pairs (0,1) and (2,3) are summed and
// the two partials added.
func HSum(v Lane) float32 {
	t0 := v[0] + v[4]
	t1 := v[1] + v[5]
	t2 := v[2] + v[6]
	t3 := v[3] + v[7]
	return (t0 + t1) + (t2 + t3)
}

// HMax reduces v to its largest element using the same halving shape as HSum.
func HMax(v Lane) float32 {
	t0 := max(v[0], v[4])
	t1 := max(v[1], v[5])
	t2 := max(v[2], v[6])
	t3 := max(v[3], v[7])
	return max(max(t0, t1), max(t2, t3))
}

// fma32 is a fused multiply-add on float32 operands.
func fma32(a, b, c float32) float32 {
	return float32(math.FMA(float64(a), float64(b), float64(c)))
}
