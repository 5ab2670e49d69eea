package softmax

import "github.com/23skdu/longbow-softmax/internal/simd"

// SIMD is the vectorized three-pass softmax. Full lanes go through
// simd.ExpApprox; the len(x) mod simd.Width tail uses the scalar exponential.
func SIMD(x []float32) {
	if len(x) == 0 {
		return
	}

	maxVal := maxRange(x)
	sum := expSumRange(x, maxVal)
	if sum > 0 {
		scaleRange(x, 1/sum)
	}
}

// expSumRange replaces every element with exp(x - maxVal) and returns the sum
// of the new values. Lanes are summed with simd.HSum before being added to the
// running total.
func expSumRange(x []float32, maxVal float32) float32 {
	maxV := simd.Broadcast(maxVal)
	var sum float32
	i := 0
	for ; i+simd.Width <= len(x); i += simd.Width {
		e := simd.ExpApprox(simd.Sub(simd.Load(x[i:]), maxV))
		simd.Store(x[i:], e)
		sum += simd.HSum(e)
	}
	for ; i < len(x); i++ {
		e := expf(x[i] - maxVal)
		x[i] = e
		sum += e
	}
	return sum
}

// scaleRange multiplies every element by recip.
func scaleRange(x []float32, recip float32) {
	recipV := simd.Broadcast(recip)
	i := 0
	for ; i+simd.Width <= len(x); i += simd.Width {
		simd.Store(x[i:], simd.Mul(simd.Load(x[i:]), recipV))
	}
	for ; i < len(x); i++ {
		x[i] *= recip
	}
}
