package softmax

import "github.com/23skdu/longbow-softmax/internal/simd"

// Fused computes softmax in two traversals instead of three.
//
// The first pass is read-only and tracks, per lane, a running maximum m and a
// running sum s of exp(x - m). When a lane's maximum grows to m' its sum is
// rescaled by exp(m - m'). The lanes are then merged into one (max, sum) pair
// and the tail is folded in with the same rule. The second pass writes
// exp(x - max) / sum directly.
func Fused(x []float32) {
	n := len(x)
	if n == 0 {
		return
	}

	maxVal, sum := onlineMaxSum(x)

	scale := float32(1)
	if sum > 0 {
		scale = 1 / sum
	}
	maxV := simd.Broadcast(maxVal)
	scaleV := simd.Broadcast(scale)
	i := 0
	for ; i+simd.Width <= n; i += simd.Width {
		e := simd.ExpApprox(simd.Sub(simd.Load(x[i:]), maxV))
		if sum > 0 {
			e = simd.Mul(e, scaleV)
		}
		simd.Store(x[i:], e)
	}
	for ; i < n; i++ {
		e := expf(x[i] - maxVal)
		if sum > 0 {
			e *= scale
		}
		x[i] = e
	}
}

// onlineMaxSum returns max(x) and sum(exp(x - max(x))) in a single read of x.
func onlineMaxSum(x []float32) (float32, float32) {
	n := len(x)
	var m, s float32
	i := 0
	if n >= simd.Width {
		mv := simd.Load(x)
		sv := simd.Broadcast(1)
		for i = simd.Width; i+simd.Width <= n; i += simd.Width {
			v := simd.Load(x[i:])
			next := simd.Max(mv, v)
			sv = simd.Add(
				simd.Mul(sv, simd.ExpApprox(simd.Sub(mv, next))),
				simd.ExpApprox(simd.Sub(v, next)),
			)
			mv = next
		}
		m = simd.HMax(mv)
		s = simd.HSum(simd.Mul(sv, simd.ExpApprox(simd.Sub(mv, simd.Broadcast(m)))))
	} else {
		m, s = x[0], 1
		i = 1
	}

	for ; i < n; i++ {
		v := x[i]
		if v > m {
			s = s*expf(m-v) + 1
			m = v
		} else {
			s += expf(v - m)
		}
	}
	return m, s
}
