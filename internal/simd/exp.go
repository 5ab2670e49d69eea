package simd

import "math"

// Clamp bounds for ExpApprox. Inside ±ExpClamp the rounded exponent k stays in
// [-127, 127], so k+127 always fits the 8-bit biased exponent field.
const ExpClamp = 88.3762626647949

const (
	log2e = 1.44269504088896341
	ln2   = 0.693147180559945

	expP0 = 1.9875691500e-4
	expP1 = 1.3981999507e-3
	expP2 = 8.3334519073e-3
	expP3 = 4.1665795894e-2
	expP4 = 1.6666665459e-1
	expP5 = 5.0000001201e-1

	expBias  = 127
	mantBits = 23
)

var (
	expHi  = Broadcast(ExpClamp)
	expLo  = Broadcast(-ExpClamp)
	vLog2e = Broadcast(log2e)
	vLn2   = Broadcast(ln2)
	vP0    = Broadcast(expP0)
	vP1    = Broadcast(expP1)
	vP2    = Broadcast(expP2)
	vP3    = Broadcast(expP3)
	vP4    = Broadcast(expP4)
	vP5    = Broadcast(expP5)
	vOne   = Broadcast(1)
)

// ExpApprox computes e^x for every element of x.
//
// The input is clamped to ±ExpClamp and range reduced to
// e^x = 2^k * e^r with k = round(x*log2(e)) and r = x - k*ln2. e^r is a
// degree-5 polynomial in r and 2^k is assembled directly in the float32
// exponent field. Inputs below roughly -87.68 (k = -127) return zero.
//
// Relative error against math.Exp is within a few ULP for |x| <= 10 and
// below 1e-5 across the clamped domain.
func ExpApprox(x Lane) Lane {
	x = Min(x, expHi)
	x = Max(x, expLo)

	fx := Mul(x, vLog2e)
	for i := range fx {
		fx[i] = float32(math.RoundToEven(float64(fx[i])))
	}
	z := Mul(fx, vLn2)
	x = Sub(x, z)
	z = Mul(x, x)

	y := vP0
	y = FMA(y, x, vP1)
	y = FMA(y, x, vP2)
	y = FMA(y, x, vP3)
	y = FMA(y, x, vP4)
	y = FMA(y, x, vP5)
	y = Mul(y, z)
	y = Add(y, x)
	y = Add(y, vOne)

	var pow2n Lane
	for i := range fx {
		pow2n[i] = pow2(int32(fx[i]))
	}
	return Mul(y, pow2n)
}

// ExpScalarApprox is ExpApprox for a single value. For any x it returns the
// same bits as every element of ExpApprox(Broadcast(x)).
func ExpScalarApprox(x float32) float32 {
	x = min(x, float32(ExpClamp))
	x = max(x, float32(-ExpClamp))

	fx := float32(x * log2e)
	fx = float32(math.RoundToEven(float64(fx)))
	r := x - float32(fx*ln2)
	r2 := float32(r * r)

	y := float32(expP0)
	y = fma32(y, r, expP1)
	y = fma32(y, r, expP2)
	y = fma32(y, r, expP3)
	y = fma32(y, r, expP4)
	y = fma32(y, r, expP5)
	y = float32(y * r2)
	y = y + r
	y = y + 1

	return float32(y * pow2(int32(fx)))
}

// pow2 returns 2^k by writing k+127 into the exponent bits of a float32 with a
// zero mantissa. k must lie in [-127, 127]; k = -127 yields +0.
func pow2(k int32) float32 {
	return math.Float32frombits(uint32(k+expBias) << mantBits)
}
