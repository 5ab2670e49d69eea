package softmax

import (
	"github.com/chewxy/math32"
	"github.com/viterin/vek/vek32"
)

// Backend is an externally implemented softmax. Implementations compute an
// accurate (not approximated) softmax over one 1xN row in place.
type Backend interface {
	Name() string
	Softmax(x []float32)
}

// Delegated adapts b to the Kernel contract. A nil backend yields nil, which
// callers treat as "not available".
func Delegated(b Backend) Kernel {
	if b == nil {
		return nil
	}
	return func(x []float32) {
		if len(x) == 0 {
			return
		}
		b.Softmax(x)
	}
}

// VekBackend hands the reductions and scaling to the vek32 SIMD routines and
// the exponential to math32.
type VekBackend struct{}

func (VekBackend) Name() string { return "vek" }

func (VekBackend) Softmax(x []float32) {
	if len(x) == 0 {
		return
	}
	vek32.SubNumber_Inplace(x, vek32.Max(x))
	for i, v := range x {
		x[i] = math32.Exp(v)
	}
	sum := vek32.Sum(x)
	if sum > 0 {
		vek32.MulNumber_Inplace(x, 1/sum)
	}
}

// Accelerated reports whether vek found hardware acceleration on this CPU.
func (VekBackend) Accelerated() bool {
	return vek32.Info().Acceleration
}
