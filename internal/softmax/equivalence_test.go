package softmax_test

import (
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23skdu/longbow-softmax/internal/check"
	"github.com/23skdu/longbow-softmax/internal/softmax"
	"github.com/23skdu/longbow-softmax/internal/vecio"
)

func newEngine(t testing.TB) *softmax.Engine {
	eng := softmax.NewEngine(softmax.Options{Workers: 4, Backend: softmax.VekBackend{}})
	t.Cleanup(eng.Close)
	return eng
}

func TestKernelsAgreeWithReference(t *testing.T) {
	eng := newEngine(t)
	ref := eng.Reference()

	for _, n := range []int{0, 1, 3, 16, 1024, 65536} {
		input := vecio.Generate(n, 42, -50, 50)
		want := append([]float32(nil), input...)
		ref.Fn(want)
		require.NoError(t, check.Properties(want))

		for _, k := range eng.Kernels() {
			t.Run(fmt.Sprintf("%s/%d", k.Name, n), func(t *testing.T) {
				got := append([]float32(nil), input...)
				k.Fn(got)
				assert.NoError(t, check.AllClose(got, want, k.ATol, k.RTol))
				assert.NoError(t, check.Properties(got))
			})
		}
	}
}

func TestReferenceExample(t *testing.T) {
	x := []float32{0, 1, 2, -3}
	softmax.Naive(x)

	require.NoError(t, check.Properties(x))
	for i, v := range x {
		if i != 2 {
			assert.Greater(t, x[2], v)
		}
	}
}

func TestShiftInvariance(t *testing.T) {
	eng := newEngine(t)
	base := vecio.Generate(333, 9, -20, 20)

	for _, k := range eng.Kernels() {
		t.Run(k.Name, func(t *testing.T) {
			a := append([]float32(nil), base...)
			b := make([]float32, len(base))
			for i, v := range base {
				b[i] = v + 25
			}
			k.Fn(a)
			k.Fn(b)
			// x+25 is rounded to float32, so allow a few ulps of input error.
			assert.NoError(t, check.AllClose(a, b, 5e-5, 5e-5))
		})
	}
}

func TestOrderPreserved(t *testing.T) {
	x := vecio.Generate(257, 3, -5, 5)
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	p := append([]float32(nil), x...)
	softmax.Naive(p)
	for i := 1; i < len(idx); i++ {
		assert.LessOrEqual(t, p[idx[i-1]], p[idx[i]], "rank %d", i)
	}
}

func TestEngineLookup(t *testing.T) {
	eng := newEngine(t)

	names := eng.Names()
	assert.Equal(t, softmax.NameNaive, names[0])
	assert.Contains(t, names, softmax.NameDelegated)
	assert.Equal(t, 4, eng.Workers())
	assert.Equal(t, "vek", eng.Backend().Name())

	for _, name := range names {
		s, err := eng.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name)
		assert.NotNil(t, s.Fn)
	}

	_, err := eng.Lookup("quantum")
	assert.ErrorIs(t, err, softmax.ErrUnknownKernel)
}

func TestEngineWithoutBackend(t *testing.T) {
	eng := softmax.NewEngine(softmax.Options{Workers: 1})
	defer eng.Close()

	assert.NotContains(t, eng.Names(), softmax.NameDelegated)
	assert.Nil(t, eng.Backend())
	_, err := eng.Lookup(softmax.NameDelegated)
	assert.ErrorIs(t, err, softmax.ErrUnknownKernel)
}

func TestKernelsReturnsCopy(t *testing.T) {
	eng := newEngine(t)
	specs := eng.Kernels()
	specs[0].Name = "mutated"
	assert.Equal(t, softmax.NameNaive, eng.Reference().Name)
}

func TestOutputsFinite(t *testing.T) {
	eng := newEngine(t)
	input := vecio.Generate(4099, 11, -1000, 1000)
	for _, k := range eng.Kernels() {
		got := append([]float32(nil), input...)
		k.Fn(got)
		for i, v := range got {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				t.Fatalf("%s: [%d] = %v", k.Name, i, v)
			}
		}
	}
}

func BenchmarkKernels(b *testing.B) {
	eng := newEngine(b)
	for _, n := range []int{1024, 65536} {
		input := vecio.Generate(n, 42, -10, 10)
		buf := make([]float32, n)
		for _, k := range eng.Kernels() {
			b.Run(fmt.Sprintf("%s/%d", k.Name, n), func(b *testing.B) {
				b.SetBytes(int64(4 * n))
				for i := 0; i < b.N; i++ {
					copy(buf, input)
					k.Fn(buf)
				}
			})
		}
	}
}
