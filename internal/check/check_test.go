package check

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23skdu/longbow-softmax/internal/softmax"
)

func TestAllClose(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		name       string
		got, want  []float32
		atol, rtol float64
		wantErr    bool
	}{
		{"equal", []float32{0.1, 0.9}, []float32{0.1, 0.9}, 0, 0, false},
		{"within atol", []float32{0.5}, []float32{0.50001}, 1e-4, 0, false},
		{"within rtol", []float32{1000}, []float32{1000.5}, 0, 1e-3, false},
		{"outside", []float32{0.5, 0.5}, []float32{0.5, 0.6}, 1e-5, 1e-5, true},
		{"length", []float32{1}, []float32{1, 2}, 1, 1, true},
		{"nan", []float32{nan}, []float32{0}, 1, 1, true},
		{"both empty", nil, []float32{}, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AllClose(tt.got, tt.want, tt.atol, tt.rtol)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMismatch)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAllCloseNamesIndex(t *testing.T) {
	err := AllClose([]float32{1, 2, 3}, []float32{1, 2, 4}, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 2")
}

func TestProperties(t *testing.T) {
	tests := []struct {
		name string
		p    []float32
		want error
	}{
		{"empty", nil, nil},
		{"valid", []float32{0.25, 0.25, 0.5}, nil},
		{"within tolerance", []float32{0.5, 0.50005}, nil},
		{"negative", []float32{-0.1, 1.1}, ErrNegative},
		{"nan", []float32{float32(math.NaN()), 1}, ErrNegative},
		{"unnormalized", []float32{0.2, 0.2}, ErrNotNormalized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Properties(tt.p)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestMaxAbsDiff(t *testing.T) {
	assert.InDelta(t, 0.5, MaxAbsDiff([]float32{1, 2, 3}, []float32{1, 2.5, 3}), 1e-9)
	assert.Zero(t, MaxAbsDiff(nil, nil))
}

func TestSuite(t *testing.T) {
	eng := softmax.NewEngine(softmax.Options{Workers: 3, Backend: softmax.VekBackend{}})
	defer eng.Close()

	sizes := []int{0, 1, 3, 16, 1024, 65536}
	results := Suite{Engine: eng, Sizes: sizes, Seed: 42, Low: -50, High: 50}.Run()

	require.Len(t, results, len(sizes)*len(eng.Kernels()))
	for _, r := range results {
		assert.NoError(t, r.Err, "kernel %s n=%d", r.Kernel, r.N)
		if r.Kernel == softmax.NameNaive {
			assert.Zero(t, r.MaxDiff)
		}
	}
	assert.Empty(t, Failures(results))
}

type brokenBackend struct{}

func (brokenBackend) Name() string { return "broken" }

func (brokenBackend) Softmax(x []float32) {
	for i := range x {
		x[i] = 1
	}
}

func TestSuiteReportsFailures(t *testing.T) {
	eng := softmax.NewEngine(softmax.Options{Workers: 1, Backend: brokenBackend{}})
	defer eng.Close()

	failures := Failures(Suite{Engine: eng, Sizes: []int{16}, Seed: 1}.Run())
	require.Len(t, failures, 1)
	assert.Equal(t, softmax.NameDelegated, failures[0].Kernel)
	assert.ErrorIs(t, failures[0].Err, ErrMismatch)
}
