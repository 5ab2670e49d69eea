package softmax

import (
	"errors"
	"fmt"
)

// Kernel names accepted by Engine.Lookup.
const (
	NameNaive         = "naive"
	NameHandcoded     = "handcoded"
	NameSIMD          = "simd"
	NameSIMDParallel  = "simd-parallel"
	NameNaiveParallel = "naive-parallel"
	NameFused         = "fused"
	NameDelegated     = "delegated"
)

var ErrUnknownKernel = errors.New("unknown kernel")

// Spec pairs a kernel with the tolerance it must meet against the reference:
// |got - want| <= ATol + RTol*max(|got|, |want|).
type Spec struct {
	Name string
	Fn   Kernel
	ATol float64
	RTol float64
}

// Options configures an Engine.
type Options struct {
	// Workers sizes the pool shared by the parallel kernels. Zero or less
	// selects runtime.GOMAXPROCS(0).
	Workers int
	// Backend, when non-nil, is registered as the delegated kernel.
	Backend Backend
}

// Engine owns the worker pool for the parallel kernels and exposes every
// available kernel by name.
type Engine struct {
	par     *Parallel
	backend Backend
	specs   []Spec
}

func NewEngine(opts Options) *Engine {
	e := &Engine{
		par:     NewParallel(opts.Workers),
		backend: opts.Backend,
	}
	e.specs = []Spec{
		{Name: NameNaive, Fn: Naive},
		{Name: NameHandcoded, Fn: Handcoded, ATol: 1e-5, RTol: 1e-5},
		{Name: NameSIMD, Fn: SIMD, ATol: 1e-5, RTol: 1e-5},
		{Name: NameSIMDParallel, Fn: e.par.SIMD, ATol: 2e-5, RTol: 2e-5},
		{Name: NameNaiveParallel, Fn: e.par.Naive, ATol: 2e-5, RTol: 2e-5},
		{Name: NameFused, Fn: Fused, ATol: 2e-5, RTol: 2e-5},
	}
	if fn := Delegated(opts.Backend); fn != nil {
		e.specs = append(e.specs, Spec{Name: NameDelegated, Fn: fn, ATol: 1e-5, RTol: 1e-5})
	}
	return e
}

// Kernels returns every available kernel, reference first, in a stable order.
func (e *Engine) Kernels() []Spec {
	return append([]Spec(nil), e.specs...)
}

// Reference returns the scalar reference kernel.
func (e *Engine) Reference() Spec {
	return e.specs[0]
}

func (e *Engine) Lookup(name string) (Spec, error) {
	for _, s := range e.specs {
		if s.Name == name {
			return s, nil
		}
	}
	return Spec{}, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
}

// Names lists the registered kernel names.
func (e *Engine) Names() []string {
	names := make([]string, len(e.specs))
	for i, s := range e.specs {
		names[i] = s.Name
	}
	return names
}

// Workers reports the worker count used by the parallel kernels.
func (e *Engine) Workers() int {
	return e.par.Workers()
}

// Backend returns the delegated backend, or nil when none is wired in.
func (e *Engine) Backend() Backend {
	return e.backend
}

func (e *Engine) Close() {
	e.par.Close()
}
