// Package parallel runs partitioned index ranges on a bounded set of
// long-lived worker goroutines and joins them before returning.
package parallel

import (
	"runtime"
	"sync"
)

// Range is the half-open index interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices in r.
func (r Range) Len() int {
	return r.End - r.Start
}

// Split divides [0, n) into at most parts contiguous ranges whose lengths
// differ by at most one. Ranges are never empty; n == 0 yields nil.
func Split(n, parts int) []Range {
	if n <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}
	ranges := make([]Range, parts)
	base, extra := n/parts, n%parts
	start := 0
	for i := range ranges {
		size := base
		if i < extra {
			size++
		}
		ranges[i] = Range{Start: start, End: start + size}
		start += size
	}
	return ranges
}

type task struct {
	part int
	r    Range
	fn   func(part int, r Range)
	wg   *sync.WaitGroup
}

// Pool is a fixed set of worker goroutines fed through a channel. Workers are
// started on first use. A Pool may be shared by concurrent callers.
type Pool struct {
	workers int

	once   sync.Once
	tasks  chan task
	closed sync.Once
}

// NewPool returns a pool with the given number of workers. Values below one
// fall back to runtime.GOMAXPROCS(0). The count is a hint: it may exceed the
// hardware parallelism.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Workers reports the configured worker count.
func (p *Pool) Workers() int {
	return p.workers
}

func (p *Pool) start() {
	p.tasks = make(chan task, p.workers*2)
	// The caller always runs partition 0 itself, so one fewer goroutine is
	// enough to keep every configured worker busy.
	for i := 0; i < p.workers-1; i++ {
		go func() {
			for t := range p.tasks {
				t.fn(t.part, t.r)
				t.wg.Done()
			}
		}()
	}
}

// Close stops the worker goroutines. Run must not be called afterwards.
func (p *Pool) Close() {
	p.closed.Do(func() {
		p.once.Do(func() {})
		if p.tasks != nil {
			close(p.tasks)
		}
	})
}

// Run calls fn once per range and returns after every call has finished.
// Partition 0 runs on the calling goroutine. fn must only write memory owned
// by its own range.
func (p *Pool) Run(ranges []Range, fn func(part int, r Range)) {
	switch len(ranges) {
	case 0:
		return
	case 1:
		fn(0, ranges[0])
		return
	}
	if p.workers == 1 {
		for i, r := range ranges {
			fn(i, r)
		}
		return
	}
	p.once.Do(p.start)

	var wg sync.WaitGroup
	wg.Add(len(ranges) - 1)
	for i := 1; i < len(ranges); i++ {
		p.tasks <- task{part: i, r: ranges[i], fn: fn, wg: &wg}
	}
	fn(0, ranges[0])
	wg.Wait()
}

// MapReduce runs fn over every range on p, then folds the partial results
// with combine in partition order. The fold order is fixed, so for a given
// set of ranges the result is reproducible bit for bit.
func MapReduce(p *Pool, ranges []Range, fn func(r Range) float32, combine func(a, b float32) float32) float32 {
	if len(ranges) == 0 {
		return 0
	}
	partials := make([]float32, len(ranges))
	p.Run(ranges, func(part int, r Range) {
		partials[part] = fn(r)
	})
	acc := partials[0]
	for _, v := range partials[1:] {
		acc = combine(acc, v)
	}
	return acc
}
