package softmax

import (
	"github.com/23skdu/longbow-softmax/internal/parallel"
)

// DefaultGrain is the smallest partition, in elements, the parallel kernels
// hand to a worker. Shorter vectors use fewer partitions.
const DefaultGrain = 2048

// Parallel runs the partitioned kernels on a shared worker pool.
//
// Each pass splits [0, len(x)) into contiguous partitions. The max and sum
// passes reduce per partition and fold the partials in partition order, and
// the pool joins every worker before the next pass starts, so no partition
// normalizes with a stale sum. Output is bit-for-bit reproducible for a fixed
// worker count.
type Parallel struct {
	pool  *parallel.Pool
	grain int
}

// NewParallel returns a Parallel backed by a pool of the given size. workers
// <= 0 selects runtime.GOMAXPROCS(0); larger counts than the hardware offers
// are accepted.
func NewParallel(workers int) *Parallel {
	return &Parallel{pool: parallel.NewPool(workers), grain: DefaultGrain}
}

// Workers reports the pool size.
func (p *Parallel) Workers() int {
	return p.pool.Workers()
}

// Close releases the worker goroutines.
func (p *Parallel) Close() {
	p.pool.Close()
}

func (p *Parallel) ranges(n int) []parallel.Range {
	parts := p.pool.Workers()
	if p.grain > 0 {
		parts = min(parts, max(1, n/p.grain))
	}
	return parallel.Split(n, parts)
}

// SIMD is the multi-worker form of the package-level SIMD kernel. Every
// partition vectorizes its own range and handles its own tail, since
// partition boundaries need not fall on a lane boundary.
func (p *Parallel) SIMD(x []float32) {
	if len(x) == 0 {
		return
	}
	ranges := p.ranges(len(x))

	maxVal := parallel.MapReduce(p.pool, ranges, func(r parallel.Range) float32 {
		return maxRange(x[r.Start:r.End])
	}, max32)

	sum := parallel.MapReduce(p.pool, ranges, func(r parallel.Range) float32 {
		return expSumRange(x[r.Start:r.End], maxVal)
	}, add32)

	if sum > 0 {
		recip := 1 / sum
		p.pool.Run(ranges, func(_ int, r parallel.Range) {
			scaleRange(x[r.Start:r.End], recip)
		})
	}
}

// Naive is the multi-worker form of the scalar reference.
func (p *Parallel) Naive(x []float32) {
	if len(x) == 0 {
		return
	}
	ranges := p.ranges(len(x))

	maxVal := parallel.MapReduce(p.pool, ranges, func(r parallel.Range) float32 {
		return maxRange(x[r.Start:r.End])
	}, max32)

	sum := parallel.MapReduce(p.pool, ranges, func(r parallel.Range) float32 {
		var s float32
		for i := r.Start; i < r.End; i++ {
			e := expf(x[i] - maxVal)
			x[i] = e
			s += e
		}
		return s
	}, add32)

	if sum > 0 {
		p.pool.Run(ranges, func(_ int, r parallel.Range) {
			for i := r.Start; i < r.End; i++ {
				x[i] /= sum
			}
		})
	}
}
