package rendering

import (
	"sync"

	"github.com/yazgoo/blockish-raycasting/internal/mathutil"
	"github.com/yazgoo/blockish-raycasting/internal/threading/core"
)

const (
	minBatch = 4
	maxBatch = 32
	// Below this many items work runs inline.
	inlineLimit = 8
)

// ParallelRenderer splits column and row ranges of a frame across a worker
// pool.
type ParallelRenderer struct {
	workerPool *core.WorkerPool
}

// NewParallelRenderer starts a pool of the given size. workers <= 0 uses
// the CPU count.
func NewParallelRenderer(workers int) *ParallelRenderer {
	pool := core.NewWorkerPool(workers)
	pool.Start()
	return &ParallelRenderer{workerPool: pool}
}

// Workers returns the pool size.
func (pr *ParallelRenderer) Workers() int {
	return pr.workerPool.GetNumWorkers()
}

// Span runs fn over disjoint batches covering [0, n) and returns once every
// batch is done. Batches hold between 4 and 32 items.
func (pr *ParallelRenderer) Span(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if n <= inlineLimit || pr.workerPool.GetNumWorkers() == 1 {
		fn(0, n)
		return
	}

	batchSize := mathutil.ClampInt(n/pr.workerPool.GetNumWorkers(), minBatch, maxBatch)

	var wg sync.WaitGroup
	for i := 0; i < n; i += batchSize {
		start := i
		end := mathutil.IntMin(i+batchSize, n)

		wg.Add(1)
		pr.workerPool.Submit(func() {
			defer wg.Done()
			fn(start, end)
		})
	}
	wg.Wait()
}

// Stop shuts down the worker pool.
func (pr *ParallelRenderer) Stop() {
	pr.workerPool.Stop()
}
