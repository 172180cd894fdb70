package core

import (
	"runtime"
	"sync"
)

// WorkerPool is a fixed set of goroutines draining a job queue.
type WorkerPool struct {
	numWorkers int
	jobQueue   chan func()
	wg         sync.WaitGroup
	quit       chan struct{}
	stopOnce   sync.Once
}

// NewWorkerPool creates a pool. numWorkers <= 0 selects the CPU count.
// Call Start before submitting jobs.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		numWorkers: numWorkers,
		jobQueue:   make(chan func(), numWorkers*2),
		quit:       make(chan struct{}),
	}
}

// Start launches the workers.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	for {
		select {
		case job := <-wp.jobQueue:
			job()
			wp.wg.Done()
		case <-wp.quit:
			return
		}
	}
}

// Submit queues a job.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.jobQueue <- job
}

// Wait blocks until every submitted job has run.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stop shuts the workers down. Queued jobs that have not started are
// dropped. Stop may be called more than once.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() { close(wp.quit) })
}

// GetNumWorkers returns the number of workers in the pool.
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}
