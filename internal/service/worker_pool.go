package service

import (
	"context"
	"runtime"
	"sync"
)

// WorkerPool bounds the number of pipeline invocations running at once.
// Stages inside one invocation stay strictly sequential; the pool only
// caps cross-request concurrency.
type WorkerPool struct {
	workers  int
	jobQueue chan func()
	once     sync.Once
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &WorkerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Start initializes and starts all workers in the pool
func (wp *WorkerPool) Start() {
	wp.once.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

// worker processes jobs from the job queue
func (wp *WorkerPool) worker() {
	for job := range wp.jobQueue {
		job()
	}
}

// Execute submits the job and blocks until it finishes or ctx expires.
// A job abandoned on ctx expiry keeps running on its worker; pipeline
// state is request-scoped so nothing is corrupted by walking away.
func (wp *WorkerPool) Execute(ctx context.Context, job func()) error {
	done := make(chan struct{})

	wrapped := func() {
		defer close(done)
		job()
	}

	select {
	case wp.jobQueue <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close shuts down the worker pool
func (wp *WorkerPool) Close() {
	close(wp.jobQueue)
}
