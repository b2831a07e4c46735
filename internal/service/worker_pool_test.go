package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPool_ExecuteRunsJob(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	defer pool.Close()

	var ran int32
	err := pool.Execute(context.Background(), func() {
		atomic.AddInt32(&ran, 1)
	})

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if atomic.LoadInt32(&ran) != 1 {
		t.Error("Expected job to have run before Execute returned")
	}
}

func TestWorkerPool_BoundsConcurrency(t *testing.T) {
	const workers = 2
	const jobs = 8

	pool := NewWorkerPool(workers)
	pool.Start()
	defer pool.Close()

	var current, peak int32
	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Execute(context.Background(), func() {
				n := atomic.AddInt32(&current, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				atomic.AddInt32(&current, -1)
			})
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&peak); got > workers {
		t.Errorf("Expected at most %d concurrent jobs, observed %d", workers, got)
	}
}

func TestWorkerPool_ExecuteHonorsContextBeforeSubmit(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Start()
	defer pool.Close()

	// Occupy the single worker and fill the queue so the next submit blocks.
	release := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 1+cap(pool.jobQueue); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Execute(context.Background(), func() { <-release })
		}()
	}
	// Give the blocking jobs time to be queued.
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := pool.Execute(ctx, func() {})
	if err != context.DeadlineExceeded {
		t.Errorf("Expected deadline error while queue is full, got %v", err)
	}

	close(release)
	wg.Wait()
}

func TestWorkerPool_ExecuteReturnsOnContextDuringJob(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Start()
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	release := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		errCh <- pool.Execute(ctx, func() {
			close(started)
			<-release
		})
	}()

	<-started
	cancel()

	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Execute did not return after context cancellation")
	}

	close(release)
}

func TestWorkerPool_StartIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	pool.Start()
	defer pool.Close()

	if err := pool.Execute(context.Background(), func() {}); err != nil {
		t.Fatalf("Expected pool to work after repeated Start, got %v", err)
	}
}

func TestWorkerPool_DefaultsWorkerCount(t *testing.T) {
	pool := NewWorkerPool(0)
	if pool.workers <= 0 {
		t.Errorf("Expected a positive default worker count, got %d", pool.workers)
	}
}
