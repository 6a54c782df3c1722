package orchestrator

import (
	"sync"
	"sync/atomic"
	"time"
)

// WorkerPool hands out protoc workers round robin.
type WorkerPool struct {
	workers []*Worker
	mu      sync.RWMutex
	next    uint64 // Tracks the next worker index
	timeout time.Duration
	retries int
}

func NewWorkerPool(workers []*Worker, timeout time.Duration, retries int) *WorkerPool {
	return &WorkerPool{
		workers: workers,
		timeout: timeout,
		retries: retries,
	}
}

// Add registers another worker.
func (p *WorkerPool) Add(w *Worker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.workers = append(p.workers, w)
}

// Len is the number of registered workers.
func (p *WorkerPool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.workers)
}

func (p *WorkerPool) GetNextWorker() *Worker {
	p.mu.RLock()
	defer p.mu.RUnlock()

	n := len(p.workers)
	if n == 0 {
		return nil
	}

	// Atomic increment wraps around the slice length.
	idx := atomic.AddUint64(&p.next, 1)
	return p.workers[(idx-1)%uint64(n)]
}

// SelectWorker returns the next worker in the pool (round robin load balancing)
func (p *WorkerPool) SelectWorker() *Worker {
	return p.GetNextWorker()
}
