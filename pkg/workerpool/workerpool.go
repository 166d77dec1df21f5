// Package workerpool runs submitted jobs on a fixed set of goroutines
// with a bounded queue.
package workerpool

import (
	"errors"
	"sync"
)

var (
	// ErrPoolFull is returned by Submit when the job queue is at capacity.
	ErrPoolFull = errors.New("workerpool: queue full")
	// ErrPoolClosed is returned by Submit after Shutdown was called.
	ErrPoolClosed = errors.New("workerpool: closed")
)

// Pool executes jobs concurrently up to a fixed worker count.
type Pool struct {
	jobs chan func()
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New starts a pool with the given worker count and queue size.
func New(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	p := &Pool{jobs: make(chan func(), queueSize)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// Submit queues a job without blocking. It fails fast when the queue is
// full or the pool has been shut down.
func (p *Pool) Submit(job func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- job:
		return nil
	default:
		return ErrPoolFull
	}
}

// Shutdown stops accepting jobs and waits for queued ones to finish.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
