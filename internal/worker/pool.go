// Package worker runs blocking collaborator calls (speech capture, TTS) on a
// bounded pool so one slow I/O call never serializes unrelated requests.
// Callers still await the result before responding; only the execution moves
// off the shared request path.
package worker

import (
	"sync"

	"github.com/xcerlabs/talkagent/internal/logging"
)

// Pool is a fixed-size worker pool
type Pool struct {
	tasks chan job
	wg    sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

type job struct {
	fn   func()
	done chan struct{}
}

// New creates a pool with the given number of workers (minimum 1)
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		// Small queue; a full queue blocks the submitter, not other pools
		tasks: make(chan job, workers*2),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
	logging.Info("worker", "Pool started with %d workers", workers)
	return p
}

// Submit queues fn and returns a channel closed when it has run. If the pool
// has been stopped, fn runs inline so no work is ever dropped.
func (p *Pool) Submit(fn func()) <-chan struct{} {
	done := make(chan struct{})

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		fn()
		close(done)
		return done
	}
	// Enqueue under the lock so Stop cannot close the channel mid-send
	p.tasks <- job{fn: fn, done: done}
	p.mu.Unlock()
	return done
}

// Stop drains queued tasks and waits for in-flight work to finish
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	close(p.tasks)
	p.wg.Wait()
	logging.Info("worker", "Pool stopped")
}

func (p *Pool) run() {
	defer p.wg.Done()
	for j := range p.tasks {
		j.fn()
		close(j.done)
	}
}
