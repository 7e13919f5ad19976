package worker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSubmitRunsTask(t *testing.T) {
	p := New(2)
	defer p.Stop()

	var ran atomic.Bool
	select {
	case <-p.Submit(func() { ran.Store(true) }):
	case <-time.After(2 * time.Second):
		t.Fatal("task did not complete in time")
	}
	if !ran.Load() {
		t.Error("done channel closed before the task ran")
	}
}

func TestConcurrentSubmits(t *testing.T) {
	p := New(4)
	defer p.Stop()

	var count atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-p.Submit(func() { count.Add(1) })
		}()
	}
	wg.Wait()

	if count.Load() != 50 {
		t.Errorf("expected 50 tasks to run, got %d", count.Load())
	}
}

func TestStopWaitsForInflight(t *testing.T) {
	p := New(1)

	release := make(chan struct{})
	var finished atomic.Bool
	p.Submit(func() {
		<-release
		finished.Store(true)
	})

	go func() {
		time.Sleep(50 * time.Millisecond)
		close(release)
	}()
	p.Stop()

	if !finished.Load() {
		t.Error("Stop returned before the in-flight task finished")
	}
}

// After Stop, submissions still run, inline
func TestSubmitAfterStop(t *testing.T) {
	p := New(2)
	p.Stop()

	var ran bool
	done := p.Submit(func() { ran = true })
	select {
	case <-done:
	default:
		t.Fatal("inline submission must complete before Submit returns")
	}
	if !ran {
		t.Error("task submitted after Stop did not run")
	}
}

func TestStopIdempotent(t *testing.T) {
	p := New(1)
	p.Stop()
	p.Stop()
}

func TestZeroWorkersClamped(t *testing.T) {
	p := New(0)
	defer p.Stop()

	select {
	case <-p.Submit(func() {}):
	case <-time.After(2 * time.Second):
		t.Fatal("pool with clamped worker count did not run the task")
	}
}
