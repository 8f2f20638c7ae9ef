package dashboard

import (
	"sync"
	"time"
)

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop cancels future runs and reports whether a run was still pending.
	Stop() bool
}

// Scheduler creates the timers behind simulated latency and feed refreshes.
// Tests swap in a manual implementation to drive time explicitly.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
	Every(d time.Duration, fn func()) Timer
}

// RealScheduler uses the runtime timers.
type RealScheduler struct{}

// AfterFunc runs fn once after d.
func (RealScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Every runs fn every d until stopped.
func (RealScheduler) Every(d time.Duration, fn func()) Timer {
	t := &ticker{ticker: time.NewTicker(d), done: make(chan struct{})}
	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-t.ticker.C:
				fn()
			}
		}
	}()
	return t
}

type ticker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}

func normalizeScheduler(s Scheduler) Scheduler {
	if s == nil {
		return RealScheduler{}
	}
	return s
}
