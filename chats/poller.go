package chats

import (
	"sync"
	"time"
)

// DefaultInterval is the reference re-query cadence. It is a tunable, not a
// delivery guarantee: a consumer must not assume message latency tighter
// than its polling interval.
const DefaultInterval = 1500 * time.Millisecond

// Poller re-runs a query on a fixed interval while a view is mounted. It is
// the explicit stand-in for a push channel - chat has none.
type Poller struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

// NewPoller starts polling immediately and calls fn on every tick until
// Stop. fn runs on the poller's goroutine.
func NewPoller(interval time.Duration, fn func()) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &Poller{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-p.ticker.C:
				fn()
			case <-p.done:
				return
			}
		}
	}()
	return p
}

// Stop ends polling. An unmounting view simply stops its timer; there is no
// in-flight operation to cancel.
func (p *Poller) Stop() {
	p.once.Do(func() {
		p.ticker.Stop()
		close(p.done)
	})
}
