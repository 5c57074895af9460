package dispatch

import (
	"sync"
	"time"
)

// DefaultLocationPeriod is how often a live location is re-announced while a
// job is en_route or arrived.
const DefaultLocationPeriod = 5 * time.Second

// LocationTicker runs a callback on a fixed period between Start and Stop.
// It is owned by whoever drives the booking through its states: started when
// the job enters {en_route, arrived}, stopped the moment it leaves them or is
// cleared. Stop is idempotent and safe to call without a prior Start.
type LocationTicker struct {
	period time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

func NewLocationTicker(period time.Duration) *LocationTicker {
	if period <= 0 {
		period = DefaultLocationPeriod
	}
	return &LocationTicker{period: period}
}

// Start begins periodic invocation of fn. A second Start replaces the
// previous run. The callback is best-effort: its errors are the callback's
// problem, a dropped tick is superseded by the next one.
func (t *LocationTicker) Start(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		close(t.stop)
	}
	stop := make(chan struct{})
	t.stop = stop

	go func() {
		ticker := time.NewTicker(t.period)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts periodic invocation immediately.
func (t *LocationTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// Running reports whether a periodic run is active.
func (t *LocationTicker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}
