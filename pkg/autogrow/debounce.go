package autogrow

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid events into one trailing-edge callback: each
// Call re-arms the delay, and only the last callback fires once calls stop
// arriving for the configured duration. Unlike a bare time.AfterFunc it runs
// through a Scheduler, so it stays deterministic under ManualScheduler.
type Debouncer struct {
	mu       sync.Mutex
	sched    Scheduler
	duration time.Duration
	cancel   CancelFunc
}

// NewDebouncer creates a debouncer with the specified trailing delay.
func NewDebouncer(sched Scheduler, duration time.Duration) *Debouncer {
	return &Debouncer{sched: sched, duration: duration}
}

// Call schedules fn after the debounce duration, cancelling any call still
// pending from before.
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
	}
	d.cancel = d.sched.After(d.duration, fn)
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// Flush cancels any pending call and runs fn immediately.
func (d *Debouncer) Flush(fn func()) {
	d.Cancel()
	fn()
}
