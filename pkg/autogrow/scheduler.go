package autogrow

import (
	"sort"
	"sync"
	"time"
)

// CancelFunc cancels a scheduled callback. Calling it after the callback has
// fired is a no-op. It is safe to call more than once.
type CancelFunc func()

// Scheduler provides the two deferral primitives the engine's state machine
// is defined in terms of: deferring work to the host's next repaint
// opportunity, and deferring work by a wall-clock delay. Both are
// cancellable. The engine never touches timers directly, which keeps the
// state machine independent of any particular cooperative runtime.
type Scheduler interface {
	// NextFrame runs fn at the next point the host is about to repaint,
	// after in-flight content mutations have settled.
	NextFrame(fn func()) CancelFunc

	// After runs fn once d has elapsed.
	After(d time.Duration, fn func()) CancelFunc
}

// FrameScheduler is the production Scheduler, built on time.AfterFunc. It
// approximates "next frame" as one frame interval from now, which is how the
// terminal renderer paces repaints anyway.
type FrameScheduler struct {
	mu      sync.Mutex
	frame   time.Duration
	timers  map[*time.Timer]struct{}
	stopped bool
}

// DefaultFrameInterval matches a 60Hz repaint cadence.
const DefaultFrameInterval = 16 * time.Millisecond

// NewFrameScheduler creates a timer-backed scheduler. A non-positive frame
// interval falls back to DefaultFrameInterval.
func NewFrameScheduler(frame time.Duration) *FrameScheduler {
	if frame <= 0 {
		frame = DefaultFrameInterval
	}
	return &FrameScheduler{
		frame:  frame,
		timers: make(map[*time.Timer]struct{}),
	}
}

// NextFrame implements Scheduler.
func (s *FrameScheduler) NextFrame(fn func()) CancelFunc {
	return s.After(s.frame, fn)
}

// After implements Scheduler.
func (s *FrameScheduler) After(d time.Duration, fn func()) CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return func() {}
	}

	var timer *time.Timer
	timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		delete(s.timers, timer)
		s.mu.Unlock()
		fn()
	})
	s.timers[timer] = struct{}{}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.timers[timer]; ok {
			timer.Stop()
			delete(s.timers, timer)
		}
	}
}

// Stop cancels every outstanding callback. The scheduler accepts no new work
// afterwards; further NextFrame/After calls return immediately with a no-op
// cancel.
func (s *FrameScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for timer := range s.timers {
		timer.Stop()
		delete(s.timers, timer)
	}
}

// ManualScheduler is a deterministic Scheduler for tests and host-driven
// render loops: frame callbacks queue until Fire, timer callbacks run as
// Advance moves the clock past their deadline. The zero value is ready to
// use.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	frames []*manualTask
	timers []*manualTask
}

type manualTask struct {
	fn        func()
	at        time.Duration
	cancelled bool
}

// NextFrame implements Scheduler.
func (s *ManualScheduler) NextFrame(fn func()) CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := &manualTask{fn: fn}
	s.frames = append(s.frames, task)
	return s.cancelFor(task)
}

// After implements Scheduler.
func (s *ManualScheduler) After(d time.Duration, fn func()) CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := &manualTask{fn: fn, at: s.now + d}
	s.timers = append(s.timers, task)
	return s.cancelFor(task)
}

func (s *ManualScheduler) cancelFor(task *manualTask) CancelFunc {
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		task.cancelled = true
	}
}

// Fire runs all frame callbacks queued so far, in order. Callbacks queued
// while firing wait for the next Fire, mirroring how a renderer batches work
// per repaint.
func (s *ManualScheduler) Fire() {
	s.mu.Lock()
	due := s.frames
	s.frames = nil
	s.mu.Unlock()

	for _, task := range due {
		if !task.cancelled {
			task.fn()
		}
	}
}

// Advance moves the clock forward and runs timer callbacks whose deadline
// has passed, in deadline order. Frame callbacks they queue still need Fire.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due, rest []*manualTask
	for _, task := range s.timers {
		if task.at <= s.now {
			due = append(due, task)
		} else {
			rest = append(rest, task)
		}
	}
	s.timers = rest
	s.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, task := range due {
		if !task.cancelled {
			task.fn()
		}
	}
}

// PendingFrames reports how many frame callbacks are queued, cancelled or
// not. Useful for asserting coalescing behavior.
func (s *ManualScheduler) PendingFrames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}
