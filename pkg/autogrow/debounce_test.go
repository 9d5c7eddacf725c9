package autogrow

import (
	"testing"
	"time"
)

func TestDebouncer_SingleCall(t *testing.T) {
	sched := &ManualScheduler{}
	d := NewDebouncer(sched, 50*time.Millisecond)

	called := 0
	d.Call(func() { called++ })

	sched.Advance(40 * time.Millisecond)
	if called != 0 {
		t.Fatalf("Fired before the debounce window elapsed")
	}

	sched.Advance(10 * time.Millisecond)
	if called != 1 {
		t.Errorf("Expected 1 call, got %d", called)
	}
}

func TestDebouncer_RapidCalls(t *testing.T) {
	sched := &ManualScheduler{}
	d := NewDebouncer(sched, 50*time.Millisecond)

	called := 0
	lastValue := 0

	// Rapid successive calls, each re-arming the window.
	for i := 1; i <= 10; i++ {
		value := i
		d.Call(func() {
			lastValue = value
			called++
		})
		sched.Advance(10 * time.Millisecond)
	}

	sched.Advance(50 * time.Millisecond)

	// Should only call once with the last value.
	if called != 1 {
		t.Errorf("Expected 1 call for rapid succession, got %d", called)
	}
	if lastValue != 10 {
		t.Errorf("Expected last value 10, got %d", lastValue)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	sched := &ManualScheduler{}
	d := NewDebouncer(sched, 50*time.Millisecond)

	called := 0
	d.Call(func() { called++ })
	d.Cancel()

	sched.Advance(time.Second)
	if called != 0 {
		t.Errorf("Expected no calls after Cancel, got %d", called)
	}
}

func TestDebouncer_Flush(t *testing.T) {
	sched := &ManualScheduler{}
	d := NewDebouncer(sched, 50*time.Millisecond)

	pending := 0
	d.Call(func() { pending++ })

	flushed := 0
	d.Flush(func() { flushed++ })

	if flushed != 1 {
		t.Errorf("Expected flush to run immediately, got %d calls", flushed)
	}

	sched.Advance(time.Second)
	if pending != 0 {
		t.Errorf("Expected pending call to be cancelled by Flush, got %d", pending)
	}
}
