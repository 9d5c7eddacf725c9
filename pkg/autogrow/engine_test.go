package autogrow

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSurface is a scriptable Surface: tests set content and the natural
// extent the probe should observe, and the fake records everything the
// engine applies.
type fakeSurface struct {
	content string
	extent  int
	scroll  int

	height       int
	overflow     bool
	applied      []int
	restored     []int
	extentReads  int
	staleReads   int // extent read without a prior collapse
}

func (s *fakeSurface) Content() string { return s.content }

func (s *fakeSurface) NaturalExtent() int {
	s.extentReads++
	if s.height != collapseProbeHeight {
		s.staleReads++
	}
	return s.extent
}

func (s *fakeSurface) ApplyHeight(rows int) {
	s.height = rows
	s.applied = append(s.applied, rows)
}

func (s *fakeSurface) SetOverflowEnabled(enabled bool) { s.overflow = enabled }
func (s *fakeSurface) CaptureScroll() int              { return s.scroll }
func (s *fakeSurface) RestoreScroll(rows int)          { s.restored = append(s.restored, rows) }

// resetCounters clears recorded activity, typically right after Bind so a
// test only observes its own passes.
func (s *fakeSurface) resetCounters() {
	s.applied = nil
	s.restored = nil
	s.extentReads = 0
	s.staleReads = 0
}

// transitionSurface additionally records whether each height application ran
// with transitions enabled.
type transitionSurface struct {
	fakeSurface
	transitions     bool
	animatedApplies []int
	instantApplies  []int
}

func newTransitionSurface() *transitionSurface {
	return &transitionSurface{transitions: true}
}

func (s *transitionSurface) ApplyHeight(rows int) {
	if s.transitions {
		s.animatedApplies = append(s.animatedApplies, rows)
	} else {
		s.instantApplies = append(s.instantApplies, rows)
	}
	s.fakeSurface.ApplyHeight(rows)
}

func (s *transitionSurface) SetTransitionsEnabled(enabled bool) { s.transitions = enabled }

func testConfig() Config {
	return Config{MinHeight: 44, MaxHeight: 320}
}

func TestBindRejectsInvalidConfig(t *testing.T) {
	e := NewEngine(&ManualScheduler{}, nil)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero min", Config{MinHeight: 0, MaxHeight: 10}},
		{"negative min", Config{MinHeight: -1, MaxHeight: 10}},
		{"max equals min", Config{MinHeight: 5, MaxHeight: 5}},
		{"max below min", Config{MinHeight: 10, MaxHeight: 5}},
		{"negative debounce", Config{MinHeight: 1, MaxHeight: 10, Debounce: -time.Second}},
		{"negative delta", Config{MinHeight: 1, MaxHeight: 10, TransitionDelta: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Bind(&fakeSurface{}, tt.cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := e.Bind(nil, testConfig())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBindEstablishesBaseline(t *testing.T) {
	e := NewEngine(&ManualScheduler{}, nil)

	s := &fakeSurface{content: "hello", extent: 120, scroll: 0}
	b, err := e.Bind(s, testConfig())
	require.NoError(t, err)

	height, overflowing := b.State()
	assert.Equal(t, 120, height)
	assert.False(t, overflowing)
	assert.Equal(t, 120, s.height, "baseline height applied to the surface")
	assert.Zero(t, s.staleReads, "extent must be read collapsed")
	assert.True(t, b.Expanded())
}

func TestBindEmptyContentTakesFastPath(t *testing.T) {
	e := NewEngine(&ManualScheduler{}, nil)

	s := &fakeSurface{content: "  \n\t "}
	b, err := e.Bind(s, testConfig())
	require.NoError(t, err)

	height, overflowing := b.State()
	assert.Equal(t, 44, height)
	assert.False(t, overflowing)
	assert.Zero(t, s.extentReads, "fast path must not probe")
	assert.False(t, b.Expanded())
}

// Scenario: text grows through 44 -> 44 -> 120 -> 320 -> 500 natural extent.
// Heights settle at 44, 44, 120, 320, 320 and only three passes announce a
// change (the second 44 is idempotent; the last changes overflow only).
func TestGrowthProgression(t *testing.T) {
	e := NewEngine(&ManualScheduler{}, nil)

	s := &fakeSurface{content: "x", extent: 44}
	b, err := e.Bind(s, testConfig())
	require.NoError(t, err)

	var events []HeightChange
	b.OnHeightChanged(func(ev HeightChange) { events = append(events, ev) })

	var heights []int
	var overflows []bool
	for _, extent := range []int{44, 120, 320, 500} {
		s.extent = extent
		b.NotifyContentChanged(CauseExternal)
		h, o := b.State()
		heights = append(heights, h)
		overflows = append(overflows, o)
	}

	assert.Equal(t, []int{44, 120, 320, 320}, heights)
	assert.Equal(t, []bool{false, false, false, true}, overflows)

	want := []HeightChange{
		{Old: 44, New: 120, Overflowing: false},
		{Old: 120, New: 320, Overflowing: false},
		{Old: 320, New: 320, Overflowing: true},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("Event sequence mismatch (-want +got):\n%s", diff)
	}
}

// Scenario: "hello" entirely deleted. The empty-content fast path pins the
// resting height with no probe and no animation.
func TestDeleteToEmpty(t *testing.T) {
	e := NewEngine(&ManualScheduler{}, nil)

	s2 := newTransitionSurface()
	s2.content = "hello"
	s2.extent = 120
	b2, err := e.Bind(s2, testConfig())
	require.NoError(t, err)

	s2.animatedApplies = nil
	s2.instantApplies = nil
	s2.resetCounters()

	s2.content = ""
	s2.extent = 0
	b2.NotifyContentChanged(CauseDelete)

	height, overflowing := b2.State()
	assert.Equal(t, 44, height)
	assert.False(t, overflowing)
	assert.Zero(t, s2.extentReads, "fast path must not probe")
	assert.Empty(t, s2.animatedApplies, "snap back to rest must not animate")
	assert.Equal(t, []int{44}, s2.instantApplies)
}

// Scenario: a large paste lands as a single pass with no intermediate
// heights observed.
func TestPasteSinglePass(t *testing.T) {
	sched := &ManualScheduler{}
	e := NewEngine(sched, nil)

	s := &fakeSurface{content: "x", extent: 44}
	b, err := e.Bind(s, testConfig())
	require.NoError(t, err)
	s.resetCounters()

	s.content = "two thousand characters"
	s.extent = 900
	b.NotifyContentChanged(CausePaste)

	// Nothing applied until the next frame: the insertion settles first.
	assert.Empty(t, s.applied)
	assert.Equal(t, 1, sched.PendingFrames())

	sched.Fire()

	height, overflowing := b.State()
	assert.Equal(t, 320, height)
	assert.True(t, overflowing)
	assert.Equal(t, 1, s.extentReads, "exactly one measurement")
	assert.Equal(t, []int{collapseProbeHeight, 320}, s.applied, "collapse then final height, nothing between")
}

// Scenario: two typed signals inside the debounce window produce exactly one
// pass, measuring the content as of the second signal.
func TestTypedDebounceCoalesces(t *testing.T) {
	sched := &ManualScheduler{}
	e := NewEngine(sched, nil)

	cfg := testConfig()
	cfg.Debounce = 10 * time.Millisecond

	s := &fakeSurface{content: "h", extent: 44}
	b, err := e.Bind(s, cfg)
	require.NoError(t, err)
	s.resetCounters()

	s.content = "he"
	s.extent = 44
	b.NotifyContentChanged(CauseTyped)

	sched.Advance(2 * time.Millisecond)

	s.content = "hello world"
	s.extent = 88
	b.NotifyContentChanged(CauseTyped)

	sched.Advance(10 * time.Millisecond)
	require.Equal(t, 1, sched.PendingFrames(), "trailing edge schedules one frame")
	sched.Fire()

	height, _ := b.State()
	assert.Equal(t, 88, height, "pass used the content state at the second signal")
	assert.Equal(t, 1, s.extentReads)
}

func TestCoalescingWhileScheduled(t *testing.T) {
	sched := &ManualScheduler{}
	e := NewEngine(sched, nil)

	s := &fakeSurface{content: "x", extent: 44}
	b, err := e.Bind(s, testConfig())
	require.NoError(t, err)
	s.resetCounters()

	b.NotifyContentChanged(CausePaste)
	b.NotifyContentChanged(CauseNewline)
	b.NotifyContentChanged(CauseCut)

	assert.Equal(t, 1, sched.PendingFrames(), "signals while Scheduled coalesce")
	sched.Fire()
	assert.Equal(t, 1, s.extentReads)
}

// steppedScheduler exposes each scheduled callback individually, so a test
// can interleave content mutations between two frames that were armed at
// different times.
type steppedScheduler struct {
	tasks []*steppedTask
}

type steppedTask struct {
	fn        func()
	cancelled bool
}

func (s *steppedScheduler) NextFrame(fn func()) CancelFunc {
	task := &steppedTask{fn: fn}
	s.tasks = append(s.tasks, task)
	return func() { task.cancelled = true }
}

func (s *steppedScheduler) After(_ time.Duration, fn func()) CancelFunc {
	return s.NextFrame(fn)
}

// run fires the i-th scheduled callback unless it was cancelled.
func (s *steppedScheduler) run(i int) {
	if task := s.tasks[i]; !task.cancelled {
		task.fn()
	}
}

// A synchronous pass consumes the Scheduled state, so it must also kill the
// frame armed for it. Otherwise that frame outlives the pass, and once a
// later insertion re-arms, the older frame's earlier deadline runs the
// insertion's pass before its content has committed; the insertion's own
// frame then no-ops and the premature measurement sticks.
func TestSynchronousPassCancelsScheduledFrame(t *testing.T) {
	sched := &steppedScheduler{}
	e := NewEngine(sched, nil)

	s := &fakeSurface{content: "line1\nline2", extent: 2}
	b, err := e.Bind(s, Config{MinHeight: 1, MaxHeight: 10})
	require.NoError(t, err)
	s.resetCounters()

	b.NotifyContentChanged(CausePaste) // frame 0 armed

	s.content = "line1"
	s.extent = 1
	b.NotifyContentChanged(CauseDelete) // synchronous pass

	b.NotifyContentChanged(CausePaste) // frame 1 armed; content lands later

	// Frame 0's deadline comes first, before the second paste commits.
	sched.run(0)

	s.content = "a\nb\nc\nd\ne"
	s.extent = 5
	sched.run(1)

	height, _ := b.State()
	assert.Equal(t, 5, height, "the second insertion's pass must see its committed content")
	assert.Equal(t, 2, s.extentReads, "one measurement for the delete, one for the second paste")
}

func TestDeleteSupersedesPendingTypedPass(t *testing.T) {
	sched := &ManualScheduler{}
	e := NewEngine(sched, nil)

	cfg := testConfig()
	cfg.Debounce = 10 * time.Millisecond

	s := &fakeSurface{content: "he", extent: 44}
	b, err := e.Bind(s, cfg)
	require.NoError(t, err)
	s.resetCounters()

	b.NotifyContentChanged(CauseTyped)

	s.content = "h"
	b.NotifyContentChanged(CauseDelete)
	assert.Equal(t, 1, s.extentReads, "deletion measures immediately")

	// The debounced typed pass was flushed into the synchronous one.
	sched.Advance(time.Second)
	sched.Fire()
	assert.Equal(t, 1, s.extentReads, "no residual pass after the flush")
}

func TestIdempotentPassEmitsNothing(t *testing.T) {
	e := NewEngine(&ManualScheduler{}, nil)

	s := &fakeSurface{content: "x", extent: 120}
	b, err := e.Bind(s, testConfig())
	require.NoError(t, err)

	events := 0
	b.OnHeightChanged(func(HeightChange) { events++ })

	b.NotifyContentChanged(CauseExternal)
	h1, o1 := b.State()
	b.NotifyContentChanged(CauseExternal)
	h2, o2 := b.State()

	assert.Equal(t, h1, h2)
	assert.Equal(t, o1, o2)
	assert.Zero(t, events, "unchanged content must not announce")
}

func TestScrollRestoredOnlyAtMaxHeight(t *testing.T) {
	e := NewEngine(&ManualScheduler{}, nil)

	s := &fakeSurface{content: "x", extent: 500, scroll: 7}
	b, err := e.Bind(s, testConfig())
	require.NoError(t, err)
	s.resetCounters()

	// Clamped at max: the captured offset comes back.
	b.NotifyContentChanged(CauseExternal)
	assert.Equal(t, []int{7}, s.restored)

	// Content now fits: the offset is meaningless and must be discarded.
	s.extent = 120
	s.scroll = 7
	s.restored = nil
	b.NotifyContentChanged(CauseExternal)
	assert.Empty(t, s.restored, "no restore below max height")
}

func TestResetForcesRestingState(t *testing.T) {
	sched := &ManualScheduler{}
	e := NewEngine(sched, nil)

	s := &fakeSurface{content: "big", extent: 500, scroll: 3}
	b, err := e.Bind(s, testConfig())
	require.NoError(t, err)
	s.resetCounters()

	// A pass is in flight when the reset lands.
	b.NotifyContentChanged(CausePaste)
	b.Reset()

	height, overflowing := b.State()
	assert.Equal(t, 44, height)
	assert.False(t, overflowing)

	// The stale scheduled pass must not fire over the reset.
	sched.Fire()
	assert.Zero(t, s.extentReads)
	height, overflowing = b.State()
	assert.Equal(t, 44, height)
	assert.False(t, overflowing)
}

func TestStaleScheduledPassChecksEmptiness(t *testing.T) {
	sched := &ManualScheduler{}
	e := NewEngine(sched, nil)

	s := &fakeSurface{content: "draft", extent: 120}
	b, err := e.Bind(s, testConfig())
	require.NoError(t, err)
	s.resetCounters()

	b.NotifyContentChanged(CausePaste)

	// Content goes empty before the frame fires.
	s.content = ""
	s.extent = 0
	sched.Fire()

	height, overflowing := b.State()
	assert.Equal(t, 44, height)
	assert.False(t, overflowing)
	assert.Zero(t, s.extentReads, "stale pass must notice emptiness and skip the probe")
}

func TestUnbindCancelsEverything(t *testing.T) {
	sched := &ManualScheduler{}
	e := NewEngine(sched, nil)

	cfg := testConfig()
	cfg.Debounce = 10 * time.Millisecond

	s := &fakeSurface{content: "x", extent: 120}
	b, err := e.Bind(s, cfg)
	require.NoError(t, err)
	s.resetCounters()

	b.NotifyContentChanged(CauseTyped)
	b.NotifyContentChanged(CausePaste)
	b.Unbind()

	sched.Advance(time.Second)
	sched.Fire()
	assert.Zero(t, s.extentReads, "no pass fires after unbind")

	// Idempotent teardown: everything on an unbound handle is a no-op.
	b.Unbind()
	b.Reset()
	b.NotifyContentChanged(CauseExternal)
	b.SetComposing(true)
	assert.Zero(t, s.extentReads)
}

func TestCompositionDefersMeasurement(t *testing.T) {
	sched := &ManualScheduler{}
	e := NewEngine(sched, nil)

	s := &fakeSurface{content: "x", extent: 44}
	b, err := e.Bind(s, testConfig())
	require.NoError(t, err)
	s.resetCounters()

	b.SetComposing(true)
	b.NotifyContentChanged(CauseTyped)
	b.NotifyContentChanged(CauseTyped)
	b.NotifyContentChanged(CauseExternal)
	assert.Zero(t, sched.PendingFrames(), "intermediate composition states never schedule")
	assert.Zero(t, s.extentReads)

	s.content = "안녕하세요"
	s.extent = 88
	b.SetComposing(false)

	require.Equal(t, 1, sched.PendingFrames(), "settled composition schedules one pass")
	sched.Fire()

	height, _ := b.State()
	assert.Equal(t, 88, height)
}

func TestCompositionEndWithoutSignalsIsQuiet(t *testing.T) {
	sched := &ManualScheduler{}
	e := NewEngine(sched, nil)

	s := &fakeSurface{content: "x", extent: 44}
	b, err := e.Bind(s, testConfig())
	require.NoError(t, err)

	b.SetComposing(true)
	b.SetComposing(false)
	assert.Zero(t, sched.PendingFrames())
}

func TestTransitionPolicyThreshold(t *testing.T) {
	e := NewEngine(&ManualScheduler{}, nil)

	cfg := Config{MinHeight: 1, MaxHeight: 50, TransitionDelta: 2}
	s := newTransitionSurface()
	s.content = "x"
	s.extent = 10
	b, err := e.Bind(s, cfg)
	require.NoError(t, err)

	// Jitter at or below the threshold applies instantly.
	s.animatedApplies = nil
	s.instantApplies = nil
	s.extent = 12
	b.NotifyContentChanged(CauseExternal)
	assert.Empty(t, s.animatedApplies)
	assert.Contains(t, s.instantApplies, 12)

	// A real growth event animates.
	s.animatedApplies = nil
	s.instantApplies = nil
	s.extent = 20
	b.NotifyContentChanged(CauseExternal)
	assert.Equal(t, []int{20}, s.animatedApplies)
	assert.NotContains(t, s.instantApplies, 20)
}

func TestHeightChangedReceivesOverflow(t *testing.T) {
	e := NewEngine(&ManualScheduler{}, nil)

	s := &fakeSurface{content: "x", extent: 44}
	b, err := e.Bind(s, testConfig())
	require.NoError(t, err)

	var got []HeightChange
	b.OnHeightChanged(func(ev HeightChange) { got = append(got, ev) })

	s.extent = 900
	b.NotifyContentChanged(CauseExternal)

	require.Len(t, got, 1)
	assert.Equal(t, HeightChange{Old: 44, New: 320, Overflowing: true}, got[0])
	assert.True(t, s.overflow, "overflow gate enabled on the surface")
}

func TestBindingIDsAreUnique(t *testing.T) {
	e := NewEngine(&ManualScheduler{}, nil)

	a, err := e.Bind(&fakeSurface{}, testConfig())
	require.NoError(t, err)
	b, err := e.Bind(&fakeSurface{}, testConfig())
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
