package autogrow

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine creates bindings between content surfaces and the height-adjustment
// state machine. One Engine can serve many surfaces; each binding owns its
// state exclusively and shares only the scheduler.
type Engine struct {
	sched Scheduler
	log   *zap.Logger
}

// NewEngine creates an engine on the given scheduler. A nil logger disables
// diagnostics.
func NewEngine(sched Scheduler, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{sched: sched, log: logger}
}

// passState tracks where a binding is in the Idle -> Scheduled -> Running ->
// Idle cycle. Running is exclusive: the pass pipeline executes as a single
// uninterruptible step under the binding's lock.
type passState int

const (
	passIdle passState = iota
	passScheduled
	passRunning
)

// Binding is the handle returned by Bind. All methods are safe for
// concurrent use; scheduler callbacks and host signals serialize on an
// internal lock.
type Binding struct {
	id      string
	surface Surface
	cfg     Config
	sched   Scheduler
	log     *zap.Logger

	debounce *Debouncer

	mu           sync.Mutex
	height       int
	overflowing  bool
	state        passState
	cancelFrame  CancelFunc
	seq          uint64
	composing    bool
	composeDirty bool
	unbound      bool
	listeners    []func(HeightChange)
}

// Bind attaches the engine to a surface and performs one immediate full pass
// to establish the baseline height. It fails fast on invalid configuration;
// such a failure is fatal to the binding and not recoverable by retry.
func (e *Engine) Bind(surface Surface, cfg Config) (*Binding, error) {
	if surface == nil {
		return nil, fmt.Errorf("%w: nil surface", ErrInvalidConfig)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	b := &Binding{
		id:       uuid.NewString(),
		surface:  surface,
		cfg:      cfg,
		sched:    e.sched,
		log:      e.log,
		debounce: NewDebouncer(e.sched, cfg.Debounce),
		height:   cfg.MinHeight,
	}

	b.mu.Lock()
	b.runPassLocked()
	b.mu.Unlock()

	e.log.Debug("surface bound",
		zap.String("binding", b.id),
		zap.Int("minHeight", cfg.MinHeight),
		zap.Int("maxHeight", cfg.MaxHeight),
		zap.Duration("debounce", cfg.Debounce))
	return b, nil
}

// ID returns the binding's handle identifier.
func (b *Binding) ID() string { return b.id }

// State returns the currently applied height and overflow flag.
func (b *Binding) State() (height int, overflowing bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.height, b.overflowing
}

// Expanded reports whether content currently occupies more than the minimum
// height. Adapters surface this as an accessibility announcement.
func (b *Binding) Expanded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.height > b.cfg.MinHeight
}

// OnHeightChanged registers an observer called once per completed pass that
// moved the applied height or the overflow flag. Observers run outside the
// binding's lock and may call back into the binding.
func (b *Binding) OnHeightChanged(fn func(HeightChange)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

// NotifyContentChanged is the single ingress point for content-mutating
// signals. The cause selects the scheduling rule: typed input debounces,
// insertions defer one frame so the mutation settles before measurement,
// deletions and external assignments run synchronously. Signals arriving
// while a pass is already scheduled coalesce into it.
func (b *Binding) NotifyContentChanged(cause Cause) {
	b.mu.Lock()
	if b.unbound {
		b.mu.Unlock()
		return
	}
	if b.composing {
		// Mid-composition intermediate states are not stable content
		// changes; remember that one is owed and measure when it ends.
		b.composeDirty = true
		b.mu.Unlock()
		return
	}

	switch cause {
	case CauseTyped:
		if b.cfg.Debounce > 0 {
			b.mu.Unlock()
			b.debounce.Call(b.scheduleFrame)
			return
		}
		b.scheduleFrameLocked()
		b.mu.Unlock()
	case CausePaste, CauseCut, CauseNewline:
		b.scheduleFrameLocked()
		b.mu.Unlock()
	case CauseDelete, CauseExternal:
		// The synchronous pass supersedes everything pending: the debounced
		// timer flushes into this pass, and a scheduled frame is invalidated
		// so it cannot fire later and consume a newer insertion's pass
		// before that mutation settles.
		b.invalidateScheduledLocked()
		var ev *HeightChange
		b.debounce.Flush(func() { ev = b.runPassLockedHeld() })
		b.mu.Unlock()
		b.emit(ev)
	default:
		b.scheduleFrameLocked()
		b.mu.Unlock()
	}
}

// SetComposing marks the start or end of an IME composition session. While
// active, content signals never trigger measurement; ending a session that
// saw signals schedules one pass for the settled text.
func (b *Binding) SetComposing(active bool) {
	b.mu.Lock()
	if b.unbound || b.composing == active {
		b.mu.Unlock()
		return
	}
	b.composing = active
	if !active && b.composeDirty {
		b.composeDirty = false
		b.scheduleFrameLocked()
	}
	b.mu.Unlock()
}

// Reset forces the empty-content state instantly: height pinned to
// MinHeight, overflow off, no animation. Any scheduled pass or pending
// debounce is cancelled; a stale pass for older content can never apply over
// it.
func (b *Binding) Reset() {
	b.debounce.Cancel()

	b.mu.Lock()
	if b.unbound {
		b.mu.Unlock()
		return
	}
	b.invalidateScheduledLocked()
	ev := b.applyLocked(b.cfg.MinHeight, false, false)
	b.mu.Unlock()
	b.emit(ev)
}

// Unbind releases the binding: the debounce timer and any scheduled pass are
// cancelled and no pass fires afterwards. Unbinding twice, or signalling an
// unbound handle, is a no-op rather than an error.
func (b *Binding) Unbind() {
	b.debounce.Cancel()

	b.mu.Lock()
	if b.unbound {
		b.mu.Unlock()
		return
	}
	b.unbound = true
	b.invalidateScheduledLocked()
	b.listeners = nil
	b.mu.Unlock()

	b.log.Debug("surface unbound", zap.String("binding", b.id))
}

// scheduleFrame is the debounce target: the trailing edge of a typing burst
// still waits for the next frame before measuring.
func (b *Binding) scheduleFrame() {
	b.mu.Lock()
	if !b.unbound {
		b.scheduleFrameLocked()
	}
	b.mu.Unlock()
}

func (b *Binding) scheduleFrameLocked() {
	if b.state == passScheduled {
		return // coalesce into the pending pass
	}
	b.state = passScheduled
	seq := b.seq
	b.cancelFrame = b.sched.NextFrame(func() { b.firePass(seq) })
}

// invalidateScheduledLocked cancels the pending frame, if any, and bumps the
// generation counter so an already-fired callback that lost the race
// no-ops.
func (b *Binding) invalidateScheduledLocked() {
	b.seq++
	if b.cancelFrame != nil {
		b.cancelFrame()
		b.cancelFrame = nil
	}
	if b.state == passScheduled {
		b.state = passIdle
	}
}

// firePass runs a scheduled pass, unless it was invalidated after
// scheduling (reset, unbind, or a newer schedule superseded it).
func (b *Binding) firePass(seq uint64) {
	b.mu.Lock()
	if b.unbound || seq != b.seq || b.state != passScheduled {
		b.mu.Unlock()
		return
	}
	b.cancelFrame = nil
	ev := b.runPassLockedHeld()
	b.mu.Unlock()
	b.emit(ev)
}

// runPassLocked executes one full pass with the lock held and discards the
// event; used at bind time, before any observer can exist.
func (b *Binding) runPassLocked() {
	_ = b.runPassLockedHeld()
}

// runPassLockedHeld executes the pass pipeline: capture scroll, collapse
// probe, clamp, transition policy, apply, restore scroll. Returns the height
// change to emit, or nil when the pass was a no-op.
func (b *Binding) runPassLockedHeld() *HeightChange {
	b.state = passRunning
	defer func() { b.state = passIdle }()

	// Empty-content fast path: pin to the resting height instantly, no
	// probe, no animation. This also covers a stale scheduled pass whose
	// content went empty in the meantime.
	if strings.TrimSpace(b.surface.Content()) == "" {
		return b.applyLocked(b.cfg.MinHeight, false, false)
	}

	offset := b.surface.CaptureScroll()

	// Collapse before reading: layout does not shrink-to-fit when content
	// is removed, so measuring against the applied height would report the
	// stale previous value instead of the content's true extent. The
	// collapse must never animate.
	b.applyInstantLocked(collapseProbeHeight)
	extent := b.surface.NaturalExtent()

	height, overflowing := Clamp(extent, b.cfg.MinHeight, b.cfg.MaxHeight)
	animated := abs(height-b.height) > b.cfg.TransitionDelta
	ev := b.applyLocked(height, overflowing, animated)

	// The captured offset only means something while the surface is pinned
	// at max height; anywhere below that the content fits entirely and a
	// non-zero restore would be a scroll-jump artifact.
	if height == b.cfg.MaxHeight {
		b.surface.RestoreScroll(offset)
	}

	if ev != nil {
		b.log.Debug("pass applied",
			zap.String("binding", b.id),
			zap.Int("extent", extent),
			zap.Int("old", ev.Old),
			zap.Int("new", ev.New),
			zap.Bool("overflowing", ev.Overflowing),
			zap.Bool("animated", animated))
	}
	return ev
}

// applyLocked writes the height and overflow flag through to the surface and
// records the new state. The height is always re-applied, even unchanged,
// because the probe may have collapsed the surface; unchanged applications
// are instant. A pass that moved neither the height nor the overflow flag
// emits nothing.
func (b *Binding) applyLocked(height int, overflowing, animated bool) *HeightChange {
	old := b.height
	oldOverflow := b.overflowing
	if height == old {
		animated = false
	}

	if animated {
		b.surface.ApplyHeight(height)
	} else {
		b.applyInstantLocked(height)
	}
	b.surface.SetOverflowEnabled(overflowing)

	b.height = height
	b.overflowing = overflowing

	if height == old && overflowing == oldOverflow {
		return nil
	}
	return &HeightChange{Old: old, New: height, Overflowing: overflowing}
}

// applyInstantLocked applies a height with transition effects suppressed for
// this single application on surfaces that have them.
func (b *Binding) applyInstantLocked(rows int) {
	if ts, ok := b.surface.(TransitionSurface); ok {
		ts.SetTransitionsEnabled(false)
		b.surface.ApplyHeight(rows)
		ts.SetTransitionsEnabled(true)
		return
	}
	b.surface.ApplyHeight(rows)
}

func (b *Binding) emit(ev *HeightChange) {
	if ev == nil {
		return
	}
	b.mu.Lock()
	listeners := make([]func(HeightChange), len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()
	for _, fn := range listeners {
		fn(*ev)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
