package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"autogrow/pkg/autogrow"
)

// pumpMsg drives the engine's scheduler from the render loop. Because the
// scheduler only runs when pumped, every adjustment pass executes on the UI
// goroutine; the engine never touches the textarea from a timer goroutine.
type pumpMsg time.Time

// Composer is the growing chat input. It implements autogrow.Surface and
// autogrow.TransitionSurface over a bubbles textarea and forwards every
// content-mutating key to the engine; the engine alone decides the applied
// height.
type Composer struct {
	textarea textarea.Model
	cfg      autogrow.Config
	styles   Styles

	sched   *autogrow.ManualScheduler
	binding *autogrow.Binding

	width     int
	textWidth int // columns available for text, after prompt

	// Surface state. applied tracks the engine's last ApplyHeight, which
	// may be the collapse-probe sentinel; rendered is what the textarea
	// actually shows.
	applied     int
	rendered    int
	overflow    bool
	scroll      int
	transitions bool

	// Height animation, stepped one row per pump while transitioning.
	animating bool
	target    int

	lastPump time.Time
}

// NewComposer builds a composer and binds it to a fresh engine instance.
func NewComposer(cfg autogrow.Config, styles Styles, logger *zap.Logger) (*Composer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ta := textarea.New()
	ta.Placeholder = "Type a message... (Enter to send, Alt+Enter for newline)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Prompt = "┃ "
	ta.KeyMap.InsertNewline.SetKeys("alt+enter")
	ta.SetHeight(cfg.MinHeight)
	ta.Focus()

	c := &Composer{
		textarea:    ta,
		cfg:         cfg,
		styles:      styles,
		sched:       &autogrow.ManualScheduler{},
		textWidth:   80,
		rendered:    cfg.MinHeight,
		applied:     cfg.MinHeight,
		transitions: true,
	}

	engine := autogrow.NewEngine(c.sched, logger)
	binding, err := engine.Bind(c, cfg)
	if err != nil {
		return nil, err
	}
	c.binding = binding
	return c, nil
}

// Binding exposes the engine handle so the surrounding layout can subscribe
// to height changes.
func (c *Composer) Binding() *autogrow.Binding { return c.binding }

// Init starts the cursor blink and the scheduler pump.
func (c *Composer) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, c.pump())
}

func (c *Composer) pump() tea.Cmd {
	return tea.Tick(autogrow.DefaultFrameInterval, func(t time.Time) tea.Msg {
		return pumpMsg(t)
	})
}

// Update translates host events into engine signals. The returned string is
// non-empty when Enter submitted the composed message.
func (c *Composer) Update(msg tea.Msg) (tea.Cmd, string) {
	switch msg := msg.(type) {
	case pumpMsg:
		now := time.Time(msg)
		if !c.lastPump.IsZero() {
			c.sched.Advance(now.Sub(c.lastPump))
		}
		c.lastPump = now
		c.sched.Fire()
		c.stepAnimation()
		return c.pump(), ""

	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter && !msg.Alt && !msg.Paste {
			return nil, c.Submit()
		}
		return c.handleKey(msg), ""
	}

	var cmd tea.Cmd
	c.textarea, cmd = c.textarea.Update(msg)
	return cmd, ""
}

func (c *Composer) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Bracketed paste arrives as a rune key with the paste flag set.
	if msg.Paste {
		var cmd tea.Cmd
		c.textarea, cmd = c.textarea.Update(msg)
		c.binding.NotifyContentChanged(autogrow.CausePaste)
		return cmd
	}

	var cause autogrow.Cause
	notify := true
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		cause = autogrow.CauseTyped
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyCtrlW, tea.KeyCtrlU, tea.KeyCtrlK:
		cause = autogrow.CauseDelete
	case tea.KeyEnter:
		// Plain Enter was intercepted as submission in Update; what
		// reaches here is Alt+Enter, the newline chord.
		cause = autogrow.CauseNewline
	default:
		// Cursor movement and similar: no content mutation.
		notify = false
	}

	var cmd tea.Cmd
	c.textarea, cmd = c.textarea.Update(msg)
	if notify {
		c.binding.NotifyContentChanged(cause)
	}
	return cmd
}

// Submit returns the trimmed message and clears the composer, forcing the
// engine's instant snap back to the resting height.
func (c *Composer) Submit() string {
	value := strings.TrimSpace(c.textarea.Value())
	c.textarea.Reset()
	c.binding.Reset() // snaps the surface back to MinHeight, no animation
	return value
}

// SetValue assigns content programmatically; the engine adjusts
// synchronously with the assignment.
func (c *Composer) SetValue(value string) {
	c.textarea.SetValue(value)
	c.binding.NotifyContentChanged(autogrow.CauseExternal)
}

// Value returns the current content.
func (c *Composer) Value() string { return c.textarea.Value() }

// SetWidth resizes the input. Wrapping changes with width, so this runs an
// immediate pass.
func (c *Composer) SetWidth(w int) {
	c.width = w
	c.textWidth = w - frameSize - len([]rune(c.textarea.Prompt))
	if c.textWidth < 1 {
		c.textWidth = 1
	}
	c.textarea.SetWidth(w - frameSize)
	c.binding.NotifyContentChanged(autogrow.CauseExternal)
}

// frameSize is the border overhead of the input box, in columns and rows.
const frameSize = 2

// Height returns the rows the composer currently renders, excluding the
// border. The surrounding layout subtracts this when sizing the transcript.
func (c *Composer) Height() int { return c.rendered }

// Overflowing reports whether content has outgrown the maximum height and
// scrolls internally.
func (c *Composer) Overflowing() bool { return c.overflow }

// Expanded reports whether the composer occupies more than its resting
// height, for status-line announcement.
func (c *Composer) Expanded() bool { return c.binding.Expanded() }

// Close releases the engine binding. No pass fires afterwards.
func (c *Composer) Close() { c.binding.Unbind() }

// stepAnimation advances a transitioning height one row per frame toward
// the target. A zero transition duration snaps.
func (c *Composer) stepAnimation() {
	if !c.animating {
		return
	}
	if c.cfg.TransitionDuration == 0 || c.rendered == c.target {
		c.snapTo(c.target)
		return
	}
	if c.rendered < c.target {
		c.setRendered(c.rendered + 1)
	} else {
		c.setRendered(c.rendered - 1)
	}
	if c.rendered == c.target {
		c.animating = false
	}
}

func (c *Composer) snapTo(rows int) {
	c.animating = false
	c.target = rows
	c.setRendered(rows)
}

func (c *Composer) setRendered(rows int) {
	c.rendered = rows
	c.textarea.SetHeight(rows)
}

// View renders the input box. The border highlights while content overflows
// the maximum height, and a hint row marks hidden content above the fold.
func (c *Composer) View() string {
	box := c.styles.Input
	if c.overflow {
		box = c.styles.InputMax
	}

	view := box.Width(c.width - frameSize).Render(c.textarea.View())
	if c.overflow && c.scroll > 0 {
		hint := c.styles.ScrollHint.Render("▲ earlier lines hidden")
		view = hint + "\n" + view
	}
	return view
}

// --- autogrow.Surface ---

// Content implements autogrow.Surface.
func (c *Composer) Content() string { return c.textarea.Value() }

// NaturalExtent implements autogrow.Surface: the number of rows the content
// needs at the current width with no height constraint, accounting for
// soft-wrapped wide runes.
func (c *Composer) NaturalExtent() int {
	rows := 0
	for _, line := range strings.Split(c.textarea.Value(), "\n") {
		w := runewidth.StringWidth(line)
		if w <= c.textWidth {
			rows++
			continue
		}
		rows += (w + c.textWidth - 1) / c.textWidth
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// ApplyHeight implements autogrow.Surface. The collapse-probe sentinel is
// recorded but never rendered; real heights either snap or animate depending
// on whether the engine suppressed transitions for this application.
func (c *Composer) ApplyHeight(rows int) {
	c.applied = rows
	if rows < 1 {
		return
	}
	if !c.transitions || c.rendered == rows {
		c.snapTo(rows)
		return
	}
	c.target = rows
	c.animating = true
}

// SetOverflowEnabled implements autogrow.Surface.
func (c *Composer) SetOverflowEnabled(enabled bool) {
	c.overflow = enabled
	if !enabled {
		c.scroll = 0
	}
}

// CaptureScroll implements autogrow.Surface: the first visible row implied
// by the cursor position against the rendered height.
func (c *Composer) CaptureScroll() int {
	first := c.textarea.Line() - c.rendered + 1
	if first < 0 {
		first = 0
	}
	return first
}

// RestoreScroll implements autogrow.Surface. The textarea keeps its cursor
// visible on its own; the offset drives the hidden-content hint.
func (c *Composer) RestoreScroll(rows int) { c.scroll = rows }

// SetTransitionsEnabled implements autogrow.TransitionSurface.
func (c *Composer) SetTransitionsEnabled(enabled bool) { c.transitions = enabled }

var _ autogrow.TransitionSurface = (*Composer)(nil)
