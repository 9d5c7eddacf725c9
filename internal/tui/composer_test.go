package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autogrow/pkg/autogrow"
)

// instantConfig makes every height change apply without animation so tests
// can observe the result immediately.
func instantConfig() autogrow.Config {
	return autogrow.Config{
		MinHeight:       1,
		MaxHeight:       10,
		TransitionDelta: 100,
	}
}

func newTestComposer(t *testing.T, cfg autogrow.Config) *Composer {
	t.Helper()
	c, err := NewComposer(cfg, DefaultStyles(), nil)
	require.NoError(t, err)
	c.SetWidth(14) // 10 text columns after border and prompt
	return c
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestComposerNaturalExtent(t *testing.T) {
	c := newTestComposer(t, instantConfig())

	tests := []struct {
		name  string
		value string
		rows  int
	}{
		{"empty", "", 1},
		{"single line", "hello", 1},
		{"soft wrap", "abcdefghijklmno", 2}, // 15 cols over 10
		{"hard newlines", "a\nb\nc", 3},
		{"trailing newline", "a\nb\n", 3},
		{"blank middle line", "a\n\nb", 3},
		{"wide runes wrap", "ままままままま", 2}, // 14 display cols over 10
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.textarea.SetValue(tt.value)
			assert.Equal(t, tt.rows, c.NaturalExtent())
		})
	}
}

func TestExternalAssignmentAdjustsSynchronously(t *testing.T) {
	c := newTestComposer(t, instantConfig())

	c.SetValue("a\nb\nc\nd")
	assert.Equal(t, 4, c.Height(), "external assignment measures in the same call")
	assert.False(t, c.Overflowing())

	c.SetValue("")
	assert.Equal(t, 1, c.Height())
}

func TestTypedInputDebouncesThenAdjusts(t *testing.T) {
	cfg := instantConfig()
	cfg.Debounce = 20 * time.Millisecond
	c := newTestComposer(t, cfg)

	cmd, submitted := c.Update(keyRunes("abcdefghijklmnopqrst")) // wraps to 2 rows
	_ = cmd
	assert.Empty(t, submitted)
	assert.Equal(t, 1, c.Height(), "typed input must not adjust before the debounce window")

	c.sched.Advance(20 * time.Millisecond)
	c.sched.Fire()
	assert.Equal(t, 2, c.Height())
}

func TestPasteAdjustsOnNextFrame(t *testing.T) {
	c := newTestComposer(t, instantConfig())

	paste := keyRunes("a long pasted message that wraps over several rows here")
	paste.Paste = true
	c.Update(paste)

	require.Equal(t, 1, c.sched.PendingFrames())
	assert.Equal(t, 1, c.Height(), "paste waits for the frame")

	c.sched.Fire()
	assert.Greater(t, c.Height(), 1)
}

func TestDeleteKeyAdjustsImmediately(t *testing.T) {
	c := newTestComposer(t, instantConfig())

	c.SetValue("line1\nline2\nline3")
	require.Equal(t, 3, c.Height())

	c.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	want, _ := autogrow.Clamp(c.NaturalExtent(), 1, 10)
	assert.Equal(t, want, c.Height(), "deletion adjusts without waiting for a frame")
}

func TestEnterSubmitsAndSnapsToRest(t *testing.T) {
	c := newTestComposer(t, instantConfig())

	c.SetValue("hello\nworld")
	require.Equal(t, 2, c.Height())

	_, submitted := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "hello\nworld", submitted)
	assert.Empty(t, c.Value())
	assert.Equal(t, 1, c.Height(), "submission snaps back to the resting height")
	assert.False(t, c.Expanded())
}

func TestAltEnterInsertsNewline(t *testing.T) {
	c := newTestComposer(t, instantConfig())

	c.Update(keyRunes("hi"))
	_, submitted := c.Update(tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	assert.Empty(t, submitted)
	assert.Contains(t, c.Value(), "\n")

	require.GreaterOrEqual(t, c.sched.PendingFrames(), 1, "newline defers one frame")
	c.sched.Fire()
	assert.Equal(t, 2, c.Height())
}

func TestOverflowGateAndHint(t *testing.T) {
	c := newTestComposer(t, instantConfig())

	c.SetValue("1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12")
	assert.Equal(t, 10, c.Height(), "clamped at max")
	assert.True(t, c.Overflowing())

	c.SetValue("short")
	assert.False(t, c.Overflowing())
	assert.Zero(t, c.scroll, "scroll state cleared once content fits")
}

func TestGrowthAnimatesOneRowPerPump(t *testing.T) {
	cfg := autogrow.Config{
		MinHeight:          1,
		MaxHeight:          10,
		TransitionDuration: 120 * time.Millisecond,
	}
	c := newTestComposer(t, cfg)

	c.SetValue("a\nb\nc\nd")
	assert.Equal(t, 1, c.Height(), "animated change starts from the old height")
	assert.True(t, c.animating)

	at := time.Now()
	for i := 1; i <= 3; i++ {
		at = at.Add(16 * time.Millisecond)
		c.Update(pumpMsg(at))
		assert.Equal(t, 1+i, c.Height())
	}
	assert.False(t, c.animating)
}

func TestProbeCollapseNeverRendered(t *testing.T) {
	c := newTestComposer(t, instantConfig())

	c.SetValue("a\nb\nc")
	c.SetValue("a")
	c.SetValue("a\nb")
	assert.GreaterOrEqual(t, c.Height(), 1, "the collapse sentinel must never reach the screen")
}

func TestCloseStopsAdjustment(t *testing.T) {
	c := newTestComposer(t, instantConfig())

	c.SetValue("a\nb\nc")
	require.Equal(t, 3, c.Height())

	c.Close()
	c.SetValue("a")
	assert.Equal(t, 3, c.Height(), "no pass fires after close")
}
