package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autogrow/internal/config"
)

func sizeMsg(w, h int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: w, Height: h}
}

func newReadyApp(t *testing.T) *App {
	t.Helper()
	a := NewApp(config.Default())
	model, _ := a.Update(sizeMsg(80, 24))
	a = model.(*App)
	require.False(t, a.degraded)
	require.NotNil(t, a.composer)
	return a
}

func TestAppFallsBackWhenHostReportsNoSize(t *testing.T) {
	a := NewApp(config.Default())

	model, _ := a.Update(sizeMsg(0, 0))
	a = model.(*App)

	assert.True(t, a.degraded)
	assert.Nil(t, a.composer, "the engine is never bound in fixed-height mode")
	assert.NotEmpty(t, a.View())
}

func TestAppBindsComposerOnFirstSize(t *testing.T) {
	a := newReadyApp(t)
	assert.NoError(t, a.Err())
	assert.Equal(t, a.cfg.Input.MinHeight, a.composer.Height())
}

func TestAppLayoutLeavesRoomForComposer(t *testing.T) {
	a := newReadyApp(t)

	a.composer.SetValue("a\nb\nc\nd")
	a.layout()

	want := 24 - (a.composer.Height() + frameSize) - chromeRows
	assert.Equal(t, want, a.viewport.Height)
	assert.Equal(t, 80, a.viewport.Width)
}

func TestAppLayoutClampsTinyTerminals(t *testing.T) {
	a := newReadyApp(t)

	model, _ := a.Update(sizeMsg(80, 4))
	a = model.(*App)
	a.composer.SetValue("a\nb\nc\nd\ne\nf")
	a.layout()

	assert.Equal(t, 1, a.viewport.Height, "transcript never collapses below one row")
}

func TestAppSubmitAppendsToTranscript(t *testing.T) {
	a := newReadyApp(t)

	a.composer.SetValue("hello there")
	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	a = model.(*App)

	require.Len(t, a.messages, 1)
	assert.Equal(t, "hello there", a.messages[0])
	assert.Empty(t, a.composer.Value())
}

func TestAppRecordsHeightEvents(t *testing.T) {
	a := newReadyApp(t)

	a.composer.SetValue("one\ntwo\nthree")

	require.NotNil(t, a.lastEvent)
	assert.Equal(t, 3, a.lastEvent.New)
	assert.Contains(t, a.statusLine(), "last: 1→3")
}

func TestAppQuitClosesComposer(t *testing.T) {
	a := newReadyApp(t)

	model, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	a = model.(*App)

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	before := a.composer.Height()
	a.composer.SetValue("a\nb\nc\nd")
	assert.Equal(t, before, a.composer.Height(), "no adjustment after shutdown")
}
