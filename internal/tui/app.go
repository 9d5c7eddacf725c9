package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"autogrow/internal/config"
	"autogrow/internal/logging"
	"autogrow/pkg/autogrow"
)

// chromeRows is the title row plus the status row.
const chromeRows = 2

// App is the demo chat model: a transcript viewport above the growing
// composer. It owns no height logic — it reflows the transcript whenever the
// engine announces a height change.
type App struct {
	cfg    *config.Config
	styles Styles
	log    *zap.Logger

	composer *Composer
	viewport viewport.Model
	messages []string

	// degraded is the fixed-height fallback for hosts that report no usable
	// size: the engine is never bound, the input stays at minimum height
	// and always scrolls.
	degraded bool
	fixed    textarea.Model

	width, height int
	ready         bool
	lastEvent     *autogrow.HeightChange
	err           error
}

// NewApp creates the demo application around the given configuration.
func NewApp(cfg *config.Config) *App {
	return &App{
		cfg:    cfg,
		styles: DefaultStyles(),
		log:    logging.Get(logging.CategoryApp),
	}
}

// Err reports a startup failure after the program exits.
func (a *App) Err() error { return a.err }

// Init implements tea.Model. The composer is created on the first window
// size report, once we know the host can lay us out.
func (a *App) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleResize(msg)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if a.composer != nil {
				a.composer.Close()
			}
			return a, tea.Quit
		}
	}

	if a.degraded {
		var cmd tea.Cmd
		a.fixed, cmd = a.fixed.Update(msg)
		return a, cmd
	}
	if a.composer == nil {
		return a, nil
	}

	cmd, submitted := a.composer.Update(msg)
	if submitted != "" {
		a.messages = append(a.messages, submitted)
		a.refreshTranscript()
		a.log.Info("message sent", zap.Int("length", len(submitted)))
	}
	a.layout()
	return a, cmd
}

func (a *App) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	if !a.ready {
		a.ready = true
		if msg.Width <= 0 || msg.Height <= 0 {
			// Capability check failed: degraded fixed-height presentation,
			// the engine is never bound.
			a.degraded = true
			a.fixed = newFixedInput(a.cfg)
			a.log.Warn("no usable terminal size, using fixed-height input")
			return a, textarea.Blink
		}

		comp, err := NewComposer(a.cfg.EngineConfig(), a.styles, logging.Get(logging.CategoryEngine))
		if err != nil {
			a.err = fmt.Errorf("bind composer: %w", err)
			return a, tea.Quit
		}
		a.composer = comp
		a.composer.Binding().OnHeightChanged(a.onHeightChanged)
		a.viewport = viewport.New(msg.Width, 1)

		a.width, a.height = msg.Width, msg.Height
		a.composer.SetWidth(msg.Width)
		a.layout()
		a.refreshTranscript()
		return a, a.composer.Init()
	}

	a.width, a.height = msg.Width, msg.Height
	if a.composer != nil {
		a.composer.SetWidth(msg.Width)
	}
	a.layout()
	return a, nil
}

// onHeightChanged reflows the transcript around the composer's new height.
// It runs on the UI goroutine because the composer pumps the scheduler from
// Update.
func (a *App) onHeightChanged(ev autogrow.HeightChange) {
	a.lastEvent = &ev
	a.layout()
	a.viewport.GotoBottom()
	a.log.Debug("composer height changed",
		zap.Int("old", ev.Old),
		zap.Int("new", ev.New),
		zap.Bool("overflowing", ev.Overflowing))
}

// layout gives the transcript whatever height the composer leaves over.
func (a *App) layout() {
	if a.composer == nil || a.width == 0 {
		return
	}
	inputRows := a.composer.Height() + frameSize
	vpHeight := a.height - inputRows - chromeRows
	if vpHeight < 1 {
		vpHeight = 1
	}
	a.viewport.Width = a.width
	a.viewport.Height = vpHeight
}

func (a *App) refreshTranscript() {
	var b strings.Builder
	for _, msg := range a.messages {
		b.WriteString(a.styles.MessageYou.Render("you"))
		b.WriteString(" ")
		b.WriteString(a.styles.Message.Render(msg))
		b.WriteString("\n")
	}
	a.viewport.SetContent(b.String())
	a.viewport.GotoBottom()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "starting..."
	}
	if a.degraded {
		return a.styles.Title.Render("autogrow (fixed-height mode)") + "\n" + a.fixed.View()
	}
	if a.composer == nil {
		return "starting..."
	}

	title := a.styles.Title.Render("autogrow demo")
	status := a.statusLine()
	return title + "\n" + a.viewport.View() + "\n" + a.composer.View() + "\n" + status
}

func (a *App) statusLine() string {
	parts := []string{
		a.styles.Status.Render(fmt.Sprintf("%d rows", a.composer.Height())),
	}
	if a.composer.Expanded() {
		parts = append(parts, a.styles.StatusBold.Render("expanded"))
	}
	if a.composer.Overflowing() {
		parts = append(parts, a.styles.StatusBold.Render("scrolling"))
	}
	if ev := a.lastEvent; ev != nil {
		parts = append(parts, a.styles.Status.Render(fmt.Sprintf("last: %d→%d", ev.Old, ev.New)))
	}
	return strings.Join(parts, a.styles.Status.Render(" · "))
}

// newFixedInput is the degraded presentation: minimum height, always
// scrollable, no engine involvement.
func newFixedInput(cfg *config.Config) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.ShowLineNumbers = false
	ta.SetHeight(cfg.Input.MinHeight)
	ta.Focus()
	return ta
}
