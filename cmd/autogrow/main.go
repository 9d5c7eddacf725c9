package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"autogrow/internal/config"
	"autogrow/internal/logging"
	"autogrow/internal/tui"
)

var (
	configPath string
	debugLogs  bool
	logDir     string
)

var rootCmd = &cobra.Command{
	Use:   "autogrow",
	Short: "Chat demo for the auto-growing input engine",
	Long: `autogrow is a terminal chat demo built around a single-line input that
grows with its content: one row at rest, expanding line by line up to a
maximum, then scrolling internally.

Enter sends the message, Alt+Enter inserts a newline, Esc or Ctrl+C quits.`,
	RunE: runDemo,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".autogrow/config.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "write diagnostic logs")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "log directory (overrides configuration)")
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so diagnostics go to files.
	if debugLogs {
		cfg.Logging.DebugMode = true
	}
	if logDir != "" {
		cfg.Logging.Dir = logDir
	}
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Logging.Level); err != nil {
		return fmt.Errorf("config: logging.level: %w", err)
	}
	if err := logging.Initialize(logging.Options{
		Dir:   cfg.Logging.Dir,
		Debug: cfg.Logging.DebugMode,
		Level: level,
	}); err != nil {
		return err
	}
	defer logging.Close()

	app := tui.NewApp(cfg)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return app.Err()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
