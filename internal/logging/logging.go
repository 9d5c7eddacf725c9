// Package logging provides category-based file logging for the interactive
// UI. A terminal application owns stdout, so diagnostics go to per-category
// files under the configured directory; when debug mode is off, every logger
// is a no-op and no files are created.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category separates log files by subsystem.
type Category string

const (
	CategoryEngine   Category = "engine"   // height passes, scheduling, clamping
	CategoryComposer Category = "composer" // input translation, surface operations
	CategoryApp      Category = "app"      // lifecycle, configuration
)

// Options controls where and whether logs are written.
type Options struct {
	Dir   string        // log directory, created on demand
	Debug bool          // master switch; false means every logger is a no-op
	Level zapcore.Level // minimum level written
}

var (
	mu      sync.Mutex
	opts    Options
	files   []*os.File
	loggers = make(map[Category]*zap.Logger)
)

// Initialize sets the process-wide logging options. Call once at startup,
// before Get. Re-initializing resets the logger cache.
func Initialize(o Options) error {
	mu.Lock()
	defer mu.Unlock()

	if o.Debug && o.Dir == "" {
		return fmt.Errorf("logging: debug mode requires a directory")
	}
	if o.Debug {
		if err := os.MkdirAll(o.Dir, 0o755); err != nil {
			return fmt.Errorf("logging: create directory: %w", err)
		}
	}

	opts = o
	loggers = make(map[Category]*zap.Logger)
	return nil
}

// Get returns the logger for a category, creating its file on first use.
// Outside debug mode, or when the file cannot be opened, it returns a no-op
// logger rather than an error; diagnostics must never take the UI down.
func Get(category Category) *zap.Logger {
	mu.Lock()
	defer mu.Unlock()

	if !opts.Debug {
		return zap.NewNop()
	}
	if l, ok := loggers[category]; ok {
		return l
	}

	// Date prefix keeps rotation a matter of deleting old files.
	name := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02"), category)
	path := filepath.Join(opts.Dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] could not open %s: %v\n", path, err)
		return zap.NewNop()
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(file), opts.Level)
	l := zap.New(core).Named(string(category))

	files = append(files, file)
	loggers[category] = l
	return l
}

// Close syncs and closes every open log file. Call at shutdown.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	for _, l := range loggers {
		_ = l.Sync()
	}
	for _, f := range files {
		_ = f.Close()
	}
	files = nil
	loggers = make(map[Category]*zap.Logger)
}
