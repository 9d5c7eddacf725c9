package autogrow

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned by Engine.Bind when the configuration cannot
// be satisfied. A binding that fails validation is not retryable.
var ErrInvalidConfig = errors.New("autogrow: invalid config")

// Config holds the per-binding bounds and timing policy. It is read-only
// after Bind; each bound surface gets its own copy, there is no process-wide
// state.
type Config struct {
	// MinHeight is the smallest height ever applied, in rows. The surface
	// never shrinks below it, even when content is empty.
	MinHeight int

	// MaxHeight caps growth. Content needing more rows scrolls inside the
	// surface instead. Must be greater than MinHeight.
	MaxHeight int

	// Debounce delays typed-input passes until keystrokes pause for this
	// long, so fast typing bursts do not trigger redundant measurement.
	// Zero disables debouncing; typed input then behaves like paste.
	Debounce time.Duration

	// TransitionDuration is how long an animated height change should take
	// on surfaces that support transitions.
	TransitionDuration time.Duration

	// TransitionDelta is the smallest height change, in rows, that is
	// animated. Changes of this size or less apply instantly so rounding
	// jitter never produces visible motion.
	TransitionDelta int
}

// DefaultConfig returns the bounds and timing used by the demo composer:
// a single resting row growing to ten, with a short typing debounce.
func DefaultConfig() Config {
	return Config{
		MinHeight:          1,
		MaxHeight:          10,
		Debounce:           40 * time.Millisecond,
		TransitionDuration: 120 * time.Millisecond,
		TransitionDelta:    0,
	}
}

func (c Config) validate() error {
	switch {
	case c.MinHeight <= 0:
		return fmt.Errorf("%w: min height %d must be > 0", ErrInvalidConfig, c.MinHeight)
	case c.MaxHeight <= c.MinHeight:
		return fmt.Errorf("%w: max height %d must be > min height %d", ErrInvalidConfig, c.MaxHeight, c.MinHeight)
	case c.Debounce < 0:
		return fmt.Errorf("%w: negative debounce %v", ErrInvalidConfig, c.Debounce)
	case c.TransitionDuration < 0:
		return fmt.Errorf("%w: negative transition duration %v", ErrInvalidConfig, c.TransitionDuration)
	case c.TransitionDelta < 0:
		return fmt.Errorf("%w: negative transition delta %d", ErrInvalidConfig, c.TransitionDelta)
	}
	return nil
}
