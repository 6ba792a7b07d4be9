// Package poll provides condition polling with exponential backoff for the kit
package poll

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// Config provides polling configuration
type Config struct {
	Interval    time.Duration // Delay after the first failed probe
	MaxInterval time.Duration // Upper bound on the delay between probes
	Multiplier  float64       // Backoff multiplier (typically 2.0)
	AddJitter   bool          // Add randomness to prevent probe alignment
}

// DefaultConfig returns sensible defaults for polling shared state
func DefaultConfig() Config {
	return Config{
		Interval:    5 * time.Millisecond,
		MaxInterval: 100 * time.Millisecond,
		Multiplier:  2.0,
		AddJitter:   true,
	}
}

// Relaxed returns a config for polling slow-changing conditions
func Relaxed() Config {
	return Config{
		Interval:    50 * time.Millisecond,
		MaxInterval: 1 * time.Second,
		Multiplier:  2.0,
		AddJitter:   true,
	}
}

// Until probes cond until it returns true, sleeping with exponential backoff
// between probes. It returns nil as soon as cond is observed true, or the
// context's error if ctx is cancelled first.
//
// The observation is inherently racy: the condition may no longer hold by the
// time the caller acts on it. Until is intended for backpressure-style loops
// where callers tolerate staleness, such as waiting for a buffer to drain.
func Until(ctx context.Context, cfg Config, cond func() bool) error {
	if cond == nil {
		return errors.New("poll: cond must not be nil")
	}
	if cfg.Interval < 0 {
		return errors.New("poll: Interval cannot be negative")
	}
	if cfg.MaxInterval < 0 {
		return errors.New("poll: MaxInterval cannot be negative")
	}
	if cfg.Multiplier < 0 {
		return errors.New("poll: Multiplier cannot be negative")
	}
	// Prevent overflow with extremely large multipliers
	if cfg.Multiplier > 1000 {
		cfg.Multiplier = 1000
	}

	// Set defaults if not specified
	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 100 * time.Millisecond
	}
	if cfg.Multiplier == 0 {
		cfg.Multiplier = 2.0
	}

	if cfg.MaxInterval < cfg.Interval {
		return errors.New("poll: MaxInterval must be >= Interval")
	}

	delay := cfg.Interval

	for probe := 1; ; probe++ {
		if cond() {
			return nil
		}

		if ctx.Err() != nil {
			return fmt.Errorf("poll cancelled after %d probes: %w", probe, ctx.Err())
		}

		sleep := delay
		if cfg.AddJitter && delay >= 4 {
			// Up to 25% jitter
			sleep = delay + rand.N(delay/4)
		}

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("poll cancelled during backoff after %d probes: %w", probe, ctx.Err())
		case <-timer.C:
		}

		next := float64(delay) * cfg.Multiplier
		if next > float64(cfg.MaxInterval) {
			delay = cfg.MaxInterval
		} else {
			delay = time.Duration(next)
		}
	}
}

// UntilTimeout is a convenience wrapper around Until with a deadline.
func UntilTimeout(ctx context.Context, cfg Config, timeout time.Duration, cond func() bool) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return Until(ctx, cfg, cond)
}
