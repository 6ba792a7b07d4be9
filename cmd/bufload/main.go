// Package main implements bufload, a load generator for the StreamKit
// circular buffer. It shares one buffer between concurrent writer and reader
// goroutines, writing patterned or random payloads, and reports the buffer's
// statistics when the run completes.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c360/streamkit/buffer"
	"github.com/c360/streamkit/metric"
	"github.com/c360/streamkit/poll"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "bufload"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Load run failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cfg := parseFlags()
	if cfg.ShowHelp {
		printDetailedHelp()
		return nil
	}
	if cfg.ShowVersion {
		fmt.Printf("%s %s (build %s)\n", appName, Version, BuildTime)
		return nil
	}
	if err := validateFlags(cfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	buf, registry, err := setupBuffer(cfg, logger)
	if err != nil {
		return err
	}

	if registry != nil {
		srv := metric.NewServer(cfg.MetricsPort, "/metrics", registry)
		if err := srv.Start(); err != nil {
			return err
		}
		logger.Info("Metrics server started", "addr", srv.Addr())
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(shutdownCtx)
		}()
	}

	logger.Info("Starting load run",
		"capacity", cfg.Capacity,
		"strategy", cfg.Strategy,
		"writers", cfg.Writers,
		"readers", cfg.Readers,
		"count", cfg.Count,
		"mode", cfg.Mode,
		"backpressure", cfg.Backpressure,
	)

	start := time.Now()
	totalRead, err := runLoad(ctx, logger, buf, cfg)
	if err != nil {
		return err
	}

	summary := buf.Stats().Summary()
	logger.Info("Load run complete",
		"elapsed", time.Since(start).Round(time.Millisecond),
		"written", summary.Writes,
		"read", totalRead,
		"overwritten", summary.Drops,
		"max_size", summary.MaxSize,
		"remaining", buf.Size(),
		"drop_rate", fmt.Sprintf("%.3f", summary.DropRate),
	)

	return nil
}

// setupBuffer builds the shared buffer from CLI configuration, wiring the
// metrics registry when a metrics port was requested.
func setupBuffer(cfg *CLIConfig, logger *slog.Logger) (buffer.Buffer[int], *metric.MetricsRegistry, error) {
	strategy := buffer.GuardSlot
	if cfg.Strategy == "full_flag" {
		strategy = buffer.FullFlag
	}

	opts := []buffer.Option[int]{
		buffer.WithStrategy[int](strategy),
		buffer.WithDropCallback[int](func(item int) {
			logger.Debug("Overwrote oldest element", "value", item)
		}),
	}

	var registry *metric.MetricsRegistry
	if cfg.MetricsPort > 0 {
		registry = metric.NewMetricsRegistry()
		opts = append(opts, buffer.WithMetrics[int](registry, appName))
	}

	buf, err := buffer.New[int](cfg.Capacity, opts...)
	if err != nil {
		return nil, nil, err
	}
	return buf, registry, nil
}

// runLoad runs the writer and reader goroutines to completion and returns
// the total number of values read.
func runLoad(ctx context.Context, logger *slog.Logger, buf buffer.Buffer[int], cfg *CLIConfig) (int64, error) {
	g, gctx := errgroup.WithContext(ctx)

	// Writers signal readers that production has finished by draining this
	// counter; readers exit once it reaches zero and the buffer is empty.
	var writersRemaining atomic.Int64
	writersRemaining.Store(int64(cfg.Writers))

	var totalRead atomic.Int64

	for i := 0; i < cfg.Writers; i++ {
		id := i
		g.Go(func() error {
			defer writersRemaining.Add(-1)
			return runWriter(gctx, logger, buf, cfg, id)
		})
	}

	for i := 0; i < cfg.Readers; i++ {
		id := i
		g.Go(func() error {
			return runReader(gctx, logger, buf, id, &writersRemaining, &totalRead)
		})
	}

	if err := g.Wait(); err != nil {
		return totalRead.Load(), err
	}
	return totalRead.Load(), nil
}

// runWriter produces cfg.Count values. In pattern mode each writer writes
// its own sequential range; in random mode values are uniform in [1, 1000].
func runWriter(ctx context.Context, logger *slog.Logger, buf buffer.Buffer[int], cfg *CLIConfig, id int) error {
	base := id * cfg.Count

	for i := 0; i < cfg.Count; i++ {
		if ctx.Err() != nil {
			logger.Debug("Writer cancelled", "writer", id, "written", i)
			return nil
		}

		if cfg.Backpressure {
			// Best effort: the observation can be stale, in which case this
			// write overwrites after all.
			if err := poll.Until(ctx, poll.DefaultConfig(), func() bool {
				return !buf.IsFull()
			}); err != nil {
				return nil
			}
		}

		value := base + i
		if cfg.Mode == "random" {
			value = rand.IntN(1000) + 1
		}
		buf.Write(value)

		if cfg.WriteInterval > 0 {
			timer := time.NewTimer(cfg.WriteInterval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
		}
	}

	logger.Debug("Writer finished", "writer", id, "written", cfg.Count)
	return nil
}

// runReader drains the buffer until all writers have finished and the buffer
// is observed empty.
func runReader(ctx context.Context, logger *slog.Logger, buf buffer.Buffer[int], id int, writersRemaining, totalRead *atomic.Int64) error {
	var count int64

	for {
		if value, ok := buf.Read(); ok {
			count++
			totalRead.Add(1)
			logger.Debug("Read value", "reader", id, "value", value)
			continue
		}

		if writersRemaining.Load() == 0 && buf.IsEmpty() {
			logger.Debug("Reader finished", "reader", id, "read", count)
			return nil
		}

		if err := poll.Until(ctx, poll.DefaultConfig(), func() bool {
			return !buf.IsEmpty() || writersRemaining.Load() == 0
		}); err != nil {
			logger.Debug("Reader cancelled", "reader", id, "read", count)
			return nil
		}
	}
}
