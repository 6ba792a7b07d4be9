package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	Capacity      int
	Strategy      string
	Writers       int
	Readers       int
	Count         int
	Mode          string
	WriteInterval time.Duration
	Backpressure  bool
	MetricsPort   int
	LogLevel      string
	LogFormat     string
	ShowVersion   bool
	ShowHelp      bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	// Define flags with environment variable fallback
	flag.IntVar(&cfg.Capacity, "capacity",
		getEnvInt("BUFLOAD_CAPACITY", 666),
		"Buffer capacity (env: BUFLOAD_CAPACITY)")

	flag.StringVar(&cfg.Strategy, "strategy",
		getEnv("BUFLOAD_STRATEGY", "guard_slot"),
		"Full/empty strategy: guard_slot, full_flag (env: BUFLOAD_STRATEGY)")

	flag.IntVar(&cfg.Writers, "writers",
		getEnvInt("BUFLOAD_WRITERS", 2),
		"Number of writer goroutines (env: BUFLOAD_WRITERS)")

	flag.IntVar(&cfg.Readers, "readers",
		getEnvInt("BUFLOAD_READERS", 2),
		"Number of reader goroutines (env: BUFLOAD_READERS)")

	flag.IntVar(&cfg.Count, "count",
		getEnvInt("BUFLOAD_COUNT", 10),
		"Values each writer produces (env: BUFLOAD_COUNT)")

	flag.StringVar(&cfg.Mode, "mode",
		getEnv("BUFLOAD_MODE", "pattern"),
		"Payload mode: pattern (sequential), random (env: BUFLOAD_MODE)")

	flag.DurationVar(&cfg.WriteInterval, "write-interval",
		getEnvDuration("BUFLOAD_WRITE_INTERVAL", 500*time.Millisecond),
		"Delay between writes (env: BUFLOAD_WRITE_INTERVAL)")

	flag.BoolVar(&cfg.Backpressure, "backpressure",
		getEnvBool("BUFLOAD_BACKPRESSURE", false),
		"Poll until the buffer has room instead of overwriting (env: BUFLOAD_BACKPRESSURE)")

	flag.IntVar(&cfg.MetricsPort, "metrics-port",
		getEnvInt("BUFLOAD_METRICS_PORT", 0),
		"Prometheus metrics port, 0 to disable (env: BUFLOAD_METRICS_PORT)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("BUFLOAD_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: BUFLOAD_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("BUFLOAD_LOG_FORMAT", "text"),
		"Log format: json, text (env: BUFLOAD_LOG_FORMAT)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")

	// Custom usage
	flag.Usage = func() {
		printDetailedHelp()
	}

	flag.Parse()

	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if cfg.Capacity < 1 {
		return fmt.Errorf("invalid capacity: %d", cfg.Capacity)
	}

	if cfg.Writers < 1 || cfg.Readers < 1 {
		return fmt.Errorf("need at least one writer and one reader, got %d/%d",
			cfg.Writers, cfg.Readers)
	}

	if cfg.Count < 1 {
		return fmt.Errorf("invalid count: %d", cfg.Count)
	}

	validStrategies := []string{"guard_slot", "full_flag"}
	if !contains(validStrategies, cfg.Strategy) {
		return fmt.Errorf("invalid strategy: %s", cfg.Strategy)
	}

	validModes := []string{"pattern", "random"}
	if !contains(validModes, cfg.Mode) {
		return fmt.Errorf("invalid mode: %s", cfg.Mode)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	if cfg.MetricsPort < 0 || cfg.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", cfg.MetricsPort)
	}

	return nil
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - StreamKit buffer load generator

Usage: %s [options]

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Two writers and two readers over a 666-slot buffer
  %s

  # Small buffer, sustained overwrites, watch the drop counters
  %s --capacity=8 --count=1000 --write-interval=0s

  # Compare strategies under the same load
  %s --strategy=full_flag --mode=random

  # Writers poll for room instead of overwriting
  %s --backpressure --metrics-port=9090

Version: %s
Build: %s
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Utility function to check if slice contains string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
