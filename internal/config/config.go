// Package config defines the application configuration and its parsing from
// command-line flags and PRIMEPIPE_* environment variables.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/primepipe/internal/errors"
)

// EnvPrefix is the prefix shared by every environment variable override.
const EnvPrefix = "PRIMEPIPE_"

// Defaults used when neither a flag nor an environment variable is set.
const (
	DefaultLo       uint64 = 100_000_000
	DefaultHi       uint64 = 100_050_000
	DefaultStrategy        = "queue"
	DefaultTimeout         = 5 * time.Minute
	DefaultAddr            = ":8080"
	DefaultSamples  uint64 = 10_000_000
	// AllStrategies selects every registered strategy for a comparison run.
	AllStrategies = "all"
)

// Kernels lists the accepted values of the -kernel flag.
var Kernels = []string{"pi", "sum"}

// Shells lists the accepted values of the -completion flag.
var Shells = []string{"bash", "zsh", "fish"}

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Lo is the inclusive lower bound of the candidate range.
	Lo uint64
	// Hi is the exclusive upper bound of the candidate range.
	Hi uint64
	// Workers is the number of pipeline workers; 0 means adaptive.
	Workers int
	// QueueDepth is the capacity of the work and result queues; 0 means adaptive.
	QueueDepth int
	// Strategy is the strategy name, or "all" for a comparison run.
	Strategy string
	// Timeout bounds the whole run.
	Timeout time.Duration

	Sorted     bool
	ShowPrimes bool
	Quiet      bool
	Verbose    bool
	OutputFile string

	Calibrate          bool
	AutoCalibrate      bool
	CalibrationProfile string

	// Kernel selects a numeric kernel benchmark instead of a prime run.
	Kernel  string
	Samples uint64

	TUI         bool
	Interactive bool
	Serve       bool
	Addr        string
	// Completion names a shell whose completion script is printed.
	Completion string

	LogLevel string
	NoColor  bool
}

// ParseConfig parses the command-line arguments into an AppConfig, applies
// environment overrides for flags that were not set explicitly, and
// validates the result.
//
// Parameters:
//   - programName: Name used in usage output.
//   - args: Arguments without the program name.
//   - errorWriter: Destination for usage and parse errors.
//   - availableStrategies: Names accepted by -strategy (besides "all").
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp when -h was requested, or a ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableStrategies []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	fs.Uint64Var(&config.Lo, "lo", DefaultLo, "Inclusive lower bound of the candidate range.")
	fs.Uint64Var(&config.Hi, "hi", DefaultHi, "Exclusive upper bound of the candidate range.")
	fs.IntVar(&config.Workers, "workers", 0, "Number of workers (0 = number of logical CPUs).")
	fs.IntVar(&config.Workers, "w", 0, "Shorthand for -workers.")
	fs.IntVar(&config.QueueDepth, "queue-depth", 0, "Capacity of the work and result queues (0 = adaptive).")
	fs.StringVar(&config.Strategy, "strategy", DefaultStrategy,
		fmt.Sprintf("Strategy to run (%s, or %q).", strings.Join(availableStrategies, ", "), AllStrategies))
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time.")
	fs.BoolVar(&config.Sorted, "sorted", false, "Sort primes ascending before output.")
	fs.BoolVar(&config.ShowPrimes, "primes", false, "Print every prime found.")
	fs.BoolVar(&config.ShowPrimes, "p", false, "Shorthand for -primes.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only the result.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for -quiet.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Show per-worker statistics.")
	fs.BoolVar(&config.Verbose, "v", false, "Shorthand for -verbose.")
	fs.StringVar(&config.OutputFile, "output", "", "Write the primes to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Shorthand for -output.")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Sweep worker counts and report speed-ups.")
	fs.BoolVar(&config.AutoCalibrate, "auto-calibrate", false, "Run a quick sweep and use the fastest worker count.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Path of the cached calibration profile.")
	fs.StringVar(&config.Kernel, "kernel", "", fmt.Sprintf("Run a numeric kernel benchmark (%s).", strings.Join(Kernels, ", ")))
	fs.Uint64Var(&config.Samples, "samples", DefaultSamples, "Sample count for the kernel benchmark.")
	fs.BoolVar(&config.TUI, "tui", false, "Launch the interactive dashboard.")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start the interactive prompt.")
	fs.BoolVar(&config.Interactive, "i", false, "Shorthand for -interactive.")
	fs.StringVar(&config.Completion, "completion", "", fmt.Sprintf("Print a completion script (%s).", strings.Join(Shells, ", ")))
	fs.BoolVar(&config.Serve, "serve", false, "Run the HTTP server.")
	fs.StringVar(&config.Addr, "addr", DefaultAddr, "Listen address for -serve.")
	fs.StringVar(&config.LogLevel, "log-level", "info", "Log level (debug, info, warn, error).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&config, fs)

	if err := config.Validate(availableStrategies); err != nil {
		fmt.Fprintln(errorWriter, "Error:", err)
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks semantic constraints that flag parsing cannot express.
func (c AppConfig) Validate(availableStrategies []string) error {
	if c.Lo == 0 {
		return apperrors.NewConfigError("-lo must be at least 1")
	}
	if c.Hi <= c.Lo {
		return apperrors.NewConfigError("-hi (%d) must be greater than -lo (%d)", c.Hi, c.Lo)
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("-workers must not be negative, got %d", c.Workers)
	}
	if c.QueueDepth < 0 {
		return apperrors.NewConfigError("-queue-depth must not be negative, got %d", c.QueueDepth)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("-timeout must be positive, got %s", c.Timeout)
	}
	if c.Strategy != AllStrategies && !slices.Contains(availableStrategies, c.Strategy) {
		return apperrors.NewConfigError("unknown strategy %q (available: %s, %s)",
			c.Strategy, strings.Join(availableStrategies, ", "), AllStrategies)
	}
	if c.Completion != "" && !slices.Contains(Shells, c.Completion) {
		return apperrors.NewConfigError("unsupported shell %q (available: %s)", c.Completion, strings.Join(Shells, ", "))
	}
	if c.Kernel != "" {
		if !slices.Contains(Kernels, c.Kernel) {
			return apperrors.NewConfigError("unknown kernel %q (available: %s)", c.Kernel, strings.Join(Kernels, ", "))
		}
		if c.Samples == 0 {
			return apperrors.NewConfigError("-samples must be positive")
		}
	}
	return nil
}

// RangeLen returns the number of candidates in [Lo, Hi).
func (c AppConfig) RangeLen() uint64 {
	return c.Hi - c.Lo
}
