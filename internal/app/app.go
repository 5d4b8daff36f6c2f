package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/primepipe/internal/calibration"
	"github.com/agbru/primepipe/internal/cli"
	"github.com/agbru/primepipe/internal/config"
	apperrors "github.com/agbru/primepipe/internal/errors"
	"github.com/agbru/primepipe/internal/logging"
	"github.com/agbru/primepipe/internal/orchestration"
	"github.com/agbru/primepipe/internal/server"
	"github.com/agbru/primepipe/internal/strategy"
	"github.com/agbru/primepipe/internal/tui"
	"github.com/agbru/primepipe/internal/ui"
)

// Application represents the primepipe application instance.
type Application struct {
	Config    config.AppConfig
	Factory   strategy.Factory
	ErrWriter io.Writer
	// In feeds the interactive prompt. It defaults to os.Stdin.
	In io.Reader
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom strategy factory.
func WithFactory(f strategy.Factory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// WithInput sets the reader used by the interactive prompt.
func WithInput(in io.Reader) AppOption {
	return func(a *Application) { a.In = in }
}

// New creates an Application by parsing args, where args[0] is the program
// name. Workers and queue depth left unset are resolved from the cached
// calibration profile, then from the hardware.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = strategy.NewDefaultFactory()
	}

	programName := "primepipe"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List())
	if err != nil {
		return nil, err
	}

	if cached, ok := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); ok {
		cfg = cached
	}
	app.Config = config.ApplyAdaptiveDefaults(cfg)
	return app, nil
}

// Run executes the mode selected by the configuration and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	logging.SetGlobalLevel(a.Config.LogLevel)
	ui.InitTheme(a.Config.NoColor)

	switch {
	case a.Config.Calibrate:
		return a.runCalibration(ctx, out)
	case a.Config.Serve:
		return a.runServer(ctx)
	case a.Config.Interactive:
		return a.runInteractive(out)
	case a.Config.Kernel != "":
		return a.runKernel(ctx, out)
	}

	a.Config = a.runAutoCalibrationIfEnabled(ctx, out)

	if a.Config.TUI {
		return a.runTUI(ctx)
	}
	return a.runCalculate(ctx, out)
}

// lifecycle bounds ctx by the configured timeout and by SIGINT/SIGTERM.
func (a *Application) lifecycle(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stopSignals()
		cancelTimeout()
	}
}

// logger returns a component logger on the error stream, or a no-op
// logger unless verbose output or debug logging was requested.
func (a *Application) logger(component string) logging.Logger {
	if !a.Config.Verbose && a.Config.LogLevel != "debug" {
		return logging.Nop()
	}
	return logging.NewLogger(a.ErrWriter, component)
}

func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// calibrationStrategy returns the queue pipeline, the strategy whose
// worker count the calibration tunes.
func (a *Application) calibrationStrategy() (strategy.Strategy, error) {
	return a.Factory.Get(config.DefaultStrategy)
}

func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	s, err := a.calibrationStrategy()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return calibration.RunCalibration(ctx, out, s, cli.CLIProgressReporter{}, a.Config.CalibrationProfile)
}

func (a *Application) runAutoCalibrationIfEnabled(ctx context.Context, out io.Writer) config.AppConfig {
	if !a.Config.AutoCalibrate {
		return a.Config
	}
	s, err := a.calibrationStrategy()
	if err != nil {
		return a.Config
	}
	if updated, ok := calibration.AutoCalibrate(ctx, a.Config, out, s); ok {
		updated.QueueDepth = config.EstimateQueueDepth(updated.Workers)
		return updated
	}
	return a.Config
}

func (a *Application) runTUI(ctx context.Context) int {
	ctx, cancel := a.lifecycle(ctx)
	defer cancel()
	return tui.Run(ctx, orchestration.GetStrategiesToRun(a.Config.Strategy, a.Factory), a.Config, Version)
}

func (a *Application) runInteractive(out io.Writer) int {
	repl := cli.NewREPL(a.Factory, cli.REPLConfig{
		DefaultStrategy: a.Config.Strategy,
		Timeout:         a.Config.Timeout,
		Workers:         a.Config.Workers,
		QueueDepth:      a.Config.QueueDepth,
		ShowPrimes:      a.Config.ShowPrimes,
	})
	repl.SetInput(a.In)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

func (a *Application) runServer(ctx context.Context) int {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logging.NewLogger(a.ErrWriter, "server")
	srv := server.New(server.Config{
		Addr:           a.Config.Addr,
		RequestTimeout: a.Config.Timeout,
		DefaultWorkers: a.Config.Workers,
		Security:       server.DefaultSecurityConfig(),
	}, a.Factory, logger)

	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server stopped", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// IsHelpError reports whether err comes from -h or -help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
