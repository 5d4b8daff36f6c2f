package tui

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/primepipe/internal/config"
	apperrors "github.com/agbru/primepipe/internal/errors"
	"github.com/agbru/primepipe/internal/orchestration"
	"github.com/agbru/primepipe/internal/sieve"
	"github.com/agbru/primepipe/internal/strategy"
	"github.com/agbru/primepipe/internal/sysmon"
)

// Layout constants for the dashboard.
const (
	headerHeight           = 1
	footerHeight           = 1
	minBodyHeight          = 8
	strategiesWidthPercent = 55
	metricsPanelHeight     = 7
	tickInterval           = 500 * time.Millisecond
)

// runState holds the fields tied to one execution of the strategies.
type runState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	exitCode   int
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header     HeaderModel
	strategies StrategiesModel
	metrics    MetricsModel
	chart      ChartModel
	footer     FooterModel
	keymap     KeyMap

	runState

	impls     []strategy.Strategy
	rng       sieve.Range
	opts      strategy.Options
	cfg       config.AppConfig
	parentCtx context.Context
	ref       *programRef
	paused    bool
	width     int
	height    int
}

// NewModel creates the dashboard for strategies over the configured range.
func NewModel(parentCtx context.Context, strategies []strategy.Strategy, cfg config.AppConfig, version string) Model {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name()
	}
	rng := sieve.Range{Lo: cfg.Lo, Hi: cfg.Hi}
	keys := DefaultKeyMap()
	ctx, cancel := context.WithCancel(parentCtx)

	return Model{
		header:     NewHeaderModel(version, rng, cfg.Workers),
		strategies: NewStrategiesModel(names),
		metrics:    NewMetricsModel(rng.Len()),
		chart:      NewChartModel(),
		footer:     NewFooterModel(keys),
		keymap:     keys,
		runState:   runState{ctx: ctx, cancel: cancel, exitCode: apperrors.ExitSuccess},
		impls:      strategies,
		rng:        rng,
		opts:       strategy.Options{Workers: cfg.Workers, QueueDepth: cfg.QueueDepth, Sorted: cfg.Sorted},
		cfg:        cfg,
		parentCtx:  parentCtx,
		ref:        &programRef{},
	}
}

// ExitCode returns the exit code of the last finished run.
func (m Model) ExitCode() int { return m.exitCode }

// Init starts the first run and the sampling ticker.
func (m Model) Init() tea.Cmd {
	return m.startCmds()
}

func (m Model) startCmds() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startRunCmd(m.ref, m.ctx, m.impls, m.rng, m.opts, m.cfg, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles every incoming message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layoutPanels()
		return m, nil

	case ProgressMsg:
		if !m.paused {
			m.strategies.SetProgress(msg.Index, msg.Value)
			m.chart.AddProgress(msg.AverageProgress, msg.ETA)
			m.metrics.UpdateProgress(msg.AverageProgress, m.header.Elapsed())
		}
		return m, nil

	case ComparisonResultsMsg:
		m.strategies.SetResults(msg.Results)
		return m, nil

	case FinalResultMsg:
		m.strategies.SetWinner(msg.Result.Name)
		m.metrics.SetResult(msg.Result)
		return m, nil

	case ErrorMsg:
		m.footer.SetError(true)
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(m.ctx), tickCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.chart.UpdateSysStats(msg.CPUPercent, msg.MemPercent)
		return m, nil

	case RunCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.header.SetDone()
		m.chart.SetDone(m.header.Elapsed())
		m.footer.SetDone(true)
		if msg.ExitCode != apperrors.ExitSuccess {
			m.footer.SetError(true)
		}
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		if !m.done {
			m.exitCode = apperrors.ExitErrorCanceled
		}
		m.done = true
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		m.cancel()
		m.generation++
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)
		m.done, m.paused = false, false
		m.exitCode = apperrors.ExitSuccess
		m.header.Reset()
		m.strategies.Reset()
		m.chart.Reset()
		m.metrics = NewMetricsModel(m.rng.Len())
		m.footer.SetDone(false)
		m.footer.SetError(false)
		m.footer.SetPaused(false)
		m.layoutPanels()
		return m, m.startCmds()

	case key.Matches(msg, m.keymap.Up):
		m.strategies.MoveUp()
	case key.Matches(msg, m.keymap.Down):
		m.strategies.MoveDown()
	case key.Matches(msg, m.keymap.Help):
		m.footer.ToggleHelp()
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	right := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.chart.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.strategies.View(), right)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	body := max(m.height-headerHeight-footerHeight, minBodyHeight)
	left := m.width * strategiesWidthPercent / 100
	right := m.width - left
	metricsHeight := min(metricsPanelHeight, body/2)

	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.strategies.SetSize(left, body)
	m.metrics.SetSize(right, metricsHeight)
	m.chart.SetSize(right, body-metricsHeight)
}

// Run starts the dashboard, blocks until the user quits or ctx ends, and
// returns the exit code of the last run.
func Run(ctx context.Context, strategies []strategy.Strategy, cfg config.AppConfig, version string) int {
	initTUIStyles()

	model := NewModel(ctx, strategies, cfg, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.ref.SetProgram(p)

	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return apperrors.ExitErrorCanceled
		}
		return apperrors.ExitErrorGeneric
	}
	if m, ok := final.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startRunCmd runs every strategy and reports through the bridge.
func startRunCmd(sender messageSender, ctx context.Context, strategies []strategy.Strategy, rng sieve.Range, opts strategy.Options, cfg config.AppConfig, gen uint64) tea.Cmd {
	return func() tea.Msg {
		reporter := &TUIProgressReporter{sender: sender}
		presenter := &TUIResultPresenter{sender: sender}

		results := orchestration.ExecuteStrategies(ctx, strategies, rng, opts, reporter, io.Discard)
		presOpts := orchestration.PresentationOptions{
			Range:      rng,
			Workers:    opts.Workers,
			Verbose:    cfg.Verbose,
			ShowPrimes: cfg.ShowPrimes,
		}
		code := orchestration.AnalyzeComparisonResults(results, presOpts, presenter, presenter, io.Discard)
		return RunCompleteMsg{ExitCode: code, Generation: gen}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return MemStatsMsg{
			Alloc:        ms.Alloc,
			HeapSys:      ms.HeapSys,
			NumGC:        ms.NumGC,
			PauseTotalNs: ms.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

func sampleSysStatsCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		s := sysmon.SampleContext(ctx)
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}

// watchContextCmd reports the end of the run context of gen.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
