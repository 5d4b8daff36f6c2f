package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/primepipe/internal/errors"
	"github.com/agbru/primepipe/internal/format"
	"github.com/agbru/primepipe/internal/orchestration"
	"github.com/agbru/primepipe/internal/progress"
)

// messageSender delivers messages to the running program.
type messageSender interface {
	Send(msg tea.Msg)
}

// programRef is a shared reference to the tea.Program. bubbletea copies
// the model on every Update, so bridge goroutines hold this pointer
// instead of the model.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the program reference.
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program. It is a no-op before SetProgram.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements orchestration.ProgressReporter by turning
// progress updates into ProgressMsg values.
type TUIProgressReporter struct {
	sender messageSender
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains progressChan, then sends ProgressDoneMsg.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numStrategies int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(numStrategies)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	for update := range progressChan {
		ap := agg.Update(update)
		t.sender.Send(ProgressMsg{
			Index:           ap.Index,
			Value:           ap.Value,
			AverageProgress: ap.AverageProgress,
			ETA:             ap.ETA,
		})
	}
	t.sender.Send(ProgressDoneMsg{})
}

// TUIResultPresenter implements the orchestration presentation interfaces
// by sending result messages instead of writing to a terminal.
type TUIResultPresenter struct {
	sender messageSender
}

var (
	_ orchestration.ResultPresenter   = (*TUIResultPresenter)(nil)
	_ orchestration.DurationFormatter = (*TUIResultPresenter)(nil)
	_ orchestration.ErrorHandler      = (*TUIResultPresenter)(nil)
)

// PresentComparisonTable sends ComparisonResultsMsg.
func (t *TUIResultPresenter) PresentComparisonTable(results []orchestration.RunResult, _ io.Writer) {
	t.sender.Send(ComparisonResultsMsg{Results: results})
}

// PresentResult sends FinalResultMsg.
func (t *TUIResultPresenter) PresentResult(result orchestration.RunResult, opts orchestration.PresentationOptions, _ io.Writer) {
	t.sender.Send(FinalResultMsg{Result: result, Options: opts})
}

// FormatDuration delegates to format.FormatExecutionDuration.
func (t *TUIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError sends ErrorMsg and returns the exit code matching err.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	t.sender.Send(ErrorMsg{Err: err, Duration: duration})
	return apperrors.HandleRunError(err, duration, io.Discard, nil)
}
