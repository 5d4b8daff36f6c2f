package orchestration

import (
	"time"

	"github.com/agbru/primepipe/internal/format"
	"github.com/agbru/primepipe/internal/progress"
)

// ProgressAggregator turns per-strategy updates into an average progress
// and an ETA. Both the CLI and the TUI consume updates through it.
type ProgressAggregator struct {
	state         *format.ProgressWithETA
	numStrategies int
}

// NewProgressAggregator tracks numStrategies strategies. It returns nil
// when numStrategies <= 0.
func NewProgressAggregator(numStrategies int) *ProgressAggregator {
	if numStrategies <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:         format.NewProgressWithETA(numStrategies),
		numStrategies: numStrategies,
	}
}

// AggregatedProgress is the result of processing one update.
type AggregatedProgress struct {
	// Index is the strategy that sent the update.
	Index int
	// Value is the raw progress of that strategy.
	Value float64
	// AverageProgress is the mean over all strategies.
	AverageProgress float64
	// ETA is the smoothed remaining-time estimate.
	ETA time.Duration
}

// Update processes one update.
func (a *ProgressAggregator) Update(update progress.ProgressUpdate) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(update.Index, update.Value)
	return AggregatedProgress{
		Index:           update.Index,
		Value:           update.Value,
		AverageProgress: avg,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average without updating, for
// periodic refreshes between updates.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumStrategies returns the number of tracked strategies.
func (a *ProgressAggregator) NumStrategies() int {
	return a.numStrategies
}

// IsMultiStrategy reports whether more than one strategy is tracked.
func (a *ProgressAggregator) IsMultiStrategy() bool {
	return a.numStrategies > 1
}

// DrainChannel discards every update until the channel is closed.
func DrainChannel(progressChan <-chan progress.ProgressUpdate) {
	for range progressChan {
	}
}
