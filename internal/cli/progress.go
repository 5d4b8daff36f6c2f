package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/primepipe/internal/format"
	"github.com/agbru/primepipe/internal/orchestration"
	"github.com/agbru/primepipe/internal/progress"
	"github.com/agbru/primepipe/internal/ui"
)

// DisplayProgress shows a spinner with an aggregated progress bar and ETA
// until progressChan is closed, then prints the final bar on its own line.
// It calls wg.Done on return.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numStrategies int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numStrategies)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	label := "Scanning"
	if agg.IsMultiStrategy() {
		label = fmt.Sprintf("Comparing %d strategies", agg.NumStrategies())
	}

	s := newSpinner(spinner.WithWriter(out))
	render := func(avg float64, eta time.Duration) {
		s.UpdateSuffix(fmt.Sprintf(" %s %s", label, format.FormatProgressBarWithETA(avg, eta, ProgressBarWidth)))
	}
	render(0, 0)
	s.Start()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				fmt.Fprintf(out, "%s%s [%s] %.1f%%%s\n", ui.ColorGreen(), label,
					format.ProgressBar(agg.CalculateAverage(), ProgressBarWidth),
					agg.CalculateAverage()*100, ui.ColorReset())
				return
			}
			p := agg.Update(update)
			render(p.AverageProgress, p.ETA)
		case <-ticker.C:
			render(agg.CalculateAverage(), agg.GetETA())
		}
	}
}
