package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/primepipe/internal/format"
	"github.com/agbru/primepipe/internal/sieve"
)

// HeaderModel renders the top bar: title, version, range and elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	rng       sieve.Range
	workers   int
	width     int
}

// NewHeaderModel creates a header whose timer starts now.
func NewHeaderModel(version string, rng sieve.Range, workers int) HeaderModel {
	return HeaderModel{startTime: time.Now(), version: version, rng: rng, workers: workers}
}

// SetDone freezes the elapsed timer.
func (h *HeaderModel) SetDone() { h.endTime = time.Now() }

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) { h.width = w }

// Elapsed returns the running or frozen elapsed time.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "primepipe monitor"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := dimStyle.Render(" | ")
	row := titleStyle.Render(titleText) + pipe +
		accentStyle.Render(fmt.Sprintf("%s × %d workers", h.rng, h.workers)) + pipe +
		accentStyle.Render("Elapsed: "+format.FormatExecutionDuration(h.Elapsed()))

	if gap := h.width - 2 - lipgloss.Width(row); gap > 0 {
		row += spaces(gap)
	}
	return headerStyle.Render(row)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("%*s", n, "")
}
