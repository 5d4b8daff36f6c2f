package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/primepipe/internal/format"
	"github.com/agbru/primepipe/internal/orchestration"
)

type rowStatus int

const (
	rowRunning rowStatus = iota
	rowDone
	rowFailed
)

// strategyRow is the dashboard state of one strategy.
type strategyRow struct {
	name     string
	progress float64
	status   rowStatus
	duration time.Duration
	primes   int
	err      error
}

// StrategiesModel is the per-strategy progress table.
type StrategiesModel struct {
	rows   []strategyRow
	cursor int
	winner string
	width  int
	height int
}

// NewStrategiesModel creates one running row per strategy name.
func NewStrategiesModel(names []string) StrategiesModel {
	rows := make([]strategyRow, len(names))
	for i, n := range names {
		rows[i] = strategyRow{name: n}
	}
	return StrategiesModel{rows: rows}
}

// SetSize updates dimensions.
func (s *StrategiesModel) SetSize(w, h int) {
	s.width = w
	s.height = h
}

// SetProgress records progress for the strategy at index.
func (s *StrategiesModel) SetProgress(index int, value float64) {
	if index < 0 || index >= len(s.rows) {
		return
	}
	if s.rows[index].status == rowRunning {
		s.rows[index].progress = min(max(value, 0), 1)
	}
}

// SetResults marks rows done or failed from the comparison results.
func (s *StrategiesModel) SetResults(results []orchestration.RunResult) {
	for _, res := range results {
		for i := range s.rows {
			if s.rows[i].name != res.Name {
				continue
			}
			r := &s.rows[i]
			r.duration = res.Duration
			r.err = res.Err
			if res.Err != nil {
				r.status = rowFailed
				continue
			}
			r.status = rowDone
			r.progress = 1
			r.primes = len(res.Primes)
		}
	}
}

// SetWinner marks the strategy whose result was presented.
func (s *StrategiesModel) SetWinner(name string) { s.winner = name }

// MoveUp moves the cursor one row up.
func (s *StrategiesModel) MoveUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// MoveDown moves the cursor one row down.
func (s *StrategiesModel) MoveDown() {
	if s.cursor < len(s.rows)-1 {
		s.cursor++
	}
}

// Reset puts every row back to running.
func (s *StrategiesModel) Reset() {
	for i := range s.rows {
		s.rows[i] = strategyRow{name: s.rows[i].name}
	}
	s.winner = ""
}

// View renders the table.
func (s StrategiesModel) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Strategies"))
	barWidth := max(s.width-52, 10)

	for i, r := range s.rows {
		b.WriteString("\n")
		marker := "  "
		name := strategyNameStyle.Render(fmt.Sprintf("%-12s", truncateString(r.name, 12)))
		if i == s.cursor {
			marker = "► "
			name = selectedRowStyle.Render(fmt.Sprintf("%-12s", truncateString(r.name, 12)))
		}
		b.WriteString(marker)
		b.WriteString(name)
		b.WriteString(" ")
		b.WriteString(renderProgressBar(r.progress, barWidth))
		b.WriteString(fmt.Sprintf(" %5.1f%% ", r.progress*100))
		b.WriteString(r.statusLabel(s.winner))
		if r.status != rowRunning {
			b.WriteString(dimStyle.Render("  " + format.FormatExecutionDuration(r.duration)))
		}
		if r.status == rowDone {
			b.WriteString(metricValueStyle.Render(fmt.Sprintf("  %d primes", r.primes)))
		}
	}
	if sel := s.selected(); sel != nil && sel.err != nil {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(truncateString(sel.err.Error(), max(s.width-4, 20))))
	}

	return panelStyle.Width(max(s.width-2, 0)).Height(max(s.height-2, 0)).Render(b.String())
}

func (s StrategiesModel) selected() *strategyRow {
	if s.cursor < len(s.rows) {
		return &s.rows[s.cursor]
	}
	return nil
}

func (r strategyRow) statusLabel(winner string) string {
	switch {
	case r.status == rowFailed:
		return statusErrorStyle.Render("FAILED ")
	case r.status == rowDone && r.name == winner:
		return successStyle.Render("FASTEST")
	case r.status == rowDone:
		return statusDoneStyle.Render("DONE   ")
	default:
		return statusRunningStyle.Render("RUNNING")
	}
}

// renderProgressBar draws a bar of width cells filled to progress (0..1).
func renderProgressBar(progress float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(min(max(progress, 0), 1) * float64(width))
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// truncateString cuts s to limit runes, ending with an ellipsis.
func truncateString(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return string(r[:limit])
	}
	return string(r[:limit-1]) + "…"
}
