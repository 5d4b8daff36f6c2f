package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/primepipe/internal/format"
	"github.com/agbru/primepipe/internal/orchestration"
)

// MetricsModel shows runtime memory, throughput and the verified result.
type MetricsModel struct {
	alloc        uint64
	heapSys      uint64
	numGC        uint32
	pauseTotalNs uint64
	numGoroutine int

	candidates uint64
	progress   float64
	elapsed    time.Duration

	result *orchestration.RunResult
	width  int
	height int
}

// NewMetricsModel creates a metrics panel for a range of candidates values.
func NewMetricsModel(candidates uint64) MetricsModel {
	return MetricsModel{candidates: candidates}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateMemStats stores a runtime memory sample.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.heapSys = msg.HeapSys
	m.numGC = msg.NumGC
	m.pauseTotalNs = msg.PauseTotalNs
	m.numGoroutine = msg.NumGoroutine
}

// UpdateProgress records the average progress reached after elapsed.
func (m *MetricsModel) UpdateProgress(progress float64, elapsed time.Duration) {
	m.progress = min(max(progress, 0), 1)
	m.elapsed = elapsed
}

// SetResult stores the verified result.
func (m *MetricsModel) SetResult(res orchestration.RunResult) {
	m.result = &res
}

// Throughput returns the candidates tested so far, per strategy, and the
// formatted rate.
func (m MetricsModel) Throughput() (uint64, string) {
	done := uint64(m.progress * float64(m.candidates))
	return done, format.FormatRate(done, m.elapsed)
}

// View renders the panel.
func (m MetricsModel) View() string {
	var b strings.Builder
	pipe := metricLabelStyle.Render(" | ")
	b.WriteString(fmt.Sprintf("  %s %s%s%s %s",
		metricLabelStyle.Render("Heap:"),
		metricValueStyle.Render(formatBytes(m.alloc)+" / "+formatBytes(m.heapSys)),
		pipe,
		metricLabelStyle.Render("GC:"),
		metricValueStyle.Render(fmt.Sprintf("%d (%.1fms)", m.numGC, float64(m.pauseTotalNs)/1e6))))

	colWidth := max((m.width-6)/2, 20)
	done, rate := m.Throughput()
	left := []string{
		metricCell("Tested:", format.FormatCount(done), colWidth),
		metricCell("Rate:", rate, colWidth),
	}
	right := []string{
		metricCell("Goroutines:", fmt.Sprintf("%d", m.numGoroutine), colWidth),
		metricCell("Range size:", format.FormatCount(m.candidates), colWidth),
	}
	if m.result != nil {
		first, last := "-", "-"
		if n := len(m.result.Primes); n > 0 {
			lo, hi := m.result.Primes[0], m.result.Primes[0]
			for _, p := range m.result.Primes {
				lo, hi = min(lo, p), max(hi, p)
			}
			first, last = fmt.Sprintf("%d", lo), fmt.Sprintf("%d", hi)
		}
		left = append(left,
			metricCell("Primes:", format.FormatCount(uint64(len(m.result.Primes))), colWidth),
			metricCell("Smallest:", first, colWidth))
		right = append(right,
			metricCell("Winner:", m.result.Name, colWidth),
			metricCell("Largest:", last, colWidth))
	}
	for i := range left {
		b.WriteString("\n")
		b.WriteString(left[i])
		b.WriteString(right[i])
	}

	return panelStyle.Width(max(m.width-2, 0)).Height(max(m.height-2, 0)).Render(b.String())
}

func metricCell(label, value string, colWidth int) string {
	cell := " " + metricLabelStyle.Render(fmt.Sprintf("%-12s", label)) + " " + metricValueStyle.Render(value)
	if w := lipgloss.Width(cell); w < colWidth {
		cell += strings.Repeat(" ", colWidth-w)
	}
	return cell
}

func formatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
