package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/primepipe/internal/format"
)

// sparkHistory is the number of system samples kept for the sparklines.
const sparkHistory = 120

// ChartModel shows the overall progress with ETA and CPU/MEM history.
type ChartModel struct {
	average float64
	eta     time.Duration
	total   time.Duration
	done    bool
	cpu     *RingBuffer
	mem     *RingBuffer
	width   int
	height  int
}

// NewChartModel creates an empty chart panel.
func NewChartModel() ChartModel {
	return ChartModel{cpu: NewRingBuffer(sparkHistory), mem: NewRingBuffer(sparkHistory)}
}

// SetSize updates dimensions.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
}

// AddProgress stores the latest aggregated progress.
func (c *ChartModel) AddProgress(average float64, eta time.Duration) {
	c.average = min(max(average, 0), 1)
	c.eta = eta
}

// UpdateSysStats appends one system sample.
func (c *ChartModel) UpdateSysStats(cpuPercent, memPercent float64) {
	c.cpu.Push(cpuPercent)
	c.mem.Push(memPercent)
}

// SetDone freezes the panel with the total run time.
func (c *ChartModel) SetDone(total time.Duration) {
	c.done = true
	c.total = total
	c.average = 1
}

// Reset clears progress and history.
func (c *ChartModel) Reset() {
	c.average, c.eta, c.total, c.done = 0, 0, 0, false
	c.cpu.Reset()
	c.mem.Reset()
}

// View renders the panel.
func (c ChartModel) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Progress"))
	b.WriteString("\n  ")
	barWidth := max(c.width-30, 10)
	b.WriteString(renderProgressBar(c.average, barWidth))
	b.WriteString(fmt.Sprintf(" %5.1f%%", c.average*100))
	if c.done {
		b.WriteString(dimStyle.Render("  done in " + format.FormatExecutionDuration(c.total)))
	} else {
		b.WriteString(dimStyle.Render("  ETA " + format.FormatETA(c.eta)))
	}

	sparkWidth := max(c.width-22, 10)
	b.WriteString("\n\n  ")
	b.WriteString(metricLabelStyle.Render(fmt.Sprintf("CPU %5.1f%% ", c.cpu.Last())))
	b.WriteString(cpuSparklineStyle.Render(RenderSparkline(c.cpu.Values(), sparkWidth)))
	b.WriteString("\n  ")
	b.WriteString(metricLabelStyle.Render(fmt.Sprintf("MEM %5.1f%% ", c.mem.Last())))
	b.WriteString(memSparklineStyle.Render(RenderSparkline(c.mem.Values(), sparkWidth)))
	if peak := c.cpu.Peak(); peak > 0 {
		b.WriteString("\n  ")
		b.WriteString(dimStyle.Render(fmt.Sprintf("peak CPU %.1f%%", peak)))
	}

	return panelStyle.Width(max(c.width-2, 0)).Height(max(c.height-2, 0)).Render(b.String())
}
