package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders the status indicator and key help.
type FooterModel struct {
	help    help.Model
	keys    KeyMap
	paused  bool
	done    bool
	failed  bool
	showAll bool
	width   int
}

// NewFooterModel creates a footer for keys.
func NewFooterModel(keys KeyMap) FooterModel {
	h := help.New()
	h.Styles.ShortKey = accentStyle
	h.Styles.ShortDesc = dimStyle
	h.Styles.FullKey = accentStyle
	h.Styles.FullDesc = dimStyle
	return FooterModel{help: h, keys: keys}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = w
}

// SetPaused sets the paused indicator.
func (f *FooterModel) SetPaused(p bool) { f.paused = p }

// SetDone sets the completion indicator.
func (f *FooterModel) SetDone(d bool) { f.done = d }

// SetError sets the failure indicator.
func (f *FooterModel) SetError(e bool) { f.failed = e }

// ToggleHelp switches between short and full help.
func (f *FooterModel) ToggleHelp() {
	f.showAll = !f.showAll
	f.help.ShowAll = f.showAll
}

// Status returns the plain status label.
func (f FooterModel) Status() string {
	switch {
	case f.failed:
		return "ERROR"
	case f.done:
		return "DONE"
	case f.paused:
		return "PAUSED"
	default:
		return "RUNNING"
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	var status string
	switch f.Status() {
	case "ERROR":
		status = statusErrorStyle.Render(" ERROR ")
	case "DONE":
		status = statusDoneStyle.Render(" DONE ")
	case "PAUSED":
		status = statusPausedStyle.Render(" PAUSED ")
	default:
		status = statusRunningStyle.Render(" RUNNING ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, status, " ", f.help.View(f.keys))
}
