// Package format renders durations, counts, progress bars and ETAs for the
// CLI and the TUI.
package format
