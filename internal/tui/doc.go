// Package tui implements the interactive dashboard shown with -tui.
//
// The dashboard runs the selected strategies through the orchestration
// layer and renders their progress, per-strategy status, runtime memory
// figures and CPU/memory sparklines. Strategy goroutines talk to the
// bubbletea program only through messages sent by the bridge types.
package tui
