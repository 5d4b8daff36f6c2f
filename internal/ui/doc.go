// Package ui holds the color themes shared by the CLI and the TUI.
package ui
