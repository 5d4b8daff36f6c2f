package tui

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/primepipe/internal/config"
	apperrors "github.com/agbru/primepipe/internal/errors"
	"github.com/agbru/primepipe/internal/orchestration"
	"github.com/agbru/primepipe/internal/strategy"
	"github.com/agbru/primepipe/internal/ui"
)

func TestMain(m *testing.M) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	initTUIStyles()
	os.Exit(m.Run())
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.AppConfig{Lo: 10, Hi: 20, Workers: 2, Strategy: "all"}
	m := NewModel(context.Background(), strategy.NewDefaultFactory().GetAll(), cfg, "v1.2.3")
	t.Cleanup(m.cancel)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_ViewBeforeResize(t *testing.T) {
	t.Parallel()
	m := NewModel(context.Background(), nil, config.AppConfig{Lo: 1, Hi: 2}, "dev")
	defer m.cancel()
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q", got)
	}
}

func TestModel_View(t *testing.T) {
	t.Parallel()
	view := newTestModel(t).View()
	for _, want := range []string{"primepipe monitor v1.2.3", "[10, 20)", "Strategies", "pool", "queue", "sequential", "RUNNING", "CPU"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_ProgressAndResults(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m, _ = update(t, m, ProgressMsg{Index: 1, Value: 0.5, AverageProgress: 0.25, ETA: time.Second})
	if got := m.strategies.rows[1].progress; got != 0.5 {
		t.Errorf("row progress = %v, want 0.5", got)
	}
	if m.chart.average != 0.25 {
		t.Errorf("chart average = %v, want 0.25", m.chart.average)
	}

	results := []orchestration.RunResult{
		{Name: "queue", Primes: []uint64{11, 13, 17, 19}, Duration: time.Millisecond},
		{Name: "pool", Err: errors.New("boom")},
	}
	m, _ = update(t, m, ComparisonResultsMsg{Results: results})
	m, _ = update(t, m, FinalResultMsg{Result: results[0]})
	m, _ = update(t, m, RunCompleteMsg{ExitCode: apperrors.ExitSuccess, Generation: 0})

	if !m.done || m.ExitCode() != apperrors.ExitSuccess {
		t.Errorf("done=%v exit=%d", m.done, m.ExitCode())
	}
	view := m.View()
	for _, want := range []string{"FASTEST", "FAILED", "4 primes", "DONE"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_StaleRunCompleteIgnored(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m, _ = update(t, m, RunCompleteMsg{ExitCode: apperrors.ExitErrorMismatch, Generation: 7})
	if m.done || m.ExitCode() != apperrors.ExitSuccess {
		t.Errorf("stale message applied: done=%v exit=%d", m.done, m.ExitCode())
	}
}

func TestModel_ContextCancelled(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m, cmd := update(t, m, ContextCancelledMsg{Err: context.Canceled})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("command is not tea.Quit")
	}
	if m.ExitCode() != apperrors.ExitErrorCanceled {
		t.Errorf("exit = %d, want %d", m.ExitCode(), apperrors.ExitErrorCanceled)
	}
}

func TestModel_Keys(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.paused || m.footer.Status() != "PAUSED" {
		t.Errorf("space did not pause: paused=%v status=%s", m.paused, m.footer.Status())
	}
	m, _ = update(t, m, ProgressMsg{Index: 0, Value: 0.9})
	if m.strategies.rows[0].progress != 0 {
		t.Error("progress applied while paused")
	}
	m, _ = update(t, m, runeKey("p"))
	if m.paused {
		t.Error("p did not resume")
	}

	m, _ = update(t, m, runeKey("j"))
	m, _ = update(t, m, runeKey("j"))
	m, _ = update(t, m, runeKey("j"))
	if m.strategies.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.strategies.cursor)
	}
	m, _ = update(t, m, runeKey("k"))
	if m.strategies.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.strategies.cursor)
	}

	m, _ = update(t, m, runeKey("?"))
	if !m.footer.showAll {
		t.Error("? did not expand help")
	}
}

func TestModel_Reset(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m, _ = update(t, m, RunCompleteMsg{ExitCode: apperrors.ExitErrorMismatch})
	oldCtx := m.ctx

	m, cmd := update(t, m, runeKey("r"))
	t.Cleanup(m.cancel)
	if cmd == nil {
		t.Fatal("reset returned no command")
	}
	if m.generation != 1 || m.done || m.ExitCode() != apperrors.ExitSuccess {
		t.Errorf("generation=%d done=%v exit=%d", m.generation, m.done, m.ExitCode())
	}
	if oldCtx.Err() == nil {
		t.Error("previous run context not cancelled")
	}
	if m.ctx.Err() != nil {
		t.Error("new run context already cancelled")
	}
}

func TestModel_Quit(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m, cmd := update(t, m, runeKey("q"))
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("command is not tea.Quit")
	}
	if m.ctx.Err() == nil {
		t.Error("run context not cancelled on quit")
	}
}

func TestStartRunCmd(t *testing.T) {
	t.Parallel()
	sender := &recordingSender{}
	cfg := config.AppConfig{Lo: 10, Hi: 20, Workers: 2}
	impls := strategy.NewDefaultFactory().GetAll()
	m := NewModel(context.Background(), impls, cfg, "dev")
	defer m.cancel()

	msg := startRunCmd(sender, m.ctx, impls, m.rng, m.opts, cfg, 3)()
	done, ok := msg.(RunCompleteMsg)
	if !ok {
		t.Fatalf("got %T, want RunCompleteMsg", msg)
	}
	if done.ExitCode != apperrors.ExitSuccess || done.Generation != 3 {
		t.Errorf("RunCompleteMsg = %+v", done)
	}

	var final *FinalResultMsg
	for _, msg := range sender.messages() {
		if f, ok := msg.(FinalResultMsg); ok {
			final = &f
		}
	}
	if final == nil {
		t.Fatal("no FinalResultMsg sent")
	}
	if n := len(final.Result.Primes); n != 4 {
		t.Errorf("final result has %d primes, want 4", n)
	}
}
