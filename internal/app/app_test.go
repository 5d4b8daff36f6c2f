package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/agbru/primepipe/internal/config"
	apperrors "github.com/agbru/primepipe/internal/errors"
)

// newTestApp builds an Application with a private calibration profile so
// that a profile cached on the host never leaks into tests.
func newTestApp(t *testing.T, args ...string) *Application {
	t.Helper()
	profile := filepath.Join(t.TempDir(), "profile.json")
	full := append([]string{"primepipe", "-no-color", "-calibration-profile", profile}, args...)
	app, err := New(full, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New(%v) error = %v", args, err)
	}
	return app
}

func TestNew(t *testing.T) {
	app := newTestApp(t, "-lo", "10", "-hi", "20", "-w", "2")
	if app.Config.Lo != 10 || app.Config.Hi != 20 {
		t.Errorf("range = [%d, %d)", app.Config.Lo, app.Config.Hi)
	}
	if app.Config.Workers != 2 {
		t.Errorf("Workers = %d, want 2", app.Config.Workers)
	}
	if want := config.EstimateQueueDepth(2); app.Config.QueueDepth != want {
		t.Errorf("QueueDepth = %d, want %d", app.Config.QueueDepth, want)
	}
	if app.Factory == nil {
		t.Error("default factory not set")
	}
}

func TestNew_AdaptiveWorkers(t *testing.T) {
	app := newTestApp(t, "-lo", "10", "-hi", "20")
	if app.Config.Workers != config.EstimateOptimalWorkers() {
		t.Errorf("Workers = %d, want %d", app.Config.Workers, config.EstimateOptimalWorkers())
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		help bool
	}{
		{"help", []string{"primepipe", "-h"}, true},
		{"unknown flag", []string{"primepipe", "-nope"}, false},
		{"empty range", []string{"primepipe", "-lo", "20", "-hi", "20"}, false},
		{"unknown strategy", []string{"primepipe", "-strategy", "magic"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.args, &bytes.Buffer{})
			if err == nil {
				t.Fatal("expected an error")
			}
			if IsHelpError(err) != tt.help {
				t.Errorf("IsHelpError() = %v, want %v", IsHelpError(err), tt.help)
			}
		})
	}
}

func TestRun_Calculate(t *testing.T) {
	app := newTestApp(t, "-lo", "10", "-hi", "20", "-w", "2", "-primes")
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d\n%s", code, out.String())
	}
	for _, want := range []string{"Execution Configuration", "11 13 17 19"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRun_CompareAll(t *testing.T) {
	app := newTestApp(t, "-lo", "100000000", "-hi", "100000050", "-w", "4", "-strategy", "all", "-verbose")
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d\n%s", code, out.String())
	}
	for _, want := range []string{"Parallel comparison of 3 strategies", "All valid results are consistent", "Memory Stats"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRun_Quiet(t *testing.T) {
	app := newTestApp(t, "-lo", "10", "-hi", "20", "-w", "2", "-q")
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if out.String() != "4\n" {
		t.Errorf("output = %q, want %q", out.String(), "4\n")
	}
}

func TestRun_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "primes.txt")
	app := newTestApp(t, "-lo", "10", "-hi", "20", "-w", "2", "-o", path)
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d\n%s", code, out.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "11\n13\n17\n19\n") {
		t.Errorf("file content = %q", data)
	}
	if !strings.Contains(out.String(), "Primes saved to") {
		t.Errorf("output missing save notice:\n%s", out.String())
	}
}

func TestRun_Timeout(t *testing.T) {
	app := newTestApp(t, "-lo", "1", "-hi", "10000000000", "-w", "2", "-q", "-timeout", "1ms")
	errBuf := &bytes.Buffer{}
	app.ErrWriter = errBuf
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitErrorTimeout {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitErrorTimeout)
	}
	if !strings.Contains(errBuf.String(), "Timeout") {
		t.Errorf("stderr = %q", errBuf.String())
	}
}

func TestRun_Completion(t *testing.T) {
	app := newTestApp(t, "-completion", "bash")
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out.String(), "complete -F") {
		t.Errorf("not a bash completion script:\n%s", out.String())
	}
}

func TestRun_Interactive(t *testing.T) {
	app := newTestApp(t, "-i", "-w", "2")
	app.In = strings.NewReader("check 13\nrange 10 20\nexit\n")
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"13 is prime", "11 13 17 19"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRun_Kernel(t *testing.T) {
	app := newTestApp(t, "-kernel", "sum", "-samples", "1000", "-w", "2", "-q")
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(out.String()), 64)
	if err != nil {
		t.Fatalf("output %q is not a number: %v", out.String(), err)
	}
	// sum of (i/n)^2 for i in [1, n] is (n+1)(2n+1)/(6n)
	if want := 1001.0 * 2001.0 / 6000.0; v < want-1e-6 || v > want+1e-6 {
		t.Errorf("value = %v, want %v", v, want)
	}
}

func TestRun_KernelTable(t *testing.T) {
	app := newTestApp(t, "-kernel", "pi", "-samples", "20000", "-w", "2")
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out.String(), "Reference value: 3.14159265") {
		t.Errorf("output missing reference:\n%s", out.String())
	}
}

func TestFindBestResult(t *testing.T) {
	t.Parallel()
	if findBestResult(nil) != nil {
		t.Error("expected nil for no results")
	}
}
