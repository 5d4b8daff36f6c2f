package sysmon

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestSample_ReturnsValidRanges(t *testing.T) {
	t.Parallel()
	s := Sample()
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
	if s.MemUsed > s.MemTotal {
		t.Errorf("MemUsed %d exceeds MemTotal %d", s.MemUsed, s.MemTotal)
	}
}

func TestDescribeHost(t *testing.T) {
	t.Parallel()
	h := DescribeHost(context.Background())
	if h.LogicalCores != runtime.NumCPU() {
		t.Errorf("LogicalCores = %d, want %d", h.LogicalCores, runtime.NumCPU())
	}
	if h.PhysicalCores < 0 || h.PhysicalCores > h.LogicalCores {
		t.Errorf("PhysicalCores = %d, logical %d", h.PhysicalCores, h.LogicalCores)
	}
}

func TestWatch_StopsOnCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan struct{})
	go func() {
		Watch(ctx, 5*time.Millisecond, func(Stats) {
			if calls.Add(1) == 2 {
				cancel()
			}
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
	if calls.Load() < 2 {
		t.Errorf("expected at least 2 samples, got %d", calls.Load())
	}
}

func TestClampPercent(t *testing.T) {
	t.Parallel()
	for in, want := range map[float64]float64{-3: 0, 42.5: 42.5, 130: 100} {
		if got := clampPercent(in); got != want {
			t.Errorf("clampPercent(%v) = %v, want %v", in, got, want)
		}
	}
}
