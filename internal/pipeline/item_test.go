package pipeline

import "testing"

func TestWorkItem(t *testing.T) {
	t.Parallel()

	c := CandidateItem(0)
	if c.IsStop() {
		t.Error("Candidate(0) must not be a Stop marker")
	}
	if n, ok := c.Candidate(); !ok || n != 0 {
		t.Errorf("Candidate() = (%d, %v), want (0, true)", n, ok)
	}

	s := StopItem()
	if !s.IsStop() {
		t.Error("StopItem().IsStop() = false")
	}
	if _, ok := s.Candidate(); ok {
		t.Error("Stop item must not carry a candidate")
	}
	if s.String() != "Stop" || c.String() != "Candidate(0)" {
		t.Errorf("unexpected String(): %q, %q", s, c)
	}
}

func TestResultItem(t *testing.T) {
	t.Parallel()

	p := PrimeItem(0, 3)
	if p.IsWorkerDone() {
		t.Error("Prime item must not be a WorkerDone marker")
	}
	if n, ok := p.Prime(); !ok || n != 0 || p.Worker() != 3 {
		t.Errorf("Prime() = (%d, %v) from worker %d", n, ok, p.Worker())
	}

	d := WorkerDoneItem(WorkerStats{ID: 2, Checked: 10, Found: 4, State: WorkerSignaledDone})
	if !d.IsWorkerDone() {
		t.Error("WorkerDoneItem().IsWorkerDone() = false")
	}
	if _, ok := d.Prime(); ok {
		t.Error("WorkerDone item must not carry a prime")
	}
	if d.Worker() != 2 || d.Stats().Checked != 10 || d.Stats().Found != 4 {
		t.Errorf("unexpected WorkerDone payload: %+v", d.Stats())
	}
}

func TestStateStrings(t *testing.T) {
	t.Parallel()
	states := map[WorkerState]string{
		WorkerRunning:      "RUNNING",
		WorkerSignaledDone: "SIGNALED_DONE",
		WorkerTerminated:   "TERMINATED",
		WorkerState(42):    "UNKNOWN",
	}
	for s, want := range states {
		if s.String() != want {
			t.Errorf("WorkerState(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
	phases := map[Phase]string{
		PhaseIdle:     "IDLE",
		PhaseFilling:  "FILLING",
		PhaseDraining: "DRAINING",
		PhaseComplete: "COMPLETE",
		PhaseFailed:   "FAILED",
	}
	for p, want := range phases {
		if p.String() != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, p.String(), want)
		}
	}
}
