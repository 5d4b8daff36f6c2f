package orchestration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/primepipe/internal/errors"
	"github.com/agbru/primepipe/internal/progress"
	"github.com/agbru/primepipe/internal/sieve"
	"github.com/agbru/primepipe/internal/strategy"
)

// recordingPresenter remembers what it was asked to present.
type recordingPresenter struct {
	tableRows int
	presented *RunResult
}

func (p *recordingPresenter) PresentComparisonTable(results []RunResult, _ io.Writer) {
	p.tableRows = len(results)
}

func (p *recordingPresenter) PresentResult(result RunResult, _ PresentationOptions, _ io.Writer) {
	p.presented = &result
}

type fixedErrorHandler struct{}

func (fixedErrorHandler) HandleError(error, time.Duration, io.Writer) int {
	return apperrors.ExitErrorGeneric
}

// MockStrategy lets a test script FindPrimes.
type MockStrategy struct {
	NameValue string
	FindFunc  func(ctx context.Context, report progress.ProgressCallback) ([]uint64, error)
}

func (m *MockStrategy) Name() string {
	if m.NameValue != "" {
		return m.NameValue
	}
	return "mock"
}

func (m *MockStrategy) Description() string { return "Mock " + m.Name() }

func (m *MockStrategy) FindPrimes(ctx context.Context, progressChan chan<- progress.ProgressUpdate, index int, _ sieve.Range, _ strategy.Options) ([]uint64, error) {
	if m.FindFunc == nil {
		return nil, nil
	}
	return m.FindFunc(ctx, progress.NonBlockingSender(progressChan, index))
}

func TestExecuteStrategies(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		strategies  []strategy.Strategy
		expectError []bool
	}{
		{
			name: "Single success",
			strategies: []strategy.Strategy{
				&MockStrategy{FindFunc: func(_ context.Context, report progress.ProgressCallback) ([]uint64, error) {
					report(1.0)
					return []uint64{2, 3}, nil
				}},
			},
			expectError: []bool{false},
		},
		{
			name: "Single failure",
			strategies: []strategy.Strategy{
				&MockStrategy{FindFunc: func(context.Context, progress.ProgressCallback) ([]uint64, error) {
					return nil, errors.New("mock error")
				}},
			},
			expectError: []bool{true},
		},
		{
			name: "Failure does not cancel siblings",
			strategies: []strategy.Strategy{
				&MockStrategy{NameValue: "bad", FindFunc: func(context.Context, progress.ProgressCallback) ([]uint64, error) {
					return nil, errors.New("mock error")
				}},
				&MockStrategy{NameValue: "good", FindFunc: func(ctx context.Context, _ progress.ProgressCallback) ([]uint64, error) {
					time.Sleep(10 * time.Millisecond)
					return []uint64{5}, ctx.Err()
				}},
			},
			expectError: []bool{true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			results := ExecuteStrategies(context.Background(), tt.strategies, sieve.Range{Lo: 1, Hi: 10}, strategy.Options{}, NullProgressReporter{}, io.Discard)
			if len(results) != len(tt.expectError) {
				t.Fatalf("expected %d results, got %d", len(tt.expectError), len(results))
			}
			for i, wantErr := range tt.expectError {
				if (results[i].Err != nil) != wantErr {
					t.Errorf("result %d: err = %v, wantErr %v", i, results[i].Err, wantErr)
				}
				if results[i].Name != tt.strategies[i].Name() {
					t.Errorf("result %d: name = %q, want input order", i, results[i].Name)
				}
			}
		})
	}
}

func TestExecuteStrategies_WrapsErrorsWithStrategyName(t *testing.T) {
	t.Parallel()
	s := &MockStrategy{NameValue: "broken", FindFunc: func(context.Context, progress.ProgressCallback) ([]uint64, error) {
		return nil, apperrors.InvariantError{Invariant: "finished workers == W", Expected: 4, Observed: 3}
	}}
	results := ExecuteStrategies(context.Background(), []strategy.Strategy{s}, sieve.Range{Lo: 1, Hi: 10}, strategy.Options{}, NullProgressReporter{}, io.Discard)

	var re apperrors.RunError
	if !errors.As(results[0].Err, &re) || re.Strategy != "broken" {
		t.Fatalf("err = %v, want RunError for broken", results[0].Err)
	}
	if !apperrors.IsInvariantError(results[0].Err) {
		t.Error("the invariant violation should remain reachable through errors.As")
	}
}

func TestExecuteStrategies_RealStrategiesAgree(t *testing.T) {
	t.Parallel()
	rng := sieve.Range{Lo: 100_000_000, Hi: 100_000_050}
	results := ExecuteStrategies(context.Background(), strategy.NewDefaultFactory().GetAll(), rng, strategy.Options{Workers: 4}, NullProgressReporter{}, io.Discard)

	p := &recordingPresenter{}
	var out bytes.Buffer
	if code := AnalyzeComparisonResults(results, PresentationOptions{Range: rng}, p, fixedErrorHandler{}, &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, output:\n%s", code, out.String())
	}
	got := slices.Clone(p.presented.Primes)
	slices.Sort(got)
	if !slices.Equal(got, []uint64{100_000_007, 100_000_037, 100_000_039}) {
		t.Errorf("presented primes = %v", got)
	}
}

func TestAnalyzeComparisonResults(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		results        []RunResult
		expectedStatus int
		wantPresented  string
	}{
		{
			name: "All success, different order",
			results: []RunResult{
				{Name: "A", Primes: []uint64{11, 13, 17}, Duration: 2 * time.Millisecond},
				{Name: "B", Primes: []uint64{17, 11, 13}, Duration: time.Millisecond},
			},
			expectedStatus: apperrors.ExitSuccess,
			wantPresented:  "B",
		},
		{
			name: "Mismatch",
			results: []RunResult{
				{Name: "A", Primes: []uint64{11, 13}, Duration: time.Millisecond},
				{Name: "B", Primes: []uint64{11, 19}, Duration: time.Millisecond},
			},
			expectedStatus: apperrors.ExitErrorMismatch,
		},
		{
			name: "Missing prime",
			results: []RunResult{
				{Name: "A", Primes: []uint64{11, 13}, Duration: time.Millisecond},
				{Name: "B", Primes: []uint64{11}, Duration: time.Millisecond},
			},
			expectedStatus: apperrors.ExitErrorMismatch,
		},
		{
			name: "All failure",
			results: []RunResult{
				{Name: "A", Duration: time.Millisecond, Err: errors.New("fail")},
				{Name: "B", Duration: time.Millisecond, Err: errors.New("fail")},
			},
			expectedStatus: apperrors.ExitErrorGeneric,
		},
		{
			name: "Mixed success/failure",
			results: []RunResult{
				{Name: "A", Duration: time.Microsecond, Err: errors.New("fail")},
				{Name: "B", Primes: []uint64{5}, Duration: time.Millisecond},
			},
			expectedStatus: apperrors.ExitSuccess,
			wantPresented:  "B",
		},
		{
			name: "Empty prime sets agree",
			results: []RunResult{
				{Name: "A", Duration: time.Millisecond},
				{Name: "B", Primes: []uint64{}, Duration: time.Millisecond},
			},
			expectedStatus: apperrors.ExitSuccess,
			wantPresented:  "A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &recordingPresenter{}
			status := AnalyzeComparisonResults(tt.results, PresentationOptions{}, p, fixedErrorHandler{}, io.Discard)
			if status != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, status)
			}
			if p.tableRows != len(tt.results) {
				t.Errorf("table rows = %d, want %d", p.tableRows, len(tt.results))
			}
			if tt.wantPresented != "" && (p.presented == nil || p.presented.Name != tt.wantPresented) {
				t.Errorf("presented = %+v, want %s", p.presented, tt.wantPresented)
			}
		})
	}
}

func TestAnalyzeComparisonResults_MismatchMessage(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	results := []RunResult{
		{Name: "queue", Primes: []uint64{2}, Duration: time.Millisecond},
		{Name: "pool", Primes: []uint64{3}, Duration: 2 * time.Millisecond},
	}
	AnalyzeComparisonResults(results, PresentationOptions{}, &recordingPresenter{}, fixedErrorHandler{}, &out)
	if !strings.Contains(out.String(), "queue and pool found different primes") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestSamePrimeSet(t *testing.T) {
	t.Parallel()
	tests := []struct {
		a, b []uint64
		want bool
	}{
		{nil, nil, true},
		{nil, []uint64{}, true},
		{[]uint64{2, 3, 5}, []uint64{5, 2, 3}, true},
		{[]uint64{2, 3}, []uint64{2, 3, 5}, false},
		{[]uint64{2, 3}, []uint64{2, 5}, false},
	}
	for _, tt := range tests {
		if got := SamePrimeSet(tt.a, tt.b); got != tt.want {
			t.Errorf("SamePrimeSet(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
	in := []uint64{5, 2, 3}
	SamePrimeSet(in, []uint64{2, 3, 5})
	if !slices.Equal(in, []uint64{5, 2, 3}) {
		t.Error("SamePrimeSet must not reorder its inputs")
	}
}
