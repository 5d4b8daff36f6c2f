package strategy

import (
	"context"
	"errors"
	"slices"
	"testing"

	apperrors "github.com/agbru/primepipe/internal/errors"
	"github.com/agbru/primepipe/internal/progress"
	"github.com/agbru/primepipe/internal/sieve"
)

func TestStrategies_AgreeWithOracle(t *testing.T) {
	t.Parallel()
	ranges := []sieve.Range{
		{Lo: 1, Hi: 2},
		{Lo: 2, Hi: 3},
		{Lo: 10, Hi: 20},
		{Lo: 24, Hi: 28},
		{Lo: 1, Hi: 20_000},
		{Lo: 100_000_000, Hi: 100_000_050},
	}
	for _, s := range NewDefaultFactory().GetAll() {
		for _, workers := range []int{1, 2, 4, 8} {
			for _, rng := range ranges {
				got, err := s.FindPrimes(context.Background(), nil, 0, rng, Options{Workers: workers, Sorted: true})
				if err != nil {
					t.Fatalf("%s W=%d %s: error = %v", s.Name(), workers, rng, err)
				}
				if want := sieve.Sequential(rng); !slices.Equal(got, want) {
					t.Errorf("%s W=%d %s: got %v, want %v", s.Name(), workers, rng, got, want)
				}
			}
		}
	}
}

func TestStrategies_RejectMalformedInput(t *testing.T) {
	t.Parallel()
	for _, s := range NewDefaultFactory().GetAll() {
		_, err := s.FindPrimes(context.Background(), nil, 0, sieve.Range{Lo: 5, Hi: 5}, Options{Workers: 2})
		var ve apperrors.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: error = %v, want ValidationError", s.Name(), err)
		}
	}
	for _, s := range []Strategy{QueueStrategy{}, PoolStrategy{}} {
		_, err := s.FindPrimes(context.Background(), nil, 0, sieve.Range{Lo: 1, Hi: 10}, Options{Workers: -1})
		var ve apperrors.ValidationError
		if !errors.As(err, &ve) || ve.Field != "workers" {
			t.Errorf("%s: error = %v, want workers ValidationError", s.Name(), err)
		}
	}
}

func TestStrategies_Canceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, s := range NewDefaultFactory().GetAll() {
		_, err := s.FindPrimes(ctx, nil, 0, sieve.Range{Lo: 1, Hi: 5_000_000}, Options{Workers: 2})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%s: error = %v, want context.Canceled", s.Name(), err)
		}
	}
}

func TestStrategies_ReportCompletion(t *testing.T) {
	t.Parallel()
	for i, s := range NewDefaultFactory().GetAll() {
		ch := make(chan progress.ProgressUpdate, 4096)
		if _, err := s.FindPrimes(context.Background(), ch, i, sieve.Range{Lo: 1, Hi: 50_000}, Options{Workers: 2}); err != nil {
			t.Fatalf("%s: error = %v", s.Name(), err)
		}
		close(ch)
		var peak float64
		for u := range ch {
			if u.Index != i {
				t.Errorf("%s: update index = %d, want %d", s.Name(), u.Index, i)
			}
			if u.Value < 0 || u.Value > 1 {
				t.Errorf("%s: progress %f out of [0, 1]", s.Name(), u.Value)
			}
			peak = max(peak, u.Value)
		}
		if peak != 1.0 {
			t.Errorf("%s: peak progress = %f, want 1.0", s.Name(), peak)
		}
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	if got, want := f.List(), []string{"pool", "queue", "sequential"}; !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
	if _, err := f.Get("bogus"); err == nil {
		t.Error("Get(bogus) should fail")
	}
	if err := f.Register(QueueStrategy{}); err == nil {
		t.Error("registering queue twice should fail")
	}
	s, err := f.Get("queue")
	if err != nil || s.Description() == "" {
		t.Errorf("Get(queue) = %v, %v", s, err)
	}
}
