package rational

import (
	"context"
	"errors"
	"math/big"
	"testing"

	apperrors "github.com/agbru/ratcalc/internal/errors"
)

func testBound(t *testing.T, s string) *big.Float {
	t.Helper()
	f, _, err := big.ParseFloat(s, 10, 256, big.ToNearestEven)
	if err != nil {
		t.Fatalf("parsing bound %q: %v", s, err)
	}
	return f
}

func TestBoundedSearch_PiBoundAchieved(t *testing.T) {
	search := NewBoundedSearch(NewApproximator(&BestConvergent{}))
	target := testTarget(t, "3.14159265358979")

	res, err := search.Approximate(context.Background(), testBound(t, "1e-6"), 1000000, target, Options{})
	if err != nil {
		t.Fatalf("Approximate returned error: %v", err)
	}

	if res.Status != BoundAchieved {
		t.Errorf("expected status %v, got %v", BoundAchieved, res.Status)
	}
	if res.Num.Int64() != 355 || res.Den.Int64() != 113 {
		t.Errorf("expected 355/113, got %s/%s", res.Num, res.Den)
	}
	if res.TrialLimit != 1000 {
		t.Errorf("expected the search to stop at trial limit 1000, got %d", res.TrialLimit)
	}
	if res.Rounds != 4 {
		t.Errorf("expected 4 rounds (limits 1, 10, 100, 1000), got %d", res.Rounds)
	}
	// Per-round step counts are 1, 2, 2 and 4.
	if res.TotalIterations != 9 {
		t.Errorf("expected 9 total iterations, got %d", res.TotalIterations)
	}
	if res.AbsErr().Cmp(testBound(t, "1e-6")) > 0 {
		t.Errorf("achieved result exceeds the bound: %v", res.Err)
	}
}

func TestBoundedSearch_BestEffortAtCeiling(t *testing.T) {
	search := NewBoundedSearch(NewApproximator(&BestConvergent{}))
	target := testTarget(t, "3.14159265358979")

	// An unachievable bound forces the search through every trial limit up
	// to the ceiling.
	res, err := search.Approximate(context.Background(), testBound(t, "1e-40"), 100, target, Options{})
	if err != nil {
		t.Fatalf("Approximate returned error: %v", err)
	}

	if res.Status != BoundBestEffort {
		t.Errorf("expected status %v, got %v", BoundBestEffort, res.Status)
	}
	if res.TrialLimit != 100 {
		t.Errorf("expected the final trial limit to equal the ceiling, got %d", res.TrialLimit)
	}
	if res.Rounds != 3 {
		t.Errorf("expected 3 rounds (limits 1, 10, 100), got %d", res.Rounds)
	}
	if res.Den.Cmp(big.NewInt(100)) > 0 {
		t.Errorf("denominator %s exceeds the ceiling", res.Den)
	}
}

func TestBoundedSearch_TrialClampedToCeiling(t *testing.T) {
	search := NewBoundedSearch(NewApproximator(&BestConvergent{}))
	target := testTarget(t, "2.71828182845904523536")

	// A ceiling that is not a power of the widening factor: the last round
	// must run at exactly the ceiling, not overshoot it.
	res, err := search.Approximate(context.Background(), testBound(t, "1e-40"), 500, target, Options{})
	if err != nil {
		t.Fatalf("Approximate returned error: %v", err)
	}

	if res.TrialLimit != 500 {
		t.Errorf("expected the final trial limit to be clamped to 500, got %d", res.TrialLimit)
	}
	if res.Den.Cmp(big.NewInt(500)) > 0 {
		t.Errorf("denominator %s exceeds the ceiling", res.Den)
	}
}

func TestBoundedSearch_TotalIterationsMatchesRounds(t *testing.T) {
	approximator := NewApproximator(&BestConvergent{})
	search := NewBoundedSearch(approximator)
	target := testTarget(t, "1.61803398874989484820")
	ceiling := uint64(10000)

	res, err := search.Approximate(context.Background(), testBound(t, "1e-40"), ceiling, target, Options{})
	if err != nil {
		t.Fatalf("Approximate returned error: %v", err)
	}

	// Replay every round directly and compare the step-count sum. The
	// bounded search resolves the precision once against the ceiling, so
	// the replay must do the same.
	opts := Options{Precision: DefaultPrecisionForLimit(ceiling)}
	sum := 0
	for trial := uint64(1); ; trial *= WideningFactor {
		r, err := approximator.Approximate(context.Background(), nil, 0, trial, target, opts)
		if err != nil {
			t.Fatalf("replay at limit %d returned error: %v", trial, err)
		}
		sum += r.Iterations
		if trial >= ceiling {
			break
		}
	}
	if res.TotalIterations != sum {
		t.Errorf("expected %d total iterations, got %d", sum, res.TotalIterations)
	}
}

func TestBoundedSearch_InvalidInputs(t *testing.T) {
	search := NewBoundedSearch(NewApproximator(&BestConvergent{}))
	target := testTarget(t, "3.14")

	t.Run("nil bound", func(t *testing.T) {
		_, err := search.Approximate(context.Background(), nil, 100, target, Options{})
		var vErr apperrors.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected a ValidationError, got %v", err)
		}
	})

	t.Run("non-positive bound", func(t *testing.T) {
		_, err := search.Approximate(context.Background(), big.NewFloat(0), 100, target, Options{})
		var vErr apperrors.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected a ValidationError, got %v", err)
		}
		if vErr.Field != "bound" {
			t.Errorf("expected the 'bound' field to be rejected, got %q", vErr.Field)
		}
	})

	t.Run("limit zero", func(t *testing.T) {
		_, err := search.Approximate(context.Background(), testBound(t, "1e-3"), 0, target, Options{})
		var vErr apperrors.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected a ValidationError, got %v", err)
		}
	})
}

func TestBoundedSearch_CanceledContext(t *testing.T) {
	search := NewBoundedSearch(NewApproximator(&BestConvergent{}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := search.Approximate(ctx, testBound(t, "1e-6"), 1000000, testTarget(t, "3.14159265"), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBoundStatus_String(t *testing.T) {
	if got := BoundAchieved.String(); got != "achieved" {
		t.Errorf("expected 'achieved', got %q", got)
	}
	if got := BoundBestEffort.String(); got != "best-effort" {
		t.Errorf("expected 'best-effort', got %q", got)
	}
	if got := BoundStatus(99).String(); got != "unknown" {
		t.Errorf("expected 'unknown', got %q", got)
	}
}
