package orchestration

import (
	"context"
	"errors"
	"io"
	"math/big"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/agbru/ratcalc/internal/config"
	apperrors "github.com/agbru/ratcalc/internal/errors"
	"github.com/agbru/ratcalc/internal/rational"
	"github.com/agbru/ratcalc/internal/ui"
)

// TestMain disables colors so output assertions match raw text.
func TestMain(m *testing.M) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	os.Exit(m.Run())
}

func orchTarget(t *testing.T, s string) *big.Float {
	t.Helper()
	f, _, err := big.ParseFloat(s, 10, 256, big.ToNearestEven)
	if err != nil {
		t.Fatalf("parsing %q: %v", s, err)
	}
	return f
}

func allApproximators(t *testing.T) []rational.Approximator {
	t.Helper()
	factory := rational.NewDefaultFactory()
	var approximators []rational.Approximator
	for _, name := range factory.List() {
		a, err := factory.Get(name)
		if err != nil {
			t.Fatalf("Get(%s): %v", name, err)
		}
		approximators = append(approximators, a)
	}
	return approximators
}

func TestExecuteApproximations(t *testing.T) {
	cfg := config.AppConfig{Limit: 10}
	target := orchTarget(t, "3.14159265")

	results, err := ExecuteApproximations(context.Background(), allApproximators(t), target, cfg, io.Discard)
	if err != nil {
		t.Fatalf("unexpected first error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	for _, res := range results {
		if res.Err != nil {
			t.Errorf("%s failed: %v", res.Name, res.Err)
			continue
		}
		if res.Result == nil {
			t.Errorf("%s returned a nil result", res.Name)
		}
	}

	// The two selections return different fractions for this input.
	byName := map[string]*rational.Approximation{}
	for _, res := range results {
		byName[res.Name] = res.Result
	}
	if best := byName["Best Convergent"]; best == nil || best.Den.Int64() != 7 {
		t.Errorf("expected the corrected selection to return denominator 7, got %+v", best)
	}
	if ext := byName["Extended Convergent"]; ext == nil || ext.Den.Int64() != 8 {
		t.Errorf("expected the classical selection to return denominator 8, got %+v", ext)
	}
}

func TestExecuteApproximations_ReportsFirstError(t *testing.T) {
	cfg := config.AppConfig{Limit: 1000000}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := ExecuteApproximations(ctx, allApproximators(t), orchTarget(t, "3.14159265"), cfg, io.Discard)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled as the first error, got %v", err)
	}
	for _, res := range results {
		if res.Err == nil {
			t.Errorf("%s should have failed under a canceled context", res.Name)
		}
	}
}

func TestAnalyzeComparisonResults_Consistent(t *testing.T) {
	cfg := config.AppConfig{Target: "3.14159265", Limit: 10}
	target := orchTarget(t, "3.14159265")

	results, err := ExecuteApproximations(context.Background(), allApproximators(t), target, cfg, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out strings.Builder
	code := AnalyzeComparisonResults(results, target, cfg, &out)
	if code != apperrors.ExitSuccess {
		t.Fatalf("expected exit code %d, got %d (output: %s)", apperrors.ExitSuccess, code, out.String())
	}
	if !strings.Contains(out.String(), "All valid results are consistent") {
		t.Errorf("expected a consistency confirmation, got %s", out.String())
	}
	if !strings.Contains(out.String(), "best_rat= 22 / 7") {
		t.Errorf("expected the winning fraction in the result line, got %s", out.String())
	}
}

func TestAnalyzeComparisonResults_Mismatch(t *testing.T) {
	cfg := config.AppConfig{Target: "1.5", Limit: 10}
	target := orchTarget(t, "1.5")

	mismatched := []ApproximationResult{
		{
			Name: "A",
			Result: &rational.Approximation{
				Err: big.NewFloat(0.25), Num: big.NewInt(3), Den: big.NewInt(2), Iterations: 1,
			},
			Duration: time.Millisecond,
		},
		{
			Name: "B",
			Result: &rational.Approximation{
				Err: big.NewFloat(0.5), Num: big.NewInt(1), Den: big.NewInt(1), Iterations: 1,
			},
			Duration: 2 * time.Millisecond,
		},
	}

	var out strings.Builder
	code := AnalyzeComparisonResults(mismatched, target, cfg, &out)
	if code != apperrors.ExitErrorMismatch {
		t.Fatalf("expected exit code %d, got %d", apperrors.ExitErrorMismatch, code)
	}
	if !strings.Contains(out.String(), "inconsistency") {
		t.Errorf("expected a mismatch report, got %s", out.String())
	}
}

func TestAnalyzeComparisonResults_AllFailed(t *testing.T) {
	cfg := config.AppConfig{Target: "1.5", Limit: 10}
	target := orchTarget(t, "1.5")

	failed := []ApproximationResult{
		{Name: "A", Err: context.DeadlineExceeded, Duration: time.Second},
	}

	var out strings.Builder
	code := AnalyzeComparisonResults(failed, target, cfg, &out)
	if code != apperrors.ExitErrorTimeout {
		t.Fatalf("expected exit code %d, got %d", apperrors.ExitErrorTimeout, code)
	}
	if !strings.Contains(out.String(), "No algorithm could complete") {
		t.Errorf("expected a global failure report, got %s", out.String())
	}
}
