package app

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/agbru/ratcalc/internal/config"
	apperrors "github.com/agbru/ratcalc/internal/errors"
	"github.com/agbru/ratcalc/internal/orchestration"
	"github.com/agbru/ratcalc/internal/rational"
)

// newTestApp builds an application with colors disabled so output
// assertions can match raw text.
func newTestApp(cfg config.AppConfig) *Application {
	cfg.NoColor = true
	return &Application{
		Config:    cfg,
		Factory:   rational.NewDefaultFactory(),
		ErrWriter: &bytes.Buffer{},
	}
}

// TestNew tests the New function for creating Application instances.
func TestNew(t *testing.T) {
	t.Run("Valid args create application", func(t *testing.T) {
		var errBuf bytes.Buffer
		args := []string{"ratcalc", "-target", "1.5", "-limit", "100"}

		app, err := New(args, &errBuf)

		if err != nil {
			t.Fatalf("New() returned unexpected error: %v", err)
		}
		if app == nil {
			t.Fatal("New() returned nil application")
		}
		if app.Config.Target != "1.5" {
			t.Errorf("Expected target 1.5, got %q", app.Config.Target)
		}
		if app.Config.Limit != 100 {
			t.Errorf("Expected limit 100, got %d", app.Config.Limit)
		}
		if app.Factory == nil {
			t.Error("Factory should not be nil")
		}
	})

	t.Run("Invalid args return error", func(t *testing.T) {
		var errBuf bytes.Buffer
		args := []string{"ratcalc", "-invalid-flag"}

		app, err := New(args, &errBuf)

		if err == nil {
			t.Error("New() should return error for invalid args")
		}
		if app != nil {
			t.Error("New() should return nil application on error")
		}
	})

	t.Run("Help flag returns error", func(t *testing.T) {
		var errBuf bytes.Buffer
		args := []string{"ratcalc", "-h"}

		_, err := New(args, &errBuf)

		if err == nil {
			t.Error("New() should return error for help flag")
		}
		if !IsHelpError(err) {
			t.Error("Error should be a help error")
		}
	})

	t.Run("Empty args slice handled correctly", func(t *testing.T) {
		var errBuf bytes.Buffer
		args := []string{}

		app, err := New(args, &errBuf)

		if err != nil {
			t.Errorf("New() should handle empty args without error, got: %v", err)
		}
		if app == nil {
			t.Fatal("New() should return application even with empty args")
		}
		if app.Config.Target != config.DefaultTarget {
			t.Errorf("Expected default target %q, got %q", config.DefaultTarget, app.Config.Target)
		}
		if app.Config.Limit != config.DefaultLimit {
			t.Errorf("Expected default limit %d, got %d", config.DefaultLimit, app.Config.Limit)
		}
	})
}

// TestApplicationRun tests the Application.Run method across modes.
func TestApplicationRun(t *testing.T) {
	t.Run("Single algorithm search with success", func(t *testing.T) {
		var outBuf bytes.Buffer
		app := newTestApp(config.AppConfig{
			Target:  "3.14159265",
			Limit:   10,
			Algo:    "best",
			Timeout: 1 * time.Minute,
		})

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
		}
		if !strings.Contains(outBuf.String(), "best_rat= 22 / 7") {
			t.Errorf("Output should contain the result line. Output:\n%s", outBuf.String())
		}
	})

	t.Run("Parallel comparison of all algorithms", func(t *testing.T) {
		var outBuf bytes.Buffer
		app := newTestApp(config.AppConfig{
			Target:  "3.14159265",
			Limit:   10,
			Algo:    "all",
			Timeout: 1 * time.Minute,
		})

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
		}
		output := outBuf.String()
		if !strings.Contains(output, "Comparison Summary") {
			t.Errorf("Output should contain the comparison table. Output:\n%s", output)
		}
		if !strings.Contains(output, "All valid results are consistent") {
			t.Errorf("Output should confirm consistency. Output:\n%s", output)
		}
	})

	t.Run("Quiet mode emits only the fraction", func(t *testing.T) {
		var outBuf bytes.Buffer
		app := newTestApp(config.AppConfig{
			Target:  "3.14159265",
			Limit:   10,
			Algo:    "best",
			Timeout: 1 * time.Minute,
			Quiet:   true,
		})

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
		}
		output := outBuf.String()
		if !strings.Contains(output, "22/7") {
			t.Errorf("Quiet output should contain 22/7. Output:\n%s", output)
		}
		if strings.Contains(output, "Execution Configuration") {
			t.Errorf("Quiet output should not contain the banner. Output:\n%s", output)
		}
	})

	t.Run("JSON mode emits a parseable result array", func(t *testing.T) {
		var outBuf bytes.Buffer
		app := newTestApp(config.AppConfig{
			Target:     "3.14159265",
			Limit:      10,
			Algo:       "best",
			Timeout:    1 * time.Minute,
			JSONOutput: true,
		})

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitSuccess {
			t.Fatalf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
		}
		var results []jsonResult
		if err := json.Unmarshal(outBuf.Bytes(), &results); err != nil {
			t.Fatalf("JSON output should be parseable: %v\nOutput:\n%s", err, outBuf.String())
		}
		if len(results) != 1 {
			t.Fatalf("Expected 1 JSON result, got %d", len(results))
		}
		if results[0].Numerator != "22" || results[0].Denominator != "7" {
			t.Errorf("Expected 22/7, got %s/%s", results[0].Numerator, results[0].Denominator)
		}
	})

	t.Run("Bounded search widens the limit until the bound is met", func(t *testing.T) {
		var outBuf bytes.Buffer
		app := newTestApp(config.AppConfig{
			Target:  "3.14159265358979323846",
			Limit:   1_000_000,
			Bound:   "0.001",
			Algo:    "best",
			Timeout: 1 * time.Minute,
		})

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitSuccess {
			t.Fatalf("Expected exit code %d, got %d. Output:\n%s", apperrors.ExitSuccess, exitCode, outBuf.String())
		}
		output := outBuf.String()
		if !strings.Contains(output, "best_rat= 311 / 99") {
			t.Errorf("Expected 311/99 as the first fraction within 1e-3. Output:\n%s", output)
		}
		if !strings.Contains(output, "status= achieved") {
			t.Errorf("Expected an achieved bound status. Output:\n%s", output)
		}
	})

	t.Run("Bounded search rejects the comparison mode", func(t *testing.T) {
		var outBuf bytes.Buffer
		app := newTestApp(config.AppConfig{
			Target:  "3.14159265",
			Limit:   1000,
			Bound:   "0.001",
			Algo:    "all",
			Timeout: 1 * time.Minute,
		})

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitErrorConfig {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorConfig, exitCode)
		}
	})

	t.Run("Unparseable target fails with a config error", func(t *testing.T) {
		var outBuf bytes.Buffer
		app := newTestApp(config.AppConfig{
			Target:  "tau",
			Limit:   10,
			Algo:    "best",
			Timeout: 1 * time.Minute,
		})

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitErrorConfig {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorConfig, exitCode)
		}
	})

	t.Run("Expired timeout maps to the timeout exit code", func(t *testing.T) {
		var outBuf bytes.Buffer
		app := newTestApp(config.AppConfig{
			Target:  "3.14159265",
			Limit:   1_000_000,
			Algo:    "best",
			Timeout: 1 * time.Nanosecond,
		})

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitErrorTimeout {
			t.Errorf("Expected exit code %d, got %d. Output:\n%s", apperrors.ExitErrorTimeout, exitCode, outBuf.String())
		}
	})
}

func TestFindBestResult(t *testing.T) {
	res := &rational.Approximation{}

	t.Run("Picks the fastest successful result", func(t *testing.T) {
		results := []orchestration.ApproximationResult{
			{Name: "slow", Result: res, Duration: 3 * time.Millisecond},
			{Name: "failed", Err: context.DeadlineExceeded, Duration: time.Millisecond},
			{Name: "fast", Result: res, Duration: 2 * time.Millisecond},
		}
		best := findBestResult(results)
		if best == nil || best.Name != "fast" {
			t.Errorf("Expected the fastest successful result, got %+v", best)
		}
	})

	t.Run("Returns nil when everything failed", func(t *testing.T) {
		results := []orchestration.ApproximationResult{
			{Name: "failed", Err: context.DeadlineExceeded},
		}
		if best := findBestResult(results); best != nil {
			t.Errorf("Expected nil, got %+v", best)
		}
	})
}
