// Package orchestration coordinates the concurrent execution of one or more
// approximation searches and the analysis of their results.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/ratcalc/internal/cli"
	"github.com/agbru/ratcalc/internal/config"
	apperrors "github.com/agbru/ratcalc/internal/errors"
	"github.com/agbru/ratcalc/internal/parallel"
	"github.com/agbru/ratcalc/internal/rational"
	"github.com/agbru/ratcalc/internal/ui"
	"github.com/agbru/ratcalc/pkg/models"
)

// ApproximationResult encapsulates the outcome of a single search. It serves
// as a standardized container for results from different algorithms,
// facilitating comparison and reporting.
type ApproximationResult struct {
	// Name is the identifier of the algorithm used (e.g., "Best Convergent").
	Name string
	// Result is the computed approximation. It is nil if an error occurred.
	Result *rational.Approximation
	// Duration is the time taken to complete the search.
	Duration time.Duration
	// Err contains any error that occurred during the search.
	Err error
}

// ProgressBufferMultiplier defines the buffer size multiplier for the
// progress channel. A larger buffer reduces the likelihood of blocking search
// goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

// ExecuteApproximations orchestrates the concurrent execution of one or more
// approximation searches.
//
// It manages the lifecycle of search goroutines, collects their results, and
// coordinates the display of progress updates. This function is the core of
// the application's concurrency model.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - approximators: A slice of approximators to execute.
//   - target: The value to approximate.
//   - cfg: The application configuration (limit, precision, etc.).
//   - out: The io.Writer for displaying progress updates.
//
// Returns:
//   - []ApproximationResult: A slice containing the results of each search.
//   - error: The first error recorded across the searches, for logging.
//     Individual failures are also captured per-result.
func ExecuteApproximations(ctx context.Context, approximators []rational.Approximator, target *big.Float, cfg config.AppConfig, out io.Writer) ([]ApproximationResult, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]ApproximationResult, len(approximators))
	progressChan := make(chan rational.ProgressUpdate, len(approximators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, len(approximators), out)

	var ec parallel.ErrorCollector
	for i, a := range approximators {
		idx, approximator := i, a
		g.Go(func() error {
			startTime := time.Now()
			res, err := approximator.Approximate(ctx, progressChan, idx, cfg.Limit, target, cfg.ToCalculationOptions())
			results[idx] = ApproximationResult{
				Name: approximator.Name(), Result: res, Duration: time.Since(startTime), Err: err,
			}
			ec.SetError(err)
			return nil
		})
	}

	g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results, ec.Err()
}

// AnalyzeComparisonResults processes the results from multiple algorithms and
// generates a summary report.
//
// It sorts the results by execution time, validates consistency across
// successful searches, and displays a comparative table. Consistency here
// means every algorithm reports the same minimum candidate error magnitude:
// the selections may return different fractions, but they derive from the
// same candidate pair, so a magnitude disagreement indicates a broken
// recurrence.
//
// Parameters:
//   - results: The slice of search results to analyze.
//   - target: The value that was approximated.
//   - cfg: The application configuration.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeComparisonResults(results []ApproximationResult, target *big.Float, cfg config.AppConfig, out io.Writer) int {
	sort.Slice(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValid *ApproximationResult
	var firstError error
	successCount := 0

	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sAlgorithm%s\t%sFraction%s\t%sAbs Error%s\t%sDuration%s\t%sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset())

	for i := range results {
		res := &results[i]
		var status, fraction, absErr string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
			fraction = "-"
			absErr = "-"
			if firstError == nil {
				firstError = res.Err
			}
		} else {
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
			fraction = fmt.Sprintf("%s/%s", res.Result.Num, res.Result.Den)
			absErr = res.Result.AbsErr().Text('g', 12)
			successCount++
			if firstValid == nil {
				firstValid = res
			}
		}
		duration := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s%s%s\t%s\t%s\t%s%s%s\t%s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(),
			fraction, absErr,
			ui.ColorYellow(), duration, ui.ColorReset(),
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the search.\n")
		return apperrors.HandleApproximationError(firstError, 0, out, cli.CLIColorProvider{})
	}

	// All successful algorithms must agree on the minimum candidate error
	// magnitude.
	reference := firstValid.Result.AbsErr()
	mismatch := false
	for i := range results {
		if results[i].Err == nil && results[i].Result.AbsErr().Cmp(reference) != 0 {
			mismatch = true
			break
		}
	}
	if mismatch {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! An inconsistency was detected between the results of the algorithms.\n")
		return apperrors.ExitErrorMismatch
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	m := models.FromApproximation(cfg.Target, cfg.Limit, firstValid.Name, firstValid.Result, firstValid.Duration)
	cli.DisplayResult(target, m, out)
	return apperrors.ExitSuccess
}
