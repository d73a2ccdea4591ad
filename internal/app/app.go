package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/agbru/ratcalc/internal/cli"
	"github.com/agbru/ratcalc/internal/config"
	apperrors "github.com/agbru/ratcalc/internal/errors"
	"github.com/agbru/ratcalc/internal/logging"
	"github.com/agbru/ratcalc/internal/orchestration"
	"github.com/agbru/ratcalc/internal/rational"
	"github.com/agbru/ratcalc/internal/server"
	"github.com/agbru/ratcalc/internal/ui"
	"github.com/agbru/ratcalc/pkg/models"
)

// Application represents the ratcalc application instance.
// It encapsulates the configuration and provides methods to run
// the application in various modes (CLI search, bounded search, server).
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Factory provides access to the approximation algorithm implementations.
	// Uses the interface type for better testability and dependency injection.
	Factory rational.ApproximatorFactory
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or validation fails.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	factory := rational.GlobalFactory()
	availableAlgos := factory.List()

	// args[0] is program name, args[1:] are the actual arguments
	programName := "ratcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, availableAlgos)
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:    cfg,
		Factory:   factory,
		ErrWriter: errWriter,
	}, nil
}

// Run executes the application based on the configured mode.
// It dispatches to the appropriate handler (server, bounded search, or search).
//
// Parameters:
//   - ctx: The context for managing cancellation and timeouts.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	// Initialize CLI theme (respects --no-color flag and NO_COLOR env var)
	ui.InitTheme(a.Config.NoColor)
	logging.SetVerbosity(a.Config.Verbose)

	// Server mode
	if a.Config.ServerMode {
		return a.runServer()
	}

	// Standard CLI search mode (includes the error-bounded variant)
	return a.runSearch(ctx, out)
}

// runServer starts the HTTP server mode.
func (a *Application) runServer() int {
	srv := server.NewServer(a.Factory, a.Config)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runSearch orchestrates the execution of the CLI search command.
func (a *Application) runSearch(ctx context.Context, out io.Writer) int {
	// Setup lifecycle (timeout + signals)
	ctx, cancels := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancels.Cleanup()

	target, err := a.parseTarget()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	// Error-bounded mode widens the denominator limit until the requested
	// error bound is met, so it bypasses the fixed-limit orchestration.
	if a.Config.Bound != "" {
		return a.runBoundedSearch(ctx, target, out)
	}

	// Get approximators to run
	approximatorsToRun := cli.GetApproximatorsToRun(a.Config, a.Factory)
	if len(approximatorsToRun) == 0 {
		fmt.Fprintf(a.ErrWriter, "Error: no algorithm matches %q\n", a.Config.Algo)
		return apperrors.ExitErrorConfig
	}

	// Skip verbose output in quiet mode
	if !a.Config.JSONOutput && !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(approximatorsToRun, out)
	}

	// In quiet and JSON modes, use a discard writer for progress display
	progressOut := out
	if a.Config.Quiet || a.Config.JSONOutput {
		progressOut = io.Discard
	}

	// Execute searches
	results, _ := orchestration.ExecuteApproximations(ctx, approximatorsToRun, target, a.Config, progressOut)

	// Handle JSON output
	if a.Config.JSONOutput {
		return printJSONResults(results, a.Config, out)
	}

	// Build output config for the CLI options
	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		JSONOutput: a.Config.JSONOutput,
		Quiet:      a.Config.Quiet,
	}

	return a.analyzeResultsWithOutput(results, target, outputCfg, out)
}

// runBoundedSearch executes the error-bounded search with the configured
// algorithm. The bounded search is inherently sequential (each round depends
// on the previous trial limit), so it runs a single algorithm rather than
// the parallel comparison.
func (a *Application) runBoundedSearch(ctx context.Context, target *big.Float, out io.Writer) int {
	if a.Config.Algo == "all" {
		fmt.Fprintf(a.ErrWriter, "Error: the error-bounded search requires a single algorithm, not %q\n", a.Config.Algo)
		return apperrors.ExitErrorConfig
	}

	approximator, err := a.Factory.Get(a.Config.Algo)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	bound, err := a.Config.ParseBound()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	if !a.Config.JSONOutput && !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
	}

	search := rational.NewBoundedSearch(approximator)
	startTime := time.Now()
	res, err := search.Approximate(ctx, bound, a.Config.Limit, target, a.Config.ToCalculationOptions())
	duration := time.Since(startTime)
	if err != nil {
		return apperrors.HandleApproximationError(err, duration, out, cli.CLIColorProvider{})
	}

	m := models.FromBoundedResult(a.Config.Target, a.Config.Bound, a.Config.Limit, search.Name(), res, duration)
	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		JSONOutput: a.Config.JSONOutput,
		Quiet:      a.Config.Quiet,
	}
	if err := cli.DisplayResultWithConfig(out, target, m, outputCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error writing result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

func (a *Application) analyzeResultsWithOutput(results []orchestration.ApproximationResult, target *big.Float, outputCfg cli.OutputConfig, out io.Writer) int {
	bestResult := findBestResult(results)

	// Handle quiet mode for single result
	if outputCfg.Quiet && bestResult != nil {
		m := models.FromApproximation(a.Config.Target, a.Config.Limit, bestResult.Name, bestResult.Result, bestResult.Duration)
		cli.DisplayQuietResult(out, m)

		// Save to file if requested
		if err := a.saveResultIfNeeded(bestResult, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}

		return apperrors.ExitSuccess
	}

	// Use standard analysis for non-quiet mode
	exitCode := orchestration.AnalyzeComparisonResults(results, target, a.Config, out)

	// Handle file output for non-quiet mode
	if bestResult != nil && exitCode == apperrors.ExitSuccess {
		if err := a.saveResultIfNeeded(bestResult, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}
		if outputCfg.OutputFile != "" {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				cli.ColorGreen(), cli.ColorCyan(), outputCfg.OutputFile, cli.ColorReset())
		}
	}

	return exitCode
}

// IsHelpError checks if the error is a help flag error (--help was used).
// This is useful for determining if the application should exit with success
// after displaying help text.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

func findBestResult(results []orchestration.ApproximationResult) *orchestration.ApproximationResult {
	var bestResult *orchestration.ApproximationResult
	for i := range results {
		if results[i].Err == nil {
			if bestResult == nil || results[i].Duration < bestResult.Duration {
				bestResult = &results[i]
			}
		}
	}
	return bestResult
}

func (a *Application) saveResultIfNeeded(res *orchestration.ApproximationResult, cfg cli.OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}
	m := models.FromApproximation(a.Config.Target, a.Config.Limit, res.Name, res.Result, res.Duration)
	if err := cli.WriteResultToFile(m, cfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return err
	}
	return nil
}

// parseTarget resolves the configured target string into a numeric value at
// the working precision.
func (a *Application) parseTarget() (*big.Float, error) {
	prec := a.Config.Precision
	if prec == 0 {
		prec = rational.DefaultPrecisionForLimit(a.Config.Limit)
	}
	return rational.ParseTarget(a.Config.Target, prec)
}

// jsonResult represents a single search result in JSON format.
type jsonResult struct {
	Algorithm   string `json:"algorithm"`
	Target      string `json:"target"`
	Limit       uint64 `json:"limit"`
	Duration    string `json:"duration"`
	Numerator   string `json:"numerator,omitempty"`
	Denominator string `json:"denominator,omitempty"`
	AbsError    string `json:"abs_error,omitempty"`
	Iterations  int    `json:"iterations,omitempty"`
	Error       string `json:"error,omitempty"`
}

// printJSONResults formats the search results as a JSON array and writes
// them to the output. This is useful for programmatic consumption of the results.
func printJSONResults(results []orchestration.ApproximationResult, cfg config.AppConfig, out io.Writer) int {
	output := make([]jsonResult, len(results))
	for i, res := range results {
		jr := jsonResult{
			Algorithm: res.Name,
			Target:    cfg.Target,
			Limit:     cfg.Limit,
			Duration:  res.Duration.String(),
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		} else {
			jr.Numerator = res.Result.Num.String()
			jr.Denominator = res.Result.Den.String()
			jr.AbsError = res.Result.AbsErr().Text('g', 12)
			jr.Iterations = res.Result.Iterations
		}
		output[i] = jr
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
