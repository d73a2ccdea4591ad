// Package cli provides output utilities for exporting search results.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/ratcalc/pkg/models"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// JSONOutput renders the result as a JSON document.
	JSONOutput bool
	// Quiet mode suppresses verbose output.
	Quiet bool
}

// WriteResultToFile writes a search result to a file.
//
// Parameters:
//   - m: The serialized result.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultToFile(m models.ApproximationResult, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	// Ensure directory exists
	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	// Write header
	fmt.Fprintf(file, "# Rational Approximation Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Algorithm: %s\n", m.Algorithm)
	fmt.Fprintf(file, "# Duration: %s\n", m.Duration)
	fmt.Fprintf(file, "# Target: %s\n", m.Target)
	fmt.Fprintf(file, "# Limit: %d\n", m.Limit)
	if m.Bound != "" {
		fmt.Fprintf(file, "# Bound: %s (%s)\n", m.Bound, m.Status)
	}
	fmt.Fprintf(file, "\n")

	// Write result
	fmt.Fprintf(file, "%s / %s\n", m.Numerator, m.Denominator)
	fmt.Fprintf(file, "err = %s\n", m.Error)

	return nil
}

// FormatQuietResult formats a result for quiet mode output.
// Returns a single-line "numerator/denominator" suitable for scripting.
//
// Parameters:
//   - m: The serialized result.
//
// Returns:
//   - string: The formatted result string.
func FormatQuietResult(m models.ApproximationResult) string {
	return fmt.Sprintf("%s/%s", m.Numerator, m.Denominator)
}

// DisplayQuietResult outputs a result in quiet mode (minimal output).
//
// Parameters:
//   - out: The output writer.
//   - m: The serialized result.
func DisplayQuietResult(out io.Writer, m models.ApproximationResult) {
	fmt.Fprintln(out, FormatQuietResult(m))
}

// DisplayJSONResult renders a result as an indented JSON document.
//
// Parameters:
//   - out: The output writer.
//   - m: The serialized result.
//
// Returns:
//   - error: An error if encoding fails.
func DisplayJSONResult(out io.Writer, m models.ApproximationResult) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// DisplayResultWithConfig displays a result with the given output
// configuration. This is a unified function that handles all output modes.
//
// Parameters:
//   - out: The output writer.
//   - target: The numeric target value (used by the standard display).
//   - m: The serialized result.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if JSON or file output fails.
func DisplayResultWithConfig(out io.Writer, target *big.Float, m models.ApproximationResult, config OutputConfig) error {
	switch {
	case config.JSONOutput:
		if err := DisplayJSONResult(out, m); err != nil {
			return err
		}
	case config.Quiet:
		DisplayQuietResult(out, m)
	default:
		DisplayResult(target, m, out)
	}

	// Save to file if requested
	if config.OutputFile != "" {
		if err := WriteResultToFile(m, config); err != nil {
			return err
		}
		if !config.Quiet && !config.JSONOutput {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ColorGreen(), ColorCyan(), config.OutputFile, ColorReset())
		}
	}

	return nil
}
