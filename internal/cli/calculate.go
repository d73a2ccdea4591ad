package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/ratcalc/internal/config"
	"github.com/agbru/ratcalc/internal/rational"
)

// GetApproximatorsToRun determines which approximators should be executed
// based on the configuration. Returns approximators in alphabetically sorted
// order for consistent, reproducible behavior.
//
// Parameters:
//   - cfg: The application configuration containing the algorithm selection.
//   - factory: The approximator factory to retrieve implementations from.
//
// Returns:
//   - []rational.Approximator: A slice of approximators to execute.
func GetApproximatorsToRun(cfg config.AppConfig, factory rational.ApproximatorFactory) []rational.Approximator {
	if cfg.Algo == "all" {
		keys := factory.List() // List() returns sorted keys
		approximators := make([]rational.Approximator, 0, len(keys))
		for _, k := range keys {
			if a, err := factory.Get(k); err == nil {
				approximators = append(approximators, a)
			}
		}
		return approximators
	}
	if a, err := factory.Get(cfg.Algo); err == nil {
		return []rational.Approximator{a}
	}
	return nil
}

// PrintExecutionConfig displays the current execution configuration to the
// user. It shows the target, the denominator limit, timeout and environment
// details.
//
// Parameters:
//   - cfg: The application configuration.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	writeOut(out, "--- Execution Configuration ---\n")
	writeOut(out, "Approximating %s%s%s with denominator limit %s%d%s and a timeout of %s%s%s.\n",
		ColorMagenta(), cfg.Target, ColorReset(),
		ColorCyan(), cfg.Limit, ColorReset(),
		ColorYellow(), cfg.Timeout, ColorReset())
	if cfg.Bound != "" {
		writeOut(out, "Error bound: %s%s%s (the denominator limit is the widening ceiling).\n",
			ColorYellow(), cfg.Bound, ColorReset())
	}
	writeOut(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ColorCyan(), runtime.NumCPU(), ColorReset(), ColorCyan(), runtime.Version(), ColorReset())
}

// PrintExecutionMode displays the execution mode (single algorithm vs
// comparison).
//
// Parameters:
//   - approximators: The slice of approximators that will be executed.
//   - out: The writer for standard output.
func PrintExecutionMode(approximators []rational.Approximator, out io.Writer) {
	var modeDesc string
	if len(approximators) > 1 {
		modeDesc = "Parallel comparison of all algorithms"
	} else {
		modeDesc = fmt.Sprintf("Single search with the %s%s%s algorithm",
			ColorGreen(), approximators[0].Name(), ColorReset())
	}
	writeOut(out, "Execution mode: %s.\n", modeDesc)
	writeOut(out, "\n--- Starting Execution ---\n")
}

// writeOut writes a formatted string to the output writer.
//
// Parameters:
//   - out: The destination writer.
//   - format: The format string (see fmt.Printf).
//   - a: Arguments for the format string.
func writeOut(out io.Writer, format string, a ...any) {
	fmt.Fprintf(out, format, a...)
}
