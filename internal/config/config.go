// Package config provides the configuration management for the ratcalc
// application. It defines the data structure for the configuration, handles
// the parsing of command-line arguments, and performs validation on the
// configuration values.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	apperrors "github.com/agbru/ratcalc/internal/errors"
	"github.com/agbru/ratcalc/internal/rational"
)

const (
	// EnvPrefix is the prefix for all environment variables used by ratcalc.
	// Environment variables provide an alternative to CLI flags for
	// configuration, following the 12-Factor App methodology.
	EnvPrefix = "RATCALC_"
)

// Default configuration values.
// These can be overridden via command-line flags or environment variables.
const (
	// DefaultTarget is the default approximation target.
	DefaultTarget = "pi"
	// DefaultLimit is the default denominator limit.
	DefaultLimit uint64 = 1_000_000
	// DefaultTimeout is the default search timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultPort is the default server port.
	DefaultPort = "8080"
	// DefaultAlgo is the default candidate selection algorithm.
	DefaultAlgo = "best"
)

// AppConfig aggregates the application's configuration parameters, parsed
// from command-line flags. It encapsulates all settings that control the
// execution, from the approximation target to the output format.
type AppConfig struct {
	// Target is the value to approximate: a decimal literal or a named
	// constant (pi, e, phi, sqrt2).
	Target string
	// Limit is the denominator limit for the search.
	Limit uint64
	// Bound, if non-empty, switches to the error-bounded search: the
	// denominator limit is widened from 1 until the approximation error
	// magnitude falls within this value, with Limit as the ceiling.
	Bound string
	// Precision is the working precision in mantissa bits. 0 derives a
	// precision from the denominator limit.
	Precision uint
	// Algo selects the candidate selection algorithm ("best", "extended"
	// or "all" to run every registered algorithm and compare).
	Algo string
	// Timeout sets the maximum duration for the search.
	Timeout time.Duration
	// JSONOutput, if true, outputs the result in JSON format.
	JSONOutput bool
	// ServerMode, if true, starts the application as an HTTP server.
	ServerMode bool
	// Port specifies the port to listen on in server mode.
	Port string
	// NoColor, if true, disables all color output in the CLI.
	// Also respects the NO_COLOR environment variable.
	NoColor bool
	// OutputFile, if specified, saves the result to this file path.
	OutputFile string
	// Quiet mode - minimal output for scripting purposes.
	// Suppresses spinners, banners, and informational messages.
	Quiet bool
	// Verbose, if true, enables debug-level logging.
	Verbose bool
}

// ToCalculationOptions converts the application configuration into
// rational.Options for use by the approximators.
func (c AppConfig) ToCalculationOptions() rational.Options {
	return rational.Options{
		Precision: c.Precision,
	}
}

// ParseBound parses the Bound field into a big.Float at the configured
// working precision. It returns nil when no bound is set.
func (c AppConfig) ParseBound() (*big.Float, error) {
	if c.Bound == "" {
		return nil, nil
	}
	prec := c.Precision
	if prec == 0 {
		prec = rational.DefaultPrecisionForLimit(c.Limit)
	}
	bound, _, err := big.ParseFloat(c.Bound, 10, prec, big.ToNearestEven)
	if err != nil {
		return nil, apperrors.NewConfigError("cannot parse error bound %q: %v", c.Bound, err)
	}
	return bound, nil
}

// Validate checks the semantic consistency of the configuration parameters.
// It ensures that numerical values are within valid ranges and that the
// chosen algorithm is supported.
//
// Parameters:
//   - availableAlgos: A slice of strings listing the valid algorithm names
//     (e.g., ["best", "extended"]).
//
// Returns:
//   - error: An error of type ConfigError if the configuration is invalid,
//     nil otherwise.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Limit < 1 {
		return apperrors.NewConfigError("denominator limit must be at least 1")
	}
	if c.Precision != 0 && c.Precision < rational.MinPrecision {
		return apperrors.NewConfigError("precision must be 0 (auto) or at least %d bits: %d", rational.MinPrecision, c.Precision)
	}
	if c.Bound != "" {
		bound, err := c.ParseBound()
		if err != nil {
			return err
		}
		if bound.Sign() <= 0 {
			return apperrors.NewConfigError("error bound must be strictly positive: %s", c.Bound)
		}
	}
	if _, err := rational.ParseTarget(c.Target, rational.DefaultPrecision); err != nil {
		return err
	}
	isAlgoAvailable := false
	for _, a := range availableAlgos {
		if a == c.Algo {
			isAlgoAvailable = true
			break
		}
	}
	if c.Algo != "all" && !isAlgoAvailable {
		return apperrors.NewConfigError("unrecognized algorithm: '%s'. Valid algorithms are: 'all' or [%s]", c.Algo, strings.Join(availableAlgos, ", "))
	}
	return nil
}

// ParseConfig parses the command-line arguments and populates an AppConfig
// struct. It defines all the command-line flags, sets their default values,
// and handles the parsing process. After parsing, it performs validation on
// the resulting configuration.
//
// The function is designed to be testable by allowing the input arguments
// and output writer to be specified.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: A slice of strings representing the command-line arguments
//     (typically os.Args[1:]).
//   - errorWriter: An io.Writer where parsing errors and usage information
//     will be printed.
//   - availableAlgos: A slice of valid algorithm names for validation.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: An error if flag parsing fails or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Algorithm to use: 'all' or one of [%s].", strings.Join(availableAlgos, ", "))
	targetHelp := fmt.Sprintf("Value to approximate: a decimal literal or one of [%s].", strings.Join(rational.TargetNames(), ", "))

	config := AppConfig{}
	fs.StringVar(&config.Target, "target", DefaultTarget, targetHelp)
	fs.StringVar(&config.Target, "t", DefaultTarget, "Value to approximate (shorthand).")
	fs.Uint64Var(&config.Limit, "limit", DefaultLimit, "Denominator limit for the search.")
	fs.Uint64Var(&config.Limit, "l", DefaultLimit, "Denominator limit (shorthand).")
	fs.StringVar(&config.Bound, "bound", "", "Error bound: widen the denominator limit until the error magnitude is within this value (-limit is the ceiling).")
	fs.StringVar(&config.Bound, "e", "", "Error bound (shorthand).")
	fs.UintVar(&config.Precision, "precision", 0, "Working precision in mantissa bits (0 derives it from the limit).")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for the search.")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.OutputFile, "output", "", "Output file path for the result.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Verbose, "v", false, "Enable debug-level logging.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	// Apply environment variable overrides for flags not explicitly set
	applyEnvOverrides(&config, fs)

	config.Algo = strings.ToLower(config.Algo)
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	return config, nil
}
