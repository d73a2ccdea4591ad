// Package config provides the configuration management for the ratcalc
// application. This file contains environment variable utilities for
// configuration override.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// getEnvString returns the value of the environment variable with the given
// key (prefixed with EnvPrefix), or the default value if not set.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvUint64 returns the value of the environment variable with the given
// key (prefixed with EnvPrefix) parsed as uint64, or the default value if
// not set or invalid.
func getEnvUint64(key string, defaultVal uint64) uint64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseUint(val, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvUint returns the value of the environment variable with the given
// key (prefixed with EnvPrefix) parsed as uint, or the default value if not
// set or invalid.
func getEnvUint(key string, defaultVal uint) uint {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseUint(val, 10, 32); err == nil {
			return uint(parsed)
		}
	}
	return defaultVal
}

// getEnvBool returns the value of the environment variable with the given
// key (prefixed with EnvPrefix) parsed as bool, or the default value if not
// set. Accepts "true", "1", "yes" as true; "false", "0", "no" as false
// (case-insensitive).
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

// getEnvDuration returns the value of the environment variable with the
// given key (prefixed with EnvPrefix) parsed as time.Duration, or the
// default value if not set or invalid. Accepts formats like "5m", "30s".
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// Supported environment variables:
//   - RATCALC_TARGET: Value to approximate (string: literal or constant name)
//   - RATCALC_LIMIT: Denominator limit (uint64)
//   - RATCALC_BOUND: Error bound for the widening search (string)
//   - RATCALC_PRECISION: Working precision in mantissa bits (uint)
//   - RATCALC_ALGO: Algorithm to use (string: best, extended, all)
//   - RATCALC_PORT: Port for server mode (string)
//   - RATCALC_TIMEOUT: Search timeout (duration: "30s", "5m")
//   - RATCALC_SERVER: Enable server mode (bool: true/false, 1/0, yes/no)
//   - RATCALC_JSON: Enable JSON output (bool)
//   - RATCALC_VERBOSE: Enable debug-level logging (bool)
//   - RATCALC_QUIET: Enable quiet mode (bool)
//   - RATCALC_NO_COLOR: Disable colored output (bool)
//   - RATCALC_OUTPUT: Output file path (string)
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "target") && !isFlagSet(fs, "t") {
		config.Target = getEnvString("TARGET", config.Target)
	}
	if !isFlagSet(fs, "limit") && !isFlagSet(fs, "l") {
		config.Limit = getEnvUint64("LIMIT", config.Limit)
	}
	if !isFlagSet(fs, "bound") && !isFlagSet(fs, "e") {
		config.Bound = getEnvString("BOUND", config.Bound)
	}
	if !isFlagSet(fs, "precision") {
		config.Precision = getEnvUint("PRECISION", config.Precision)
	}
	if !isFlagSet(fs, "timeout") {
		config.Timeout = getEnvDuration("TIMEOUT", config.Timeout)
	}
	if !isFlagSet(fs, "algo") {
		config.Algo = getEnvString("ALGO", config.Algo)
	}
	if !isFlagSet(fs, "port") {
		config.Port = getEnvString("PORT", config.Port)
	}
	if !isFlagSet(fs, "output") && !isFlagSet(fs, "o") {
		config.OutputFile = getEnvString("OUTPUT", config.OutputFile)
	}
	if !isFlagSet(fs, "server") {
		config.ServerMode = getEnvBool("SERVER", config.ServerMode)
	}
	if !isFlagSet(fs, "json") {
		config.JSONOutput = getEnvBool("JSON", config.JSONOutput)
	}
	if !isFlagSet(fs, "v") {
		config.Verbose = getEnvBool("VERBOSE", config.Verbose)
	}
	if !isFlagSet(fs, "quiet") && !isFlagSet(fs, "q") {
		config.Quiet = getEnvBool("QUIET", config.Quiet)
	}
	if !isFlagSet(fs, "no-color") {
		config.NoColor = getEnvBool("NO_COLOR", config.NoColor)
	}
}
