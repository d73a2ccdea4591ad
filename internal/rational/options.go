// Package rational provides implementations for computing best rational
// approximations. This file contains configuration options for the
// approximation algorithms.
package rational

// Options configures a rational approximation run.
type Options struct {
	// Precision is the working precision, in mantissa bits, used for the
	// floating-point side of the search (the running value x, the
	// reciprocal chain and the candidate errors). If 0, a precision is
	// derived from the denominator limit at the call boundary. Values
	// below MinPrecision are rejected by validation.
	Precision uint
}

// normalizeOptions returns a copy of opts with default values filled in for
// zero values. The precision default depends on the denominator limit, so
// the limit of the current call must be supplied.
//
// Parameters:
//   - opts: The options to normalize.
//   - limit: The denominator limit of the current call.
//
// Returns:
//   - Options: A normalized copy of opts with defaults applied.
func normalizeOptions(opts Options, limit uint64) Options {
	normalized := opts
	if normalized.Precision == 0 {
		normalized.Precision = DefaultPrecisionForLimit(limit)
	}
	return normalized
}
