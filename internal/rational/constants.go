// Package rational provides implementations for computing best rational
// approximations. This file defines the numeric constants shared by the
// approximation algorithms.
package rational

import "math/bits"

const (
	// MinPrecision is the smallest working precision (in mantissa bits)
	// accepted for the floating-point side of the search. It matches the
	// 64-bit mantissa of an x87 extended-precision float, the narrowest
	// type for which the candidate comparison is known not to flip for
	// denominator limits up to 10^9.
	MinPrecision = 64

	// DefaultPrecision is the working precision used when the caller does
	// not request one and the denominator limit is small enough that the
	// derived precision does not exceed it.
	DefaultPrecision = 128

	// WideningFactor is the multiplier applied to the trial denominator
	// limit between rounds of the bounded search.
	WideningFactor = 10

	// precisionGuardBits is the margin added on top of the bits consumed
	// by the convergent error itself. Successive convergents differ by
	// roughly 1/limit^2, so resolving the comparison needs ~2*log2(limit)
	// bits plus headroom for the reciprocal chain.
	precisionGuardBits = 64
)

// DefaultPrecisionForLimit derives a safe working precision (in mantissa
// bits) for a given denominator limit. The best and second-best candidates
// can be as close as 1/limit², so the mantissa must carry at least twice the
// bit length of the limit on top of a fixed guard. The result is never below
// DefaultPrecision.
//
// Parameters:
//   - limit: The denominator limit the search will run against.
//
// Returns:
//   - uint: The derived working precision in bits.
func DefaultPrecisionForLimit(limit uint64) uint {
	derived := uint(2*bits.Len64(limit)) + precisionGuardBits
	if derived < DefaultPrecision {
		return DefaultPrecision
	}
	return derived
}
