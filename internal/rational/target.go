// Package rational provides implementations for computing best rational
// approximations. This file contains target parsing: decimal values plus a
// small table of named mathematical constants.
package rational

import (
	"math/big"
	"strings"

	apperrors "github.com/agbru/ratcalc/internal/errors"
)

// Named constants accepted as targets, given with enough decimal digits to
// saturate a 256-bit mantissa. They cover the classical approximation
// targets without pulling a full expression evaluator into the program.
const (
	piDigits    = "3.14159265358979323846264338327950288419716939937510582097494459230781640628620899862803482534211707"
	eDigits     = "2.71828182845904523536028747135266249775724709369995957496696762772407663035354759457138217852516643"
	phiDigits   = "1.61803398874989484820458683436563811772030917980576286213544862270526046281890244970720720418939114"
	sqrt2Digits = "1.41421356237309504880168872420969807856967187537694807317667973799073247846210703885038753432764157"
)

var namedTargets = map[string]string{
	"pi":    piDigits,
	"e":     eDigits,
	"phi":   phiDigits,
	"sqrt2": sqrt2Digits,
}

// ParseTarget converts a target expression into a big.Float at the given
// working precision. The expression is either a named constant (pi, e, phi,
// sqrt2 — case-insensitive) or a decimal/scientific literal such as
// "3.14159" or "6.25e-2".
//
// Parameters:
//   - s: The target expression.
//   - prec: The working precision in mantissa bits (0 uses DefaultPrecision).
//
// Returns:
//   - *big.Float: The parsed value.
//   - error: A ConfigError if the expression is empty or unparseable.
func ParseTarget(s string, prec uint) (*big.Float, error) {
	if prec == 0 {
		prec = DefaultPrecision
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, apperrors.NewConfigError("target expression is empty")
	}

	if digits, ok := namedTargets[strings.ToLower(trimmed)]; ok {
		trimmed = digits
	}

	f, _, err := big.ParseFloat(trimmed, 10, prec, big.ToNearestEven)
	if err != nil {
		return nil, apperrors.NewConfigError("cannot parse target %q: %v", s, err)
	}
	return f, nil
}

// TargetNames returns the sorted list of accepted named constants, for usage
// text and input validation messages.
func TargetNames() []string {
	return []string{"e", "phi", "pi", "sqrt2"}
}
