// Package models defines the JSON data transfer objects shared by the HTTP
// API and the CLI's JSON output mode. Exact values (the fraction terms and
// the error) are rendered as decimal strings, since they routinely exceed
// what JSON numbers can carry.
package models

import (
	"time"

	"github.com/agbru/ratcalc/internal/rational"
)

// ApproximationResult is the serialized form of a rational approximation.
type ApproximationResult struct {
	// Target is the requested target expression.
	Target string `json:"target"`
	// Limit is the requested denominator limit (the ceiling, for bounded
	// searches).
	Limit uint64 `json:"limit"`
	// Algorithm is the name of the selection algorithm used.
	Algorithm string `json:"algorithm"`
	// Numerator and Denominator are the terms of the approximating
	// fraction, in lowest terms.
	Numerator   string `json:"numerator"`
	Denominator string `json:"denominator"`
	// Error is the approximation error reported by the algorithm (signed
	// for "best", a magnitude for "extended").
	Error string `json:"error"`
	// AbsError is the error magnitude.
	AbsError string `json:"abs_error"`
	// Iterations is the recurrence step count (summed over rounds for
	// bounded searches).
	Iterations int `json:"iterations"`
	// Duration is the formatted execution time.
	Duration string `json:"duration"`

	// Bounded-search fields, present only when a bound was requested.

	// Bound is the requested error bound.
	Bound string `json:"bound,omitempty"`
	// Status is "achieved" or "best-effort".
	Status string `json:"status,omitempty"`
	// Rounds is the number of trial limits attempted.
	Rounds int `json:"rounds,omitempty"`
	// TrialLimit is the denominator limit of the final round.
	TrialLimit uint64 `json:"trial_limit,omitempty"`
}

// errFormat renders errors compactly in scientific notation.
const errFormat = 'g'

// FromApproximation builds the serialized form of a plain search result.
func FromApproximation(target string, limit uint64, algorithm string, res *rational.Approximation, duration time.Duration) ApproximationResult {
	return ApproximationResult{
		Target:      target,
		Limit:       limit,
		Algorithm:   algorithm,
		Numerator:   res.Num.String(),
		Denominator: res.Den.String(),
		Error:       res.Err.Text(errFormat, 12),
		AbsError:    res.AbsErr().Text(errFormat, 12),
		Iterations:  res.Iterations,
		Duration:    duration.String(),
	}
}

// FromBoundedResult builds the serialized form of a bounded search result.
func FromBoundedResult(target string, bound string, limit uint64, algorithm string, res *rational.BoundedResult, duration time.Duration) ApproximationResult {
	out := FromApproximation(target, limit, algorithm, &res.Approximation, duration)
	out.Iterations = res.TotalIterations
	out.Bound = bound
	out.Status = res.Status.String()
	out.Rounds = res.Rounds
	out.TrialLimit = res.TrialLimit
	return out
}
