// Package rational provides implementations for computing best rational
// approximations. This file contains the error-bound-driven outer search.
package rational

import (
	"context"
	"math/big"

	apperrors "github.com/agbru/ratcalc/internal/errors"
)

// BoundStatus reports whether the bounded search met its error bound.
type BoundStatus int

const (
	// BoundAchieved means a trial limit was found whose approximation
	// error magnitude is within the requested bound.
	BoundAchieved BoundStatus = iota
	// BoundBestEffort means no trial limit up to the ceiling achieved the
	// bound; the result is the best approximation at the final trial
	// limit.
	BoundBestEffort
)

// String returns a human-readable name for the status.
func (s BoundStatus) String() string {
	switch s {
	case BoundAchieved:
		return "achieved"
	case BoundBestEffort:
		return "best-effort"
	default:
		return "unknown"
	}
}

// BoundedResult is the outcome of a bounded search: the approximation from
// the final round, the status tag, and aggregate counters across rounds.
type BoundedResult struct {
	Approximation

	// Status reports whether the error bound was met. Callers no longer
	// need to re-check the error magnitude themselves.
	Status BoundStatus
	// Rounds is the number of trial limits attempted.
	Rounds int
	// TotalIterations is the sum of the recurrence step counts of every
	// round, including the final one.
	TotalIterations int
	// TrialLimit is the denominator limit of the final round.
	TrialLimit uint64
}

// BoundedSearch repeatedly invokes an Approximator with a growing trial
// denominator limit until the approximation error magnitude falls within a
// target bound or the trial limit reaches the caller's ceiling. The trial
// limit starts at 1 and is multiplied by WideningFactor each round, clamped
// to the ceiling so the denominator invariant holds for the ceiling too.
//
// The search is a designed control-flow loop, not error recovery: it always
// produces a value (tagged BestEffort when the bound was not met) and only
// returns an error for precondition violations, precision loss or context
// cancellation.
type BoundedSearch struct {
	approximator Approximator
}

// NewBoundedSearch creates a bounded search driving the given approximator.
// It panics if the approximator is nil.
func NewBoundedSearch(approximator Approximator) *BoundedSearch {
	if approximator == nil {
		panic("rational: the `Approximator` implementation cannot be nil")
	}
	return &BoundedSearch{approximator: approximator}
}

// Name returns the name of the driven approximator.
func (b *BoundedSearch) Name() string {
	return b.approximator.Name()
}

// Approximate runs the widening search.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - bound: The target error magnitude, > 0.
//   - limit: The ceiling on the trial denominator limit, >= 1.
//   - target: The value to approximate.
//   - opts: Configuration options, shared by every round. A zero Precision
//     is resolved once against the ceiling so all rounds use the same
//     working precision.
//
// Returns:
//   - *BoundedResult: The tagged result of the final round.
//   - error: An error if one occurred.
func (b *BoundedSearch) Approximate(ctx context.Context, bound *big.Float, limit uint64, target *big.Float, opts Options) (*BoundedResult, error) {
	if bound == nil || bound.Sign() <= 0 {
		return nil, apperrors.NewValidationError("bound", "must be strictly positive", bound)
	}
	if limit < 1 {
		return nil, apperrors.NewValidationError("limit", "must be at least 1", limit)
	}
	opts = normalizeOptions(opts, limit)

	trial := uint64(1)
	rounds := 0
	totalIterations := 0
	for {
		res, err := b.approximator.Approximate(ctx, nil, 0, trial, target, opts)
		if err != nil {
			return nil, err
		}
		rounds++
		totalIterations += res.Iterations

		achieved := res.AbsErr().Cmp(bound) <= 0
		if achieved || trial >= limit {
			status := BoundBestEffort
			if achieved {
				status = BoundAchieved
			}
			return &BoundedResult{
				Approximation:   *res,
				Status:          status,
				Rounds:          rounds,
				TotalIterations: totalIterations,
				TrialLimit:      trial,
			}, nil
		}

		// Widen, clamping to the ceiling so the returned denominator
		// can never exceed it.
		if trial > limit/WideningFactor {
			trial = limit
		} else {
			trial *= WideningFactor
		}
	}
}
