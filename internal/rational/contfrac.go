// Package rational provides implementations for computing the best rational
// approximation n/d (with d bounded by a caller-supplied limit) to a positive
// real target, using the continued-fraction expansion of the target.
//
// If x = a1 + 1/(a2 + 1/(a3 + ...)), the best approximation is found by
// truncating this series, with some adjustments due to the limit. Instead of
// keeping the sequence of partial quotients, the search keeps the running
// product of the matrices
//
//	(1 0) (a1 1) (a2 1) (a3 1) ...
//	(0 1) (1  0) (1  0) (1  0)
//
// whose first column is the current convergent. The product is unimodular at
// every step, which guarantees the numerator/denominator pairs produced are
// in lowest terms.
package rational

import (
	"context"
	"math/big"

	apperrors "github.com/agbru/ratcalc/internal/errors"
)

// candidate is one of the two fractions considered after the recurrence
// loop: the last full convergent, or the limit-extended semiconvergent.
type candidate struct {
	num *big.Int
	den *big.Int
	err *big.Float // signed: target - num/den
}

// absErr returns |err| as a fresh value at the candidate's precision.
func (c candidate) absErr() *big.Float {
	return new(big.Float).SetPrec(c.err.Prec()).Abs(c.err)
}

// runConvergents executes the continued-fraction matrix recurrence for the
// given limit and target and returns the two candidate fractions along with
// the number of recurrence steps taken.
//
// The loop runs while m10*a + m11 <= limit, right-multiplying the matrix
// state by [[a,1],[1,0]] each step, and stops early when the expansion
// terminates exactly (x == a). The matrix entries are exact integers; the
// working value x and the reciprocal chain use big.Float at prec mantissa
// bits.
//
// Preconditions (checked by the caller): limit >= 1, target > 0.
//
// Parameters:
//   - ctx: The context for cancellation, checked once per step.
//   - reporter: The progress callback (may be nil).
//   - limit: The denominator limit, >= 1.
//   - target: The value to approximate, > 0.
//   - prec: The working precision in mantissa bits.
//
// Returns:
//   - plain: The last convergent produced fully inside the loop.
//   - extended: The convergent extended with the largest next partial
//     quotient that still respects the limit.
//   - iterations: The number of recurrence steps taken.
//   - err: A context error if the run was canceled.
func runConvergents(ctx context.Context, reporter ProgressReporter, limit uint64, target *big.Float, prec uint) (plain, extended candidate, iterations int, err error) {
	l := new(big.Int).SetUint64(limit)
	one := new(big.Float).SetPrec(prec).SetInt64(1)

	// Identity matrix state.
	m00 := big.NewInt(1)
	m01 := big.NewInt(0)
	m10 := big.NewInt(0)
	m11 := big.NewInt(1)

	x := new(big.Float).SetPrec(prec).Set(target)
	a, _ := x.Int(nil) // floor, since x > 0

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return candidate{}, candidate{}, iterations, ctxErr
		}

		// Next denominator if we absorb this partial quotient.
		next := new(big.Int).Mul(m10, a)
		next.Add(next, m11)
		if next.Cmp(l) > 0 {
			break
		}
		iterations++

		// Right-multiply the state by [[a,1],[1,0]].
		t := new(big.Int).Mul(m00, a)
		t.Add(t, m01)
		m01, m00 = m00, t
		m11, m10 = m10, next

		if reporter != nil && m10.IsUint64() {
			reporter(denominatorProgress(m10.Uint64(), limit))
		}

		af := new(big.Float).SetPrec(prec).SetInt(a)
		if x.Cmp(af) == 0 {
			// The expansion terminates here: the target is exactly
			// the current convergent.
			break
		}
		rem := new(big.Float).SetPrec(prec).Sub(x, af)
		x = new(big.Float).SetPrec(prec).Quo(one, rem)
		a, _ = x.Int(nil)
	}

	// The remaining tail is between 0 and 1/a. Candidate A ignores it;
	// candidate B absorbs the largest next partial quotient a' that keeps
	// the denominator within the limit: a' = floor((limit - m11) / m10).
	plain = candidate{
		num: new(big.Int).Set(m00),
		den: new(big.Int).Set(m10),
	}
	plain.err = signedError(target, plain.num, plain.den, prec)

	ap := new(big.Int).Sub(l, m11)
	ap.Quo(ap, m10)
	en := new(big.Int).Mul(m00, ap)
	en.Add(en, m01)
	ed := new(big.Int).Mul(m10, ap)
	ed.Add(ed, m11)
	extended = candidate{num: en, den: ed}
	extended.err = signedError(target, extended.num, extended.den, prec)

	return plain, extended, iterations, nil
}

// signedError computes target - num/den at prec mantissa bits.
func signedError(target *big.Float, num, den *big.Int, prec uint) *big.Float {
	q := new(big.Float).SetPrec(prec).SetInt(num)
	d := new(big.Float).SetPrec(prec).SetInt(den)
	q.Quo(q, d)
	return new(big.Float).SetPrec(prec).Sub(target, q)
}

// checkPrecision verifies that the computed best error still carries the
// working precision. The big.Float arithmetic above preserves the receiver
// precision by construction, so a mismatch means an operand escaped the
// working-precision discipline; the search fails fast rather than return a
// possibly degraded fraction.
func checkPrecision(bestAbs *big.Float, prec uint) error {
	if bestAbs.Prec() < prec {
		return apperrors.NewPrecisionError(prec, bestAbs.Prec())
	}
	return nil
}

// BestConvergent is the corrected candidate selection: it returns whichever
// of the two candidates has the smaller absolute error, with ties going to
// the plain convergent. The returned error is signed (target - num/den).
//
// This is the default algorithm.
type BestConvergent struct{}

// Name returns the display name of the algorithm.
func (c *BestConvergent) Name() string { return "Best Convergent" }

// ApproximateCore runs the search and selects the closer candidate.
func (c *BestConvergent) ApproximateCore(ctx context.Context, reporter ProgressReporter, limit uint64, target *big.Float, opts Options) (*Approximation, error) {
	plain, extended, iterations, err := runConvergents(ctx, reporter, limit, target, opts.Precision)
	if err != nil {
		return nil, err
	}

	chosen := plain
	if plain.absErr().Cmp(extended.absErr()) > 0 {
		chosen = extended
	}
	if err := checkPrecision(chosen.absErr(), opts.Precision); err != nil {
		return nil, err
	}
	return &Approximation{
		Err:        chosen.err,
		Num:        chosen.num,
		Den:        chosen.den,
		Iterations: iterations,
	}, nil
}

// ExtendedConvergent reproduces the classical formulation of the search
// exactly: it compares the absolute errors of the two candidates but returns
// the limit-extended candidate's fraction unconditionally, paired with the
// smaller of the two error magnitudes. The reported error is therefore a
// magnitude (never negative) and can describe the other candidate.
//
// This selection is kept as a documented compatibility quirk; prefer
// BestConvergent, whose returned error always describes the returned
// fraction.
type ExtendedConvergent struct{}

// Name returns the display name of the algorithm.
func (c *ExtendedConvergent) Name() string { return "Extended Convergent" }

// ApproximateCore runs the search and returns the extended candidate with
// the minimum error magnitude.
func (c *ExtendedConvergent) ApproximateCore(ctx context.Context, reporter ProgressReporter, limit uint64, target *big.Float, opts Options) (*Approximation, error) {
	plain, extended, iterations, err := runConvergents(ctx, reporter, limit, target, opts.Precision)
	if err != nil {
		return nil, err
	}

	bestAbs := plain.absErr()
	if extAbs := extended.absErr(); bestAbs.Cmp(extAbs) > 0 {
		bestAbs = extAbs
	}
	if err := checkPrecision(bestAbs, opts.Precision); err != nil {
		return nil, err
	}
	return &Approximation{
		Err:        bestAbs,
		Num:        extended.num,
		Den:        extended.den,
		Iterations: iterations,
	}, nil
}
