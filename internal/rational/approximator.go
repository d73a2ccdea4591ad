// Package rational provides implementations for computing best rational
// approximations. It exposes an `Approximator` interface that abstracts the
// candidate selection behavior, allowing the corrected selection ("best") and
// the classical selection ("extended") to be used interchangeably. The
// package integrates progress observation, metrics and tracing around the
// pure search core.
package rational

import (
	"context"
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	apperrors "github.com/agbru/ratcalc/internal/errors"
)

var (
	approximationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratcalc_approximations_total",
			Help: "The total number of rational approximations processed",
		},
		[]string{"algorithm", "status"},
	)
	approximationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ratcalc_approximation_duration_seconds",
			Help: "The duration of rational approximations in seconds",
		},
		[]string{"algorithm"},
	)
)

// Approximation is the outcome of a single search: the fraction Num/Den, the
// error between the target and that fraction, and the number of recurrence
// steps taken. Num and Den are coprime by construction of the recurrence and
// Den never exceeds the limit supplied to the call.
type Approximation struct {
	// Err is the error between the target and Num/Den. For the "best"
	// algorithm it is signed (target - Num/Den); for the "extended"
	// algorithm it is the minimum candidate error magnitude (see
	// ExtendedConvergent).
	Err *big.Float
	// Num is the numerator of the approximating fraction.
	Num *big.Int
	// Den is the denominator of the approximating fraction, >= 1.
	Den *big.Int
	// Iterations is the number of recurrence steps taken.
	Iterations int
}

// AbsErr returns |Err| as a fresh value.
func (a *Approximation) AbsErr() *big.Float {
	return new(big.Float).SetPrec(a.Err.Prec()).Abs(a.Err)
}

// Ratio returns Num/Den as an exact rational.
func (a *Approximation) Ratio() *big.Rat {
	return new(big.Rat).SetFrac(a.Num, a.Den)
}

// Approximator defines the public interface for a rational approximator.
// It is the primary abstraction used by the application's orchestration layer
// to interact with the candidate selection algorithms.
type Approximator interface {
	// Approximate computes the best rational approximation to target with
	// denominator at most limit. It is designed for safe concurrent
	// execution and supports cancellation through the provided context.
	// Progress updates are sent asynchronously to progressChan.
	//
	// Parameters:
	//   - ctx: The context for managing cancellation and deadlines.
	//   - progressChan: The channel for sending progress updates (may be nil).
	//   - approxIndex: A unique index for the approximator instance.
	//   - limit: The denominator limit, >= 1.
	//   - target: The value to approximate.
	//   - opts: Configuration options for the run.
	//
	// Returns:
	//   - *Approximation: The resulting fraction, error and step count.
	//   - error: An error if one occurred (validation, precision loss,
	//     context cancellation).
	Approximate(ctx context.Context, progressChan chan<- ProgressUpdate, approxIndex int, limit uint64, target *big.Float, opts Options) (*Approximation, error)

	// Name returns the display name of the selection algorithm.
	Name() string
}

// coreApproximator defines the internal interface for a pure search
// algorithm. Cores receive validated, normalized inputs: limit >= 1,
// target > 0, opts.Precision >= MinPrecision.
type coreApproximator interface {
	ApproximateCore(ctx context.Context, reporter ProgressReporter, limit uint64, target *big.Float, opts Options) (*Approximation, error)
	Name() string
}

// RatApproximator is an implementation of the Approximator interface that
// uses the Decorator design pattern. It wraps a coreApproximator to add
// cross-cutting concerns: input validation, the trivial short-circuit for
// non-positive targets, option normalization, metrics, tracing and the
// adaptation of the progress reporting mechanism.
type RatApproximator struct {
	core coreApproximator
}

// NewApproximator is a factory function that constructs and returns a new
// RatApproximator wrapping the given core. It panics if the core is nil,
// ensuring system integrity.
func NewApproximator(core coreApproximator) Approximator {
	if core == nil {
		panic("rational: the `coreApproximator` implementation cannot be nil")
	}
	return &RatApproximator{core: core}
}

// Name returns the name of the encapsulated core algorithm.
func (c *RatApproximator) Name() string {
	return c.core.Name()
}

// Approximate orchestrates the search. This method provides channel-based
// progress reporting; for observer-based reporting use
// ApproximateWithObservers.
func (c *RatApproximator) Approximate(ctx context.Context, progressChan chan<- ProgressUpdate, approxIndex int, limit uint64, target *big.Float, opts Options) (*Approximation, error) {
	subject := NewProgressSubject()
	if progressChan != nil {
		subject.Register(NewChannelObserver(progressChan))
	}
	return c.ApproximateWithObservers(ctx, subject, approxIndex, limit, target, opts)
}

// ApproximateWithObservers executes the search with observer-based progress
// reporting. It validates the contract (limit >= 1, target non-nil), handles
// the trivial case for non-positive targets, fills in the working precision,
// and delegates to the wrapped core. Metrics and a trace span cover the full
// run.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - subject: The progress subject with registered observers. If nil,
//     progress is ignored.
//   - approxIndex: A unique index for the approximator instance.
//   - limit: The denominator limit, >= 1.
//   - target: The value to approximate.
//   - opts: Configuration options for the run.
//
// Returns:
//   - *Approximation: The resulting fraction, error and step count.
//   - error: An error if one occurred.
func (c *RatApproximator) ApproximateWithObservers(ctx context.Context, subject *ProgressSubject, approxIndex int, limit uint64, target *big.Float, opts Options) (result *Approximation, err error) {
	tracer := otel.Tracer("rational")
	ctx, span := tracer.Start(ctx, "Approximate")
	defer span.End()

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
		}
		algoName := c.core.Name()
		approximationsTotal.WithLabelValues(algoName, status).Inc()
		approximationDuration.WithLabelValues(algoName).Observe(duration)

		log.Debug().
			Str("algo", algoName).
			Uint64("limit", limit).
			Float64("duration", duration).
			Str("status", status).
			Msg("approximation completed")
	}()

	if limit < 1 {
		return nil, apperrors.NewValidationError("limit", "must be at least 1", limit)
	}
	if target == nil {
		return nil, apperrors.NewValidationError("target", "must not be nil", nil)
	}

	opts = normalizeOptions(opts, limit)
	if opts.Precision < MinPrecision {
		return nil, apperrors.NewValidationError("precision", "below the minimum working precision", opts.Precision)
	}

	var reporter ProgressReporter
	if subject != nil {
		reporter = subject.AsProgressReporter(approxIndex)
	} else {
		reporter = func(float64) {}
	}

	if target.Sign() <= 0 {
		reporter(1.0)
		return trivialApproximation(target, opts.Precision), nil
	}

	result, err = c.core.ApproximateCore(ctx, reporter, limit, target, opts)
	if err == nil && result != nil {
		reporter(1.0)
	}
	return result, err
}

// trivialApproximation implements the short-circuit for target <= 0: the
// result is target/1 with a zero error and zero iterations. The numerator is
// the target truncated toward zero, which reproduces the raw value exactly
// whenever the target is integral. This is an inherited placeholder, not a
// general negative-number feature; behavior of the search proper is only
// defined for positive targets.
func trivialApproximation(target *big.Float, prec uint) *Approximation {
	num, _ := target.Int(nil)
	return &Approximation{
		Err:        new(big.Float).SetPrec(prec),
		Num:        num,
		Den:        big.NewInt(1),
		Iterations: 0,
	}
}
