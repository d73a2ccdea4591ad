package service

import (
	"context"
	"errors"
	"math/big"

	"github.com/agbru/ratcalc/internal/config"
	"github.com/agbru/ratcalc/internal/rational"
)

var (
	// ErrMaxLimitExceeded is returned when the requested denominator limit
	// exceeds the configured maximum.
	ErrMaxLimitExceeded = errors.New("maximum denominator limit exceeded")
)

// Service defines the interface for rational approximation services.
// This abstraction enables dependency injection and easier testing/mocking.
type Service interface {
	// Approximate computes the best rational approximation for the given
	// algorithm, target and denominator limit.
	//
	// Parameters:
	//   - ctx: The context for cancellation.
	//   - algoName: The name of the algorithm to use.
	//   - target: The value to approximate.
	//   - limit: The denominator limit.
	//
	// Returns:
	//   - *rational.Approximation: The result.
	//   - error: An error if validation or the search fails.
	Approximate(ctx context.Context, algoName string, target *big.Float, limit uint64) (*rational.Approximation, error)

	// ApproximateWithBound runs the error-bounded widening search with
	// limit as the ceiling.
	//
	// Parameters:
	//   - ctx: The context for cancellation.
	//   - algoName: The name of the algorithm to use.
	//   - target: The value to approximate.
	//   - bound: The target error magnitude, > 0.
	//   - limit: The ceiling on the trial denominator limit.
	//
	// Returns:
	//   - *rational.BoundedResult: The tagged result of the final round.
	//   - error: An error if validation or the search fails.
	ApproximateWithBound(ctx context.Context, algoName string, target *big.Float, bound *big.Float, limit uint64) (*rational.BoundedResult, error)
}

// ApproximatorService handles the core logic for computing rational
// approximations. It centralizes validation, algorithm retrieval, and
// execution options. Implements the Service interface.
type ApproximatorService struct {
	factory  rational.ApproximatorFactory
	config   config.AppConfig
	maxLimit uint64
}

// Ensure ApproximatorService implements Service interface.
var _ Service = (*ApproximatorService)(nil)

// NewApproximatorService creates a new instance of ApproximatorService.
//
// Parameters:
//   - factory: The factory to retrieve approximators from.
//   - cfg: The application configuration.
//   - maxLimit: The maximum allowed denominator limit (0 for no maximum).
func NewApproximatorService(factory rational.ApproximatorFactory, cfg config.AppConfig, maxLimit uint64) *ApproximatorService {
	return &ApproximatorService{
		factory:  factory,
		config:   cfg,
		maxLimit: maxLimit,
	}
}

// Approximate retrieves the requested approximator and executes the search
// with the configured options. It also performs validation on the limit.
func (s *ApproximatorService) Approximate(ctx context.Context, algoName string, target *big.Float, limit uint64) (*rational.Approximation, error) {
	if s.maxLimit > 0 && limit > s.maxLimit {
		return nil, ErrMaxLimitExceeded
	}

	approximator, err := s.factory.Get(algoName)
	if err != nil {
		return nil, err
	}

	// Progress reporting is omitted for synchronous/service usage; the
	// orchestration layer drives approximators directly when it wants a UI.
	return approximator.Approximate(ctx, nil, 0, limit, target, s.config.ToCalculationOptions())
}

// ApproximateWithBound retrieves the requested approximator and drives the
// error-bounded widening search with it.
func (s *ApproximatorService) ApproximateWithBound(ctx context.Context, algoName string, target *big.Float, bound *big.Float, limit uint64) (*rational.BoundedResult, error) {
	if s.maxLimit > 0 && limit > s.maxLimit {
		return nil, ErrMaxLimitExceeded
	}

	approximator, err := s.factory.Get(algoName)
	if err != nil {
		return nil, err
	}

	search := rational.NewBoundedSearch(approximator)
	return search.Approximate(ctx, bound, limit, target, s.config.ToCalculationOptions())
}
