package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/agbru/ratcalc/internal/config"
	"github.com/agbru/ratcalc/internal/rational"
)

func serviceTarget(t *testing.T, s string) *big.Float {
	t.Helper()
	f, _, err := big.ParseFloat(s, 10, 256, big.ToNearestEven)
	if err != nil {
		t.Fatalf("parsing %q: %v", s, err)
	}
	return f
}

func newTestService(maxLimit uint64) *ApproximatorService {
	return NewApproximatorService(rational.NewDefaultFactory(), config.AppConfig{}, maxLimit)
}

func TestApproximatorService_Approximate(t *testing.T) {
	svc := newTestService(0)

	res, err := svc.Approximate(context.Background(), "best", serviceTarget(t, "3.14159265"), 10)
	if err != nil {
		t.Fatalf("Approximate returned error: %v", err)
	}
	if res.Num.Int64() != 22 || res.Den.Int64() != 7 {
		t.Errorf("expected 22/7, got %s/%s", res.Num, res.Den)
	}
}

func TestApproximatorService_UnknownAlgorithm(t *testing.T) {
	svc := newTestService(0)

	if _, err := svc.Approximate(context.Background(), "newton", serviceTarget(t, "1.5"), 10); err == nil {
		t.Error("expected an error for an unknown algorithm")
	}
}

func TestApproximatorService_MaxLimit(t *testing.T) {
	svc := newTestService(1000)

	_, err := svc.Approximate(context.Background(), "best", serviceTarget(t, "1.5"), 2000)
	if !errors.Is(err, ErrMaxLimitExceeded) {
		t.Fatalf("expected ErrMaxLimitExceeded, got %v", err)
	}

	// A limit at the maximum is accepted.
	if _, err := svc.Approximate(context.Background(), "best", serviceTarget(t, "1.5"), 1000); err != nil {
		t.Errorf("limit at the maximum should succeed, got %v", err)
	}

	// maxLimit 0 disables the check.
	unlimited := newTestService(0)
	if _, err := unlimited.Approximate(context.Background(), "best", serviceTarget(t, "1.5"), 2000); err != nil {
		t.Errorf("unlimited service should accept any limit, got %v", err)
	}
}

func TestApproximatorService_ApproximateWithBound(t *testing.T) {
	svc := newTestService(0)
	bound, _, _ := big.ParseFloat("1e-6", 10, 256, big.ToNearestEven)

	res, err := svc.ApproximateWithBound(context.Background(), "best", serviceTarget(t, "3.14159265358979"), bound, 1000000)
	if err != nil {
		t.Fatalf("ApproximateWithBound returned error: %v", err)
	}
	if res.Status != rational.BoundAchieved {
		t.Errorf("expected the bound to be achieved, got %v", res.Status)
	}
	if res.Num.Int64() != 355 || res.Den.Int64() != 113 {
		t.Errorf("expected 355/113, got %s/%s", res.Num, res.Den)
	}
}

func TestApproximatorService_ApproximateWithBound_MaxLimit(t *testing.T) {
	svc := newTestService(100)
	bound := big.NewFloat(1e-6)

	_, err := svc.ApproximateWithBound(context.Background(), "best", serviceTarget(t, "3.14"), bound, 1000)
	if !errors.Is(err, ErrMaxLimitExceeded) {
		t.Fatalf("expected ErrMaxLimitExceeded, got %v", err)
	}
}
