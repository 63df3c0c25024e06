package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/skiclub-api/internal/domain/repository"
)

// LockoutStatus describes the failure budget of a principal.
type LockoutStatus struct {
	Allowed  bool      `json:"allowed"`
	Failures int64     `json:"failures"`
	ResetAt  time.Time `json:"reset_at,omitempty"`
}

// LockoutService throttles a principal across many codes over time. It is
// deliberately independent of any single code's attempt cap: that cap bounds
// guesses against one code, this service bounds failures across the whole
// rolling window. Both must allow an attempt for verification to proceed.
type LockoutService struct {
	lockoutRepo repository.LockoutRepository
	threshold   int64
	window      time.Duration
}

// NewLockoutService creates a lockout service with the given policy.
func NewLockoutService(lockoutRepo repository.LockoutRepository, threshold int, window time.Duration) (*LockoutService, error) {
	if lockoutRepo == nil {
		return nil, fmt.Errorf("lockout repository is required")
	}
	if threshold <= 0 {
		threshold = 10
	}
	if window <= 0 {
		window = time.Hour
	}
	return &LockoutService{
		lockoutRepo: lockoutRepo,
		threshold:   int64(threshold),
		window:      window,
	}, nil
}

// Check reports whether the principal may attempt a verification. When the
// window budget is spent, ResetAt is the moment the lockout clears.
func (s *LockoutService) Check(ctx context.Context, userID uint) (*LockoutStatus, error) {
	count, resetAt, err := s.lockoutRepo.FailureState(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &LockoutStatus{
		Allowed:  count < s.threshold,
		Failures: count,
		ResetAt:  resetAt,
	}, nil
}

// RecordFailure counts one failed verification against the rolling window.
func (s *LockoutService) RecordFailure(ctx context.Context, userID uint) error {
	_, err := s.lockoutRepo.IncrementFailures(ctx, userID, s.window)
	return err
}

// Reset clears the counter after any successful verification.
func (s *LockoutService) Reset(ctx context.Context, userID uint) error {
	return s.lockoutRepo.ClearFailures(ctx, userID)
}
