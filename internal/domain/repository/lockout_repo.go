package repository

import (
	"context"
	"time"
)

// LockoutRepository tracks failed verification attempts per principal across a
// rolling window. State lives in a shared store so that every instance of the
// API observes the same failure budget.
type LockoutRepository interface {
	// IncrementFailures records one failure and returns the new count. The
	// window TTL is started on the first failure.
	IncrementFailures(ctx context.Context, userID uint, window time.Duration) (int64, error)

	// FailureState returns the current count and the time the window resets.
	// A zero count means no live window.
	FailureState(ctx context.Context, userID uint) (int64, time.Time, error)

	// ClearFailures drops the counter after a successful verification.
	ClearFailures(ctx context.Context, userID uint) error
}
