package repository

import "context"

// TokenConsumptionRepository enforces single-use consumption of setup tokens.
type TokenConsumptionRepository interface {
	// IsConsumed is a point read by token id.
	IsConsumed(ctx context.Context, jti string) (bool, error)

	// MarkConsumed inserts the consumption record. It must be linearizable for
	// a given jti: exactly one concurrent caller succeeds, the rest get
	// apperrors.ErrConflict via the unique constraint.
	MarkConsumed(ctx context.Context, jti string, userID uint, tokenType string) error
}
