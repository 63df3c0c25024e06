package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "github.com/yourusername/skiclub-api/internal/pkg/errors"
)

// LockoutRepo реализует repository.LockoutRepository поверх Redis. Счетчик
// хранится во внешнем хранилище, чтобы все инстансы API видели единый бюджет
// неудачных попыток (in-memory карта на каждом инстансе давала бы N-кратный бюджет).
type LockoutRepo struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewLockoutRepo создает новый репозиторий счетчиков неудачных попыток
func NewLockoutRepo(client redis.UniversalClient) (*LockoutRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("Redis client cannot be nil for LockoutRepo")
	}
	return &LockoutRepo{
		client:    client,
		keyPrefix: "lockout:user",
	}, nil
}

func (r *LockoutRepo) key(userID uint) string {
	return fmt.Sprintf("%s:%d", r.keyPrefix, userID)
}

// IncrementFailures инкрементирует счетчик; на первой неудаче запускает окно через TTL
func (r *LockoutRepo) IncrementFailures(ctx context.Context, userID uint, window time.Duration) (int64, error) {
	key := r.key(userID)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to increment lockout counter: %v", apperrors.ErrUnavailable, err)
	}

	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return count, fmt.Errorf("%w: failed to set lockout window: %v", apperrors.ErrUnavailable, err)
		}
	}

	return count, nil
}

// FailureState возвращает текущий счетчик и момент сброса окна (из TTL ключа)
func (r *LockoutRepo) FailureState(ctx context.Context, userID uint) (int64, time.Time, error) {
	key := r.key(userID)

	count, err := r.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, time.Time{}, nil
		}
		return 0, time.Time{}, fmt.Errorf("%w: failed to read lockout counter: %v", apperrors.ErrUnavailable, err)
	}

	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return count, time.Time{}, fmt.Errorf("%w: failed to read lockout ttl: %v", apperrors.ErrUnavailable, err)
	}
	if ttl <= 0 {
		// Ключ без TTL — окно уже истекло или не запускалось
		return count, time.Time{}, nil
	}

	return count, time.Now().Add(ttl), nil
}

// ClearFailures сбрасывает счетчик после успешной верификации
func (r *LockoutRepo) ClearFailures(ctx context.Context, userID uint) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		return fmt.Errorf("%w: failed to clear lockout counter: %v", apperrors.ErrUnavailable, err)
	}
	return nil
}
