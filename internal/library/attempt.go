package bot

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/iqbalbaharum/swap-executor/internal/adapter"
	"github.com/iqbalbaharum/swap-executor/internal/storage"
	"github.com/iqbalbaharum/swap-executor/internal/types"
)

// AttemptLedger guards against broadcasting the same route twice under one
// idempotency key.
type AttemptLedger struct {
	db int
}

func NewAttemptLedger(db int) *AttemptLedger {
	return &AttemptLedger{db: db}
}

func (l *AttemptLedger) client() (*redis.Client, error) {
	redisClient, err := adapter.GetRedisClient(l.db)
	if err != nil {
		return nil, types.NewExecError(types.ErrAttemptLedger, "redis client unavailable", err)
	}
	return redisClient, nil
}

func (l *AttemptLedger) Reserve(ctx context.Context, key string, fingerprint string) (*types.Attempt, error) {
	redisClient, err := l.client()
	if err != nil {
		return nil, err
	}

	attempt, err := storage.ReserveAttempt(ctx, redisClient, key, fingerprint)
	if err != nil {
		if errors.Is(err, storage.ErrAttemptExists) {
			return nil, types.NewExecError(types.ErrDuplicateAttempt, "swap already attempted for idempotency key "+key, err)
		}
		return nil, types.NewExecError(types.ErrAttemptLedger, "failed to reserve attempt "+key, err)
	}

	return attempt, nil
}

func (l *AttemptLedger) Update(ctx context.Context, attempt *types.Attempt, status string, signature string) error {
	redisClient, err := l.client()
	if err != nil {
		return err
	}

	attempt.Status = status
	if signature != "" {
		attempt.Signature = signature
	}

	return storage.SetAttempt(ctx, redisClient, attempt)
}

func (l *AttemptLedger) Release(ctx context.Context, attempt *types.Attempt) error {
	redisClient, err := l.client()
	if err != nil {
		return err
	}

	return storage.ReleaseAttempt(ctx, redisClient, attempt.Key, attempt.Fingerprint)
}
