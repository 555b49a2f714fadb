package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iqbalbaharum/swap-executor/internal/types"
)

func attemptKey(key string, fingerprint string) string {
	return fmt.Sprintf("%s:%s:%s", KEY_ATTEMPT, key, fingerprint)
}

func validStatus(status string) bool {
	switch status {
	case types.ATTEMPT_RESERVED, types.ATTEMPT_SUBMITTED, types.ATTEMPT_CONFIRMED, types.ATTEMPT_FAILED:
		return true
	}
	return false
}

// ReserveAttempt records a new attempt for (key, fingerprint). It returns
// ErrAttemptExists when the pair was reserved within ATTEMPT_TTL.
func ReserveAttempt(ctx context.Context, client *redis.Client, key string, fingerprint string) (*types.Attempt, error) {
	attempt := &types.Attempt{
		Key:         key,
		Fingerprint: fingerprint,
		Status:      types.ATTEMPT_RESERVED,
		LastUpdated: time.Now().Unix(),
	}

	data, err := json.Marshal(attempt)
	if err != nil {
		return nil, err
	}

	ok, err := client.SetNX(ctx, attemptKey(key, fingerprint), data, ATTEMPT_TTL).Result()
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrAttemptExists
	}

	return attempt, nil
}

// SetAttempt overwrites the stored attempt, keeping the remaining TTL.
func SetAttempt(ctx context.Context, client *redis.Client, attempt *types.Attempt) error {
	if !validStatus(attempt.Status) {
		return ErrInvalidStatus
	}

	attempt.LastUpdated = time.Now().Unix()
	data, err := json.Marshal(attempt)
	if err != nil {
		return err
	}

	if err := client.Set(ctx, attemptKey(attempt.Key, attempt.Fingerprint), data, redis.KeepTTL).Err(); err != nil {
		return err
	}

	return nil
}

// ReleaseAttempt removes the reservation so the pair can be attempted again.
func ReleaseAttempt(ctx context.Context, client *redis.Client, key string, fingerprint string) error {
	return client.Del(ctx, attemptKey(key, fingerprint)).Err()
}

func GetAttempt(ctx context.Context, client *redis.Client, key string, fingerprint string) (*types.Attempt, error) {
	data, err := client.Get(ctx, attemptKey(key, fingerprint)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}

	var attempt types.Attempt
	if err := json.Unmarshal([]byte(data), &attempt); err != nil {
		return nil, err
	}

	if !validStatus(attempt.Status) {
		return nil, errors.New("unexpected value in Redis")
	}

	return &attempt, nil
}
