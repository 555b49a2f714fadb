package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqbalbaharum/swap-executor/internal/types"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestReserveAttempt(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()

	attempt, err := ReserveAttempt(ctx, client, "order-1", "abc")
	require.NoError(t, err)
	assert.Equal(t, types.ATTEMPT_RESERVED, attempt.Status)

	assert.True(t, mr.Exists("attempt:order-1:abc"))
	assert.Equal(t, ATTEMPT_TTL, mr.TTL("attempt:order-1:abc"))

	_, err = ReserveAttempt(ctx, client, "order-1", "abc")
	assert.ErrorIs(t, err, ErrAttemptExists)

	// a different route under the same key is a new attempt
	_, err = ReserveAttempt(ctx, client, "order-1", "def")
	assert.NoError(t, err)
}

func TestReserveAttemptAfterExpiry(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()

	_, err := ReserveAttempt(ctx, client, "order-2", "abc")
	require.NoError(t, err)

	mr.FastForward(ATTEMPT_TTL + time.Second)

	_, err = ReserveAttempt(ctx, client, "order-2", "abc")
	assert.NoError(t, err)
}

func TestSetAndGetAttempt(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()

	attempt, err := ReserveAttempt(ctx, client, "order-3", "abc")
	require.NoError(t, err)

	attempt.Status = types.ATTEMPT_CONFIRMED
	attempt.Signature = "5xyz"
	require.NoError(t, SetAttempt(ctx, client, attempt))

	stored, err := GetAttempt(ctx, client, "order-3", "abc")
	require.NoError(t, err)
	assert.Equal(t, types.ATTEMPT_CONFIRMED, stored.Status)
	assert.Equal(t, "5xyz", stored.Signature)
	assert.Equal(t, ATTEMPT_TTL, mr.TTL("attempt:order-3:abc"))

	attempt.Status = "BOGUS"
	assert.ErrorIs(t, SetAttempt(ctx, client, attempt), ErrInvalidStatus)

	_, err = GetAttempt(ctx, client, "missing", "abc")
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestReleaseAttempt(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()

	_, err := ReserveAttempt(ctx, client, "order-5", "abc")
	require.NoError(t, err)

	require.NoError(t, ReleaseAttempt(ctx, client, "order-5", "abc"))
	assert.False(t, mr.Exists("attempt:order-5:abc"))

	// releasing a missing key is a no-op
	require.NoError(t, ReleaseAttempt(ctx, client, "order-5", "abc"))

	_, err = ReserveAttempt(ctx, client, "order-5", "abc")
	assert.NoError(t, err)
}
