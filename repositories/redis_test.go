package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/res"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestOTPRepository(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	otps := repositories.NewOTPRepository(client)

	_, err := otps.Attempt(ctx, repositories.OTP_EMAIL, "a@b.co")
	assert.ErrorIs(t, err, res.ErrNotFound)
	// A guess against a missing code must not leave a key behind
	assert.False(t, mr.Exists("otp:email:a@b.co"))

	require.NoError(t, otps.Save(ctx, repositories.OTP_EMAIL, "a@b.co", "hash", time.Minute))
	record, err := otps.Attempt(ctx, repositories.OTP_EMAIL, "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, "hash", record.Hash)
	assert.Equal(t, 1, record.Attempts)
	record, err = otps.Attempt(ctx, repositories.OTP_EMAIL, "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, 2, record.Attempts)
	assert.Greater(t, mr.TTL("otp:email:a@b.co"), time.Duration(0))

	// Purposes do not share codes
	_, err = otps.Attempt(ctx, repositories.OTP_PASSWORD, "a@b.co")
	assert.ErrorIs(t, err, res.ErrNotFound)

	// Saving again resets the attempts
	require.NoError(t, otps.Save(ctx, repositories.OTP_EMAIL, "a@b.co", "other", time.Minute))
	record, err = otps.Attempt(ctx, repositories.OTP_EMAIL, "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, "other", record.Hash)
	assert.Equal(t, 1, record.Attempts)

	mr.FastForward(2 * time.Minute)
	_, err = otps.Attempt(ctx, repositories.OTP_EMAIL, "a@b.co")
	assert.ErrorIs(t, err, res.ErrNotFound)
	assert.False(t, mr.Exists("otp:email:a@b.co"))
}

func TestOTPConsumeOnce(t *testing.T) {
	ctx := context.Background()
	_, client := newRedis(t)
	otps := repositories.NewOTPRepository(client)

	require.NoError(t, otps.Save(ctx, repositories.OTP_PASSWORD, "a@b.co", "hash", time.Minute))
	consumed, err := otps.Consume(ctx, repositories.OTP_PASSWORD, "a@b.co")
	require.NoError(t, err)
	assert.True(t, consumed)

	consumed, err = otps.Consume(ctx, repositories.OTP_PASSWORD, "a@b.co")
	require.NoError(t, err)
	assert.False(t, consumed)
}

func TestVerifiedFlag(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	otps := repositories.NewOTPRepository(client)

	verified, err := otps.IsVerified(ctx, "A@B.co")
	require.NoError(t, err)
	assert.False(t, verified)

	require.NoError(t, otps.MarkVerified(ctx, " A@B.co ", time.Minute))
	verified, err = otps.IsVerified(ctx, "a@b.co")
	require.NoError(t, err)
	assert.True(t, verified)

	require.NoError(t, otps.ClearVerified(ctx, "a@b.co"))
	verified, _ = otps.IsVerified(ctx, "a@b.co")
	assert.False(t, verified)

	require.NoError(t, otps.MarkVerified(ctx, "a@b.co", time.Minute))
	mr.FastForward(time.Hour)
	verified, _ = otps.IsVerified(ctx, "a@b.co")
	assert.False(t, verified)
}

func TestResetSessionRepository(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	sessions := repositories.NewResetSessionRepository(client)

	_, err := sessions.Get(ctx, "missing")
	assert.ErrorIs(t, err, res.ErrNotFound)

	session := &repositories.ResetSession{ID: "id-1", Email: "a@b.co", State: "otpRequested"}
	require.NoError(t, sessions.Save(ctx, session, time.Minute))
	assert.False(t, session.UpdatedAt.IsZero())

	got, err := sessions.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", got.Email)
	assert.Equal(t, "otpRequested", got.State)
	assert.True(t, mr.TTL("reset:id-1") > 0)

	require.NoError(t, sessions.Delete(ctx, "id-1"))
	_, err = sessions.Get(ctx, "id-1")
	assert.ErrorIs(t, err, res.ErrNotFound)
}

func TestCacheRepository(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	cache := repositories.NewCacheRepository("test", client)

	var value map[string]int
	hit, err := cache.Get(ctx, "k", &value)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))
	hit, err = cache.Get(ctx, "k", &value)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, value["a"])

	require.NoError(t, cache.Delete(ctx))
	require.NoError(t, cache.Delete(ctx, "k", "absent"))
	hit, _ = cache.Get(ctx, "k", &value)
	assert.False(t, hit)

	mr.Set("broken", "{not json")
	hit, err = cache.Get(ctx, "broken", &value)
	assert.Error(t, err)
	assert.False(t, hit)
}
