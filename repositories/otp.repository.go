package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CPU-commits/CareerNest/res"
	"github.com/redis/go-redis/v9"
)

// OTP purposes, they namespace the keys so a signup code can never reset a password
const (
	OTP_EMAIL    = "email"
	OTP_PASSWORD = "password"
)

type OTPRecord struct {
	Hash     string
	Attempts int
}

type OTPRepository interface {
	Save(ctx context.Context, purpose, subject, hash string, ttl time.Duration) error
	// Attempt counts one guess and returns the record with the attempts
	// including this one. It never recreates an expired code.
	Attempt(ctx context.Context, purpose, subject string) (*OTPRecord, error)
	Delete(ctx context.Context, purpose, subject string) error
	// Consume deletes the code and reports whether this call removed it.
	Consume(ctx context.Context, purpose, subject string) (bool, error)
	MarkVerified(ctx context.Context, email string, ttl time.Duration) error
	IsVerified(ctx context.Context, email string) (bool, error)
	ClearVerified(ctx context.Context, email string) error
}

type redisOTPRepository struct {
	client *redis.Client
}

func otpKey(purpose, subject string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, subject)
}

func verifiedKey(email string) string {
	return "verified:" + NormalizeEmail(email)
}

func (r *redisOTPRepository) Save(ctx context.Context, purpose, subject, hash string, ttl time.Duration) error {
	key := otpKey(purpose, subject)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, "hash", hash, "attempts", 0)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

var attemptScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return false
end
local attempts = redis.call("HINCRBY", KEYS[1], "attempts", 1)
return {redis.call("HGET", KEYS[1], "hash"), attempts}
`)

func (r *redisOTPRepository) Attempt(ctx context.Context, purpose, subject string) (*OTPRecord, error) {
	result, err := attemptScript.Run(ctx, r.client, []string{otpKey(purpose, subject)}).Slice()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("otp expired or never sent: %w", res.ErrNotFound)
		}
		return nil, err
	}
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected otp attempt reply %v", result)
	}
	hash, _ := result[0].(string)
	attempts, _ := result[1].(int64)
	if hash == "" {
		return nil, fmt.Errorf("otp expired or never sent: %w", res.ErrNotFound)
	}
	return &OTPRecord{
		Hash:     hash,
		Attempts: int(attempts),
	}, nil
}

func (r *redisOTPRepository) Delete(ctx context.Context, purpose, subject string) error {
	return r.client.Del(ctx, otpKey(purpose, subject)).Err()
}

func (r *redisOTPRepository) Consume(ctx context.Context, purpose, subject string) (bool, error) {
	n, err := r.client.Del(ctx, otpKey(purpose, subject)).Result()
	return n > 0, err
}

func (r *redisOTPRepository) MarkVerified(ctx context.Context, email string, ttl time.Duration) error {
	return r.client.Set(ctx, verifiedKey(email), 1, ttl).Err()
}

func (r *redisOTPRepository) IsVerified(ctx context.Context, email string) (bool, error) {
	n, err := r.client.Exists(ctx, verifiedKey(email)).Result()
	return n > 0, err
}

func (r *redisOTPRepository) ClearVerified(ctx context.Context, email string) error {
	return r.client.Del(ctx, verifiedKey(email)).Err()
}

func NewOTPRepository(client *redis.Client) OTPRepository {
	return &redisOTPRepository{client: client}
}
