package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/CPU-commits/CareerNest/res"
	"github.com/redis/go-redis/v9"
)

type ResetSession struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	State     string    `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ResetSessionRepository interface {
	Save(ctx context.Context, session *ResetSession, ttl time.Duration) error
	Get(ctx context.Context, id string) (*ResetSession, error)
	Delete(ctx context.Context, id string) error
}

type redisResetSessionRepository struct {
	client *redis.Client
}

func resetKey(id string) string {
	return "reset:" + id
}

func (r *redisResetSessionRepository) Save(ctx context.Context, session *ResetSession, ttl time.Duration) error {
	session.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, resetKey(session.ID), payload, ttl).Err()
}

func (r *redisResetSessionRepository) Get(ctx context.Context, id string) (*ResetSession, error) {
	payload, err := r.client.Get(ctx, resetKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("reset session: %w", res.ErrNotFound)
		}
		return nil, err
	}
	var session ResetSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *redisResetSessionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, resetKey(id)).Err()
}

func NewResetSessionRepository(client *redis.Client) ResetSessionRepository {
	return &redisResetSessionRepository{client: client}
}
