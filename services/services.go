package services

import (
	"context"
	"net/http"
	"time"

	"github.com/CPU-commits/CareerNest/res"
	"go.uber.org/zap"
)

// NATS subjects
const (
	SUBJECT_NOTIFY_EMAIL        = "notify.email"
	SUBJECT_PREFERENCES_UPDATED = "users.preferences.updated"
	SUBJECT_LISTINGS            = "listings.>"
)

// Publisher is satisfied by *stack.NatsClient.
type Publisher interface {
	PublishEncode(subject string, data interface{}) error
}

func badRequest(err error) *res.ErrorRes {
	return &res.ErrorRes{
		Err:        err,
		StatusCode: http.StatusBadRequest,
	}
}

func internal(err error) *res.ErrorRes {
	return &res.ErrorRes{
		Err:        err,
		StatusCode: http.StatusInternalServerError,
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func nopLogger(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
