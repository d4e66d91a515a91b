package controllers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/res"
	"github.com/CPU-commits/CareerNest/services"
	"github.com/CPU-commits/CareerNest/stack"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var ErrBadSubject = errors.New("bad listing event subject")

type Indexer interface {
	Index(ctx context.Context, listings ...models.Listing) (*services.IndexStats, error)
	Delete(ctx context.Context, kind models.Kind, id string) error
}

type Invalidator interface {
	Invalidate(ctx context.Context, kinds ...models.Kind) error
}

type ListingEventsController struct {
	Repos map[models.Kind]repositories.ListingRepository
	// Nil when elasticsearch is not configured
	Indexer  Indexer
	WhatsNew Invalidator
	Logger   *zap.Logger
}

func ParseSubject(subject string) (models.KindSpec, string, error) {
	parts := strings.Split(subject, ".")
	if len(parts) != 3 || parts[0] != "listings" {
		return models.KindSpec{}, "", fmt.Errorf("%w: %q", ErrBadSubject, subject)
	}
	spec, err := models.ParseKind(parts[1])
	if err != nil {
		return models.KindSpec{}, "", fmt.Errorf("%w: %v", ErrBadSubject, err)
	}
	switch parts[2] {
	case res.LISTING_UPSERTED, res.LISTING_DELETED:
		return spec, parts[2], nil
	}
	return models.KindSpec{}, "", fmt.Errorf("%w: unknown action %q", ErrBadSubject, parts[2])
}

func (l *ListingEventsController) load(ctx context.Context, spec models.KindSpec, event res.ListingEvent) (models.Listing, error) {
	repo, ok := l.Repos[spec.Kind]
	if !ok {
		return nil, fmt.Errorf("no repository for %s", spec.Kind)
	}
	if event.ID != "" {
		id, err := primitive.ObjectIDFromHex(event.ID)
		if err != nil {
			return nil, fmt.Errorf("listing id %q: %w", event.ID, err)
		}
		return repo.FindOne(ctx, bson.D{{Key: "_id", Value: id}})
	}
	if event.Slug != "" {
		return repo.FindOne(ctx, bson.D{{Key: "slug", Value: event.Slug}})
	}
	return nil, errors.New("listing event without _id or slug")
}

// Handle applies one listing event. Upserts are read back from mongo so the
// index never holds a document the store does not.
func (l *ListingEventsController) Handle(ctx context.Context, subject string, data []byte) error {
	spec, action, err := ParseSubject(subject)
	if err != nil {
		return err
	}
	var event res.ListingEvent
	if err := stack.DecodeMessage(data, &event); err != nil {
		return fmt.Errorf("decode %s: %w", subject, err)
	}

	switch action {
	case res.LISTING_UPSERTED:
		listing, err := l.load(ctx, spec, event)
		if errors.Is(err, res.ErrNotFound) {
			l.Logger.Warn("upserted listing not found", zap.String("subject", subject), zap.String("id", event.ID))
			return nil
		}
		if err != nil {
			return err
		}
		if l.Indexer != nil {
			if _, err := l.Indexer.Index(ctx, listing); err != nil {
				return err
			}
		}
	case res.LISTING_DELETED:
		if l.Indexer != nil && event.ID != "" {
			if err := l.Indexer.Delete(ctx, spec.Kind, event.ID); err != nil {
				return err
			}
		}
	}
	if l.WhatsNew != nil {
		if err := l.WhatsNew.Invalidate(ctx, spec.Kind); err != nil {
			l.Logger.Warn("latest cache invalidation", zap.String("kind", string(spec.Kind)), zap.Error(err))
		}
	}
	return nil
}
