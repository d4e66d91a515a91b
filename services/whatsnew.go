package services

import (
	"context"
	"strings"
	"time"

	"github.com/CPU-commits/CareerNest/aggregate"
	"github.com/CPU-commits/CareerNest/db"
	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/res"
	"github.com/CPU-commits/CareerNest/utils"
	"go.uber.org/zap"
)

const DEFAULT_LATEST = 10
const MAX_LATEST = 50

type cachedLatest struct {
	Limit int              `json:"limit"`
	Items []aggregate.Item `json:"items"`
}

func LatestCacheKey(kind models.Kind) string {
	return "latest:" + string(kind)
}

type WhatsNewService struct {
	listings *ListingsService
	search   *SearchService
	cache    repositories.CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

func (w *WhatsNewService) latestOf(ctx context.Context, kind models.Kind, limit int) ([]aggregate.Item, error) {
	key := LatestCacheKey(kind)
	if w.cache != nil {
		var cached cachedLatest
		hit, err := w.cache.Get(ctx, key, &cached)
		if err != nil {
			w.logger.Warn("latest cache", zap.String("key", key), zap.Error(err))
		}
		if hit && cached.Limit == limit {
			return cached.Items, nil
		}
	}
	listings, err := w.listings.Latest(ctx, kind, nil, limit)
	if err != nil {
		return nil, err
	}
	items := aggregate.FromListings(listings)
	if w.cache != nil {
		if err := w.cache.Set(ctx, key, cachedLatest{Limit: limit, Items: items}, w.cacheTTL); err != nil {
			w.logger.Warn("latest cache", zap.String("key", key), zap.Error(err))
		}
	}
	return items, nil
}

// Latest fetches every kind in parallel. Any failure fails the whole call.
func (w *WhatsNewService) Latest(ctx context.Context, limit int) ([]aggregate.Item, *res.ErrorRes) {
	if limit < 1 {
		limit = DEFAULT_LATEST
	}
	if limit > MAX_LATEST {
		limit = MAX_LATEST
	}
	ctx, cancel := withTimeout(ctx, db.QUERY_TIMEOUT)
	defer cancel()

	kinds := models.Kinds()
	groups := make([][]aggregate.Item, len(kinds))
	err := utils.Concurrency(ctx, int64(len(kinds)), len(kinds), func(ctx context.Context, i int) error {
		items, err := w.latestOf(ctx, kinds[i].Kind, limit)
		if err != nil {
			return err
		}
		groups[i] = items
		return nil
	})
	if err != nil {
		w.logger.Error("whats new", zap.Error(err))
		return nil, res.NewErrorRes(err)
	}
	return aggregate.Merge(groups...), nil
}

// WhatsNew is the latest view, or the search results when q is set.
func (w *WhatsNewService) WhatsNew(ctx context.Context, q string, limit int) ([]aggregate.Item, *res.ErrorRes) {
	if strings.TrimSpace(q) == "" {
		return w.Latest(ctx, limit)
	}
	listings, errRes := w.search.Search(ctx, q)
	if errRes != nil {
		return nil, errRes
	}
	return aggregate.Merge(aggregate.FromListings(listings)), nil
}

func (w *WhatsNewService) Invalidate(ctx context.Context, kinds ...models.Kind) error {
	if w.cache == nil {
		return nil
	}
	keys := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		keys = append(keys, LatestCacheKey(kind))
	}
	return w.cache.Delete(ctx, keys...)
}

// NewWhatsNewService takes a nil cache to always read through to mongo.
func NewWhatsNewService(
	listings *ListingsService,
	search *SearchService,
	cache repositories.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *WhatsNewService {
	return &WhatsNewService{
		listings: listings,
		search:   search,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   nopLogger(logger),
	}
}
