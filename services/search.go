package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/CPU-commits/CareerNest/db"
	"github.com/CPU-commits/CareerNest/funct"
	"github.com/CPU-commits/CareerNest/metrics"
	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/res"
	"github.com/CPU-commits/CareerNest/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const (
	SEARCH_PER_KIND = 5
	SEARCH_LIMIT    = 5
)

var ErrSearchQueryRequired = errors.New("Search query is required")

type SearchEngine interface {
	Search(ctx context.Context, spec models.KindSpec, term string, limit int) ([]models.Listing, error)
}

// Regex search straight on mongo
type mongoSearchEngine struct {
	repos map[models.Kind]repositories.ListingRepository
}

func (e *mongoSearchEngine) Search(
	ctx context.Context,
	spec models.KindSpec,
	term string,
	limit int,
) ([]models.Listing, error) {
	repo, ok := e.repos[spec.Kind]
	if !ok {
		return nil, errors.New("no repository for " + string(spec.Kind))
	}
	return repo.Find(
		ctx,
		bson.D{repositories.SearchClause(spec.SearchFields, term)},
		repositories.FindOptions{
			Limit: int64(limit),
			Sort: bson.D{
				{Key: spec.DateField, Value: -1},
				{Key: "_id", Value: -1},
			},
		},
	)
}

func NewMongoSearchEngine(repos map[models.Kind]repositories.ListingRepository) SearchEngine {
	return &mongoSearchEngine{repos: repos}
}

type SearchService struct {
	engine SearchEngine
	kinds  []models.KindSpec
	logger *zap.Logger
}

func (s *SearchService) Kinds() []models.KindSpec {
	return s.kinds
}

// Search queries every searchable kind, merges the hits newest first by
// each kind's own date and keeps the top SEARCH_LIMIT.
func (s *SearchService) Search(ctx context.Context, term string) ([]models.Listing, *res.ErrorRes) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, badRequest(ErrSearchQueryRequired)
	}
	ctx, cancel := withTimeout(ctx, db.QUERY_TIMEOUT)
	defer cancel()

	groups := make([][]models.Listing, len(s.kinds))
	err := utils.Concurrency(ctx, int64(len(s.kinds)), len(s.kinds), func(ctx context.Context, i int) error {
		listings, err := s.engine.Search(ctx, s.kinds[i], term, SEARCH_PER_KIND)
		if err != nil {
			return err
		}
		groups[i] = listings
		return nil
	})
	if err != nil {
		s.logger.Error("search", zap.String("q", term), zap.Error(err))
		return nil, internal(err)
	}

	results := make([]models.Listing, 0)
	for _, group := range groups {
		results = append(results, group...)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return models.DateOf(results[i]).After(models.DateOf(results[j]).Time)
	})
	if len(results) > SEARCH_LIMIT {
		results = results[:SEARCH_LIMIT]
	}
	for _, listing := range results {
		metrics.ListingsServed.WithLabelValues(string(listing.Kind()), "search").Inc()
	}
	return results, nil
}

// NewSearchService restricts searching to kindNames; unknown names are
// skipped with a warning and an empty list falls back to every kind.
func NewSearchService(engine SearchEngine, kindNames []string, logger *zap.Logger) *SearchService {
	logger = nopLogger(logger)
	var kinds []models.KindSpec
	for _, name := range kindNames {
		spec, err := models.ParseKind(name)
		if err != nil {
			logger.Warn("search kind ignored", zap.String("kind", name), zap.Error(err))
			continue
		}
		if funct.Some(kinds, func(k models.KindSpec) bool { return k.Kind == spec.Kind }) {
			continue
		}
		kinds = append(kinds, spec)
	}
	if len(kinds) == 0 {
		kinds = models.Kinds()
	}
	return &SearchService{
		engine: engine,
		kinds:  kinds,
		logger: logger,
	}
}
