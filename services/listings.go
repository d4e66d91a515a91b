package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/CPU-commits/CareerNest/db"
	"github.com/CPU-commits/CareerNest/metrics"
	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/res"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type ListingPage struct {
	Kind       models.Kind      `json:"kind"`
	Listings   []models.Listing `json:"listings"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}

type ListingsService struct {
	repos  map[models.Kind]repositories.ListingRepository
	logger *zap.Logger
}

func (s *ListingsService) Repository(kind models.Kind) (repositories.ListingRepository, error) {
	repo, ok := s.repos[kind]
	if !ok {
		return nil, fmt.Errorf("%s: %w", kind, res.ErrNotFound)
	}
	return repo, nil
}

func (s *ListingsService) Repositories() map[models.Kind]repositories.ListingRepository {
	return s.repos
}

// ListListings returns one page of a kind. On a store error the page is
// still returned, empty, together with the error.
func (s *ListingsService) ListListings(
	ctx context.Context,
	kind models.Kind,
	q repositories.ListQuery,
) (*ListingPage, *res.ErrorRes) {
	q = q.Normalize()
	page := &ListingPage{
		Kind:     kind,
		Listings: []models.Listing{},
		Page:     q.Page,
		Limit:    q.Limit,
	}
	repo, err := s.Repository(kind)
	if err != nil {
		return page, res.NewErrorRes(err)
	}
	ctx, cancel := withTimeout(ctx, db.QUERY_TIMEOUT)
	defer cancel()

	spec := repo.Spec()
	filter := repositories.BuildFilter(spec, q)
	total, err := repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("count listings", zap.String("kind", string(kind)), zap.Error(err))
		return page, res.NewErrorRes(err)
	}
	page.Total = total
	page.TotalPages = repositories.TotalPages(total, q.Limit)
	if q.Skip() >= total {
		return page, nil
	}

	listings, err := repo.Find(ctx, filter, repositories.FindOptions{
		Skip:  q.Skip(),
		Limit: int64(q.Limit),
		Sort:  repositories.SortFor(spec, q.Sort),
	})
	if err != nil {
		s.logger.Error("find listings", zap.String("kind", string(kind)), zap.Error(err))
		return page, res.NewErrorRes(err)
	}
	page.Listings = append(page.Listings, listings...)
	metrics.ListingsServed.WithLabelValues(string(kind), "listing").Add(float64(len(listings)))
	return page, nil
}

func (s *ListingsService) GetListing(
	ctx context.Context,
	kind models.Kind,
	slug string,
) (models.Listing, *res.ErrorRes) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, res.NewErrorRes(fmt.Errorf("slug: %w", res.ErrNotFound))
	}
	repo, err := s.Repository(kind)
	if err != nil {
		return nil, res.NewErrorRes(err)
	}
	ctx, cancel := withTimeout(ctx, db.QUERY_TIMEOUT)
	defer cancel()

	listing, err := repo.FindOne(ctx, bson.D{{Key: "slug", Value: slug}})
	if err != nil {
		errRes := res.NewErrorRes(err)
		if errRes.StatusCode != http.StatusNotFound {
			s.logger.Error("get listing", zap.String("kind", string(kind)), zap.String("slug", slug), zap.Error(err))
		}
		return nil, errRes
	}
	metrics.ListingsServed.WithLabelValues(string(kind), "detail").Inc()
	return listing, nil
}

// Latest returns the newest n listings of a kind matching filter.
func (s *ListingsService) Latest(
	ctx context.Context,
	kind models.Kind,
	filter bson.D,
	n int,
) ([]models.Listing, error) {
	repo, err := s.Repository(kind)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		filter = bson.D{}
	}
	listings, err := repo.Find(ctx, filter, repositories.FindOptions{
		Limit: int64(n),
		Sort:  repositories.LatestSort(),
	})
	if err != nil {
		return nil, err
	}
	metrics.ListingsServed.WithLabelValues(string(kind), "latest").Add(float64(len(listings)))
	return listings, nil
}

func NewListingsService(
	repos map[models.Kind]repositories.ListingRepository,
	logger *zap.Logger,
) *ListingsService {
	return &ListingsService{
		repos:  repos,
		logger: nopLogger(logger),
	}
}
