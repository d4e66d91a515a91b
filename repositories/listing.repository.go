package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CPU-commits/CareerNest/metrics"
	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/res"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ListingRepository interface {
	Spec() models.KindSpec
	Find(ctx context.Context, filter bson.D, opts FindOptions) ([]models.Listing, error)
	Count(ctx context.Context, filter bson.D) (int64, error)
	FindOne(ctx context.Context, filter bson.D) (models.Listing, error)
}

type mongoListingRepository[T models.Listing] struct {
	spec  models.KindSpec
	model models.Collection
}

func observe(operation, collection string, start time.Time, err error) {
	metrics.MongoOperationsTotal.WithLabelValues(operation, collection, metrics.StatusLabel(err)).Inc()
	metrics.MongoOperationDuration.WithLabelValues(operation, collection).Observe(time.Since(start).Seconds())
}

func (r *mongoListingRepository[T]) Spec() models.KindSpec {
	return r.spec
}

func (r *mongoListingRepository[T]) Find(
	ctx context.Context,
	filter bson.D,
	opts FindOptions,
) (listings []models.Listing, err error) {
	start := time.Now()
	defer func() { observe("find", r.spec.Collection, start, err) }()

	findOptions := options.Find().SetSort(opts.Sort)
	if opts.Skip > 0 {
		findOptions.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		findOptions.SetLimit(opts.Limit)
	}
	cursor, err := r.model.GetAll(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []T
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	listings = make([]models.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, doc)
	}
	return listings, nil
}

func (r *mongoListingRepository[T]) Count(ctx context.Context, filter bson.D) (total int64, err error) {
	start := time.Now()
	defer func() { observe("count", r.spec.Collection, start, err) }()

	return r.model.Count(ctx, filter)
}

func (r *mongoListingRepository[T]) FindOne(ctx context.Context, filter bson.D) (listing models.Listing, err error) {
	start := time.Now()
	defer func() { observe("find_one", r.spec.Collection, start, err) }()

	var doc T
	if err = r.model.GetOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", r.spec.Label, res.ErrNotFound)
		}
		return nil, err
	}
	return doc, nil
}

func newMongoListingRepository[T models.Listing](kind models.Kind) ListingRepository {
	return &mongoListingRepository[T]{
		spec:  models.MustKind(kind),
		model: models.NewListingModel(kind),
	}
}

func NewListingRepository(kind models.Kind) ListingRepository {
	switch kind {
	case models.JOB:
		return newMongoListingRepository[models.Job](kind)
	case models.GOVT_JOB:
		return newMongoListingRepository[models.GovtJob](kind)
	case models.INTERNSHIP:
		return newMongoListingRepository[models.Internship](kind)
	case models.SCHOLARSHIP:
		return newMongoListingRepository[models.Scholarship](kind)
	case models.ADMISSION:
		return newMongoListingRepository[models.Admission](kind)
	case models.ADMIT_CARD:
		return newMongoListingRepository[models.AdmitCard](kind)
	case models.RESULT:
		return newMongoListingRepository[models.Result](kind)
	case models.PAPER:
		return newMongoListingRepository[models.Paper](kind)
	}
	panic(fmt.Sprintf("no repository for %q", kind))
}

// NewListingRepositories returns one repository per kind.
func NewListingRepositories() map[models.Kind]ListingRepository {
	repos := make(map[models.Kind]ListingRepository)
	for _, spec := range models.Kinds() {
		repos[spec.Kind] = NewListingRepository(spec.Kind)
	}
	return repos
}
