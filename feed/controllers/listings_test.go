package controllers_test

import (
	"context"
	"errors"
	"testing"

	controllers "github.com/CPU-commits/CareerNest/feed/controllers"
	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/repositories/repotest"
	"github.com/CPU-commits/CareerNest/res"
	"github.com/CPU-commits/CareerNest/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var ctx = context.Background()

type deletion struct {
	kind models.Kind
	id   string
}

type fakeIndexer struct {
	indexed []models.Listing
	deleted []deletion
	err     error
}

func (f *fakeIndexer) Index(ctx context.Context, listings ...models.Listing) (*services.IndexStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.indexed = append(f.indexed, listings...)
	return &services.IndexStats{Indexed: int64(len(listings))}, nil
}

func (f *fakeIndexer) Delete(ctx context.Context, kind models.Kind, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, deletion{kind: kind, id: id})
	return nil
}

type fakeInvalidator struct {
	kinds []models.Kind
	err   error
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, kinds ...models.Kind) error {
	f.kinds = append(f.kinds, kinds...)
	return f.err
}

func TestParseSubject(t *testing.T) {
	valid := map[string]models.Kind{
		"listings.job.upserted":       models.JOB,
		"listings.jobs.deleted":       models.JOB,
		"listings.govt-jobs.upserted": models.GOVT_JOB,
		"listings.admit_card.deleted": models.ADMIT_CARD,
	}
	for subject, kind := range valid {
		spec, action, err := controllers.ParseSubject(subject)
		require.NoError(t, err, subject)
		assert.Equal(t, kind, spec.Kind, subject)
		assert.Contains(t, []string{res.LISTING_UPSERTED, res.LISTING_DELETED}, action)
	}

	for _, subject := range []string{
		"listings.job",
		"listings.job.moved",
		"listings.widgets.upserted",
		"users.job.upserted",
		"listings.job.upserted.extra",
	} {
		_, _, err := controllers.ParseSubject(subject)
		assert.ErrorIs(t, err, controllers.ErrBadSubject, subject)
	}
}

type fixture struct {
	job         models.Job
	indexer     *fakeIndexer
	invalidator *fakeInvalidator
	controller  *controllers.ListingEventsController
}

func newFixture() *fixture {
	f := &fixture{
		job: models.Job{
			ListingBase: models.ListingBase{ID: primitive.NewObjectID(), Slug: "go-dev"},
			JobTitle:    "Go developer",
		},
		indexer:     &fakeIndexer{},
		invalidator: &fakeInvalidator{},
	}
	f.controller = &controllers.ListingEventsController{
		Repos: map[models.Kind]repositories.ListingRepository{
			models.JOB: repotest.NewListingRepository(models.JOB, f.job),
		},
		Indexer:  f.indexer,
		WhatsNew: f.invalidator,
		Logger:   zap.NewNop(),
	}
	return f
}

func TestHandleUpsertByID(t *testing.T) {
	f := newFixture()

	err := f.controller.Handle(ctx, "listings.job.upserted", []byte(`{"_id":"`+f.job.ID.Hex()+`"}`))
	require.NoError(t, err)
	require.Len(t, f.indexer.indexed, 1)
	assert.Equal(t, "go-dev", f.indexer.indexed[0].Base().Slug)
	assert.Equal(t, []models.Kind{models.JOB}, f.invalidator.kinds)
}

func TestHandleUpsertBySlugInEnvelope(t *testing.T) {
	f := newFixture()

	err := f.controller.Handle(ctx, "listings.jobs.upserted", []byte(`{"id":"x","data":{"slug":"go-dev"},"source":"admin"}`))
	require.NoError(t, err)
	require.Len(t, f.indexer.indexed, 1)
}

func TestHandleUpsertMissingListing(t *testing.T) {
	f := newFixture()

	err := f.controller.Handle(ctx, "listings.job.upserted", []byte(`{"_id":"`+primitive.NewObjectID().Hex()+`"}`))
	require.NoError(t, err)
	assert.Empty(t, f.indexer.indexed)
	assert.Equal(t, []models.Kind{models.JOB}, f.invalidator.kinds)
}

func TestHandleDelete(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.controller.Handle(ctx, "listings.job.deleted", []byte(`{"_id":"abc"}`)))
	assert.Equal(t, []deletion{{kind: models.JOB, id: "abc"}}, f.indexer.deleted)
	assert.Equal(t, []models.Kind{models.JOB}, f.invalidator.kinds)
}

func TestHandleWithoutIndexer(t *testing.T) {
	f := newFixture()
	f.controller.Indexer = nil
	f.invalidator.err = errors.New("redis down")

	require.NoError(t, f.controller.Handle(ctx, "listings.job.upserted", []byte(`{"slug":"go-dev"}`)))
	assert.Equal(t, []models.Kind{models.JOB}, f.invalidator.kinds)
}

func TestHandleErrors(t *testing.T) {
	f := newFixture()

	assert.ErrorIs(t, f.controller.Handle(ctx, "listings.job.moved", []byte(`{}`)), controllers.ErrBadSubject)
	assert.Error(t, f.controller.Handle(ctx, "listings.job.upserted", []byte(`not json`)))
	assert.Error(t, f.controller.Handle(ctx, "listings.job.upserted", []byte(`{"_id":"not-hex"}`)))
	assert.Error(t, f.controller.Handle(ctx, "listings.job.upserted", []byte(`{}`)))
	// No repository for results
	assert.Error(t, f.controller.Handle(ctx, "listings.result.upserted", []byte(`{"slug":"x"}`)))

	f.indexer.err = errors.New("es down")
	assert.Error(t, f.controller.Handle(ctx, "listings.job.upserted", []byte(`{"slug":"go-dev"}`)))
	assert.Error(t, f.controller.Handle(ctx, "listings.job.deleted", []byte(`{"_id":"abc"}`)))
}
