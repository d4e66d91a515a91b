package services_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenJobs() []models.Listing {
	var jobs []models.Listing
	for i := 1; i <= 10; i++ {
		jobType := models.TECH_IT
		if i%2 == 0 {
			jobType = models.TECH_NON_IT
		}
		jobs = append(jobs, models.Job{
			ListingBase: models.ListingBase{
				ID:         idAt(int64(i) * 100),
				Slug:       fmt.Sprintf("job-%d", i),
				IsFeatured: i == 3,
				Location:   "Pune",
			},
			JobTitle:    fmt.Sprintf("Job %d", i),
			CompanyName: "Acme",
			JobType:     jobType,
		})
	}
	return jobs
}

func TestListListingsPaging(t *testing.T) {
	fake := newFakeRepos(tenJobs()...)
	listings := services.NewListingsService(fake.repos(), nil)

	page, errRes := listings.ListListings(ctx, models.JOB, repositories.ListQuery{Page: 1, Limit: 8})
	require.Nil(t, errRes)
	assert.Len(t, page.Listings, 8)
	assert.Equal(t, int64(10), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	// Featured first, then newest
	assert.Equal(t, "job-3", page.Listings[0].Base().Slug)
	assert.Equal(t, "job-10", page.Listings[1].Base().Slug)

	page, errRes = listings.ListListings(ctx, models.JOB, repositories.ListQuery{Page: 2, Limit: 8})
	require.Nil(t, errRes)
	assert.Len(t, page.Listings, 2)
	assert.Equal(t, 2, page.TotalPages)
}

func TestListListingsPageBeyondLast(t *testing.T) {
	fake := newFakeRepos(tenJobs()...)
	listings := services.NewListingsService(fake.repos(), nil)

	page, errRes := listings.ListListings(ctx, models.JOB, repositories.ListQuery{Page: 3, Limit: 8})
	require.Nil(t, errRes)
	assert.NotNil(t, page.Listings)
	assert.Empty(t, page.Listings)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 3, page.Page)
	// Only the count ran
	assert.Equal(t, 1, fake.byKind[models.JOB].Calls)
}

func TestListListingsHugePage(t *testing.T) {
	fake := newFakeRepos(tenJobs()...)
	listings := services.NewListingsService(fake.repos(), nil)

	page, errRes := listings.ListListings(ctx, models.JOB, repositories.ListQuery{Page: 1 << 62, Limit: 8})
	require.Nil(t, errRes)
	assert.NotNil(t, page.Listings)
	assert.Empty(t, page.Listings)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, fake.byKind[models.JOB].Calls)
}

func TestListListingsTotalPagesProperty(t *testing.T) {
	for total := 0; total <= 20; total++ {
		var docs []models.Listing
		for i := 0; i < total; i++ {
			docs = append(docs, models.Result{
				ListingBase: models.ListingBase{ID: idAt(int64(i + 1)), Slug: fmt.Sprint(i)},
				Title:       "Result",
			})
		}
		listings := services.NewListingsService(newFakeRepos(docs...).repos(), nil)
		for _, limit := range []int{1, 3, 8} {
			expected := (total + limit - 1) / limit
			for p := 1; p <= expected+1; p++ {
				page, errRes := listings.ListListings(ctx, models.RESULT, repositories.ListQuery{Page: p, Limit: limit})
				require.Nil(t, errRes)
				assert.Equal(t, expected, page.TotalPages, "total=%d limit=%d", total, limit)
				assert.LessOrEqual(t, len(page.Listings), limit)
			}
		}
	}
}

func TestListListingsFilters(t *testing.T) {
	fake := newFakeRepos(tenJobs()...)
	listings := services.NewListingsService(fake.repos(), nil)

	page, errRes := listings.ListListings(ctx, models.JOB, repositories.ListQuery{
		Limit:   50,
		Filters: map[string]string{"job_type": "it", "location": "pun"},
	})
	require.Nil(t, errRes)
	assert.Len(t, page.Listings, 5)
	for _, listing := range page.Listings {
		assert.Equal(t, models.TECH_IT, listing.(models.Job).JobType)
	}

	page, errRes = listings.ListListings(ctx, models.JOB, repositories.ListQuery{Search: "job 1"})
	require.Nil(t, errRes)
	// "Job 1" and "Job 10"
	assert.Equal(t, int64(2), page.Total)
}

func TestListListingsErrors(t *testing.T) {
	fake := newFakeRepos()
	fake.byKind[models.JOB].Err = errStore
	listings := services.NewListingsService(fake.repos(), nil)

	page, errRes := listings.ListListings(ctx, models.JOB, repositories.ListQuery{})
	require.NotNil(t, errRes)
	assert.Equal(t, http.StatusServiceUnavailable, errRes.StatusCode)
	require.NotNil(t, page)
	assert.Empty(t, page.Listings)

	page, errRes = listings.ListListings(ctx, models.Kind("courses"), repositories.ListQuery{})
	require.NotNil(t, errRes)
	assert.Equal(t, http.StatusNotFound, errRes.StatusCode)
	assert.NotNil(t, page.Listings)
}

func TestGetListing(t *testing.T) {
	listings := services.NewListingsService(newFakeRepos(tenJobs()...).repos(), nil)

	listing, errRes := listings.GetListing(ctx, models.JOB, "job-4")
	require.Nil(t, errRes)
	assert.Equal(t, "Job 4", listing.GetTitle())

	_, errRes = listings.GetListing(ctx, models.JOB, "missing")
	require.NotNil(t, errRes)
	assert.Equal(t, http.StatusNotFound, errRes.StatusCode)

	_, errRes = listings.GetListing(ctx, models.JOB, "  ")
	require.NotNil(t, errRes)
	assert.Equal(t, http.StatusNotFound, errRes.StatusCode)
}
