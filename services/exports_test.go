package services_test

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportListings(t *testing.T) {
	fake := newFakeRepos(
		models.Job{
			ListingBase: models.ListingBase{ID: idAt(1), Slug: "go-dev", Location: "Pune", PostDate: date("2024-03-01")},
			JobTitle:    "Go developer",
			CompanyName: "Acme",
			JobType:     models.TECH_IT,
		},
		models.Job{
			ListingBase: models.ListingBase{ID: idAt(2), Slug: "sales", Location: "Delhi"},
			JobTitle:    "Sales",
			CompanyName: "Globex",
			JobType:     models.TECH_NON_IT,
		},
	)
	exports := services.NewExportService(services.NewListingsService(fake.repos(), nil), "https://careernest.example/", nil)

	var buf bytes.Buffer
	errRes := exports.ExportListings(ctx, models.JOB, repositories.ListQuery{
		Filters: map[string]string{"job_type": models.TECH_IT},
	}, &buf)
	require.Nil(t, errRes)

	file, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows("Jobs")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Title", "Organization", "Location", "Category", "Date", "Last date", "Link"}, rows[0])
	assert.Equal(t, "Go developer", rows[1][0])
	assert.Equal(t, "Acme", rows[1][1])
	assert.Equal(t, "Pune", rows[1][2])
	assert.Equal(t, "https://careernest.example/jobs/go-dev", rows[1][6])
}

func TestExportListingsErrors(t *testing.T) {
	fake := newFakeRepos()
	fake.byKind[models.RESULT].Err = errStore
	exports := services.NewExportService(services.NewListingsService(fake.repos(), nil), "", nil)

	var buf bytes.Buffer
	errRes := exports.ExportListings(ctx, models.RESULT, repositories.ListQuery{}, &buf)
	require.NotNil(t, errRes)
	assert.Equal(t, http.StatusServiceUnavailable, errRes.StatusCode)
	assert.Zero(t, buf.Len())

	errRes = exports.ExportListings(ctx, models.Kind("bogus"), repositories.ListQuery{}, &buf)
	require.NotNil(t, errRes)
	assert.Equal(t, http.StatusNotFound, errRes.StatusCode)
}

func TestListingPDF(t *testing.T) {
	fake := newFakeRepos(models.Scholarship{
		ListingBase: models.ListingBase{
			ID:          idAt(1),
			Slug:        "merit",
			Description: "For students with a first class degree. Über fair.",
			ApplyLink:   "https://example.com/apply",
			LastDate:    date("2024-09-30"),
		},
		Title:        "Merit scholarship",
		Organization: "Trust",
		Amount:       "50000",
	})
	exports := services.NewExportService(services.NewListingsService(fake.repos(), nil), "https://careernest.example", nil)

	var buf bytes.Buffer
	require.Nil(t, exports.ListingPDF(ctx, models.SCHOLARSHIP, "merit", "CareerNest", &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	buf.Reset()
	errRes := exports.ListingPDF(ctx, models.SCHOLARSHIP, "missing", "CareerNest", &buf)
	require.NotNil(t, errRes)
	assert.Equal(t, http.StatusNotFound, errRes.StatusCode)
	assert.Zero(t, buf.Len())
}
