package models_test

import (
	"testing"

	"github.com/CPU-commits/CareerNest/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestKindsRegistry(t *testing.T) {
	kinds := models.Kinds()
	require.Len(t, kinds, 8)

	seen := map[string]bool{}
	for _, spec := range kinds {
		assert.False(t, seen[spec.Collection], spec.Collection)
		seen[spec.Collection] = true
		assert.NotEmpty(t, spec.SearchFields, spec.Kind)
		assert.Contains(t, spec.SearchFields, spec.TitleField, spec.Kind)
		assert.Contains(t, spec.SearchFields, spec.OrgField, spec.Kind)
		assert.NotEmpty(t, spec.DateField, spec.Kind)
		assert.Equal(t, byte('/'), spec.Prefix[0], spec.Kind)
	}

	// Callers get a copy
	kinds[0].Label = "changed"
	assert.NotEqual(t, "changed", models.Kinds()[0].Label)
}

func TestParseKind(t *testing.T) {
	for _, value := range []string{"govt_job", "govtjobs", "govt-jobs", " Govt-Jobs "} {
		spec, err := models.ParseKind(value)
		require.NoError(t, err, value)
		assert.Equal(t, models.GOVT_JOB, spec.Kind)
	}
	_, err := models.ParseKind("courses")
	assert.Error(t, err)

	assert.Panics(t, func() { models.MustKind("courses") })
}

func TestDateOf(t *testing.T) {
	post := models.NewFlexDate(primitive.NewObjectID().Timestamp())
	exam, _ := models.ParseFlexDate("2024-06-01")
	start, _ := models.ParseFlexDate("2024-07-01")

	assert.Equal(t, post, models.DateOf(models.Job{ListingBase: models.ListingBase{PostDate: post}}))
	assert.Equal(t, exam, models.DateOf(models.AdmitCard{ExamDate: exam}))
	assert.Equal(t, exam, models.DateOf(models.Result{ResultDate: exam}))
	assert.Equal(t, start, models.DateOf(models.Internship{ListingBase: models.ListingBase{PostDate: post, StartDate: start}}))
	// Internships without a start date fall back to the post date
	assert.Equal(t, post, models.DateOf(models.Internship{ListingBase: models.ListingBase{PostDate: post}}))
}

func TestDetailsSkipEmptyValues(t *testing.T) {
	job := models.Job{CompanyName: "Acme", JobType: "IT"}
	details := job.Details()
	require.Len(t, details, 2)
	assert.Equal(t, models.Detail{Label: "Company", Value: "Acme"}, details[0])
	assert.Equal(t, models.Detail{Label: "Job type", Value: "IT"}, details[1])

	govt := models.GovtJob{Organization: "UPSC"}
	assert.Len(t, govt.Details(), 1)
}
