package repositories_test

import (
	"testing"

	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNormalize(t *testing.T) {
	q := repositories.ListQuery{Page: -2, Limit: 500, Search: "  go  ", Sort: "random"}.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, repositories.MAX_LIMIT, q.Limit)
	assert.Equal(t, "go", q.Search)
	assert.Equal(t, repositories.SORT_LATEST, q.Sort)

	q = repositories.ListQuery{}.Normalize()
	assert.Equal(t, repositories.DEFAULT_LIMIT, q.Limit)
	assert.Equal(t, int64(0), q.Skip())

	q = repositories.ListQuery{Page: 3, Limit: 8}.Normalize()
	assert.Equal(t, int64(16), q.Skip())
}

func TestNormalizeHugePage(t *testing.T) {
	q := repositories.ListQuery{Page: 1 << 62, Limit: 8}.Normalize()
	assert.Equal(t, repositories.MAX_PAGE, q.Page)
	assert.Equal(t, int64(repositories.MAX_PAGE-1)*8, q.Skip())

	q = repositories.ListQuery{Page: 1 << 62, Limit: 500}.Normalize()
	assert.Positive(t, q.Skip())
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 8, 0},
		{1, 8, 1},
		{8, 8, 1},
		{9, 8, 2},
		{10, 8, 2},
		{17, 8, 3},
		{10, 0, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, repositories.TotalPages(c.total, c.limit), "total=%d limit=%d", c.total, c.limit)
	}
}

func TestBuildFilterSkipsDefaults(t *testing.T) {
	spec := models.MustKind(models.JOB)
	filter := repositories.BuildFilter(spec, repositories.ListQuery{
		Filters: map[string]string{
			"location": "All",
			"category": "  ",
			"unknown":  "x",
		},
	})
	assert.Empty(t, filter)
}

func TestBuildFilterExactAndContains(t *testing.T) {
	spec := models.MustKind(models.JOB)
	filter := repositories.BuildFilter(spec, repositories.ListQuery{
		Filters: map[string]string{
			"job_type": "NON-IT",
			"location": "New Delhi (NCR)",
		},
	})
	byField := map[string]bson.D{}
	for _, e := range filter {
		byField[e.Key] = e.Value.(bson.D)
	}
	assert.Equal(t, bson.D{
		{Key: "$regex", Value: `New Delhi \(NCR\)`},
		{Key: "$options", Value: "i"},
	}, byField["location"])
	assert.Equal(t, bson.D{
		{Key: "$regex", Value: `^NON-IT$`},
		{Key: "$options", Value: "i"},
	}, byField["job_type"])
}

func TestBuildFilterSearchCoversEveryField(t *testing.T) {
	spec := models.MustKind(models.INTERNSHIP)
	filter := repositories.BuildFilter(spec, repositories.ListQuery{Search: "c++"})
	if assert.Len(t, filter, 1) {
		assert.Equal(t, "$or", filter[0].Key)
		or := filter[0].Value.(bson.A)
		assert.Len(t, or, len(spec.SearchFields))
		first := or[0].(bson.D)
		assert.Equal(t, spec.SearchFields[0], first[0].Key)
		assert.Equal(t, `c\+\+`, first[0].Value.(bson.D)[0].Value)
	}
}

func TestSortFor(t *testing.T) {
	spec := models.MustKind(models.GOVT_JOB)
	assert.Equal(t, "is_featured", repositories.SortFor(spec, repositories.SORT_LATEST)[0].Key)
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, repositories.SortFor(spec, repositories.SORT_OLDEST))
	assert.Equal(t, spec.DeadlineField, repositories.SortFor(spec, repositories.SORT_DEADLINE)[0].Key)
}
