package repositories

import (
	"math"
	"regexp"
	"strings"

	"github.com/CPU-commits/CareerNest/models"
	"go.mongodb.org/mongo-driver/bson"
)

const DEFAULT_LIMIT = 8
const MAX_LIMIT = 50

// Far past any real collection, and (MAX_PAGE-1)*MAX_LIMIT fits an int64.
const MAX_PAGE = math.MaxInt32

const (
	SORT_LATEST   = "latest"
	SORT_OLDEST   = "oldest"
	SORT_DEADLINE = "deadline"
)

type ListQuery struct {
	Page    int
	Limit   int
	Search  string
	Filters map[string]string
	Sort    string
}

type FindOptions struct {
	Skip  int64
	Limit int64
	Sort  bson.D
}

// Normalize clamps paging to sane values and trims the search term.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MAX_PAGE {
		q.Page = MAX_PAGE
	}
	if q.Limit < 1 {
		q.Limit = DEFAULT_LIMIT
	}
	if q.Limit > MAX_LIMIT {
		q.Limit = MAX_LIMIT
	}
	q.Search = strings.TrimSpace(q.Search)
	switch q.Sort {
	case SORT_LATEST, SORT_OLDEST, SORT_DEADLINE:
	default:
		q.Sort = SORT_LATEST
	}
	return q
}

func (q ListQuery) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}

func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func isDefault(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || strings.EqualFold(value, "all")
}

func regexCond(pattern string) bson.D {
	return bson.D{
		{Key: "$regex", Value: pattern},
		{Key: "$options", Value: "i"},
	}
}

// SearchClause ORs a case insensitive match of term over fields.
func SearchClause(fields []string, term string) bson.E {
	pattern := regexp.QuoteMeta(strings.TrimSpace(term))
	or := bson.A{}
	for _, field := range fields {
		or = append(or, bson.D{{Key: field, Value: regexCond(pattern)}})
	}
	return bson.E{Key: "$or", Value: or}
}

// BuildFilter turns the non default query values into a mongo filter.
func BuildFilter(spec models.KindSpec, q ListQuery) bson.D {
	filter := bson.D{}
	for _, field := range spec.Filters {
		value, ok := q.Filters[field.Param]
		if !ok || isDefault(value) {
			continue
		}
		pattern := regexp.QuoteMeta(strings.TrimSpace(value))
		if field.Match == models.MATCH_EXACT {
			pattern = "^" + pattern + "$"
		}
		filter = append(filter, bson.E{Key: field.Field, Value: regexCond(pattern)})
	}
	if q.Search != "" {
		filter = append(filter, SearchClause(spec.SearchFields, q.Search))
	}
	return filter
}

func SortFor(spec models.KindSpec, sort string) bson.D {
	switch sort {
	case SORT_OLDEST:
		return bson.D{{Key: "_id", Value: 1}}
	case SORT_DEADLINE:
		return bson.D{
			{Key: spec.DeadlineField, Value: 1},
			{Key: "_id", Value: -1},
		}
	}
	return bson.D{
		{Key: "is_featured", Value: -1},
		{Key: "_id", Value: -1},
	}
}

func LatestSort() bson.D {
	return bson.D{{Key: "_id", Value: -1}}
}
