// Package repotest holds in-memory repositories for tests. The listing
// store evaluates the same bson filters the mongo store receives.
package repotest

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/res"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ListingRepository struct {
	mu    sync.Mutex
	spec  models.KindSpec
	docs  []models.Listing
	Err   error
	Calls int
}

func NewListingRepository(kind models.Kind, docs ...models.Listing) *ListingRepository {
	return &ListingRepository{
		spec: models.MustKind(kind),
		docs: docs,
	}
}

func (r *ListingRepository) Add(docs ...models.Listing) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, docs...)
}

func (r *ListingRepository) Spec() models.KindSpec {
	return r.spec
}

type entry struct {
	listing models.Listing
	doc     bson.M
}

func (r *ListingRepository) matching(filter bson.D) ([]entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Err != nil {
		return nil, r.Err
	}
	var entries []entry
	for _, listing := range r.docs {
		doc, err := toDocument(listing)
		if err != nil {
			return nil, err
		}
		ok, err := Match(doc, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			entries = append(entries, entry{listing: listing, doc: doc})
		}
	}
	return entries, nil
}

func (r *ListingRepository) Find(
	ctx context.Context,
	filter bson.D,
	opts repositories.FindOptions,
) ([]models.Listing, error) {
	entries, err := r.matching(filter)
	if err != nil {
		return nil, err
	}
	sortEntries(entries, opts.Sort)

	start := len(entries)
	if opts.Skip < int64(len(entries)) {
		start = int(opts.Skip)
	}
	if start < 0 {
		start = 0
	}
	end := len(entries)
	if opts.Limit > 0 && start+int(opts.Limit) < end {
		end = start + int(opts.Limit)
	}
	listings := make([]models.Listing, 0, end-start)
	for _, e := range entries[start:end] {
		listings = append(listings, e.listing)
	}
	return listings, nil
}

func (r *ListingRepository) Count(ctx context.Context, filter bson.D) (int64, error) {
	entries, err := r.matching(filter)
	return int64(len(entries)), err
}

func (r *ListingRepository) FindOne(ctx context.Context, filter bson.D) (models.Listing, error) {
	entries, err := r.matching(filter)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s: %w", r.spec.Label, res.ErrNotFound)
	}
	return entries[0].listing, nil
}

func toDocument(listing models.Listing) (bson.M, error) {
	raw, err := bson.Marshal(listing)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	err = bson.Unmarshal(raw, &doc)
	return doc, err
}

// Match reports whether doc satisfies filter. It understands field
// equality, $and, $or, $eq, $ne, $in, $gt, $regex/$options and array fields.
func Match(doc bson.M, filter bson.D) (bool, error) {
	for _, e := range filter {
		ok, err := matchElement(doc, e)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func subFilters(value interface{}) ([]bson.D, error) {
	list, ok := value.(bson.A)
	if !ok {
		return nil, fmt.Errorf("expected array, got %T", value)
	}
	filters := make([]bson.D, 0, len(list))
	for _, item := range list {
		filter, ok := item.(bson.D)
		if !ok {
			return nil, fmt.Errorf("expected document, got %T", item)
		}
		filters = append(filters, filter)
	}
	return filters, nil
}

func matchElement(doc bson.M, e bson.E) (bool, error) {
	switch e.Key {
	case "$or", "$and":
		filters, err := subFilters(e.Value)
		if err != nil {
			return false, err
		}
		for _, filter := range filters {
			ok, err := Match(doc, filter)
			if err != nil {
				return false, err
			}
			if e.Key == "$or" && ok {
				return true, nil
			}
			if e.Key == "$and" && !ok {
				return false, nil
			}
		}
		return e.Key == "$and", nil
	}
	value := doc[e.Key]
	if operators, ok := e.Value.(bson.D); ok && len(operators) > 0 && strings.HasPrefix(operators[0].Key, "$") {
		return matchOperators(value, operators)
	}
	return anyValue(value, func(v interface{}) bool { return equal(v, e.Value) }), nil
}

func matchOperators(value interface{}, operators bson.D) (bool, error) {
	options := ""
	for _, op := range operators {
		if op.Key == "$options" {
			options, _ = op.Value.(string)
		}
	}
	for _, op := range operators {
		switch op.Key {
		case "$options":
		case "$eq":
			if !anyValue(value, func(v interface{}) bool { return equal(v, op.Value) }) {
				return false, nil
			}
		case "$ne":
			if anyValue(value, func(v interface{}) bool { return equal(v, op.Value) }) {
				return false, nil
			}
		case "$in":
			list, ok := op.Value.(bson.A)
			if !ok {
				return false, fmt.Errorf("$in expects an array, got %T", op.Value)
			}
			in := anyValue(value, func(v interface{}) bool {
				for _, item := range list {
					if equal(v, item) {
						return true
					}
				}
				return false
			})
			if !in {
				return false, nil
			}
		case "$gt":
			if value == nil || compare(value, op.Value) <= 0 {
				return false, nil
			}
		case "$regex":
			pattern, _ := op.Value.(string)
			if strings.Contains(options, "i") {
				pattern = "(?i)" + pattern
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				return false, err
			}
			matched := anyValue(value, func(v interface{}) bool {
				s, ok := v.(string)
				return ok && re.MatchString(s)
			})
			if !matched {
				return false, nil
			}
		default:
			return false, fmt.Errorf("operator %s not supported", op.Key)
		}
	}
	return true, nil
}

func anyValue(value interface{}, predicate func(interface{}) bool) bool {
	if list, ok := value.(bson.A); ok {
		for _, item := range list {
			if predicate(item) {
				return true
			}
		}
		return false
	}
	return predicate(value)
}

func equal(a, b interface{}) bool {
	if s, ok := b.(string); ok {
		as, ok := a.(string)
		return ok && as == s
	}
	return reflect.DeepEqual(a, b)
}

func sortEntries(entries []entry, order bson.D) {
	sort.SliceStable(entries, func(i, j int) bool {
		for _, key := range order {
			direction := 1
			if n, ok := key.Value.(int); ok && n < 0 {
				direction = -1
			}
			c := compare(entries[i].doc[key.Key], entries[j].doc[key.Key])
			if c != 0 {
				return c*direction < 0
			}
		}
		return false
	})
}

// compare orders missing values first, like mongo does for null.
func compare(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	switch av := a.(type) {
	case primitive.ObjectID:
		bv, _ := b.(primitive.ObjectID)
		return bytes.Compare(av[:], bv[:])
	case bool:
		bv, _ := b.(bool)
		if av == bv {
			return 0
		}
		if !av {
			return -1
		}
		return 1
	case primitive.DateTime:
		bv, _ := b.(primitive.DateTime)
		return compareInt(int64(av), int64(bv))
	case int32:
		bv, _ := b.(int32)
		return compareInt(int64(av), int64(bv))
	case int64:
		bv, _ := b.(int64)
		return compareInt(av, bv)
	case string:
		bv, _ := b.(string)
		return strings.Compare(av, bv)
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
