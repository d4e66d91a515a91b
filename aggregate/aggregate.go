// Package aggregate tags listings of every kind into one shape and merges
// them newest first.
package aggregate

import (
	"sort"
	"strconv"
	"time"

	"github.com/CPU-commits/CareerNest/funct"
	"github.com/CPU-commits/CareerNest/models"
)

var epoch = time.Unix(0, 0).UTC()

type Item struct {
	Kind         models.Kind     `json:"kind"`
	KindLabel    string          `json:"kind_label"`
	ID           string          `json:"_id"`
	Slug         string          `json:"slug"`
	Title        string          `json:"title"`
	Organization string          `json:"organization"`
	URL          string          `json:"url"`
	Date         models.FlexDate `json:"date"`
	LastDate     models.FlexDate `json:"last_date"`
	IsFeatured   bool            `json:"is_featured"`
	Timestamp    time.Time       `json:"timestamp"`
}

// TimestampFromID reads the first 8 hex characters of an object id as unix
// seconds. Anything malformed yields the epoch.
func TimestampFromID(id string) time.Time {
	if len(id) < 8 {
		return epoch
	}
	seconds, err := strconv.ParseUint(id[:8], 16, 32)
	if err != nil {
		return epoch
	}
	return time.Unix(int64(seconds), 0).UTC()
}

func FromListing(listing models.Listing) Item {
	base := listing.Base()
	spec := models.MustKind(listing.Kind())

	id := ""
	if !base.ID.IsZero() {
		id = base.ID.Hex()
	}
	return Item{
		Kind:         listing.Kind(),
		KindLabel:    spec.Label,
		ID:           id,
		Slug:         base.Slug,
		Title:        listing.GetTitle(),
		Organization: listing.GetOrganization(),
		URL:          spec.Prefix + "/" + base.Slug,
		Date:         models.DateOf(listing),
		LastDate:     base.LastDate,
		IsFeatured:   base.IsFeatured,
		Timestamp:    TimestampFromID(id),
	}
}

func FromListings(listings []models.Listing) []Item {
	return funct.Map(listings, FromListing)
}

// SortByTimestamp orders items newest first, keeping input order on ties.
func SortByTimestamp(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
}

// Merge flattens the groups, drops items without an id and sorts the
// result newest first.
func Merge(groups ...[]Item) []Item {
	merged := make([]Item, 0)
	for _, group := range groups {
		merged = append(merged, funct.Filter(group, func(item Item) bool {
			return item.ID != ""
		})...)
	}
	for i := range merged {
		merged[i].Timestamp = TimestampFromID(merged[i].ID)
	}
	SortByTimestamp(merged)
	return merged
}
