package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

const DISPLAY_DATE = "02 Jan 2006"

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2-1-2006",
	"02 Jan 2006",
	"2 January 2006",
	"January 2, 2006",
}

// FlexDate is a date decoded from either a BSON datetime or one of the
// string formats the collections were filled with. Always UTC.
type FlexDate struct {
	time.Time
}

func NewFlexDate(t time.Time) FlexDate {
	if t.IsZero() {
		return FlexDate{}
	}
	return FlexDate{Time: t.UTC()}
}

func ParseFlexDate(value string) (FlexDate, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return FlexDate{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return NewFlexDate(t), nil
		}
	}
	return FlexDate{}, fmt.Errorf("unrecognised date %q", value)
}

func (d FlexDate) Display() string {
	if d.IsZero() {
		return "Not announced"
	}
	return d.Format(DISPLAY_DATE)
}

func (d FlexDate) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if d.IsZero() {
		return bson.MarshalValue(nil)
	}
	return bson.MarshalValue(d.Time)
}

// Unparseable strings decode to the zero date instead of failing the
// whole document.
func (d *FlexDate) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.DateTime:
		*d = NewFlexDate(raw.Time())
	case bsontype.Timestamp:
		sec, _ := raw.Timestamp()
		*d = NewFlexDate(time.Unix(int64(sec), 0))
	case bsontype.String:
		parsed, err := ParseFlexDate(raw.StringValue())
		if err != nil {
			*d = FlexDate{}
			return nil
		}
		*d = parsed
	case bsontype.Null, bsontype.Undefined:
		*d = FlexDate{}
	default:
		return fmt.Errorf("cannot decode %s into a date", t)
	}
	return nil
}

func (d FlexDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

func (d *FlexDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = FlexDate{}
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	parsed, err := ParseFlexDate(value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Every listing field that holds a FlexDate.
var DATE_FIELDS = []string{"post_date", "start_date", "last_date", "exam_date", "result_date"}

// StringDatesFilter matches documents with at least one date stored as a string.
func StringDatesFilter() bson.D {
	or := bson.A{}
	for _, field := range DATE_FIELDS {
		or = append(or, bson.D{{Key: field, Value: bson.D{{Key: "$type", Value: "string"}}}})
	}
	return bson.D{{Key: "$or", Value: or}}
}

// NormalizeDates returns the $set that rewrites string dates of doc as
// datetimes. Blank strings become null, unparseable ones are left alone
// and reported in skipped.
func NormalizeDates(doc bson.M) (set bson.D, skipped []string) {
	for _, field := range DATE_FIELDS {
		value, ok := doc[field].(string)
		if !ok {
			continue
		}
		parsed, err := ParseFlexDate(value)
		if err != nil {
			skipped = append(skipped, field)
			continue
		}
		if parsed.IsZero() {
			set = append(set, bson.E{Key: field, Value: nil})
			continue
		}
		set = append(set, bson.E{Key: field, Value: parsed.Time})
	}
	return set, skipped
}
