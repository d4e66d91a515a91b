package models

import (
	"fmt"
	"strings"

	"github.com/CPU-commits/CareerNest/funct"
)

type Kind string

const (
	JOB         Kind = "job"
	GOVT_JOB    Kind = "govt_job"
	INTERNSHIP  Kind = "internship"
	SCHOLARSHIP Kind = "scholarship"
	ADMISSION   Kind = "admission"
	ADMIT_CARD  Kind = "admit_card"
	RESULT      Kind = "result"
	PAPER       Kind = "paper"
)

// Match modes for query string filters
const (
	MATCH_EXACT    = "exact"
	MATCH_CONTAINS = "contains"
)

type FilterField struct {
	Param string
	Field string
	Match string
}

// KindSpec describes how a content kind is stored, searched and routed.
type KindSpec struct {
	Kind          Kind
	Collection    string
	Index         string
	Label         string
	Prefix        string
	TitleField    string
	OrgField      string
	SearchFields  []string
	Filters       []FilterField
	DateField     string
	DeadlineField string
	SchemaType    string
}

func commonFilters(extra ...FilterField) []FilterField {
	return append([]FilterField{
		{Param: "location", Field: "location", Match: MATCH_CONTAINS},
		{Param: "category", Field: "category", Match: MATCH_EXACT},
	}, extra...)
}

func searchFields(title, org string, extra ...string) []string {
	return append([]string{title, org, "description", "keywords"}, extra...)
}

// Order matters: it is the order of the What's New fan-out and of the navigation.
var kinds = []KindSpec{
	{
		Kind:         JOB,
		Collection:   "jobs",
		Index:        "jobs",
		Label:        "Jobs",
		Prefix:       "/jobs",
		TitleField:   "jobTitle",
		OrgField:     "companyName",
		SearchFields: searchFields("jobTitle", "companyName", "job_type"),
		Filters: commonFilters(
			FilterField{Param: "job_type", Field: "job_type", Match: MATCH_EXACT},
		),
		DateField:     "post_date",
		DeadlineField: "last_date",
		SchemaType:    "JobPosting",
	},
	{
		Kind:         GOVT_JOB,
		Collection:   "govtjobs",
		Index:        "govtjobs",
		Label:        "Government Jobs",
		Prefix:       "/govt-jobs",
		TitleField:   "title",
		OrgField:     "organization",
		SearchFields: searchFields("title", "organization", "govt_job_type"),
		Filters: commonFilters(
			FilterField{Param: "govt_job_type", Field: "govt_job_type", Match: MATCH_EXACT},
		),
		DateField:     "post_date",
		DeadlineField: "last_date",
		SchemaType:    "JobPosting",
	},
	{
		Kind:         INTERNSHIP,
		Collection:   "internships",
		Index:        "internships",
		Label:        "Internships",
		Prefix:       "/internships",
		TitleField:   "title",
		OrgField:     "companyName",
		SearchFields: searchFields("title", "companyName", "city"),
		Filters: commonFilters(
			FilterField{Param: "city", Field: "city", Match: MATCH_CONTAINS},
			FilterField{Param: "internship_type", Field: "internship_type", Match: MATCH_EXACT},
		),
		DateField:     "start_date",
		DeadlineField: "last_date",
		SchemaType:    "JobPosting",
	},
	{
		Kind:          SCHOLARSHIP,
		Collection:    "scholarships",
		Index:         "scholarships",
		Label:         "Scholarships",
		Prefix:        "/scholarships",
		TitleField:    "title",
		OrgField:      "organization",
		SearchFields:  searchFields("title", "organization", "provider"),
		Filters:       commonFilters(),
		DateField:     "post_date",
		DeadlineField: "last_date",
		SchemaType:    "MonetaryGrant",
	},
	{
		Kind:         ADMISSION,
		Collection:   "admissions",
		Index:        "admissions",
		Label:        "Admissions",
		Prefix:       "/admissions",
		TitleField:   "title",
		OrgField:     "institute",
		SearchFields: searchFields("title", "institute", "course"),
		Filters: commonFilters(
			FilterField{Param: "course", Field: "course", Match: MATCH_CONTAINS},
		),
		DateField:     "start_date",
		DeadlineField: "last_date",
		SchemaType:    "Event",
	},
	{
		Kind:          ADMIT_CARD,
		Collection:    "admitcards",
		Index:         "admitcards",
		Label:         "Admit Cards",
		Prefix:        "/admit-cards",
		TitleField:    "title",
		OrgField:      "organization",
		SearchFields:  searchFields("title", "organization", "exam_name"),
		Filters:       commonFilters(),
		DateField:     "exam_date",
		DeadlineField: "exam_date",
		SchemaType:    "Event",
	},
	{
		Kind:          RESULT,
		Collection:    "results",
		Index:         "results",
		Label:         "Results",
		Prefix:        "/results",
		TitleField:    "title",
		OrgField:      "organization",
		SearchFields:  searchFields("title", "organization", "exam_name"),
		Filters:       commonFilters(),
		DateField:     "result_date",
		DeadlineField: "result_date",
		SchemaType:    "Event",
	},
	{
		Kind:         PAPER,
		Collection:   "papers",
		Index:        "papers",
		Label:        "Previous Year Papers",
		Prefix:       "/papers",
		TitleField:   "title",
		OrgField:     "organization",
		SearchFields: searchFields("title", "organization", "subject"),
		Filters: commonFilters(
			FilterField{Param: "subject", Field: "subject", Match: MATCH_CONTAINS},
			FilterField{Param: "year", Field: "year", Match: MATCH_EXACT},
		),
		DateField:     "post_date",
		DeadlineField: "post_date",
		SchemaType:    "Event",
	},
}

func Kinds() []KindSpec {
	list := make([]KindSpec, len(kinds))
	copy(list, kinds)
	return list
}

func GetKind(kind Kind) (KindSpec, bool) {
	for _, spec := range kinds {
		if spec.Kind == kind {
			return spec, true
		}
	}
	return KindSpec{}, false
}

// ParseKind accepts a kind name, its collection name or its route segment
// ("govt_job", "govtjobs", "govt-jobs").
func ParseKind(value string) (KindSpec, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	i := funct.Index(kinds, func(spec KindSpec) bool {
		return value == string(spec.Kind) ||
			value == spec.Collection ||
			value == strings.TrimPrefix(spec.Prefix, "/")
	})
	if i < 0 {
		return KindSpec{}, fmt.Errorf("unknown content type %q", value)
	}
	return kinds[i], nil
}

func MustKind(kind Kind) KindSpec {
	spec, ok := GetKind(kind)
	if !ok {
		panic(fmt.Sprintf("unknown content type %q", kind))
	}
	return spec
}
