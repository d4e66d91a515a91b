package models

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Detail is one "label: value" line of a detail page, share payload or PDF.
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Listing is implemented by every content kind.
type Listing interface {
	Base() ListingBase
	Kind() Kind
	GetTitle() string
	GetOrganization() string
	Details() []Detail
}

// ListingBase holds the fields every collection shares.
type ListingBase struct {
	ID                  primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Slug                string             `json:"slug" bson:"slug"`
	Description         string             `json:"description,omitempty" bson:"description,omitempty"`
	EligibilityCriteria string             `json:"eligibility_criteria,omitempty" bson:"eligibility_criteria,omitempty"`
	Keywords            []string           `json:"keywords,omitempty" bson:"keywords,omitempty"`
	Location            string             `json:"location,omitempty" bson:"location,omitempty"`
	Category            string             `json:"category,omitempty" bson:"category,omitempty"`
	IsFeatured          bool               `json:"is_featured" bson:"is_featured"`
	PostDate            FlexDate           `json:"post_date" bson:"post_date,omitempty"`
	StartDate           FlexDate           `json:"start_date" bson:"start_date,omitempty"`
	LastDate            FlexDate           `json:"last_date" bson:"last_date,omitempty"`
	ApplyLink           string             `json:"apply_link,omitempty" bson:"apply_link,omitempty"`
	OfficialLink        string             `json:"official_link,omitempty" bson:"official_link,omitempty"`
}

func (b ListingBase) Base() ListingBase {
	return b
}

func (b ListingBase) dateDetails() []Detail {
	var details []Detail
	if !b.PostDate.IsZero() {
		details = append(details, Detail{Label: "Posted on", Value: b.PostDate.Display()})
	}
	if !b.StartDate.IsZero() {
		details = append(details, Detail{Label: "Starts on", Value: b.StartDate.Display()})
	}
	if !b.LastDate.IsZero() {
		details = append(details, Detail{Label: "Last date", Value: b.LastDate.Display()})
	}
	return details
}

func (b ListingBase) commonDetails() []Detail {
	details := b.dateDetails()
	if b.Location != "" {
		details = append(details, Detail{Label: "Location", Value: b.Location})
	}
	if b.EligibilityCriteria != "" {
		details = append(details, Detail{Label: "Eligibility", Value: b.EligibilityCriteria})
	}
	return details
}

// appendIf skips empty values so detail sections stay compact.
func appendIf(details []Detail, label string, value interface{}) []Detail {
	str := strings.TrimSpace(fmt.Sprint(value))
	if str == "" || str == "0" {
		return details
	}
	return append(details, Detail{Label: label, Value: str})
}

// Job is a private sector opening, IT or NON-IT.
type Job struct {
	ListingBase `bson:",inline"`
	JobTitle    string `json:"jobTitle" bson:"jobTitle"`
	CompanyName string `json:"companyName" bson:"companyName"`
	JobType     string `json:"job_type,omitempty" bson:"job_type,omitempty"`
	Salary      string `json:"salary,omitempty" bson:"salary,omitempty"`
	Experience  string `json:"experience,omitempty" bson:"experience,omitempty"`
}

func (Job) Kind() Kind                { return JOB }
func (j Job) GetTitle() string        { return j.JobTitle }
func (j Job) GetOrganization() string { return j.CompanyName }
func (j Job) Details() []Detail {
	details := appendIf(nil, "Company", j.CompanyName)
	details = appendIf(details, "Job type", j.JobType)
	details = appendIf(details, "Salary", j.Salary)
	details = appendIf(details, "Experience", j.Experience)
	return append(details, j.commonDetails()...)
}

type GovtJob struct {
	ListingBase    `bson:",inline"`
	Title          string `json:"title" bson:"title"`
	Organization   string `json:"organization" bson:"organization"`
	GovtJobType    string `json:"govt_job_type,omitempty" bson:"govt_job_type,omitempty"`
	Vacancies      int    `json:"vacancies,omitempty" bson:"vacancies,omitempty"`
	AgeLimit       string `json:"age_limit,omitempty" bson:"age_limit,omitempty"`
	ApplicationFee string `json:"application_fee,omitempty" bson:"application_fee,omitempty"`
}

func (GovtJob) Kind() Kind                { return GOVT_JOB }
func (g GovtJob) GetTitle() string        { return g.Title }
func (g GovtJob) GetOrganization() string { return g.Organization }
func (g GovtJob) Details() []Detail {
	details := appendIf(nil, "Organization", g.Organization)
	details = appendIf(details, "Sector", g.GovtJobType)
	details = appendIf(details, "Vacancies", g.Vacancies)
	details = appendIf(details, "Age limit", g.AgeLimit)
	details = appendIf(details, "Application fee", g.ApplicationFee)
	return append(details, g.commonDetails()...)
}

type Internship struct {
	ListingBase    `bson:",inline"`
	Title          string `json:"title" bson:"title"`
	CompanyName    string `json:"companyName" bson:"companyName"`
	InternshipType string `json:"internship_type,omitempty" bson:"internship_type,omitempty"`
	Stipend        string `json:"stipend,omitempty" bson:"stipend,omitempty"`
	City           string `json:"city,omitempty" bson:"city,omitempty"`
	Duration       string `json:"duration,omitempty" bson:"duration,omitempty"`
}

func (Internship) Kind() Kind                { return INTERNSHIP }
func (i Internship) GetTitle() string        { return i.Title }
func (i Internship) GetOrganization() string { return i.CompanyName }
func (i Internship) Details() []Detail {
	details := appendIf(nil, "Company", i.CompanyName)
	details = appendIf(details, "Mode", i.InternshipType)
	details = appendIf(details, "City", i.City)
	details = appendIf(details, "Stipend", i.Stipend)
	details = appendIf(details, "Duration", i.Duration)
	return append(details, i.commonDetails()...)
}

type Scholarship struct {
	ListingBase  `bson:",inline"`
	Title        string `json:"title" bson:"title"`
	Organization string `json:"organization" bson:"organization"`
	Provider     string `json:"provider,omitempty" bson:"provider,omitempty"`
	Amount       string `json:"amount,omitempty" bson:"amount,omitempty"`
}

func (Scholarship) Kind() Kind                { return SCHOLARSHIP }
func (s Scholarship) GetTitle() string        { return s.Title }
func (s Scholarship) GetOrganization() string { return s.Organization }
func (s Scholarship) Details() []Detail {
	details := appendIf(nil, "Offered by", s.Organization)
	details = appendIf(details, "Provider", s.Provider)
	details = appendIf(details, "Amount", s.Amount)
	return append(details, s.commonDetails()...)
}

type Admission struct {
	ListingBase `bson:",inline"`
	Title       string `json:"title" bson:"title"`
	Institute   string `json:"institute" bson:"institute"`
	Course      string `json:"course,omitempty" bson:"course,omitempty"`
}

func (Admission) Kind() Kind                { return ADMISSION }
func (a Admission) GetTitle() string        { return a.Title }
func (a Admission) GetOrganization() string { return a.Institute }
func (a Admission) Details() []Detail {
	details := appendIf(nil, "Institute", a.Institute)
	details = appendIf(details, "Course", a.Course)
	return append(details, a.commonDetails()...)
}

type AdmitCard struct {
	ListingBase  `bson:",inline"`
	Title        string   `json:"title" bson:"title"`
	Organization string   `json:"organization" bson:"organization"`
	ExamName     string   `json:"exam_name,omitempty" bson:"exam_name,omitempty"`
	ExamDate     FlexDate `json:"exam_date" bson:"exam_date,omitempty"`
}

func (AdmitCard) Kind() Kind                { return ADMIT_CARD }
func (a AdmitCard) GetTitle() string        { return a.Title }
func (a AdmitCard) GetOrganization() string { return a.Organization }
func (a AdmitCard) Details() []Detail {
	details := appendIf(nil, "Conducted by", a.Organization)
	details = appendIf(details, "Exam", a.ExamName)
	if !a.ExamDate.IsZero() {
		details = append(details, Detail{Label: "Exam date", Value: a.ExamDate.Display()})
	}
	return append(details, a.commonDetails()...)
}

type Result struct {
	ListingBase  `bson:",inline"`
	Title        string   `json:"title" bson:"title"`
	Organization string   `json:"organization" bson:"organization"`
	ExamName     string   `json:"exam_name,omitempty" bson:"exam_name,omitempty"`
	ResultDate   FlexDate `json:"result_date" bson:"result_date,omitempty"`
}

func (Result) Kind() Kind                { return RESULT }
func (r Result) GetTitle() string        { return r.Title }
func (r Result) GetOrganization() string { return r.Organization }
func (r Result) Details() []Detail {
	details := appendIf(nil, "Conducted by", r.Organization)
	details = appendIf(details, "Exam", r.ExamName)
	if !r.ResultDate.IsZero() {
		details = append(details, Detail{Label: "Result date", Value: r.ResultDate.Display()})
	}
	return append(details, r.commonDetails()...)
}

type Paper struct {
	ListingBase  `bson:",inline"`
	Title        string `json:"title" bson:"title"`
	Organization string `json:"organization" bson:"organization"`
	Subject      string `json:"subject,omitempty" bson:"subject,omitempty"`
	Year         string `json:"year,omitempty" bson:"year,omitempty"`
	FileKey      string `json:"-" bson:"file_key,omitempty"`
}

func (Paper) Kind() Kind                { return PAPER }
func (p Paper) GetTitle() string        { return p.Title }
func (p Paper) GetOrganization() string { return p.Organization }
func (p Paper) Details() []Detail {
	details := appendIf(nil, "Exam body", p.Organization)
	details = appendIf(details, "Subject", p.Subject)
	details = appendIf(details, "Year", p.Year)
	return append(details, p.commonDetails()...)
}

// DateOf returns the kind specific date used to order search results.
func DateOf(listing Listing) FlexDate {
	base := listing.Base()
	switch l := listing.(type) {
	case AdmitCard:
		return l.ExamDate
	case Result:
		return l.ResultDate
	case Internship, Admission:
		if !base.StartDate.IsZero() {
			return base.StartDate
		}
	}
	return base.PostDate
}
