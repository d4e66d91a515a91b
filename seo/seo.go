// Package seo builds the schema.org JSON-LD blocks and share payloads of
// the rendered pages.
package seo

import (
	"encoding/json"
	"html/template"
	"strings"

	"github.com/CPU-commits/CareerNest/models"
)

const ISO_DATE = "2006-01-02"

type object map[string]interface{}

func isoDate(date models.FlexDate) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(ISO_DATE)
}

// compact drops empty values so the blocks only carry what is known.
func compact(o object) object {
	for key, value := range o {
		switch v := value.(type) {
		case string:
			if v == "" {
				delete(o, key)
			}
		case object:
			if len(compact(v)) == 0 {
				delete(o, key)
			}
		case nil:
			delete(o, key)
		}
	}
	return o
}

func marshal(v interface{}) template.JS {
	data, err := json.Marshal(v)
	if err != nil {
		return template.JS("{}")
	}
	return template.JS(data)
}

func URLOf(siteURL string, listing models.Listing) string {
	spec := models.MustKind(listing.Kind())
	return strings.TrimRight(siteURL, "/") + spec.Prefix + "/" + listing.Base().Slug
}

func organization(name string) object {
	if name == "" {
		return nil
	}
	return object{"@type": "Organization", "name": name}
}

func jobPosting(listing models.Listing, url string) object {
	base := listing.Base()
	employmentType := "FULL_TIME"
	locality := base.Location
	switch l := listing.(type) {
	case models.Internship:
		employmentType = "INTERN"
		if l.City != "" {
			locality = l.City
		}
	}
	block := object{
		"title":              listing.GetTitle(),
		"description":        base.Description,
		"datePosted":         isoDate(base.PostDate),
		"validThrough":       isoDate(base.LastDate),
		"employmentType":     employmentType,
		"hiringOrganization": organization(listing.GetOrganization()),
		"url":                url,
	}
	if locality != "" {
		block["jobLocation"] = object{
			"@type": "Place",
			"address": object{
				"@type":           "PostalAddress",
				"addressLocality": locality,
				"addressCountry":  "IN",
			},
		}
	}
	return block
}

func monetaryGrant(listing models.Listing, url string) object {
	block := object{
		"name":        listing.GetTitle(),
		"description": listing.Base().Description,
		"funder":      organization(listing.GetOrganization()),
		"url":         url,
	}
	if scholarship, ok := listing.(models.Scholarship); ok && scholarship.Amount != "" {
		block["amount"] = object{
			"@type": "MonetaryAmount",
			"value": scholarship.Amount,
		}
	}
	return block
}

func event(listing models.Listing, url string) object {
	base := listing.Base()
	block := object{
		"name":        listing.GetTitle(),
		"description": base.Description,
		"startDate":   isoDate(models.DateOf(listing)),
		"endDate":     isoDate(base.LastDate),
		"organizer":   organization(listing.GetOrganization()),
		"url":         url,
	}
	block["eventAttendanceMode"] = "https://schema.org/OnlineEventAttendanceMode"
	block["location"] = object{
		"@type": "VirtualLocation",
		"url":   url,
	}
	return block
}

// ForListing is the JSON-LD block of a detail page, typed by kind.
func ForListing(listing models.Listing, siteURL string) template.JS {
	spec := models.MustKind(listing.Kind())
	url := URLOf(siteURL, listing)

	var block object
	switch spec.SchemaType {
	case "JobPosting":
		block = jobPosting(listing, url)
	case "MonetaryGrant":
		block = monetaryGrant(listing, url)
	default:
		block = event(listing, url)
	}
	block["@context"] = "https://schema.org"
	block["@type"] = spec.SchemaType
	return marshal(compact(block))
}

// ItemList is the JSON-LD block of a listing page.
func ItemList(spec models.KindSpec, listings []models.Listing, siteURL string) template.JS {
	elements := make([]object, 0, len(listings))
	for i, listing := range listings {
		elements = append(elements, object{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     listing.GetTitle(),
			"url":      URLOf(siteURL, listing),
		})
	}
	return marshal(object{
		"@context":        "https://schema.org",
		"@type":           "ItemList",
		"name":            spec.Label,
		"numberOfItems":   len(elements),
		"itemListElement": elements,
	})
}

type SharePayload struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// Share is what the share modal copies or hands to the share sheet.
func Share(listing models.Listing, siteURL string) SharePayload {
	lines := []string{listing.GetTitle()}
	if org := listing.GetOrganization(); org != "" {
		lines = append(lines, org)
	}
	for _, detail := range listing.Details() {
		lines = append(lines, detail.Label+": "+detail.Value)
	}
	url := URLOf(siteURL, listing)
	lines = append(lines, url)
	return SharePayload{
		Title: listing.GetTitle(),
		Text:  strings.Join(lines, "\n"),
		URL:   url,
	}
}
