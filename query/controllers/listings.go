package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/res"
	"github.com/CPU-commits/CareerNest/services"
	"github.com/gin-gonic/gin"
)

const XLSX_MIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ListingsController struct {
	Listings *services.ListingsService
	Exports  *services.ExportService
}

// List godoc
// @Summary     List listings
// @Description One page of a content kind, featured first
// @Tags        listings
// @Produce     json
// @Param       kind            path     string  true  "jobs, govt-jobs, internships, scholarships, admissions, admit-cards, results or papers"
// @Param       page            query    integer false "Page, default 1"
// @Param       limit           query    integer false "Page size, default 8, max 50"
// @Param       q               query    string  false "Search term"
// @Param       searchKeyword   query    string  false "Search term (alias of q)"
// @Param       location        query    string  false "Location"
// @Param       category        query    string  false "Category"
// @Param       job_type        query    string  false "IT or NON-IT (jobs)"
// @Param       govt_job_type   query    string  false "Government job type (govt-jobs)"
// @Param       internship_type query    string  false "remote, onsite or hybrid (internships)"
// @Param       sort            query    string  false "latest, oldest or deadline"
// @Success     200             {object} res.Response{body=smaps.ListingsMap}
// @Failure     503             {object} res.Response{} "Service Unavailable - DB"
// @Router      /{kind} [get]
func (l *ListingsController) List(kind models.Kind) gin.HandlerFunc {
	spec := models.MustKind(kind)
	return func(c *gin.Context) {
		page, errRes := l.Listings.ListListings(c.Request.Context(), kind, ListQueryFrom(c, spec))
		if errRes != nil {
			abort(c, errRes)
			return
		}
		c.JSON(http.StatusOK, &res.Response{
			Success: true,
			Data: map[string]interface{}{
				"listings":   page.Listings,
				"total":      page.Total,
				"page":       page.Page,
				"limit":      page.Limit,
				"totalPages": page.TotalPages,
			},
		})
	}
}

// Get godoc
// @Summary Get listing
// @Tags    listings
// @Produce json
// @Param   kind path     string true "Content kind route segment"
// @Param   slug path     string true "Slug"
// @Success 200  {object} res.Response{body=smaps.ListingMap}
// @Failure 404  {object} res.Response{} "Not found"
// @Failure 503  {object} res.Response{} "Service Unavailable - DB"
// @Router  /{kind}/{slug} [get]
func (l *ListingsController) Get(kind models.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		listing, errRes := l.Listings.GetListing(c.Request.Context(), kind, c.Param("slug"))
		if errRes != nil {
			abort(c, errRes)
			return
		}
		c.JSON(http.StatusOK, &res.Response{
			Success: true,
			Data: map[string]interface{}{
				"listing": listing,
			},
		})
	}
}

// Export godoc
// @Summary     Export listings
// @Description Spreadsheet of the listings matching the same filters as the list endpoint
// @Tags        listings
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param       kind path string true "Content kind"
// @Success     200
// @Failure     404 {object} res.Response{} "Unknown content kind"
// @Failure     503 {object} res.Response{} "Service Unavailable - DB"
// @Router      /export/{kind} [get]
func (l *ListingsController) Export(c *gin.Context) {
	spec, err := models.ParseKind(c.Param("kind"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, &res.Response{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	var buf bytes.Buffer
	if errRes := l.Exports.ExportListings(c.Request.Context(), spec.Kind, ListQueryFrom(c, spec), &buf); errRes != nil {
		abort(c, errRes)
		return
	}
	filename := fmt.Sprintf("%s-%s.xlsx", spec.Collection, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, XLSX_MIME, buf.Bytes())
}
