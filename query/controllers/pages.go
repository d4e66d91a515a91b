package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/CPU-commits/CareerNest/aggregate"
	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/res"
	"github.com/CPU-commits/CareerNest/seo"
	"github.com/CPU-commits/CareerNest/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const FOLLOW_MODAL_COOKIE = "follow_modal_seen"

const (
	MESSAGE_LISTINGS_DOWN = "We could not load the listings right now. Please try again shortly."
	MESSAGE_FEED_DOWN     = "We could not load the latest updates right now. Please try again shortly."
)

type Layout struct {
	SiteName        string
	Title           string
	Description     string
	Canonical       string
	Nav             []models.KindSpec
	User            *services.Claims
	ShowFollowModal bool
	JSONLD          template.JS
	Year            int
}

type PagesController struct {
	Listings    *services.ListingsService
	WhatsNew    *services.WhatsNewService
	Preferences *services.PreferencesService
	Exports     *services.ExportService
	Papers      *services.PapersService
	SiteName    string
	SiteURL     string
	Logger      *zap.Logger
}

func (p *PagesController) layout(c *gin.Context, title, description string) Layout {
	claims, _ := services.NewClaimsFromContext(c)
	_, err := c.Cookie(FOLLOW_MODAL_COOKIE)
	return Layout{
		SiteName:        p.SiteName,
		Title:           title,
		Description:     description,
		Canonical:       strings.TrimRight(p.SiteURL, "/") + c.Request.URL.Path,
		Nav:             models.Kinds(),
		User:            claims,
		ShowFollowModal: err != nil,
		Year:            time.Now().Year(),
	}
}

func (p *PagesController) render(c *gin.Context, status int, name string, layout Layout, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Layout"] = layout
	c.HTML(status, name, data)
}

func (p *PagesController) renderError(c *gin.Context, errRes *res.ErrorRes) {
	heading, message := "Something went wrong", "Please try again shortly."
	if errRes.StatusCode == http.StatusNotFound {
		heading, message = "Page not found", "The page you are looking for does not exist or was removed."
	}
	p.render(c, errRes.StatusCode, "error.html", p.layout(c, heading, ""), gin.H{
		"Heading": heading,
		"Message": message,
	})
}

func (p *PagesController) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatusJSON(http.StatusNotFound, &res.Response{
			Success: false,
			Message: "Not found",
		})
		return
	}
	p.renderError(c, &res.ErrorRes{
		Err:        errors.New("not found"),
		StatusCode: http.StatusNotFound,
	})
}

func (p *PagesController) ListingPage(kind models.Kind) gin.HandlerFunc {
	spec := models.MustKind(kind)
	return func(c *gin.Context) {
		q := ListQueryFrom(c, spec)
		page, errRes := p.Listings.ListListings(c.Request.Context(), kind, q)
		errorMessage := ""
		if errRes != nil {
			errorMessage = MESSAGE_LISTINGS_DOWN
		}
		layout := p.layout(c, spec.Label, fmt.Sprintf("Latest %s, updated daily.", strings.ToLower(spec.Label)))
		layout.JSONLD = seo.ItemList(spec, page.Listings, p.SiteURL)

		p.render(c, http.StatusOK, "listing.html", layout, gin.H{
			"Spec":      spec,
			"Query":     q,
			"Values":    q.Filters,
			"URLValues": c.Request.URL.Query(),
			"RawQuery":  c.Request.URL.RawQuery,
			"Rows":      aggregate.FromListings(page.Listings),
			"Page":      page,
			"Error":     errorMessage,
		})
	}
}

func (p *PagesController) DetailPage(kind models.Kind) gin.HandlerFunc {
	spec := models.MustKind(kind)
	return func(c *gin.Context) {
		listing, errRes := p.Listings.GetListing(c.Request.Context(), kind, c.Param("slug"))
		if errRes != nil {
			p.renderError(c, errRes)
			return
		}
		base := listing.Base()
		description := base.Description
		if runes := []rune(description); len(runes) > 160 {
			description = string(runes[:157]) + "..."
		}
		layout := p.layout(c, listing.GetTitle(), description)
		layout.JSONLD = seo.ForListing(listing, p.SiteURL)

		download := ""
		if paper, ok := listing.(models.Paper); ok && paper.FileKey != "" {
			download = spec.Prefix + "/" + base.Slug + "/download"
		}
		p.render(c, http.StatusOK, "detail.html", layout, gin.H{
			"Spec":     spec,
			"Listing":  listing,
			"Share":    seo.Share(listing, p.SiteURL),
			"Download": download,
		})
	}
}

func (p *PagesController) DetailPDF(kind models.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		slug := c.Param("slug")
		if errRes := p.Exports.ListingPDF(c.Request.Context(), kind, slug, p.SiteName, &buf); errRes != nil {
			p.renderError(c, errRes)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.pdf"`, slug))
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	}
}

func (p *PagesController) PaperDownload(c *gin.Context) {
	link, errRes := p.Papers.DownloadURL(c.Request.Context(), c.Param("slug"))
	if errRes != nil {
		p.renderError(c, errRes)
		return
	}
	c.Redirect(http.StatusFound, link)
}

func (p *PagesController) WhatsNewPage(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	items, errRes := p.WhatsNew.WhatsNew(c.Request.Context(), q, services.DEFAULT_LATEST)
	errorMessage := ""
	if errRes != nil {
		errorMessage = MESSAGE_FEED_DOWN
		if errRes.StatusCode == http.StatusBadRequest {
			errorMessage = errRes.Err.Error()
		}
		items = []aggregate.Item{}
	}
	p.render(c, http.StatusOK, "whats_new.html", p.layout(c, "What's New", "The latest jobs, results, admit cards and more."), gin.H{
		"Q":     q,
		"Items": items,
		"Error": errorMessage,
	})
}

func (p *PagesController) ForYouPage(c *gin.Context) {
	claims, err := services.NewClaimsFromContext(c)
	if err != nil {
		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape("/for-you"))
		return
	}
	forYou, errRes := p.Preferences.ForYou(c.Request.Context(), claims)
	if errRes != nil {
		if errRes.StatusCode == http.StatusNotFound || errRes.StatusCode == http.StatusUnauthorized {
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape("/for-you"))
			return
		}
		p.renderError(c, errRes)
		return
	}
	current := models.Preferences{}
	if forYou.Preferences != nil {
		current = *forYou.Preferences
	}
	p.render(c, http.StatusOK, "for_you.html", p.layout(c, "For you", ""), gin.H{
		"Feed":         forYou.Feed,
		"Rows":         aggregate.FromListings(forYou.Listings),
		"Current":      current,
		"Categories":   models.NotificationCategories,
		"GovtJobTypes": models.GovtJobTypes,
	})
}

// Only local paths are accepted as the post login destination.
func nextPath(c *gin.Context) string {
	next := c.Query("next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/for-you"
	}
	return next
}

func (p *PagesController) LoginPage(c *gin.Context) {
	p.render(c, http.StatusOK, "login.html", p.layout(c, "Login", ""), gin.H{
		"Next": nextPath(c),
	})
}

func (p *PagesController) RegisterPage(c *gin.Context) {
	p.render(c, http.StatusOK, "register.html", p.layout(c, "Register", ""), nil)
}

func (p *PagesController) ForgotPasswordPage(c *gin.Context) {
	p.render(c, http.StatusOK, "forgot_password.html", p.layout(c, "Forgot password", ""), nil)
}
