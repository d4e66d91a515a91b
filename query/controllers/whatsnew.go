package controllers

import (
	"net/http"

	"github.com/CPU-commits/CareerNest/res"
	"github.com/CPU-commits/CareerNest/services"
	"github.com/gin-gonic/gin"
)

type FeedController struct {
	WhatsNew    *services.WhatsNewService
	Preferences *services.PreferencesService
}

// WhatsNew godoc
// @Summary     What's new
// @Description Latest items of every kind merged newest first, or the search results when q is set
// @Tags        whats-new
// @Produce     json
// @Param       q     query    string  false "Search term"
// @Param       limit query    integer false "Items per kind, default 10"
// @Success     200   {object} res.Response{body=smaps.WhatsNewMap}
// @Failure     503   {object} res.Response{} "Service Unavailable - DB"
// @Router      /whats-new [get]
func (f *FeedController) GetWhatsNew(c *gin.Context) {
	items, errRes := f.WhatsNew.WhatsNew(c.Request.Context(), c.Query("q"), intQuery(c, "limit", services.DEFAULT_LATEST))
	if errRes != nil {
		abort(c, errRes)
		return
	}
	c.JSON(http.StatusOK, &res.Response{
		Success: true,
		Data: map[string]interface{}{
			"items": items,
		},
	})
}

// ForYou godoc
// @Summary  For you
// @Tags     whats-new
// @Produce  json
// @Success  200 {object} res.Response{body=smaps.ForYouMap}
// @Failure  401 {object} res.Response{} "Unauthorized"
// @Failure  503 {object} res.Response{} "Service Unavailable - DB"
// @Security ApiKeyAuth
// @Router   /for-you [get]
func (f *FeedController) GetForYou(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	forYou, errRes := f.Preferences.ForYou(c.Request.Context(), claims)
	if errRes != nil {
		abort(c, errRes)
		return
	}
	c.JSON(http.StatusOK, &res.Response{
		Success: true,
		Data: map[string]interface{}{
			"for_you": forYou,
		},
	})
}
