package controllers

import (
	"net/http"

	"github.com/CPU-commits/CareerNest/aggregate"
	"github.com/CPU-commits/CareerNest/res"
	"github.com/CPU-commits/CareerNest/services"
	"github.com/gin-gonic/gin"
)

type SearchController struct {
	SearchService *services.SearchService
}

// Search godoc
// @Summary     Search
// @Description Top 5 matches across the searchable kinds, newest first. Plain array, no envelope.
// @Tags        search
// @Produce     json
// @Param       q   query    string true "Search term"
// @Success     200 {array}  aggregate.Item
// @Failure     400 {object} res.Response{} "Search query is required"
// @Failure     405 {object} res.Response{} "Method not allowed"
// @Failure     500 {object} res.Response{} "Internal error"
// @Router      /search [get]
func (s *SearchController) Search(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, &res.Response{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}
	listings, errRes := s.SearchService.Search(c.Request.Context(), c.Query("q"))
	if errRes != nil {
		abort(c, errRes)
		return
	}
	c.JSON(http.StatusOK, aggregate.FromListings(listings))
}
