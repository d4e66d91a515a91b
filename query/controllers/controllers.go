package controllers

import (
	"strconv"
	"strings"

	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/res"
	"github.com/gin-gonic/gin"
)

func abort(c *gin.Context, errRes *res.ErrorRes) {
	c.AbortWithStatusJSON(errRes.StatusCode, &res.Response{
		Success: false,
		Message: errRes.Err.Error(),
	})
}

func intQuery(c *gin.Context, key string, defaultValue int) int {
	value, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return defaultValue
	}
	return value
}

// ListQueryFrom reads paging, search, sort and the filters the kind knows.
// Both q and searchKeyword are accepted for the search term.
func ListQueryFrom(c *gin.Context, spec models.KindSpec) repositories.ListQuery {
	search := c.Query("q")
	if search == "" {
		search = c.Query("searchKeyword")
	}
	filters := make(map[string]string)
	for _, field := range spec.Filters {
		if value := strings.TrimSpace(c.Query(field.Param)); value != "" {
			filters[field.Param] = value
		}
	}
	return repositories.ListQuery{
		Page:    intQuery(c, "page", 1),
		Limit:   intQuery(c, "limit", repositories.DEFAULT_LIMIT),
		Search:  search,
		Filters: filters,
		Sort:    c.Query("sort"),
	}.Normalize()
}
