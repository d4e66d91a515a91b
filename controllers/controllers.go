package controllers

import (
	"net/http"

	"github.com/CPU-commits/CareerNest/forms"
	"github.com/CPU-commits/CareerNest/res"
	"github.com/gin-gonic/gin"
)

func abort(c *gin.Context, errRes *res.ErrorRes) {
	c.AbortWithStatusJSON(errRes.StatusCode, &res.Response{
		Success: false,
		Message: errRes.Err.Error(),
	})
}

func bindJSON(c *gin.Context, form interface{}) bool {
	if err := c.ShouldBindJSON(form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
			Success: false,
			Message: forms.Message(err),
		})
		return false
	}
	return true
}
