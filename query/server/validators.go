package server

import (
	"github.com/CPU-commits/CareerNest/forms"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func InitValidators() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return forms.RegisterValidations(v)
	}
	return nil
}
