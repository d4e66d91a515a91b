package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/CPU-commits/CareerNest/funct"
	"github.com/CPU-commits/CareerNest/models"
	"github.com/go-playground/validator/v10"
)

const MIN_PASSWORD_LENGTH = 8

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// PasswordProblems lists every strength rule password breaks.
func PasswordProblems(password string) []string {
	var problems []string
	if len([]rune(password)) < MIN_PASSWORD_LENGTH {
		problems = append(problems, fmt.Sprintf("at least %d characters", MIN_PASSWORD_LENGTH))
	}
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if !lower {
		problems = append(problems, "a lowercase letter")
	}
	if !upper {
		problems = append(problems, "an uppercase letter")
	}
	if !digit {
		problems = append(problems, "a number")
	}
	if !symbol {
		problems = append(problems, "a special character")
	}
	return problems
}

func StrongPassword(fl validator.FieldLevel) bool {
	return len(PasswordProblems(fl.Field().String())) == 0
}

// Accepted requires a checkbox to be ticked
func Accepted(fl validator.FieldLevel) bool {
	return fl.Field().Kind() == reflect.Bool && fl.Field().Bool()
}

func NotificationCategory(fl validator.FieldLevel) bool {
	return funct.Contains(models.NotificationCategories, fl.Field().String())
}

func GovtJobType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return funct.Contains(models.GovtJobTypes, value)
}

func jsonName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

// RegisterValidations installs the custom tags on v. The query server
// calls it on gin's binding engine.
func RegisterValidations(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonName)
	validations := map[string]validator.Func{
		"strongpassword":       StrongPassword,
		"accepted":             Accepted,
		"notificationCategory": NotificationCategory,
		"govtJobType":          GovtJobType,
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.SetTagName("binding")
		if err := RegisterValidations(validate); err != nil {
			panic(err)
		}
	})
	return validate
}

// Validate checks form against its binding tags without gin.
func Validate(form interface{}) error {
	return validatorInstance().Struct(form)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "strongpassword":
		value, _ := fe.Value().(string)
		return "password must contain " + strings.Join(PasswordProblems(value), ", ")
	case "eqfield":
		return "passwords do not match"
	case "accepted":
		return fe.Field() + " must be accepted"
	case "len":
		return fmt.Sprintf("%s must be %s characters long", fe.Field(), fe.Param())
	case "min", "max":
		return fmt.Sprintf("%s must be %s %s characters", fe.Field(), map[string]string{"min": "at least", "max": "at most"}[fe.Tag()], fe.Param())
	}
	return fe.Field() + " is invalid"
}

// Message turns binding errors into one line for the response envelope.
func Message(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		messages := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			messages = append(messages, fieldMessage(fe))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}
