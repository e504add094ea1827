package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"heartlink/internal/domain/entity"
)

// RegisterValidators adds the domain tags "interest" and "gender" to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	return registerOn(v)
}

func registerOn(v *validator.Validate) error {
	if err := v.RegisterValidation("interest", func(fl validator.FieldLevel) bool {
		return entity.IsValidInterest(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		return entity.Gender(fl.Field().String()).IsValid()
	})
}

// ValidationMessage turns a binding error into a short user-facing message.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Please provide a valid email"
	case "interest":
		return "Invalid interests provided"
	case "gender":
		return "Gender must be one of male, female, other"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
