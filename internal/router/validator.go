package router

import (
	"reflect"
	"strings"

	"gopkg.in/go-playground/validator.v9"
)

// Validator adapts go-playground/validator to echo.Validator. Field errors
// are reported under their JSON names.
type Validator struct {
	validator *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validator: v}
}

// Validate checks the `validate` struct tags of i.
func (v *Validator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}
