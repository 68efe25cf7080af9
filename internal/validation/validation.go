// Package validation builds the shared struct validator used for request
// bodies and form payloads.
package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	urlSlugPattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)
	phonePattern   = regexp.MustCompile(`^\+?\d{7,15}$`)
	blankPattern   = regexp.MustCompile(`^\s*$`)

	once     sync.Once
	instance *validator.Validate
)

// Validator returns the process-wide validator with the custom rules registered
func Validator() *validator.Validate {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New creates a validator with the marketplace rules registered:
//
//	urlslug  lowercase letters and digits separated by single hyphens or underscores
//	phone    optional leading plus followed by 7 to 15 digits
//	notblank string with at least one non-space character
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their JSON name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// the rule functions are static, registration cannot fail
	_ = v.RegisterValidation("urlslug", func(fl validator.FieldLevel) bool {
		return urlSlugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return !blankPattern.MatchString(fl.Field().String())
	})

	// decimals validate as floats so gt/gte/lte work on prices
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// Message returns the human readable message for a failed rule
func Message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "len":
		return "Value must have exactly " + e.Param() + " items"
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	case "gt":
		return "Value must be greater than " + e.Param()
	case "lt":
		return "Value must be less than " + e.Param()
	case "url":
		return "Invalid URL"
	case "urlslug":
		return "Only letters, numbers, hyphen, and underscore are allowed, without consecutive occurrences of hyphens, underscores, or spaces"
	case "phone":
		return "Invalid phone number format"
	case "notblank":
		return "This field cannot be blank"
	case "oneof":
		return "Value must be one of: " + e.Param()
	default:
		return "Invalid value"
	}
}
