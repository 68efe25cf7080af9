package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"marketplace/internal/validation"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// ErrInvalidBody is returned when a request body is not the expected JSON
var ErrInvalidBody = errors.New("invalid request body")

// ValidateRequest validates the request body against a struct with validation tags
func ValidateRequest(v interface{}) error {
	return validation.Validator().Struct(v)
}

// DecodeJSON decodes a JSON request body into v without validating it
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return nil
}

// DecodeAndValidate decodes JSON request body and validates it
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := DecodeJSON(r, v); err != nil {
		return err
	}
	return ValidateRequest(v)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationErrors converts validator errors to a readable format
func FormatValidationErrors(err error) []ValidationError {
	var errs []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errs = append(errs, ValidationError{
				Field:   e.Field(),
				Message: validation.Message(e),
			})
		}
	}

	return errs
}
