package service

import (
	"errors"
	"fmt"

	"marketplace/internal/domain"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrUnauthenticated is returned when a mutation is attempted without a session
	ErrUnauthenticated = errors.New("Unauthenticated.")

	// ErrUnauthorized matches every *UnauthorizedError via errors.Is
	ErrUnauthorized = errors.New("unauthorized")
)

// UnauthorizedError reports a session whose role cannot perform the operation
type UnauthorizedError struct {
	Required domain.Role
}

func (e *UnauthorizedError) Error() string {
	switch e.Required {
	case domain.RoleAdmin:
		return "Unauthorized Access: Admin Privileges Required for Entry."
	case domain.RoleSeller:
		return "Unauthorized Access: Seller Privileges Required for Entry."
	default:
		return "Unauthorized Access."
	}
}

func (e *UnauthorizedError) Is(target error) bool {
	return target == ErrUnauthorized
}

// ValidationError carries the failed field rules of an input payload
type ValidationError struct {
	Errors validator.ValidationErrors
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Errors))
}

// Unwrap exposes the validator errors so they can be formatted field by field
func (e *ValidationError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors
}

// ConflictError reports a uniqueness collision on a named field
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

// validateInput runs struct validation and converts failures to *ValidationError
func validateInput(v *validator.Validate, input any) error {
	if err := v.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &ValidationError{Errors: verrs}
		}
		return fmt.Errorf("failed to validate input: %w", err)
	}
	return nil
}
