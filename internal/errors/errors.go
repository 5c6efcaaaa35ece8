package errors

import "errors"

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// The message deliberately does not reveal which of the two was wrong.
	ErrInvalidCredentials = errors.New("the provided credentials are incorrect")
	// ErrUnauthenticated is returned when a request carries no token, or a
	// token that is malformed, expired, or revoked.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError carries field-keyed validation messages for a 422 response.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Message: "Data verification error",
		Fields:  map[string][]string{field: {message}},
	}
}

// ValidationResponse is the body of a 422 response.
type ValidationResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// MessageResponse is the body of plain message responses (401, 429, ...).
type MessageResponse struct {
	Message string `json:"message"`
}

// ToResponse converts a ValidationError to its wire form.
func (e *ValidationError) ToResponse() ValidationResponse {
	return ValidationResponse{
		Success: false,
		Message: e.Message,
		Errors:  e.Fields,
	}
}
