package models

import "fmt"

// ValidationKind distinguishes the two fatal normalization failures.
type ValidationKind string

const (
	// ValidationUnrecognizedShape means the payload matched none of the
	// recognized structures.
	ValidationUnrecognizedShape ValidationKind = "unrecognized_shape"
	// ValidationMissingEmail means a shape matched but no customer email
	// could be extracted.
	ValidationMissingEmail ValidationKind = "missing_email"
)

// ValidationError is a classified normalization failure. It maps to a 400 at
// the webhook boundary; everything else maps to a 500.
type ValidationError struct {
	Kind    ValidationKind
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a classified validation failure.
func NewValidationError(kind ValidationKind, message string, err error) *ValidationError {
	return &ValidationError{Kind: kind, Message: message, Err: err}
}
