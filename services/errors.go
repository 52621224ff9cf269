package services

import "errors"

// Failure kinds the handlers translate into HTTP statuses. Anything else that
// escapes a service is treated as an internal error and never shown verbatim
// to the client.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrQuotaExceeded      = errors.New("project quota exceeded")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries a client-safe message about a rejected field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(message string) error {
	return &ValidationError{Message: message}
}
