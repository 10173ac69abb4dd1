// apperrors/errors.go
package apperrors

import "fmt"

// ValidationError covers missing or malformed request fields (HTTP 400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError covers absent bookings, campaigns and contacts (HTTP 404).
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func NewNotFound(resource, key string) error {
	return &NotFoundError{Resource: resource, Key: key}
}

// ProviderError codes
const (
	ProviderDisconnected = "DISCONNECTED"
	ProviderUnavailable  = "UNAVAILABLE"
)

// ProviderError covers mail transport failures. Callers record it per
// recipient instead of aborting the batch.
type ProviderError struct {
	Code string
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mail provider %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("mail provider %s", e.Code)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProvider(code string, err error) error {
	return &ProviderError{Code: code, Err: err}
}
