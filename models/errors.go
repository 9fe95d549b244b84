package models

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")

	// ErrPINIncorrect is returned when a submitted PIN does not match the stored one.
	ErrPINIncorrect = errors.New("incorrect pin")

	// ErrDocumentNotFound is returned by a DocumentStore when the key was never written.
	ErrDocumentNotFound = errors.New("document not found")
)

// ValidationError is a user input problem detected before any I/O.
// MessageID names the localized message to show.
type ValidationError struct {
	Field     string
	MessageID string
	Data      map[string]any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.MessageID)
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
