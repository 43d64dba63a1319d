package domain

import (
	"errors"
	"fmt"
)

// Ошибки, которые use case'ы возвращают наружу. Обработчики сопоставляют их со статусами HTTP.
var (
	ErrValidation         = errors.New("invalid listing data")
	ErrAccessDenied       = errors.New("access denied")
	ErrStoreUnavailable   = errors.New("listing store unavailable")
	ErrNotificationFailed = errors.New("notification dispatch failed")
	ErrImageStorage       = errors.New("image storage failed")
	ErrListingNotFound    = errors.New("listing not found")
)

// ValidationError описывает поле формы, которое не прошло проверку.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is позволяет проверять ошибку через errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
