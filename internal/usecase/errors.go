package usecase

import (
	"errors"
	"fmt"

	"cotizaciones/internal/domain/entities"
)

var (
	ErrQuotationNotFound  = errors.New("quotation not found")
	ErrInvalidQuotationID = errors.New("invalid quotation id")
	ErrQuotationClosed    = errors.New("quotation is closed")
	ErrInvalidTransition  = errors.New("invalid lifecycle transition")
	ErrUnauthenticated    = errors.New("actor not authenticated")

	// ErrAllocation: the counter transaction exhausted its retries. No number
	// was issued and nothing was written.
	ErrAllocation = errors.New("sequence allocation failed")

	// ErrPersistence: the document write failed. On creation the allocated
	// sequence is consumed and never reused.
	ErrPersistence = errors.New("quotation persistence failed")
)

// ValidationError rejects caller input before any side effect.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotificationError describes a failed best-effort send. It is reported in
// the operation result and logged, never returned as an operation failure.
type NotificationError struct {
	Kind entities.NotificationKind
	Err  error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification %s: %v", e.Kind, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }
