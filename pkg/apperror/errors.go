// Package apperror holds the error kinds shared by services and handlers.
// Callers inspect them with errors.As; handlers turn them into HTTP statuses.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	Key    string
}

func NewNotFound(entity string, key any) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: fmt.Sprint(key)}
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

// InsufficientSeatsError carries the number of seats that were actually free
// when the request was evaluated under lock.
type InsufficientSeatsError struct {
	Requested int
	Available int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("not enough seats available: requested %d, available %d", e.Requested, e.Available)
}

// ValidationError is returned for malformed input before any storage access.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func NewValidation(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func NewFieldValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Message: "validation failed", Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

// DataIntegrityError signals stored seat counters that break
// 0 <= booked <= total. It is never corrected silently.
type DataIntegrityError struct {
	Reason string
	Total  int
	Booked int
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("seat data integrity violated: %s (total=%d, booked=%d)", e.Reason, e.Total, e.Booked)
}

// ConcurrencyError wraps lock, serialization and unique-code races.
// The whole operation can be retried by the caller.
type ConcurrencyError struct {
	Op  string
	Err error
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("%s: concurrent modification, retry the request: %v", e.Op, e.Err)
}

func (e *ConcurrencyError) Unwrap() error { return e.Err }

// ConflictError reports a uniqueness clash on a user-supplied value.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// UnauthorizedError reports bad credentials or an unusable session.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

// ErrCodeSpaceExhausted is returned when no unused confirmation code was found
// within the configured number of attempts.
var ErrCodeSpaceExhausted = errors.New("confirmation code space exhausted")

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConcurrency(err error) bool {
	var target *ConcurrencyError
	return errors.As(err, &target)
}
