package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateUsername is returned when the username uniqueness
	// constraint rejects a registration at commit time.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrUnauthenticated is returned when a request carries no session, or a
	// session whose user no longer resolves, or bad credentials.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError reports a missing or blank required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PersistenceError wraps an unexpected storage fault. The transaction that
// produced it has already been rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps err with the operation name.
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}
