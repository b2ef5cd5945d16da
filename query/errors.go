package query

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure cases.
var (
	// ErrNoDriver indicates that no driver is bound to the context.
	ErrNoDriver = errors.New("accord: no driver bound to context")
	// ErrNotFound indicates that no record matched the given key.
	ErrNotFound = errors.New("accord: record not found")
	// ErrRequired indicates that a required field holds no value.
	ErrRequired = errors.New("accord: required field missing")
)

// RequiredError reports a create-time validation failure: a field with
// no declared default still holds its type's zero value. Generated
// Create methods return it before any statement is issued.
type RequiredError struct {
	Field string
}

// Error implements the error interface.
func (e *RequiredError) Error() string {
	return fmt.Sprintf("accord: required field %q has no value", e.Field)
}

// Is reports whether the target matches the sentinel error for RequiredError.
func (e *RequiredError) Is(target error) bool {
	return target == ErrRequired
}

// NewRequiredError creates a new RequiredError for the given column.
func NewRequiredError(field string) error {
	return &RequiredError{Field: field}
}

// NotFoundError reports that a lookup by primary key matched no record.
type NotFoundError struct {
	Table string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("accord: %s: record not found", e.Table)
}

// Is reports whether the target matches the sentinel error for NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError for the given table.
func NewNotFoundError(table string) error {
	return &NotFoundError{Table: table}
}

// IsRequired reports whether the error is a RequiredError.
func IsRequired(err error) bool {
	var reqErr *RequiredError
	return errors.As(err, &reqErr)
}

// IsNotFound reports whether the error is a NotFoundError.
func IsNotFound(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}
