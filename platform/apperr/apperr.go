// Package apperr provides standardized domain error types for the application.
// Domain services return these typed errors, and the HTTP layer
// maps them to HTTP status codes through a single table.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindValidation indicates a malformed or missing request field (client fault).
	KindValidation
	// KindEncoding indicates a categorical value the encoder table cannot map.
	KindEncoding
	// KindTypeConversion indicates a feature that could not be turned into a float.
	KindTypeConversion
	// KindFeatureMismatch indicates the encoded row disagrees with the model's inputs.
	KindFeatureMismatch
	// KindPersistence indicates the repository failed to store or read a lead.
	KindPersistence
	// KindNotFound indicates a resource was not found.
	KindNotFound
	// KindInternal indicates an unexpected internal error.
	KindInternal
)

var kindNames = map[Kind]string{
	KindUnknown:         "internal_error",
	KindValidation:      "validation_error",
	KindEncoding:        "encoding_error",
	KindTypeConversion:  "type_conversion_error",
	KindFeatureMismatch: "feature_mismatch",
	KindPersistence:     "persistence_error",
	KindNotFound:        "not_found",
	KindInternal:        "internal_error",
}

var kindStatus = map[Kind]int{
	KindValidation:      http.StatusBadRequest,
	KindEncoding:        http.StatusUnprocessableEntity,
	KindTypeConversion:  http.StatusInternalServerError,
	KindFeatureMismatch: http.StatusInternalServerError,
	KindPersistence:     http.StatusServiceUnavailable,
	KindNotFound:        http.StatusNotFound,
	KindInternal:        http.StatusInternalServerError,
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Error is a domain error with a typed Kind for HTTP mapping.
type Error struct {
	Kind    Kind
	Message string
	Op      string      // Operation that failed (optional)
	Err     error       // Underlying error (optional)
	Details interface{} // Additional details for response (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
// Unknown kinds are treated as internal failures.
func (e *Error) HTTPStatus() int {
	if status, ok := kindStatus[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// New creates a new domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp returns the error with the operation set.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails returns the error with additional details.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// Convenience constructors for common error types.

// Validation creates a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Encoding creates an encoding error.
func Encoding(message string) *Error {
	return New(KindEncoding, message)
}

// TypeConversion creates a type conversion error.
func TypeConversion(message string) *Error {
	return New(KindTypeConversion, message)
}

// FeatureMismatch creates a feature mismatch error.
func FeatureMismatch(message string) *Error {
	return New(KindFeatureMismatch, message)
}

// Persistence creates a persistence error around the storage failure err.
func Persistence(message string, err error) *Error {
	return Wrap(KindPersistence, message, err)
}

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Internal creates an internal server error.
func Internal(message string) *Error {
	return New(KindInternal, message)
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// GetKind extracts the error kind from an error chain.
// Returns KindUnknown if no *Error is present.
func GetKind(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindUnknown
}

// Is checks if err carries an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
