// Package httperrors provides a structured error type for HTTP responses
package httperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error represents a structured HTTP error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// WriteJSON writes the error as JSON to the response, using Code as the status
func (e *Error) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(e.Code)
	_ = json.NewEncoder(w).Encode(e)
}

// NewError creates a new HTTP error
func NewError(code int, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// NewErrorWithDetails creates a new HTTP error with details
func NewErrorWithDetails(code int, message, details string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewErrorWithErr creates a new HTTP error wrapping an underlying error
func NewErrorWithErr(code int, message string, err error) *Error {
	e := &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// FromStatus creates an error whose message is the standard status text
func FromStatus(code int) *Error {
	return NewError(code, http.StatusText(code))
}

// IsHTTPError checks if an error is an HTTP Error
func IsHTTPError(err error) bool {
	var he *Error
	return errors.As(err, &he)
}

// StatusCode returns the status carried by err, or 500 if err is not an HTTP Error
func StatusCode(err error) int {
	var he *Error
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
