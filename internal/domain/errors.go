package domain

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCode string

const (
	ErrCodeValidation              ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidTransition       ErrorCode = "INVALID_TRANSITION"
	ErrCodeAvailabilityQueryFailed ErrorCode = "AVAILABILITY_QUERY_FAILED"
	ErrCodeTransport               ErrorCode = "TRANSPORT_ERROR"
	ErrCodeNotFound                ErrorCode = "NOT_FOUND"
	ErrCodeForbidden               ErrorCode = "FORBIDDEN"
	ErrCodeConflict                ErrorCode = "CONFLICT"
)

// DomainError carries a stable code, a human message and an optional cause.
// errors.Is matches any DomainError with the same code.
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	switch {
	case e.Err != nil && e.Message == "":
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is
var (
	ErrValidation              = &DomainError{Code: ErrCodeValidation, Message: "validation failed"}
	ErrInvalidTransition       = &DomainError{Code: ErrCodeInvalidTransition, Message: "transition not allowed"}
	ErrAvailabilityQueryFailed = &DomainError{Code: ErrCodeAvailabilityQueryFailed, Message: "availability query failed"}
	ErrTransport               = &DomainError{Code: ErrCodeTransport, Message: "backend unavailable"}
	ErrNotFound                = &DomainError{Code: ErrCodeNotFound, Message: "not found"}
	ErrForbidden               = &DomainError{Code: ErrCodeForbidden, Message: "forbidden"}
	ErrConflict                = &DomainError{Code: ErrCodeConflict, Message: "conflict"}
)

func NewInvalidTransitionError(msg string) error {
	return &DomainError{Code: ErrCodeInvalidTransition, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &DomainError{Code: ErrCodeNotFound, Message: msg}
}

func NewForbiddenError(msg string) error {
	return &DomainError{Code: ErrCodeForbidden, Message: msg}
}

func NewConflictError(msg string) error {
	return &DomainError{Code: ErrCodeConflict, Message: msg}
}

func NewTransportError(msg string, err error) error {
	return &DomainError{Code: ErrCodeTransport, Message: msg, Err: err}
}

func NewAvailabilityQueryFailedError(err error) error {
	return &DomainError{Code: ErrCodeAvailabilityQueryFailed, Message: "availability query failed", Err: err}
}

// CodeOf returns the code of the first DomainError in err's chain, or "" if none
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// MessageOf returns the message of the first DomainError in err's chain, or err.Error()
func MessageOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// FieldError is a single inline validation message
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError blocks a submission before any network call
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%s: %s", ErrCodeValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == ErrCodeValidation
}

func NewValidationError(fields ...FieldError) error {
	return &ValidationError{Fields: fields}
}
