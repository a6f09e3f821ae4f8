package service

import (
	"errors"

	"churchadmin/internal/validation"
)

// Kind classifies a service failure for the transport layer.
type Kind string

const (
	KindValidation   Kind = "BAD_REQUEST"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindUnauthorized Kind = "UNAUTHORIZED"
)

// Error is a failure the caller can act on. Anything that is not an *Error
// is an internal fault.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrMemberNotFound        = NotFound("Member not found")
	ErrAttendanceNotFound    = NotFound("Attendance record not found")
	ErrOfferingNotFound      = NotFound("Tithes and offerings record not found")
	ErrPrayerRequestNotFound = NotFound("Prayer request not found")
	ErrReceiptNumberTaken    = Conflict("Receipt number already exists")
	ErrInvalidCredentials    = Unauthorized("Invalid username or password")
)

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Invalid reports bad input, optionally per field.
func Invalid(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// KindOf returns the Kind of err, or "" for internal errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// validateInput runs struct validation and converts field errors.
func validateInput(input any) error {
	err := validation.Struct(input)
	if err == nil {
		return nil
	}
	var fields validation.Errors
	if errors.As(err, &fields) {
		return Invalid("Invalid input", fields)
	}
	return err
}
