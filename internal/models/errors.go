package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Taxonomy roots. Handlers map these to HTTP status codes.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
)

var (
	ErrDuplicateEmail     = wrapRoot(ErrConflict, "email already registered")
	ErrInvalidCredentials = wrapRoot(ErrUnauthenticated, "invalid email or password")
	ErrNotVerified        = wrapRoot(ErrForbidden, "account is pending admin verification")
	ErrInvalidToken       = wrapRoot(ErrUnauthenticated, "invalid token")
	ErrExpiredToken       = wrapRoot(ErrUnauthenticated, "token expired")
	ErrMalformedToken     = wrapRoot(ErrUnauthenticated, "malformed token")
	ErrRevokedToken       = wrapRoot(ErrUnauthenticated, "token revoked")

	ErrUserNotFound       = wrapRoot(ErrNotFound, "user not found")
	ErrServiceNotFound    = wrapRoot(ErrNotFound, "service not found")
	ErrServiceUnavailable = wrapRoot(ErrNotFound, "service not found or inactive")
	ErrBookingNotFound    = wrapRoot(ErrNotFound, "booking not found")
	ErrReviewNotFound     = wrapRoot(ErrNotFound, "review not found")
	ErrDisputeNotFound    = wrapRoot(ErrNotFound, "dispute not found")

	ErrSelfBooking     = wrapRoot(ErrForbidden, "you cannot book your own service")
	ErrNotCompleted    = wrapRoot(ErrValidation, "only completed bookings can be reviewed")
	ErrDuplicateReview = wrapRoot(ErrConflict, "booking already has a review")
	ErrStaleWrite      = wrapRoot(ErrConflict, "record was modified concurrently")
)

type rootedError struct {
	root error
	msg  string
}

func wrapRoot(root error, msg string) error { return &rootedError{root: root, msg: msg} }

func (e *rootedError) Error() string { return e.msg }
func (e *rootedError) Unwrap() error { return e.root }

// FieldErrors collects per-field messages, keyed by the JSON field name.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

// ValidationError carries field errors and matches ErrValidation.
type ValidationError struct {
	Msg    string
	Fields FieldErrors
}

func NewValidationError(msg string, fields FieldErrors) *ValidationError {
	return &ValidationError{Msg: msg, Fields: fields}
}

// Invalid is shorthand for a single-field validation failure.
func Invalid(field, msg string) *ValidationError {
	fe := FieldErrors{}
	fe.Add(field, msg)
	return &ValidationError{Msg: fmt.Sprintf("%s %s", field, msg), Fields: fe}
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
