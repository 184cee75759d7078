package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
)

// MsgAllFieldsRequired is the message shown when a solution form is incomplete.
const MsgAllFieldsRequired = "All fields are required"

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// MissingFields reports whether every field error is a "required" error.
func (e *ValidationError) MissingFields() bool {
	if len(e.Errors) == 0 {
		return false
	}
	for _, fe := range e.Errors {
		if fe.Message != "required" {
			return false
		}
	}
	return true
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// AuthError is returned when the auth collaborator rejects a sign-in, sign-up
// or sign-out. Message is what the collaborator reported.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// RemoteKind distinguishes read failures from write failures of the
// persistence collaborator.
type RemoteKind string

const (
	RemoteFetch RemoteKind = "fetch"
	RemoteWrite RemoteKind = "write"
)

// RemoteError wraps a failure reported by the persistence collaborator.
type RemoteError struct {
	Kind RemoteKind
	Op   string
	Err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// NewFetchError wraps a list failure.
func NewFetchError(op string, err error) *RemoteError {
	return &RemoteError{Kind: RemoteFetch, Op: op, Err: err}
}

// NewWriteError wraps a create/update/delete failure.
func NewWriteError(op string, err error) *RemoteError {
	return &RemoteError{Kind: RemoteWrite, Op: op, Err: err}
}

// Message converts err into the human-readable text shown in an alert slot.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		if ve.MissingFields() {
			return MsgAllFieldsRequired
		}
		parts := make([]string, 0, len(ve.Errors))
		for _, fe := range ve.Errors {
			parts = append(parts, fe.Field+": "+fe.Message)
		}
		return strings.Join(parts, "; ")
	}

	var ae *AuthError
	if errors.As(err, &ae) {
		if errors.Is(ae.Err, ErrUnauthorized) {
			return "Invalid login credentials"
		}
		if errors.Is(ae.Err, ErrAlreadyExists) {
			return "User already registered"
		}
		return innermost(ae.Err)
	}

	var re *RemoteError
	if errors.As(err, &re) {
		switch {
		case errors.Is(re.Err, ErrNotFound):
			return "The solution no longer exists"
		case errors.Is(re.Err, ErrAlreadyExists):
			return "A solution with these values already exists"
		}
		return innermost(re.Err)
	}

	return err.Error()
}

// innermost returns the message of the deepest error in a wrap chain, which is
// the text the collaborator produced without our operation prefixes.
func innermost(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
