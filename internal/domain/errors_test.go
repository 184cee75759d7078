package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_SingleField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("name", "required")

	if got := err.Error(); got != "validation: name: required" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
}

func TestValidationError_MultipleFields(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "name", Message: "required"},
		{Field: "base_cost", Message: "required"},
	})

	if got := err.Error(); got != "validation: 2 errors" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !err.MissingFields() {
		t.Fatal("MissingFields() = false, want true")
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrNotFound, ErrAlreadyExists, ErrValidation,
		ErrUnauthorized, ErrForbidden, ErrConflict,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel errors %d and %d should not match", i, j)
			}
		}
	}
}

func TestRemoteError_Unwrap(t *testing.T) {
	t.Parallel()

	err := NewWriteError("delete", fmt.Errorf("solution x: %w", ErrNotFound))
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("errors.Is(err, ErrNotFound) = false")
	}
	if err.Kind != RemoteWrite {
		t.Errorf("Kind = %q, want %q", err.Kind, RemoteWrite)
	}
}

func TestMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"missing fields", NewValidationErrors([]FieldError{{Field: "name", Message: "required"}}), MsgAllFieldsRequired},
		{"invalid field", NewValidationError("year_created", "must be between 2000 and 2026"), "year_created: must be between 2000 and 2026"},
		{"wrong credentials", &AuthError{Op: "sign in", Err: ErrUnauthorized}, "Invalid login credentials"},
		{"duplicate account", &AuthError{Op: "sign up", Err: fmt.Errorf("account: %w", ErrAlreadyExists)}, "User already registered"},
		{"collaborator message", &AuthError{Op: "sign in", Err: fmt.Errorf("gotrue: %w", errors.New("Email not confirmed"))}, "Email not confirmed"},
		{"fetch failure", NewFetchError("list", fmt.Errorf("rest: %w", errors.New("permission denied for table solutions"))), "permission denied for table solutions"},
		{"missing row", NewWriteError("update", fmt.Errorf("solution: %w", ErrNotFound)), "The solution no longer exists"},
		{"plain", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Message(tt.err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}
