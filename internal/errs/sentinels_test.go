package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_IsAndMessage(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Fields: map[string]string{"title": "required", "color": "hexcolor"}}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("ValidationError must match ErrValidation")
	}
	wrapped := fmt.Errorf("create note: %w", err)
	if !errors.Is(wrapped, ErrValidation) {
		t.Fatalf("wrapped ValidationError must match ErrValidation")
	}
	var ve *ValidationError
	if !errors.As(wrapped, &ve) || ve.Fields["title"] != "required" {
		t.Fatalf("errors.As failed: %v", wrapped)
	}
	if got, want := err.Error(), "validation failed: color: hexcolor, title: required"; got != want {
		t.Fatalf("message=%q, want=%q", got, want)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("ValidationError must not match ErrNotFound")
	}
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	err := NewValidation("email", "required")
	if err.Fields["email"] != "required" || len(err.Fields) != 1 {
		t.Fatalf("unexpected fields: %+v", err.Fields)
	}
	if (&ValidationError{}).Error() != "validation failed" {
		t.Fatalf("empty validation error message mismatch")
	}
}
