// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"sort"
	"strings"
)

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist or is owned by another account.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates failed authentication (bad token, unknown account, wrong password).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation indicates malformed client input.
	ErrValidation = errors.New("validation failed")
)

// ValidationError carries field-level detail for rejected input.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Fields map[string]string // field -> failed rule
}

// NewValidation builds a ValidationError for a single field.
func NewValidation(field, rule string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: rule}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

// Is reports ErrValidation as the sentinel for every ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
