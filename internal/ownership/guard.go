// Package ownership enforces that a single owned row belongs to the caller.
package ownership

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/studylife/internal/errs"
)

// Guard loads a resource by id and checks its owner.
type Guard[T any] struct {
	fetch func(ctx context.Context, id uuid.UUID) (T, error)
	owner func(T) uuid.UUID
}

// NewGuard builds a Guard from a loader and an owner extractor.
func NewGuard[T any](fetch func(ctx context.Context, id uuid.UUID) (T, error), owner func(T) uuid.UUID) *Guard[T] {
	return &Guard[T]{fetch: fetch, owner: owner}
}

// Authorize returns the resource when accountID owns it.
// Missing rows and rows owned by someone else both yield errs.ErrNotFound,
// so callers cannot probe for other accounts' ids. Other load errors are returned wrapped.
func (g *Guard[T]) Authorize(ctx context.Context, accountID, resourceID uuid.UUID) (T, error) {
	var zero T
	if accountID == uuid.Nil || resourceID == uuid.Nil {
		return zero, errs.ErrNotFound
	}
	res, err := g.fetch(ctx, resourceID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return zero, errs.ErrNotFound
		}
		return zero, fmt.Errorf("load %s: %w", resourceID, err)
	}
	if g.owner(res) != accountID {
		return zero, errs.ErrNotFound
	}
	return res, nil
}
