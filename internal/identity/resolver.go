// Package identity turns an inbound credential header into a persisted account id.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/studylife/internal/errs"
	"github.com/and161185/studylife/internal/model"
	"github.com/and161185/studylife/internal/token"
)

// Verifier checks a raw token and returns its claim.
type Verifier interface {
	Verify(raw string) (token.Claim, error)
}

// AccountStore is the account lookup the resolver depends on.
type AccountStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
}

// Resolver maps a credential header to an existing account.
type Resolver struct {
	tokens   Verifier
	accounts AccountStore
}

// NewResolver constructs a Resolver.
func NewResolver(tokens Verifier, accounts AccountStore) *Resolver {
	return &Resolver{tokens: tokens, accounts: accounts}
}

// Resolve returns the account id asserted by header.
//
// Rejections (absent header, bad or expired token, account gone) are all
// errs.ErrUnauthorized. Store failures are returned wrapped and must be
// treated as internal errors by the caller.
func (r *Resolver) Resolve(ctx context.Context, header string) (uuid.UUID, error) {
	raw, ok := ExtractToken(header)
	if !ok {
		return uuid.Nil, errs.ErrUnauthorized
	}
	claim, err := r.tokens.Verify(raw)
	if err != nil {
		return uuid.Nil, errs.ErrUnauthorized
	}
	acc, err := r.accounts.GetByID(ctx, claim.Subject)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return uuid.Nil, errs.ErrUnauthorized
		}
		return uuid.Nil, fmt.Errorf("resolve account: %w", err)
	}
	if acc.ID != claim.Subject {
		return uuid.Nil, errs.ErrUnauthorized
	}
	return acc.ID, nil
}

// ExtractToken returns the last whitespace-delimited field of header.
// Any scheme word (or none) is accepted: "Bearer t", "Token t" and "t" all yield "t".
func ExtractToken(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return "", false
	}
	return fields[len(fields)-1], true
}
