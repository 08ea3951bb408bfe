// Package token issues and verifies signed, time-limited identity tokens (HS256 JWT).
//
// Tokens are stateless: nothing is stored server-side, so a token stays valid
// until it expires or the signing key changes.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for malformed, badly signed, expired or otherwise unusable tokens.
var ErrInvalidToken = errors.New("invalid token")

// Claim is the identity asserted by a token.
type Claim struct {
	Subject   uuid.UUID
	ExpiresAt time.Time
}

// Codec signs and verifies tokens with a process-wide secret.
type Codec struct {
	signKey []byte
	leeway  time.Duration
	now     func() time.Time
}

// NewCodec constructs a Codec. leeway is the tolerated clock skew on expiry (usually 0).
func NewCodec(signKey []byte, leeway time.Duration) *Codec {
	return &Codec{signKey: signKey, leeway: leeway, now: time.Now}
}

// Issue creates a signed HS256 JWT for the subject, valid for ttl.
func (c *Codec) Issue(subject uuid.UUID, ttl time.Duration) (string, time.Time, error) {
	if subject == uuid.Nil {
		return "", time.Time{}, errors.New("empty subject")
	}
	if ttl <= 0 {
		return "", time.Time{}, errors.New("non-positive ttl")
	}
	now := c.now()
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks signature, algorithm and expiry and returns the asserted claim.
// Every failure is reported as ErrInvalidToken.
func (c *Codec) Verify(raw string) (Claim, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return c.signKey, nil
	},
		jwt.WithLeeway(c.leeway),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return Claim{}, ErrInvalidToken
	}

	id, err := uuid.FromString(claims.Subject)
	if err != nil || id == uuid.Nil {
		return Claim{}, ErrInvalidToken
	}
	return Claim{Subject: id, ExpiresAt: claims.ExpiresAt.Time}, nil
}
