// Package limiter throttles failed logins per (email, client address) pair.
package limiter

import (
	"context"
	"crypto/sha256"
	"time"
)

// Default policy: 5 failures inside 15 minutes block the pair for 15 minutes.
const (
	DefaultWindow   = 15 * time.Minute
	DefaultMaxFails = 5
	DefaultBlockFor = 15 * time.Minute
)

// Limiter controls login attempts and temporary lockouts.
type Limiter interface {
	// Allow reports whether login is currently allowed and optional retry-after.
	Allow(ctx context.Context, email string, ipHash []byte) (bool, time.Duration, error)
	// Success resets counters after a successful login.
	Success(ctx context.Context, email string, ipHash []byte) error
	// Failure records a failed attempt; may place a temporary block.
	Failure(ctx context.Context, email string, ipHash []byte) (bool, time.Duration, error)
}

// Policy is the window/threshold/lockout triple shared by implementations.
type Policy struct {
	Window   time.Duration
	MaxFails int
	BlockFor time.Duration
}

// DefaultPolicy returns the default lockout policy.
func DefaultPolicy() Policy {
	return Policy{Window: DefaultWindow, MaxFails: DefaultMaxFails, BlockFor: DefaultBlockFor}
}

// HashIP returns a stable hash for an IP string to avoid storing raw addresses.
func HashIP(ip string) []byte {
	h := sha256.Sum256([]byte(ip))
	return h[:]
}
