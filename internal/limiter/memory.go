package limiter

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	fails        int
	lastFail     time.Time
	blockedUntil time.Time
}

// Memory is an in-process limiter for single-node and development runs.
type Memory struct {
	mu      sync.Mutex
	policy  Policy
	now     func() time.Time
	entries map[string]*entry
}

// NewMemory constructs an in-memory limiter.
func NewMemory(p Policy) *Memory {
	return &Memory{policy: p, now: time.Now, entries: make(map[string]*entry)}
}

func key(email string, ipHash []byte) string { return email + "\x00" + string(ipHash) }

// Allow reports whether login is currently allowed.
func (m *Memory) Allow(_ context.Context, email string, ipHash []byte) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key(email, ipHash)]
	if !ok {
		return true, 0, nil
	}
	if now := m.now(); e.blockedUntil.After(now) {
		return false, e.blockedUntil.Sub(now), nil
	}
	return true, 0, nil
}

// Success forgets the pair.
func (m *Memory) Success(_ context.Context, email string, ipHash []byte) error {
	m.mu.Lock()
	delete(m.entries, key(email, ipHash))
	m.mu.Unlock()
	return nil
}

// Failure records a failed attempt.
func (m *Memory) Failure(_ context.Context, email string, ipHash []byte) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	k := key(email, ipHash)
	e, ok := m.entries[k]
	if !ok || now.Sub(e.lastFail) > m.policy.Window {
		e = &entry{}
		m.entries[k] = e
	}
	e.fails++
	e.lastFail = now
	if e.fails < m.policy.MaxFails {
		return false, 0, nil
	}
	e.blockedUntil = now.Add(m.policy.BlockFor)
	return true, m.policy.BlockFor, nil
}
