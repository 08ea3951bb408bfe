// Package crypto implements server-side password hashing and verification.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const argonVersion = argon2.Version // 0x13

// Params are Argon2id parameters (tuned for server-side hashing).
type Params struct {
	Time    uint32 // iterations
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultParams are used by the server unless overridden.
var DefaultParams = Params{
	Time:    3,
	Memory:  64 * 1024, // 64 MB
	Threads: 1,
	KeyLen:  32,
	SaltLen: 16,
}

// Hasher hashes and verifies passwords with Argon2id.
// Digests are self-describing:
//
//	$argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<key_b64>
type Hasher struct {
	p Params
}

// NewHasher constructs a Hasher with the given parameters.
func NewHasher(p Params) *Hasher { return &Hasher{p: p} }

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// Hash returns the encoded Argon2id digest of password using a fresh random salt.
func (h *Hasher) Hash(password string) (string, error) {
	salt, err := RandBytes(int(h.p.SaltLen))
	if err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, h.p.Time, h.p.Memory, h.p.Threads, h.p.KeyLen)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argonVersion, h.p.Memory, h.p.Time, h.p.Threads,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// Verify reports whether password matches digest. Malformed digests and
// digests whose cost is far above ours are reported as a mismatch.
func (h *Hasher) Verify(password, digest string) bool {
	p, salt, want, ok := decode(digest)
	if !ok || !h.withinBounds(p) {
		return false
	}
	got := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, uint32(len(want))) // #nosec G115 -- len bounded by withinBounds
	return subtle.ConstantTimeCompare(got, want) == 1
}

// withinBounds refuses attacker-sized parameters while still accepting
// digests produced with older, cheaper settings.
func (h *Hasher) withinBounds(p Params) bool {
	switch {
	case exceeds(p.Memory, h.p.Memory), exceeds(p.Time, h.p.Time), exceeds(uint32(p.Threads), uint32(h.p.Threads)):
		return false
	case p.SaltLen < 8 || p.SaltLen > 64:
		return false
	case p.KeyLen < 16 || p.KeyLen > 128:
		return false
	}
	return true
}

// exceeds reports got > 2*limit without wrapping.
func exceeds(got, limit uint32) bool {
	return uint64(got) > 2*uint64(limit)
}

func decode(digest string) (Params, []byte, []byte, bool) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Params{}, nil, nil, false
	}
	if parts[2] != fmt.Sprintf("v=%d", argonVersion) {
		return Params{}, nil, nil, false
	}
	var mem, it, par uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &it, &par); err != nil {
		return Params{}, nil, nil, false
	}
	if mem == 0 || it == 0 || par == 0 || par > 255 {
		return Params{}, nil, nil, false
	}
	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, false
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil {
		return Params{}, nil, nil, false
	}
	return Params{
		Time:    it,
		Memory:  mem,
		Threads: uint8(par),
		KeyLen:  uint32(len(key)),  // #nosec G115
		SaltLen: uint32(len(salt)), // #nosec G115
	}, salt, key, true
}
