package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
)

func makeJWT(t *testing.T, sub string, key []byte, method jwt.SigningMethod, iat time.Time, ttl time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		IssuedAt:  jwt.NewNumericDate(iat),
		ExpiresAt: jwt.NewNumericDate(iat.Add(ttl)),
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return s
}

func TestCodec_IssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	c := NewCodec([]byte("secret"), 0)
	sub := uuid.Must(uuid.NewV4())

	tok, exp, err := c.Issue(sub, 30*time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if strings.Count(tok, ".") != 2 {
		t.Fatalf("not a compact JWT: %q", tok)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry in the past: %v", exp)
	}

	claim, err := c.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claim.Subject != sub {
		t.Fatalf("subject mismatch: %s vs %s", claim.Subject, sub)
	}
	if !claim.ExpiresAt.Equal(exp.Truncate(time.Second)) {
		t.Fatalf("expiry mismatch: %v vs %v", claim.ExpiresAt, exp)
	}
}

func TestCodec_Issue_Validation(t *testing.T) {
	t.Parallel()

	c := NewCodec([]byte("secret"), 0)
	if _, _, err := c.Issue(uuid.Nil, time.Minute); err == nil {
		t.Fatalf("want error on nil subject")
	}
	if _, _, err := c.Issue(uuid.Must(uuid.NewV4()), 0); err == nil {
		t.Fatalf("want error on zero ttl")
	}
}

func TestCodec_Verify_Expired(t *testing.T) {
	t.Parallel()

	c := NewCodec([]byte("secret"), 0)
	tok, _, err := c.Issue(uuid.Must(uuid.NewV4()), time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := c.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken on expired token, got %v", err)
	}
}

func TestCodec_Verify_Leeway(t *testing.T) {
	t.Parallel()

	key := []byte("secret")
	sub := uuid.Must(uuid.NewV4()).String()
	// expired ten seconds ago
	j := makeJWT(t, sub, key, jwt.SigningMethodHS256, time.Now().Add(-time.Hour), time.Hour-10*time.Second)

	if _, err := NewCodec(key, 0).Verify(j); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("zero leeway must reject expired token, got %v", err)
	}
	if _, err := NewCodec(key, time.Minute).Verify(j); err != nil {
		t.Fatalf("one minute leeway must accept: %v", err)
	}
}

func TestCodec_Verify_Rejections(t *testing.T) {
	t.Parallel()

	key := []byte("secret")
	c := NewCodec(key, 0)
	sub := uuid.Must(uuid.NewV4()).String()
	now := time.Now()

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: sub}).SignedString(key)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	good := makeJWT(t, sub, key, jwt.SigningMethodHS256, now, time.Hour)
	other := makeJWT(t, uuid.Must(uuid.NewV4()).String(), key, jwt.SigningMethodHS256, now, time.Hour)
	gp, op := strings.Split(good, "."), strings.Split(other, ".")
	tampered := gp[0] + "." + op[1] + "." + gp[2]

	cases := map[string]string{
		"empty":          "",
		"garbage":        "this-is-not-a-jwt",
		"other key":      makeJWT(t, sub, []byte("other"), jwt.SigningMethodHS256, now, time.Hour),
		"wrong alg":      makeJWT(t, sub, key, jwt.SigningMethodHS384, now, time.Hour),
		"bad subject":    makeJWT(t, "someone@example.com", key, jwt.SigningMethodHS256, now, time.Hour),
		"nil subject":    makeJWT(t, uuid.Nil.String(), key, jwt.SigningMethodHS256, now, time.Hour),
		"no expiry":      noExp,
		"tampered":       tampered,
		"unsigned none":  unsignedNone(t, sub, now),
		"bearer prefix":  "Bearer " + good,
		"trailing space": good + " ",
	}
	for name, tok := range cases {
		if _, err := c.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: want ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestCodec_KeyRotationInvalidatesTokens(t *testing.T) {
	t.Parallel()

	sub := uuid.Must(uuid.NewV4())
	tok, _, err := NewCodec([]byte("old"), 0).Issue(sub, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewCodec([]byte("new"), 0).Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("rotated key must reject old tokens, got %v", err)
	}
}

func unsignedNone(t *testing.T, sub string, now time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: sub, ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}
	s, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString(none): %v", err)
	}
	return s
}
