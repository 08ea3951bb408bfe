// Package service contains application services for accounts, notes, quizzes and progress.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	pkgcrypto "github.com/and161185/studylife/internal/crypto"
	"github.com/and161185/studylife/internal/errs"
	"github.com/and161185/studylife/internal/limiter"
	"github.com/and161185/studylife/internal/model"
	"github.com/and161185/studylife/internal/repository"
)

// TokenTypeBearer is reported to clients alongside every access token.
const TokenTypeBearer = "bearer"

// SignupInput carries registration fields as received from the client.
type SignupInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"full_name" validate:"required,max=200"`
	Course   string `json:"course" validate:"max=200"`
}

// TokenIssuer signs access tokens for an account id.
type TokenIssuer interface {
	Issue(subject uuid.UUID, ttl time.Duration) (string, time.Time, error)
}

// AuthService defines account registration, login and self-service operations.
type AuthService interface {
	// Signup creates a new account with a hashed password.
	Signup(ctx context.Context, in SignupInput) (*model.Account, error)
	// Login applies rate-limiting and issues an access token on success.
	Login(ctx context.Context, email, password, ip string) (model.Token, error)
	// Me returns the caller's account.
	Me(ctx context.Context, accountID uuid.UUID) (*model.Account, error)
	// UpdateProfile changes non-empty profile fields.
	UpdateProfile(ctx context.Context, accountID uuid.UUID, upd model.ProfileUpdate) (*model.Account, error)
	// ChangePassword replaces the password after verifying the current one.
	// Failed checks count against the same limiter as Login.
	ChangePassword(ctx context.Context, accountID uuid.UUID, current, next, ip string) error
	// DeleteAccount removes the account and everything it owns.
	DeleteAccount(ctx context.Context, accountID uuid.UUID) error
}

// PasswordHasher produces and checks password digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

var _ PasswordHasher = (*pkgcrypto.Hasher)(nil)

type AuthServiceImpl struct {
	accounts  repository.AccountRepository
	hasher    PasswordHasher
	tokens    TokenIssuer
	accessTTL time.Duration
	lim       limiter.Limiter

	// dummyDigest is verified against when the email is unknown so both
	// login failures cost one Argon2 run.
	dummyDigest string
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(accounts repository.AccountRepository, hasher PasswordHasher, tokens TokenIssuer, accessTTL time.Duration, lim limiter.Limiter) *AuthServiceImpl {
	// Hash fails only when crypto/rand does, which it does not on supported platforms.
	dummy, _ := hasher.Hash("studylife-unknown-account")
	return &AuthServiceImpl{accounts: accounts, hasher: hasher, tokens: tokens, accessTTL: accessTTL, lim: lim, dummyDigest: dummy}
}

// NormalizeEmail trims and lower-cases an email so lookups are case-insensitive.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Signup validates input and creates the account.
func (s *AuthServiceImpl) Signup(ctx context.Context, in SignupInput) (*model.Account, error) {
	in.Email = NormalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Course = strings.TrimSpace(in.Course)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	uid, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	a := &model.Account{
		ID:       uid,
		Email:    in.Email,
		PwdHash:  digest,
		FullName: in.FullName,
	}
	if in.Course != "" {
		a.Course = &in.Course
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Login authenticates with rate limiting by (email, ip).
func (s *AuthServiceImpl) Login(ctx context.Context, email, password, ip string) (model.Token, error) {
	email = NormalizeEmail(email)
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return model.Token{}, fmt.Errorf("limiter: %w", err)
	}
	if !allowed {
		return model.Token{}, errs.ErrRateLimited
	}

	a, err := s.accounts.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return model.Token{}, err
	}
	found := err == nil
	digest := s.dummyDigest
	if found {
		digest = a.PwdHash
	}
	// unknown email and wrong password look the same, timing included
	if ok := s.hasher.Verify(password, digest); !ok || !found {
		return model.Token{}, s.failure(ctx, email, ipHash)
	}

	_ = s.lim.Success(ctx, email, ipHash)

	access, exp, err := s.tokens.Issue(a.ID, s.accessTTL)
	if err != nil {
		return model.Token{}, err
	}
	return model.Token{AccessToken: access, TokenType: TokenTypeBearer, ExpiresAt: exp}, nil
}

// Me returns the account of the resolved caller.
func (s *AuthServiceImpl) Me(ctx context.Context, accountID uuid.UUID) (*model.Account, error) {
	return s.accounts.GetByID(ctx, accountID)
}

// UpdateProfile trims input and delegates to the repository.
func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, accountID uuid.UUID, upd model.ProfileUpdate) (*model.Account, error) {
	upd.FullName = strings.TrimSpace(upd.FullName)
	upd.Course = strings.TrimSpace(upd.Course)
	if err := validate.Var(upd.FullName, "max=200"); err != nil {
		return nil, errs.NewValidation("full_name", "max")
	}
	if err := validate.Var(upd.Course, "max=200"); err != nil {
		return nil, errs.NewValidation("course", "max")
	}
	return s.accounts.UpdateProfile(ctx, accountID, upd)
}

// failure records a failed password check and picks the error to report.
func (s *AuthServiceImpl) failure(ctx context.Context, email string, ipHash []byte) error {
	if blocked, _, err := s.lim.Failure(ctx, email, ipHash); err == nil && blocked {
		return errs.ErrRateLimited
	}
	return errs.ErrUnauthorized
}

// ChangePassword verifies the current password and stores a digest of the new one.
// A wrong current password yields errs.ErrUnauthorized, repeated ones errs.ErrRateLimited.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, accountID uuid.UUID, current, next, ip string) error {
	if err := validate.Var(next, "required,min=8,max=128"); err != nil {
		return errs.NewValidation("new_password", firstTag(err))
	}
	a, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	ipHash := limiter.HashIP(ip)
	allowed, _, err := s.lim.Allow(ctx, a.Email, ipHash)
	if err != nil {
		return fmt.Errorf("limiter: %w", err)
	}
	if !allowed {
		return errs.ErrRateLimited
	}
	if !s.hasher.Verify(current, a.PwdHash) {
		return s.failure(ctx, a.Email, ipHash)
	}
	_ = s.lim.Success(ctx, a.Email, ipHash)

	digest, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.accounts.UpdatePassword(ctx, accountID, digest)
}

// DeleteAccount removes the account with its notes, progress and answers.
func (s *AuthServiceImpl) DeleteAccount(ctx context.Context, accountID uuid.UUID) error {
	return s.accounts.Delete(ctx, accountID)
}
