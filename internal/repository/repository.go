// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/studylife/internal/model"
)

// AccountRepository provides access to registered accounts.
type AccountRepository interface {
	// Create inserts a new account; a taken email yields errs.ErrAlreadyExists.
	Create(ctx context.Context, a *model.Account) error
	// GetByID loads an account by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	// GetByEmail loads an account by normalized email.
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	// UpdateProfile changes non-empty profile fields and returns the updated account.
	UpdateProfile(ctx context.Context, id uuid.UUID, upd model.ProfileUpdate) (*model.Account, error)
	// UpdatePassword replaces the stored password digest.
	UpdatePassword(ctx context.Context, id uuid.UUID, pwdHash string) error
	// Delete removes the account and every row it owns in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error
}

// NoteRepository provides owner-scoped access to notes.
type NoteRepository interface {
	// Create inserts a note and fills its timestamps.
	Create(ctx context.Context, n *model.Note) error
	// ListByOwner returns the notes of one account, newest first.
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]model.Note, error)
	// GetByID loads a note regardless of owner; callers must check ownership.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Note, error)
	// Update applies a partial update to a note owned by userID.
	Update(ctx context.Context, userID, id uuid.UUID, p model.NotePatch) (*model.Note, error)
	// ToggleStar flips is_starred on a note owned by userID.
	ToggleStar(ctx context.Context, userID, id uuid.UUID) (*model.Note, error)
	// Delete removes a note owned by userID.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// ProgressRepository provides access to immutable quiz attempt records.
type ProgressRepository interface {
	// Record stores an attempt together with its graded answers atomically.
	Record(ctx context.Context, p *model.Progress, answers []model.Answer) error
	// ListByOwner returns every attempt of one account, newest first.
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]model.Progress, error)
	// GetByID loads an attempt regardless of owner; callers must check ownership.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Progress, error)
	// LatestForQuiz returns the newest attempt of userID for quizID.
	LatestForQuiz(ctx context.Context, userID, quizID uuid.UUID) (*model.Progress, error)
}

// QuizRepository provides read access to the shared quiz catalog.
type QuizRepository interface {
	// List returns all quizzes without questions.
	List(ctx context.Context) ([]model.Quiz, error)
	// Get returns a quiz with its questions.
	Get(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
}
