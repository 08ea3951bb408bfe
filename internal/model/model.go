// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Token is an issued access token (never stored server-side).
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// Account represents a registered user. The password is stored only as an encoded hash.
type Account struct {
	ID        uuid.UUID // PK
	Email     string    // unique, normalized (trimmed, lower-cased)
	PwdHash   string    // encoded Argon2id digest
	FullName  string
	Course    *string // optional
	CreatedAt time.Time
}

// ProfileUpdate holds profile fields to change; empty values are left untouched.
type ProfileUpdate struct {
	FullName string
	Course   string
}

// Note is a personal note owned by exactly one account.
type Note struct {
	ID          uuid.UUID
	UserID      uuid.UUID // FK -> users.id
	Title       string
	Description string
	Color       string
	IsStarred   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DefaultNoteColor is applied when a note is created without a color.
const DefaultNoteColor = "#fff7b1"

// NotePatch is a partial note update; nil fields are left untouched.
type NotePatch struct {
	Title       *string
	Description *string
	Color       *string
	IsStarred   *bool
}

// Progress is one completed quiz attempt. Immutable once written.
type Progress struct {
	ID             uuid.UUID
	UserID         uuid.UUID // FK -> users.id
	QuizID         uuid.UUID
	Score          float64
	TotalQuestions int
	CorrectAnswers int
	CompletedAt    time.Time
}

// Stats summarizes an account's progress history.
type Stats struct {
	TotalQuizzes   int
	AverageScore   float64
	Accuracy       float64
	CurrentStreak  int
	TotalQuestions int
	CorrectAnswers int
	StudyHours     int
}

// Quiz is a catalog entry shared by all accounts.
type Quiz struct {
	ID          uuid.UUID
	Title       string
	Subject     string
	Description string
	CreatedAt   time.Time
	Questions   []Question // filled only by single-quiz reads
}

// Question belongs to a quiz. CorrectAnswer is one of "a".."d".
type Question struct {
	ID            uuid.UUID
	QuizID        uuid.UUID
	Text          string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectAnswer string
}

// Answer is one graded answer from a quiz attempt (answer history).
type Answer struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	QuizID         uuid.UUID
	QuestionID     uuid.UUID
	SelectedAnswer string
	IsCorrect      bool
	AnsweredAt     time.Time
}
