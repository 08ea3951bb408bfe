// Package convert maps domain models to and from the JSON wire shapes of the HTTP API.
package convert

import (
	"fmt"
	"strings"
	"time"

	u "github.com/gofrs/uuid/v5"

	model "github.com/and161185/studylife/internal/model"
)

// --- helpers ---

func ts(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}

// --- Account / Token ---

// Account is the public view of an account; the password digest never leaves the server.
type Account struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Course    *string    `json:"course"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// ToAccount converts a domain account to its public JSON view.
func ToAccount(a model.Account) Account {
	return Account{
		ID:        a.ID.String(),
		Email:     a.Email,
		FullName:  a.FullName,
		Course:    a.Course,
		CreatedAt: ts(a.CreatedAt),
	}
}

// Token is the login response body.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ToToken converts an issued token.
func ToToken(t model.Token) Token {
	return Token{AccessToken: t.AccessToken, TokenType: t.TokenType, ExpiresAt: t.ExpiresAt.UTC()}
}

// --- Notes ---

// Note is the JSON view of a note.
type Note struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Color       string     `json:"color"`
	IsStarred   bool       `json:"is_starred"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ToNote converts a domain note.
func ToNote(n model.Note) Note {
	return Note{
		ID:          n.ID.String(),
		UserID:      n.UserID.String(),
		Title:       n.Title,
		Description: n.Description,
		Color:       n.Color,
		IsStarred:   n.IsStarred,
		CreatedAt:   ts(n.CreatedAt),
		UpdatedAt:   ts(n.UpdatedAt),
	}
}

// ToNotes converts a slice of notes; the result is never nil.
func ToNotes(ns []model.Note) []Note {
	out := make([]Note, 0, len(ns))
	for _, n := range ns {
		out = append(out, ToNote(n))
	}
	return out
}

// --- Progress / Stats ---

// Progress is the JSON view of one quiz attempt.
type Progress struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	QuizID         string     `json:"quiz_id"`
	Score          float64    `json:"score"`
	TotalQuestions int        `json:"total_questions"`
	CorrectAnswers int        `json:"correct_answers"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// ToProgress converts a domain attempt.
func ToProgress(p model.Progress) Progress {
	return Progress{
		ID:             p.ID.String(),
		UserID:         p.UserID.String(),
		QuizID:         p.QuizID.String(),
		Score:          p.Score,
		TotalQuestions: p.TotalQuestions,
		CorrectAnswers: p.CorrectAnswers,
		CompletedAt:    ts(p.CompletedAt),
	}
}

// ToProgressList converts a slice of attempts; the result is never nil.
func ToProgressList(ps []model.Progress) []Progress {
	out := make([]Progress, 0, len(ps))
	for _, p := range ps {
		out = append(out, ToProgress(p))
	}
	return out
}

// Stats is the JSON view of summary statistics.
type Stats struct {
	TotalQuizzes   int     `json:"total_quizzes"`
	AverageScore   float64 `json:"average_score"`
	Accuracy       float64 `json:"accuracy"`
	CurrentStreak  int     `json:"current_streak"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	StudyHours     int     `json:"study_hours"`
}

// ToStats converts summary statistics.
func ToStats(s model.Stats) Stats {
	return Stats(s)
}

// --- Quizzes ---

// Question is the JSON view of a question. CorrectAnswer is omitted when blank.
type Question struct {
	ID            string `json:"id"`
	QuizID        string `json:"quiz_id"`
	QuestionText  string `json:"question_text"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
}

// Quiz is the JSON view of a quiz; Questions is present only on single reads.
type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Subject     string     `json:"subject"`
	Description string     `json:"description"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	Questions   []Question `json:"questions,omitempty"`
}

// ToQuiz converts a domain quiz with any loaded questions.
func ToQuiz(q model.Quiz) Quiz {
	out := Quiz{
		ID:          q.ID.String(),
		Title:       q.Title,
		Subject:     q.Subject,
		Description: q.Description,
		CreatedAt:   ts(q.CreatedAt),
	}
	if q.Questions != nil {
		out.Questions = make([]Question, 0, len(q.Questions))
		for _, qs := range q.Questions {
			out.Questions = append(out.Questions, Question{
				ID:            qs.ID.String(),
				QuizID:        qs.QuizID.String(),
				QuestionText:  qs.Text,
				OptionA:       qs.OptionA,
				OptionB:       qs.OptionB,
				OptionC:       qs.OptionC,
				OptionD:       qs.OptionD,
				CorrectAnswer: qs.CorrectAnswer,
			})
		}
	}
	return out
}

// ToQuizzes converts a slice of quizzes; the result is never nil.
func ToQuizzes(qs []model.Quiz) []Quiz {
	out := make([]Quiz, 0, len(qs))
	for _, q := range qs {
		out = append(out, ToQuiz(q))
	}
	return out
}

// --- Submission (client -> server) ---

// FromAnswers parses a {question_id: choice} map sent by the client.
func FromAnswers(in map[string]string) (map[u.UUID]string, error) {
	out := make(map[u.UUID]string, len(in))
	for k, v := range in {
		var id u.UUID
		if err := id.UnmarshalText([]byte(strings.TrimSpace(k))); err != nil {
			return nil, fmt.Errorf("invalid question id %q: %w", k, err)
		}
		out[id] = v
	}
	return out, nil
}
