package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/studylife/internal/errs"
	"github.com/and161185/studylife/internal/model"
)

// QuizRepo implements QuizRepository using PostgreSQL.
type QuizRepo struct{ db *DB }

// NewQuizRepo constructs a quiz repository.
func NewQuizRepo(db *DB) *QuizRepo { return &QuizRepo{db: db} }

// List returns the quiz catalog ordered by subject and title.
func (r *QuizRepo) List(ctx context.Context) ([]model.Quiz, error) {
	const q = `
SELECT id, title, subject, description, created_at
FROM quizzes
ORDER BY subject, title`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Quiz{}
	for rows.Next() {
		var qz model.Quiz
		if err = rows.Scan(&qz.ID, &qz.Title, &qz.Subject, &qz.Description, &qz.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, qz)
	}
	return out, rows.Err()
}

// Get returns one quiz with its questions.
func (r *QuizRepo) Get(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	const selQuiz = `SELECT id, title, subject, description, created_at FROM quizzes WHERE id=$1`
	const selQuestions = `
SELECT id, quiz_id, question_text, option_a, option_b, option_c, option_d, correct_answer
FROM questions
WHERE quiz_id=$1
ORDER BY position, id`

	var qz model.Quiz
	if err := r.db.Pool.QueryRow(ctx, selQuiz, id).
		Scan(&qz.ID, &qz.Title, &qz.Subject, &qz.Description, &qz.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx, selQuestions, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	qz.Questions = []model.Question{}
	for rows.Next() {
		var qs model.Question
		if err = rows.Scan(&qs.ID, &qs.QuizID, &qs.Text, &qs.OptionA, &qs.OptionB, &qs.OptionC, &qs.OptionD, &qs.CorrectAnswer); err != nil {
			return nil, err
		}
		qz.Questions = append(qz.Questions, qs)
	}
	return &qz, rows.Err()
}
