package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/studylife/internal/errs"
	"github.com/and161185/studylife/internal/model"
)

// ProgressRepo implements ProgressRepository using PostgreSQL.
// Rows are insert-only.
type ProgressRepo struct{ db *DB }

// NewProgressRepo constructs a progress repository.
func NewProgressRepo(db *DB) *ProgressRepo { return &ProgressRepo{db: db} }

const progressCols = `id, user_id, quiz_id, score, total_questions, correct_answers, completed_at`

// Record inserts the attempt and its answers in one transaction.
func (r *ProgressRepo) Record(ctx context.Context, p *model.Progress, answers []model.Answer) error {
	const insProgress = `
INSERT INTO progress (id, user_id, quiz_id, score, total_questions, correct_answers)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING completed_at`
	const insAnswer = `
INSERT INTO user_answers (id, user_id, quiz_id, question_id, selected_answer, is_correct, answered_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	err := r.db.withTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insProgress,
			p.ID, p.UserID, p.QuizID, p.Score, p.TotalQuestions, p.CorrectAnswers,
		).Scan(&p.CompletedAt); err != nil {
			return err
		}
		for i := range answers {
			a := &answers[i]
			a.AnsweredAt = p.CompletedAt
			if _, err := tx.Exec(ctx, insAnswer,
				a.ID, a.UserID, a.QuizID, a.QuestionID, a.SelectedAnswer, a.IsCorrect, a.AnsweredAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if isForeignKeyViolation(err) {
		return errs.ErrNotFound
	}
	return err
}

// ListByOwner returns every attempt of userID, newest first.
func (r *ProgressRepo) ListByOwner(ctx context.Context, userID uuid.UUID) ([]model.Progress, error) {
	const q = `SELECT ` + progressCols + ` FROM progress WHERE user_id=$1 ORDER BY completed_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Progress{}
	for rows.Next() {
		var p model.Progress
		if err = rows.Scan(&p.ID, &p.UserID, &p.QuizID, &p.Score, &p.TotalQuestions, &p.CorrectAnswers, &p.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByID selects an attempt by id without owner filtering.
func (r *ProgressRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Progress, error) {
	const q = `SELECT ` + progressCols + ` FROM progress WHERE id=$1`
	return scanProgress(r.db.Pool.QueryRow(ctx, q, id))
}

// LatestForQuiz selects the newest attempt of userID for quizID.
func (r *ProgressRepo) LatestForQuiz(ctx context.Context, userID, quizID uuid.UUID) (*model.Progress, error) {
	const q = `
SELECT ` + progressCols + `
FROM progress
WHERE user_id=$1 AND quiz_id=$2
ORDER BY completed_at DESC
LIMIT 1`
	return scanProgress(r.db.Pool.QueryRow(ctx, q, userID, quizID))
}

func scanProgress(row pgx.Row) (*model.Progress, error) {
	var p model.Progress
	if err := row.Scan(&p.ID, &p.UserID, &p.QuizID, &p.Score, &p.TotalQuestions, &p.CorrectAnswers, &p.CompletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
