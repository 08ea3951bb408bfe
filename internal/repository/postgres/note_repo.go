package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/studylife/internal/errs"
	"github.com/and161185/studylife/internal/model"
)

// NoteRepo implements NoteRepository using PostgreSQL.
type NoteRepo struct{ db *DB }

// NewNoteRepo constructs a note repository.
func NewNoteRepo(db *DB) *NoteRepo { return &NoteRepo{db: db} }

const noteCols = `id, user_id, title, description, color, is_starred, created_at, updated_at`

// Create inserts a note row.
func (r *NoteRepo) Create(ctx context.Context, n *model.Note) error {
	const q = `
INSERT INTO notes (id, user_id, title, description, color, is_starred)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at, updated_at`
	err := r.db.Pool.QueryRow(ctx, q, n.ID, n.UserID, n.Title, n.Description, n.Color, n.IsStarred).
		Scan(&n.CreatedAt, &n.UpdatedAt)
	if isForeignKeyViolation(err) {
		return errs.ErrNotFound
	}
	return err
}

// ListByOwner returns notes owned by userID, newest first.
func (r *NoteRepo) ListByOwner(ctx context.Context, userID uuid.UUID) ([]model.Note, error) {
	const q = `SELECT ` + noteCols + ` FROM notes WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Note{}
	for rows.Next() {
		var n model.Note
		if err = rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.Color, &n.IsStarred, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// GetByID selects a note by id without owner filtering.
func (r *NoteRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Note, error) {
	const q = `SELECT ` + noteCols + ` FROM notes WHERE id=$1`
	return scanNote(r.db.Pool.QueryRow(ctx, q, id))
}

// Update applies non-nil patch fields to a note owned by userID.
func (r *NoteRepo) Update(ctx context.Context, userID, id uuid.UUID, p model.NotePatch) (*model.Note, error) {
	const q = `
UPDATE notes
SET title = COALESCE($3, title),
    description = COALESCE($4, description),
    color = COALESCE($5, color),
    is_starred = COALESCE($6, is_starred),
    updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + noteCols
	return scanNote(r.db.Pool.QueryRow(ctx, q, id, userID, p.Title, p.Description, p.Color, p.IsStarred))
}

// ToggleStar flips the star flag of a note owned by userID.
func (r *NoteRepo) ToggleStar(ctx context.Context, userID, id uuid.UUID) (*model.Note, error) {
	const q = `
UPDATE notes
SET is_starred = NOT is_starred, updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + noteCols
	return scanNote(r.db.Pool.QueryRow(ctx, q, id, userID))
}

// Delete removes a note owned by userID.
func (r *NoteRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const q = `DELETE FROM notes WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func scanNote(row pgx.Row) (*model.Note, error) {
	var n model.Note
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.Color, &n.IsStarred, &n.CreatedAt, &n.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}
