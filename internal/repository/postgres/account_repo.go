package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/studylife/internal/errs"
	"github.com/and161185/studylife/internal/model"
)

// AccountRepo implements AccountRepository using PostgreSQL.
type AccountRepo struct{ db *DB }

// NewAccountRepo constructs an account repository.
func NewAccountRepo(db *DB) *AccountRepo { return &AccountRepo{db: db} }

const accountCols = `id, email, pwd_hash, full_name, course, created_at`

// Create inserts a new account row.
func (r *AccountRepo) Create(ctx context.Context, a *model.Account) error {
	const q = `
INSERT INTO users (id, email, pwd_hash, full_name, course)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at`
	err := r.db.Pool.QueryRow(ctx, q, a.ID, a.Email, a.PwdHash, a.FullName, a.Course).Scan(&a.CreatedAt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID selects an account by ID.
func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	const q = `SELECT ` + accountCols + ` FROM users WHERE id=$1`
	return scanAccount(r.db.Pool.QueryRow(ctx, q, id))
}

// GetByEmail selects an account by normalized email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	const q = `SELECT ` + accountCols + ` FROM users WHERE email=$1`
	return scanAccount(r.db.Pool.QueryRow(ctx, q, email))
}

// UpdateProfile overwrites full_name and course only with non-empty values.
func (r *AccountRepo) UpdateProfile(ctx context.Context, id uuid.UUID, upd model.ProfileUpdate) (*model.Account, error) {
	const q = `
UPDATE users
SET full_name = COALESCE(NULLIF($2, ''), full_name),
    course = COALESCE(NULLIF($3, ''), course)
WHERE id = $1
RETURNING ` + accountCols
	return scanAccount(r.db.Pool.QueryRow(ctx, q, id, upd.FullName, upd.Course))
}

// UpdatePassword replaces the stored digest.
func (r *AccountRepo) UpdatePassword(ctx context.Context, id uuid.UUID, pwdHash string) error {
	const q = `UPDATE users SET pwd_hash = $2 WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q, id, pwdHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes the account with its answers, progress and notes.
// Either everything is deleted or nothing is.
func (r *AccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.withTx(ctx, func(tx pgx.Tx) error {
		for _, q := range []string{
			`DELETE FROM user_answers WHERE user_id=$1`,
			`DELETE FROM progress WHERE user_id=$1`,
			`DELETE FROM notes WHERE user_id=$1`,
		} {
			if _, err := tx.Exec(ctx, q, id); err != nil {
				return err
			}
		}
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return errs.ErrNotFound
		}
		return nil
	})
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var a model.Account
	if err := row.Scan(&a.ID, &a.Email, &a.PwdHash, &a.FullName, &a.Course, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
