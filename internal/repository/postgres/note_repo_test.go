package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/and161185/studylife/internal/errs"
	"github.com/and161185/studylife/internal/model"
)

var noteColNames = []string{"id", "user_id", "title", "description", "color", "is_starred", "created_at", "updated_at"}

func TestNoteRepo_Create(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNoteRepo(db)
	ctx := context.Background()
	ts := time.Now().UTC()
	n := &model.Note{
		ID:          uuid.Must(uuid.NewV4()),
		UserID:      uuid.Must(uuid.NewV4()),
		Title:       "Kinematics",
		Description: "v = u + at",
		Color:       model.DefaultNoteColor,
	}

	mock.ExpectQuery(`INSERT INTO notes \(id, user_id, title, description, color, is_starred\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\) RETURNING created_at, updated_at`).
		WithArgs(n.ID, n.UserID, n.Title, n.Description, n.Color, false).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))
	require.NoError(t, r.Create(ctx, n))
	require.Equal(t, ts, n.CreatedAt)
	require.Equal(t, ts, n.UpdatedAt)

	mock.ExpectQuery(`INSERT INTO notes`).
		WithArgs(n.ID, n.UserID, n.Title, n.Description, n.Color, false).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	require.ErrorIs(t, r.Create(ctx, n), errs.ErrNotFound)
}

func TestNoteRepo_ListByOwner(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNoteRepo(db)
	ctx := context.Background()
	uid := uuid.Must(uuid.NewV4())
	ts := time.Now().UTC()
	id1, id2 := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`SELECT id, user_id, title, description, color, is_starred, created_at, updated_at FROM notes WHERE user_id=\$1 ORDER BY created_at DESC`).
		WithArgs(uid).
		WillReturnRows(pgxmock.NewRows(noteColNames).
			AddRow(id2, uid, "second", "", "#fff", true, ts, ts).
			AddRow(id1, uid, "first", "", "#fff", false, ts.Add(-time.Hour), ts.Add(-time.Hour)))
	out, err := r.ListByOwner(ctx, uid)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, id2, out[0].ID)
	require.True(t, out[0].IsStarred)

	mock.ExpectQuery(`FROM notes WHERE user_id=\$1`).
		WithArgs(uid).
		WillReturnRows(pgxmock.NewRows(noteColNames))
	out, err = r.ListByOwner(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Empty(t, out)

	mock.ExpectQuery(`FROM notes WHERE user_id=\$1`).
		WithArgs(uid).
		WillReturnError(errors.New("q-fail"))
	_, err = r.ListByOwner(ctx, uid)
	require.Error(t, err)
}

func TestNoteRepo_GetByID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNoteRepo(db)
	ctx := context.Background()
	id, owner := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
	ts := time.Now().UTC()

	mock.ExpectQuery(`SELECT .* FROM notes WHERE id=\$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(noteColNames).AddRow(id, owner, "t", "d", "#fff", false, ts, ts))
	n, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, owner, n.UserID)

	mock.ExpectQuery(`SELECT .* FROM notes WHERE id=\$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(ctx, id)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestNoteRepo_Update_ScopedToOwner(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNoteRepo(db)
	ctx := context.Background()
	id, owner := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
	ts := time.Now().UTC()
	title := "renamed"
	patch := model.NotePatch{Title: &title}

	mock.ExpectQuery(`UPDATE notes SET title = COALESCE\(\$3, title\), .* WHERE id = \$1 AND user_id = \$2 RETURNING`).
		WithArgs(id, owner, patch.Title, patch.Description, patch.Color, patch.IsStarred).
		WillReturnRows(pgxmock.NewRows(noteColNames).AddRow(id, owner, title, "d", "#fff", false, ts, ts))
	n, err := r.Update(ctx, owner, id, patch)
	require.NoError(t, err)
	require.Equal(t, title, n.Title)

	other := uuid.Must(uuid.NewV4())
	mock.ExpectQuery(`UPDATE notes SET title`).
		WithArgs(id, other, patch.Title, patch.Description, patch.Color, patch.IsStarred).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.Update(ctx, other, id, patch)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestNoteRepo_ToggleStar(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNoteRepo(db)
	ctx := context.Background()
	id, owner := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
	ts := time.Now().UTC()

	mock.ExpectQuery(`UPDATE notes SET is_starred = NOT is_starred, updated_at = now\(\) WHERE id = \$1 AND user_id = \$2`).
		WithArgs(id, owner).
		WillReturnRows(pgxmock.NewRows(noteColNames).AddRow(id, owner, "t", "d", "#fff", true, ts, ts))
	n, err := r.ToggleStar(ctx, owner, id)
	require.NoError(t, err)
	require.True(t, n.IsStarred)
}

func TestNoteRepo_Delete(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNoteRepo(db)
	ctx := context.Background()
	id, owner := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())

	mock.ExpectExec(`DELETE FROM notes WHERE id=\$1 AND user_id=\$2`).
		WithArgs(id, owner).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.Delete(ctx, owner, id))

	mock.ExpectExec(`DELETE FROM notes WHERE id=\$1 AND user_id=\$2`).
		WithArgs(id, owner).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.ErrorIs(t, r.Delete(ctx, owner, id), errs.ErrNotFound)

	mock.ExpectExec(`DELETE FROM notes`).
		WithArgs(id, owner).
		WillReturnError(errors.New("exec-fail"))
	require.Error(t, r.Delete(ctx, owner, id))
}
