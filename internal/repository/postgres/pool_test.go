package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func TestWithTx_CommitAndRollback(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, db.withTx(ctx, func(pgx.Tx) error { return nil }))

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()
	require.ErrorIs(t, db.withTx(ctx, func(pgx.Tx) error { return boom }), boom)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("commit-fail"))
	require.Error(t, db.withTx(ctx, func(pgx.Tx) error { return nil }))

	mock.ExpectBegin().WillReturnError(errors.New("begin-fail"))
	require.Error(t, db.withTx(ctx, func(pgx.Tx) error {
		t.Fatal("fn must not run when begin fails")
		return nil
	}))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_PanicRollsBack(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()
	require.Panics(t, func() {
		_ = db.withTx(context.Background(), func(pgx.Tx) error { panic("kaboom") })
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgErrorClassifiers(t *testing.T) {
	require.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	require.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	require.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	require.False(t, isForeignKeyViolation(errors.New("x")))
	require.False(t, isUniqueViolation(nil))
}
