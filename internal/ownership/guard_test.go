package ownership

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/and161185/studylife/internal/errs"
)

type row struct {
	id, owner uuid.UUID
	body      string
}

func newRowGuard(rows map[uuid.UUID]*row, loadErr error) *Guard[*row] {
	return NewGuard(
		func(_ context.Context, id uuid.UUID) (*row, error) {
			if loadErr != nil {
				return nil, loadErr
			}
			r, ok := rows[id]
			if !ok {
				return nil, errs.ErrNotFound
			}
			return r, nil
		},
		func(r *row) uuid.UUID { return r.owner },
	)
}

func TestGuard_Authorize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	alice, bob := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
	note := &row{id: uuid.Must(uuid.NewV4()), owner: alice, body: "secret"}
	g := newRowGuard(map[uuid.UUID]*row{note.id: note}, nil)

	got, err := g.Authorize(ctx, alice, note.id)
	require.NoError(t, err)
	require.Equal(t, "secret", got.body)

	got, err = g.Authorize(ctx, bob, note.id)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.Nil(t, got, "foreign row must not be returned")

	_, err = g.Authorize(ctx, alice, uuid.Must(uuid.NewV4()))
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = g.Authorize(ctx, uuid.Nil, note.id)
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = g.Authorize(ctx, alice, uuid.Nil)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGuard_MismatchIndistinguishableFromMissing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	alice, bob := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
	note := &row{id: uuid.Must(uuid.NewV4()), owner: alice}
	g := newRowGuard(map[uuid.UUID]*row{note.id: note}, nil)

	_, foreign := g.Authorize(ctx, bob, note.id)
	_, missing := g.Authorize(ctx, bob, uuid.Must(uuid.NewV4()))
	require.Equal(t, missing.Error(), foreign.Error())
}

func TestGuard_LoadErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	g := newRowGuard(nil, boom)

	_, err := g.Authorize(context.Background(), uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()))
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, errs.ErrNotFound)
}
