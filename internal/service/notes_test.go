package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/studylife/internal/errs"
	"github.com/and161185/studylife/internal/model"
	"github.com/and161185/studylife/internal/repository"
	"github.com/and161185/studylife/internal/repository/memory"
)

type failingNotes struct {
	repository.NoteRepository
	getErr error
}

func (f *failingNotes) GetByID(ctx context.Context, id uuid.UUID) (*model.Note, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.NoteRepository.GetByID(ctx, id)
}

func twoAccounts(t *testing.T, store *memory.Store) (a, b uuid.UUID) {
	t.Helper()
	s, _ := newAuth(t, store.Accounts(), &fakeLimiter{allowOK: true})
	return signup(t, s, "ann@example.com", "password1").ID, signup(t, s, "bob@example.com", "password1").ID
}

func strPtr(s string) *string { return &s }

func TestNotes_CreateDefaultsAndValidation(t *testing.T) {
	t.Parallel()
	store := memory.NewStore()
	a, _ := twoAccounts(t, store)
	s := NewNoteService(store.Notes())
	ctx := context.Background()

	n, err := s.Create(ctx, a, NoteInput{Title: "  Kinematics  ", Description: "v = u + at"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.Title != "Kinematics" || n.Color != model.DefaultNoteColor || n.UserID != a {
		t.Fatalf("unexpected note: %+v", n)
	}
	if n.CreatedAt.IsZero() {
		t.Fatalf("timestamps not filled")
	}

	if _, err := s.Create(ctx, a, NoteInput{Title: ""}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want validation on empty title, got %v", err)
	}
	if _, err := s.Create(ctx, a, NoteInput{Title: "x", Color: "red"}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want validation on bad color, got %v", err)
	}
	if n, err := s.Create(ctx, a, NoteInput{Title: "x", Color: "#abc"}); err != nil || n.Color != "#abc" {
		t.Fatalf("short hex color: %+v err=%v", n, err)
	}
}

func TestNotes_CrossAccountIsNotFound(t *testing.T) {
	t.Parallel()
	store := memory.NewStore()
	a, b := twoAccounts(t, store)
	s := NewNoteService(store.Notes())
	ctx := context.Background()

	n, err := s.Create(ctx, a, NoteInput{Title: "private"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := s.Get(ctx, b, n.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("Get by other: want ErrNotFound, got %v", err)
	}
	if _, err := s.Update(ctx, b, n.ID, model.NotePatch{Title: strPtr("mine now")}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("Update by other: want ErrNotFound, got %v", err)
	}
	if _, err := s.ToggleStar(ctx, b, n.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("ToggleStar by other: want ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, b, n.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("Delete by other: want ErrNotFound, got %v", err)
	}
	if _, err := s.Get(ctx, b, uuid.Must(uuid.NewV4())); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("missing note: want ErrNotFound, got %v", err)
	}

	got, err := s.Get(ctx, a, n.ID)
	if err != nil || got.Title != "private" || got.IsStarred {
		t.Fatalf("owner view changed: %+v err=%v", got, err)
	}
	list, _ := s.List(ctx, b)
	if len(list) != 0 {
		t.Fatalf("other account must see no notes, got %d", len(list))
	}
}

func TestNotes_OwnerLifecycle(t *testing.T) {
	t.Parallel()
	store := memory.NewStore()
	a, _ := twoAccounts(t, store)
	s := NewNoteService(store.Notes())
	ctx := context.Background()

	n, _ := s.Create(ctx, a, NoteInput{Title: "t", Description: "d"})

	upd, err := s.Update(ctx, a, n.ID, model.NotePatch{Description: strPtr("new d"), Color: strPtr("#112233")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if upd.Title != "t" || upd.Description != "new d" || upd.Color != "#112233" {
		t.Fatalf("partial update wrong: %+v", upd)
	}
	if _, err := s.Update(ctx, a, n.ID, model.NotePatch{Title: strPtr("  ")}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("blank title patch: want validation, got %v", err)
	}

	st, err := s.ToggleStar(ctx, a, n.ID)
	if err != nil || !st.IsStarred {
		t.Fatalf("ToggleStar on: %+v err=%v", st, err)
	}
	st, _ = s.ToggleStar(ctx, a, n.ID)
	if st.IsStarred {
		t.Fatalf("ToggleStar must flip back")
	}

	if err := s.Delete(ctx, a, n.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, a, n.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("deleted note: want ErrNotFound, got %v", err)
	}
}

func TestNotes_StoreErrorPropagates(t *testing.T) {
	t.Parallel()
	boom := errors.New("db down")
	s := NewNoteService(&failingNotes{NoteRepository: memory.NewStore().Notes(), getErr: boom})

	_, err := s.Get(context.Background(), uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()))
	if !errors.Is(err, boom) || errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want wrapped store error, got %v", err)
	}
}
