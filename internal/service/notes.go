package service

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/studylife/internal/model"
	"github.com/and161185/studylife/internal/ownership"
	"github.com/and161185/studylife/internal/repository"
)

// NoteInput carries the fields of a new note.
type NoteInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=10000"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	IsStarred   bool   `json:"is_starred"`
}

// NoteService defines owner-scoped operations over personal notes.
type NoteService interface {
	// Create stores a new note owned by accountID.
	Create(ctx context.Context, accountID uuid.UUID, in NoteInput) (*model.Note, error)
	// List returns the caller's notes, newest first.
	List(ctx context.Context, accountID uuid.UUID) ([]model.Note, error)
	// Get returns one of the caller's notes.
	Get(ctx context.Context, accountID, id uuid.UUID) (*model.Note, error)
	// Update applies a partial update to one of the caller's notes.
	Update(ctx context.Context, accountID, id uuid.UUID, p model.NotePatch) (*model.Note, error)
	// ToggleStar flips the star flag of one of the caller's notes.
	ToggleStar(ctx context.Context, accountID, id uuid.UUID) (*model.Note, error)
	// Delete removes one of the caller's notes.
	Delete(ctx context.Context, accountID, id uuid.UUID) error
}

type NoteServiceImpl struct {
	repo  repository.NoteRepository
	guard *ownership.Guard[*model.Note]
}

// NewNoteService constructs NoteService on top of a note repository.
func NewNoteService(repo repository.NoteRepository) *NoteServiceImpl {
	return &NoteServiceImpl{
		repo:  repo,
		guard: ownership.NewGuard(repo.GetByID, func(n *model.Note) uuid.UUID { return n.UserID }),
	}
}

// Create validates input, applies the default color and stores the note.
func (s *NoteServiceImpl) Create(ctx context.Context, accountID uuid.UUID, in NoteInput) (*model.Note, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Color = strings.TrimSpace(in.Color)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Color == "" {
		in.Color = model.DefaultNoteColor
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	n := &model.Note{
		ID:          id,
		UserID:      accountID,
		Title:       in.Title,
		Description: in.Description,
		Color:       in.Color,
		IsStarred:   in.IsStarred,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// List returns notes filtered by owner in storage.
func (s *NoteServiceImpl) List(ctx context.Context, accountID uuid.UUID) ([]model.Note, error) {
	return s.repo.ListByOwner(ctx, accountID)
}

// Get returns the note if the caller owns it.
func (s *NoteServiceImpl) Get(ctx context.Context, accountID, id uuid.UUID) (*model.Note, error) {
	return s.guard.Authorize(ctx, accountID, id)
}

// Update checks ownership, validates the patch and applies it.
func (s *NoteServiceImpl) Update(ctx context.Context, accountID, id uuid.UUID, p model.NotePatch) (*model.Note, error) {
	if err := validatePatch(&p); err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, accountID, id); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, accountID, id, p)
}

// ToggleStar checks ownership and flips is_starred.
func (s *NoteServiceImpl) ToggleStar(ctx context.Context, accountID, id uuid.UUID) (*model.Note, error) {
	if _, err := s.guard.Authorize(ctx, accountID, id); err != nil {
		return nil, err
	}
	return s.repo.ToggleStar(ctx, accountID, id)
}

// Delete checks ownership and removes the note.
func (s *NoteServiceImpl) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	if _, err := s.guard.Authorize(ctx, accountID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, accountID, id)
}

func validatePatch(p *model.NotePatch) error {
	in := NoteInput{Title: "-", Description: "", Color: ""}
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		p.Title = &t
		in.Title = t
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Color != nil {
		c := strings.TrimSpace(*p.Color)
		p.Color = &c
		in.Color = c
	}
	if err := validateStruct(in); err != nil {
		return err
	}
	if p.Color != nil && *p.Color == "" {
		p.Color = nil
	}
	return nil
}
