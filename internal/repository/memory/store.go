// Package memory provides in-process implementations of the repository
// interfaces for development runs and tests. All data is lost on exit.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/studylife/internal/errs"
	"github.com/and161185/studylife/internal/model"
)

// Store holds every table behind one lock so multi-table operations stay atomic.
type Store struct {
	mu       sync.RWMutex
	now      func() time.Time
	accounts map[uuid.UUID]model.Account
	emails   map[string]uuid.UUID
	notes    map[uuid.UUID]model.Note
	progress map[uuid.UUID]model.Progress
	answers  map[uuid.UUID]model.Answer
	quizzes  map[uuid.UUID]model.Quiz
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		now:      func() time.Time { return time.Now().UTC() },
		accounts: map[uuid.UUID]model.Account{},
		emails:   map[string]uuid.UUID{},
		notes:    map[uuid.UUID]model.Note{},
		progress: map[uuid.UUID]model.Progress{},
		answers:  map[uuid.UUID]model.Answer{},
		quizzes:  map[uuid.UUID]model.Quiz{},
	}
}

// Accounts returns the account repository view of the store.
func (s *Store) Accounts() *AccountRepo { return &AccountRepo{s: s} }

// Notes returns the note repository view of the store.
func (s *Store) Notes() *NoteRepo { return &NoteRepo{s: s} }

// Progress returns the progress repository view of the store.
func (s *Store) Progress() *ProgressRepo { return &ProgressRepo{s: s} }

// Quizzes returns the quiz repository view of the store.
func (s *Store) Quizzes() *QuizRepo { return &QuizRepo{s: s} }

// AddQuiz seeds the catalog. Questions are copied.
func (s *Store) AddQuiz(q model.Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = s.now()
	}
	q.Questions = append([]model.Question(nil), q.Questions...)
	s.quizzes[q.ID] = q
}

// AccountRepo is the in-memory AccountRepository.
type AccountRepo struct{ s *Store }

// Create inserts an account; a taken email yields errs.ErrAlreadyExists.
func (r *AccountRepo) Create(_ context.Context, a *model.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.emails[a.Email]; ok {
		return errs.ErrAlreadyExists
	}
	if _, ok := r.s.accounts[a.ID]; ok {
		return errs.ErrAlreadyExists
	}
	a.CreatedAt = r.s.now()
	r.s.accounts[a.ID] = *a
	r.s.emails[a.Email] = a.ID
	return nil
}

// GetByID loads an account by id.
func (r *AccountRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &a, nil
}

// GetByEmail loads an account by normalized email.
func (r *AccountRepo) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.emails[email]
	if !ok {
		return nil, errs.ErrNotFound
	}
	a := r.s.accounts[id]
	return &a, nil
}

// UpdateProfile changes non-empty profile fields.
func (r *AccountRepo) UpdateProfile(_ context.Context, id uuid.UUID, upd model.ProfileUpdate) (*model.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if upd.FullName != "" {
		a.FullName = upd.FullName
	}
	if upd.Course != "" {
		c := upd.Course
		a.Course = &c
	}
	r.s.accounts[id] = a
	return &a, nil
}

// UpdatePassword replaces the stored digest.
func (r *AccountRepo) UpdatePassword(_ context.Context, id uuid.UUID, pwdHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return errs.ErrNotFound
	}
	a.PwdHash = pwdHash
	r.s.accounts[id] = a
	return nil
}

// Delete removes the account and everything it owns.
func (r *AccountRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return errs.ErrNotFound
	}
	for k, v := range r.s.answers {
		if v.UserID == id {
			delete(r.s.answers, k)
		}
	}
	for k, v := range r.s.progress {
		if v.UserID == id {
			delete(r.s.progress, k)
		}
	}
	for k, v := range r.s.notes {
		if v.UserID == id {
			delete(r.s.notes, k)
		}
	}
	delete(r.s.emails, a.Email)
	delete(r.s.accounts, id)
	return nil
}

// NoteRepo is the in-memory NoteRepository.
type NoteRepo struct{ s *Store }

// Create inserts a note.
func (r *NoteRepo) Create(_ context.Context, n *model.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[n.UserID]; !ok {
		return errs.ErrNotFound
	}
	now := r.s.now()
	n.CreatedAt, n.UpdatedAt = now, now
	r.s.notes[n.ID] = *n
	return nil
}

// ListByOwner returns the notes of userID, newest first.
func (r *NoteRepo) ListByOwner(_ context.Context, userID uuid.UUID) ([]model.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []model.Note{}
	for _, n := range r.s.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// GetByID loads a note regardless of owner.
func (r *NoteRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n, ok := r.s.notes[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &n, nil
}

// Update applies non-nil patch fields to a note owned by userID.
func (r *NoteRepo) Update(_ context.Context, userID, id uuid.UUID, p model.NotePatch) (*model.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notes[id]
	if !ok || n.UserID != userID {
		return nil, errs.ErrNotFound
	}
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Description != nil {
		n.Description = *p.Description
	}
	if p.Color != nil {
		n.Color = *p.Color
	}
	if p.IsStarred != nil {
		n.IsStarred = *p.IsStarred
	}
	n.UpdatedAt = r.s.now()
	r.s.notes[id] = n
	return &n, nil
}

// ToggleStar flips the star flag of a note owned by userID.
func (r *NoteRepo) ToggleStar(_ context.Context, userID, id uuid.UUID) (*model.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notes[id]
	if !ok || n.UserID != userID {
		return nil, errs.ErrNotFound
	}
	n.IsStarred = !n.IsStarred
	n.UpdatedAt = r.s.now()
	r.s.notes[id] = n
	return &n, nil
}

// Delete removes a note owned by userID.
func (r *NoteRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notes[id]
	if !ok || n.UserID != userID {
		return errs.ErrNotFound
	}
	delete(r.s.notes, id)
	return nil
}

// ProgressRepo is the in-memory ProgressRepository.
type ProgressRepo struct{ s *Store }

// Record stores an attempt and its answers.
func (r *ProgressRepo) Record(_ context.Context, p *model.Progress, answers []model.Answer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[p.UserID]; !ok {
		return errs.ErrNotFound
	}
	if _, ok := r.s.quizzes[p.QuizID]; !ok {
		return errs.ErrNotFound
	}
	p.CompletedAt = r.s.now()
	r.s.progress[p.ID] = *p
	for i := range answers {
		answers[i].AnsweredAt = p.CompletedAt
		r.s.answers[answers[i].ID] = answers[i]
	}
	return nil
}

// ListByOwner returns every attempt of userID, newest first.
func (r *ProgressRepo) ListByOwner(_ context.Context, userID uuid.UUID) ([]model.Progress, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []model.Progress{}
	for _, p := range r.s.progress {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, nil
}

// GetByID loads an attempt regardless of owner.
func (r *ProgressRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Progress, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.progress[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &p, nil
}

// LatestForQuiz returns the newest attempt of userID for quizID.
func (r *ProgressRepo) LatestForQuiz(_ context.Context, userID, quizID uuid.UUID) (*model.Progress, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var latest *model.Progress
	for _, p := range r.s.progress {
		if p.UserID != userID || p.QuizID != quizID {
			continue
		}
		if latest == nil || p.CompletedAt.After(latest.CompletedAt) {
			cp := p
			latest = &cp
		}
	}
	if latest == nil {
		return nil, errs.ErrNotFound
	}
	return latest, nil
}

// QuizRepo is the in-memory QuizRepository.
type QuizRepo struct{ s *Store }

// List returns the catalog ordered by subject and title, without questions.
func (r *QuizRepo) List(_ context.Context) ([]model.Quiz, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Quiz, 0, len(r.s.quizzes))
	for _, q := range r.s.quizzes {
		q.Questions = nil
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Subject != out[j].Subject {
			return out[i].Subject < out[j].Subject
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

// Get returns a quiz with a copy of its questions.
func (r *QuizRepo) Get(_ context.Context, id uuid.UUID) (*model.Quiz, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q, ok := r.s.quizzes[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	q.Questions = append([]model.Question{}, q.Questions...)
	return &q, nil
}
