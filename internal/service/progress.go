package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/studylife/internal/model"
	"github.com/and161185/studylife/internal/ownership"
	"github.com/and161185/studylife/internal/repository"
	"github.com/and161185/studylife/internal/stats"
)

// ProgressService exposes the caller's quiz attempts and their summary.
type ProgressService interface {
	// List returns every attempt of the caller, newest first.
	List(ctx context.Context, accountID uuid.UUID) ([]model.Progress, error)
	// Get returns one of the caller's attempts.
	Get(ctx context.Context, accountID, id uuid.UUID) (*model.Progress, error)
	// ForQuiz returns the caller's newest attempt of a quiz.
	ForQuiz(ctx context.Context, accountID, quizID uuid.UUID) (*model.Progress, error)
	// Stats summarizes the caller's full history.
	Stats(ctx context.Context, accountID uuid.UUID) (model.Stats, error)
}

type ProgressServiceImpl struct {
	repo  repository.ProgressRepository
	guard *ownership.Guard[*model.Progress]
}

// NewProgressService constructs ProgressService.
func NewProgressService(repo repository.ProgressRepository) *ProgressServiceImpl {
	return &ProgressServiceImpl{
		repo:  repo,
		guard: ownership.NewGuard(repo.GetByID, func(p *model.Progress) uuid.UUID { return p.UserID }),
	}
}

func (s *ProgressServiceImpl) List(ctx context.Context, accountID uuid.UUID) ([]model.Progress, error) {
	return s.repo.ListByOwner(ctx, accountID)
}

func (s *ProgressServiceImpl) Get(ctx context.Context, accountID, id uuid.UUID) (*model.Progress, error) {
	return s.guard.Authorize(ctx, accountID, id)
}

func (s *ProgressServiceImpl) ForQuiz(ctx context.Context, accountID, quizID uuid.UUID) (*model.Progress, error) {
	return s.repo.LatestForQuiz(ctx, accountID, quizID)
}

// Stats reads the whole history and folds it; an empty history yields zero stats.
func (s *ProgressServiceImpl) Stats(ctx context.Context, accountID uuid.UUID) (model.Stats, error) {
	history, err := s.repo.ListByOwner(ctx, accountID)
	if err != nil {
		return model.Stats{}, err
	}
	return stats.Summarize(history), nil
}
