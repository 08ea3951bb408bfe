package service

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/studylife/internal/errs"
	"github.com/and161185/studylife/internal/model"
	"github.com/and161185/studylife/internal/repository"
	"github.com/and161185/studylife/internal/stats"
)

// QuizService serves the shared catalog and grades submissions.
type QuizService interface {
	// List returns the catalog without questions.
	List(ctx context.Context) ([]model.Quiz, error)
	// Get returns a quiz with its questions; correct answers are blanked.
	Get(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
	// Submit grades answers (question id -> "a".."d") and records the attempt.
	Submit(ctx context.Context, accountID, quizID uuid.UUID, answers map[uuid.UUID]string) (*model.Progress, error)
}

type QuizServiceImpl struct {
	quizzes  repository.QuizRepository
	progress repository.ProgressRepository
}

// NewQuizService constructs QuizService.
func NewQuizService(quizzes repository.QuizRepository, progress repository.ProgressRepository) *QuizServiceImpl {
	return &QuizServiceImpl{quizzes: quizzes, progress: progress}
}

func (s *QuizServiceImpl) List(ctx context.Context) ([]model.Quiz, error) {
	return s.quizzes.List(ctx)
}

func (s *QuizServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	q, err := s.quizzes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range q.Questions {
		q.Questions[i].CorrectAnswer = ""
	}
	return q, nil
}

// Submit grades every question of the quiz. Unanswered questions count as wrong
// and are not stored in the answer history.
func (s *QuizServiceImpl) Submit(ctx context.Context, accountID, quizID uuid.UUID, answers map[uuid.UUID]string) (*model.Progress, error) {
	q, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(q.Questions) == 0 {
		return nil, errs.NewValidation("quiz", "no_questions")
	}

	known := make(map[uuid.UUID]struct{}, len(q.Questions))
	for _, qs := range q.Questions {
		known[qs.ID] = struct{}{}
	}
	for id, choice := range answers {
		if _, ok := known[id]; !ok {
			return nil, errs.NewValidation("answers", "unknown_question")
		}
		if !validChoice(choice) {
			return nil, errs.NewValidation("answers", "oneof=a b c d")
		}
	}

	progressID, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	graded := make([]model.Answer, 0, len(answers))
	correct := 0
	for _, qs := range q.Questions {
		choice, ok := answers[qs.ID]
		if !ok {
			continue
		}
		choice = strings.ToLower(strings.TrimSpace(choice))
		hit := choice == qs.CorrectAnswer
		if hit {
			correct++
		}
		aid, err := uuid.NewV4()
		if err != nil {
			return nil, err
		}
		graded = append(graded, model.Answer{
			ID:             aid,
			UserID:         accountID,
			QuizID:         quizID,
			QuestionID:     qs.ID,
			SelectedAnswer: choice,
			IsCorrect:      hit,
		})
	}

	p := &model.Progress{
		ID:             progressID,
		UserID:         accountID,
		QuizID:         quizID,
		Score:          stats.Score(correct, len(q.Questions)),
		TotalQuestions: len(q.Questions),
		CorrectAnswers: correct,
	}
	if err := s.progress.Record(ctx, p, graded); err != nil {
		return nil, err
	}
	return p, nil
}

func validChoice(c string) bool {
	switch strings.ToLower(strings.TrimSpace(c)) {
	case "a", "b", "c", "d":
		return true
	}
	return false
}
