// Package stats folds a progress history into summary statistics.
package stats

import (
	"math"

	"github.com/and161185/studylife/internal/model"
)

// questionsPerStudyHour is the coarse study-time estimate: one hour per 50 questions.
const questionsPerStudyHour = 50

// Summarize computes stats over the full attempt history of one account.
// The streak is the number of attempts, not a run of consecutive days.
func Summarize(history []model.Progress) model.Stats {
	if len(history) == 0 {
		return model.Stats{}
	}

	var (
		scoreSum  float64
		questions int
		correct   int
	)
	for _, p := range history {
		scoreSum += p.Score
		questions += p.TotalQuestions
		correct += p.CorrectAnswers
	}

	var accuracy float64
	if questions > 0 {
		accuracy = float64(correct) / float64(questions) * 100
	}

	return model.Stats{
		TotalQuizzes:   len(history),
		AverageScore:   round2(scoreSum / float64(len(history))),
		Accuracy:       round2(accuracy),
		CurrentStreak:  len(history),
		TotalQuestions: questions,
		CorrectAnswers: correct,
		StudyHours:     max(1, questions/questionsPerStudyHour),
	}
}

// Score returns the percentage of correct answers, rounded to two decimals.
func Score(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round2(float64(correct) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
