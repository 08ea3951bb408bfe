package memory

import (
	"github.com/gofrs/uuid/v5"

	"github.com/and161185/studylife/internal/model"
)

// DemoQuizzes returns the starter catalog shipped by migrations/00002_seed_quizzes.sql,
// with the same ids, so memory-backed dev runs can take and score quizzes.
func DemoQuizzes() []model.Quiz {
	physics := uuid.FromStringOrNil("6f1c2a4e-0b1d-4c59-9a53-2f0f6f2d8a01")
	biology := uuid.FromStringOrNil("6f1c2a4e-0b1d-4c59-9a53-2f0f6f2d8a02")
	q := func(id string, quiz uuid.UUID, text, a, b, c, d, correct string) model.Question {
		return model.Question{
			ID: uuid.FromStringOrNil(id), QuizID: quiz, Text: text,
			OptionA: a, OptionB: b, OptionC: c, OptionD: d, CorrectAnswer: correct,
		}
	}
	return []model.Quiz{
		{
			ID:          physics,
			Title:       "Forces and Motion",
			Subject:     "Physics",
			Description: "Newton's laws and kinematics basics",
			Questions: []model.Question{
				q("0d6b5e1a-7c2f-4f1e-8a10-000000000101", physics,
					"What is the SI unit of force?", "Joule", "Newton", "Watt", "Pascal", "b"),
				q("0d6b5e1a-7c2f-4f1e-8a10-000000000102", physics,
					"An object at rest stays at rest unless acted on by a net force. Which law is this?",
					"Newton's first law", "Newton's second law", "Newton's third law", "Hooke's law", "a"),
				q("0d6b5e1a-7c2f-4f1e-8a10-000000000103", physics,
					"Acceleration due to gravity near Earth's surface is about:", "1.6 m/s²", "3.7 m/s²", "9.8 m/s²", "24.8 m/s²", "c"),
			},
		},
		{
			ID:          biology,
			Title:       "Cell Biology",
			Subject:     "Biology",
			Description: "Organelles and their functions",
			Questions: []model.Question{
				q("0d6b5e1a-7c2f-4f1e-8a10-000000000201", biology,
					"Which organelle produces most of the cell's ATP?", "Ribosome", "Golgi apparatus", "Lysosome", "Mitochondrion", "d"),
				q("0d6b5e1a-7c2f-4f1e-8a10-000000000202", biology,
					"Where is the genetic material of a eukaryotic cell stored?", "Nucleus", "Cytoplasm", "Cell membrane", "Vacuole", "a"),
			},
		},
	}
}

// SeedDemo adds DemoQuizzes to the catalog.
func (s *Store) SeedDemo() {
	for _, q := range DemoQuizzes() {
		s.AddQuiz(q)
	}
}
