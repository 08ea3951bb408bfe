package convert

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	u "github.com/gofrs/uuid/v5"

	model "github.com/and161185/studylife/internal/model"
)

func mustUUID(t *testing.T, s string) u.UUID {
	t.Helper()
	id, err := u.FromString(s)
	if err != nil {
		t.Fatalf("bad uuid %q: %v", s, err)
	}
	return id
}

func TestToAccount_HidesDigest(t *testing.T) {
	t.Parallel()

	a := model.Account{
		ID:        mustUUID(t, "6f1cbe8e-b2e7-4a3b-9f6e-2a2c0f2f9c11"),
		Email:     "ann@example.com",
		PwdHash:   "$argon2id$secret",
		FullName:  "Ann",
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("x", 3600)),
	}
	b, err := json.Marshal(ToAccount(a))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if strings.Contains(s, "argon2id") || strings.Contains(s, "pwd") {
		t.Fatalf("digest leaked: %s", s)
	}
	if !strings.Contains(s, `"course":null`) || !strings.Contains(s, `"created_at":"2024-05-01T09:00:00Z"`) {
		t.Fatalf("unexpected json: %s", s)
	}
}

func TestTs_ZeroOmitted(t *testing.T) {
	t.Parallel()

	if ts(time.Time{}) != nil {
		t.Fatalf("zero time must give nil")
	}
	b, _ := json.Marshal(ToNote(model.Note{Title: "t"}))
	if strings.Contains(string(b), "created_at") {
		t.Fatalf("zero created_at must be omitted: %s", b)
	}
}

func TestToQuiz_Questions(t *testing.T) {
	t.Parallel()

	qid := mustUUID(t, "6f1c2a4e-0b1d-4c59-9a53-2f0f6f2d8a01")
	q := model.Quiz{ID: qid, Title: "Motion", Questions: []model.Question{
		{ID: mustUUID(t, "0d6b5e1a-7c2f-4f1e-8a10-000000000101"), QuizID: qid, Text: "unit of force?", OptionB: "newton"},
	}}
	got := ToQuiz(q)
	if len(got.Questions) != 1 || got.Questions[0].QuestionText != "unit of force?" {
		t.Fatalf("questions: %+v", got.Questions)
	}
	b, _ := json.Marshal(got)
	if strings.Contains(string(b), "correct_answer") {
		t.Fatalf("blank correct answer must be omitted: %s", b)
	}

	list := ToQuizzes([]model.Quiz{{ID: qid}})
	b, _ = json.Marshal(list)
	if strings.Contains(string(b), "questions") {
		t.Fatalf("list must not carry questions: %s", b)
	}
}

func TestToSlices_NeverNil(t *testing.T) {
	t.Parallel()

	if ToNotes(nil) == nil || ToProgressList(nil) == nil || ToQuizzes(nil) == nil {
		t.Fatalf("slices must be non-nil for [] encoding")
	}
}

func TestFromAnswers(t *testing.T) {
	t.Parallel()

	got, err := FromAnswers(map[string]string{" 0d6b5e1a-7c2f-4f1e-8a10-000000000101 ": "b"})
	if err != nil {
		t.Fatalf("FromAnswers: %v", err)
	}
	if got[mustUUID(t, "0d6b5e1a-7c2f-4f1e-8a10-000000000101")] != "b" {
		t.Fatalf("lost answer: %v", got)
	}

	if _, err := FromAnswers(map[string]string{"q1": "a"}); err == nil || !strings.Contains(err.Error(), "q1") {
		t.Fatalf("want invalid id error, got %v", err)
	}
}

func TestToStats(t *testing.T) {
	t.Parallel()

	s := ToStats(model.Stats{TotalQuizzes: 2, AverageScore: 90, StudyHours: 1})
	b, _ := json.Marshal(s)
	if !strings.Contains(string(b), `"average_score":90`) || !strings.Contains(string(b), `"study_hours":1`) {
		t.Fatalf("stats json: %s", b)
	}
}
