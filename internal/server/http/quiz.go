package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/and161185/studylife/internal/convert"
	"github.com/and161185/studylife/internal/errs"
)

type submitRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

// ListQuizzes returns the catalog.
func (h *Handlers) ListQuizzes(c *gin.Context) {
	qs, err := h.quizzes.List(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, convert.ToQuizzes(qs))
}

// GetQuiz returns a quiz with its questions; correct answers are not exposed.
func (h *Handlers) GetQuiz(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	q, err := h.quizzes.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, convert.ToQuiz(*q))
}

// SubmitQuiz grades the caller's answers and records the attempt.
func (h *Handlers) SubmitQuiz(c *gin.Context) {
	uid, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	answers, err := convert.FromAnswers(req.Answers)
	if err != nil {
		writeError(c, h.log, errs.NewValidation("answers", "uuid"))
		return
	}
	p, err := h.quizzes.Submit(c.Request.Context(), uid, id, answers)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, convert.ToProgress(*p))
}
