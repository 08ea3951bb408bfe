package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/and161185/studylife/internal/convert"
)

// ListProgress returns every attempt of the caller.
func (h *Handlers) ListProgress(c *gin.Context) {
	uid, ok := h.caller(c)
	if !ok {
		return
	}
	ps, err := h.progress.List(c.Request.Context(), uid)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, convert.ToProgressList(ps))
}

// QuizProgress returns the caller's newest attempt of a quiz.
func (h *Handlers) QuizProgress(c *gin.Context) {
	uid, ok := h.caller(c)
	if !ok {
		return
	}
	quizID, ok := pathID(c, "quiz_id")
	if !ok {
		return
	}
	p, err := h.progress.ForQuiz(c.Request.Context(), uid, quizID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, convert.ToProgress(*p))
}

// GetProgress returns one of the caller's attempts.
func (h *Handlers) GetProgress(c *gin.Context) {
	uid, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.progress.Get(c.Request.Context(), uid, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, convert.ToProgress(*p))
}

// Stats summarizes the caller's history.
func (h *Handlers) Stats(c *gin.Context) {
	uid, ok := h.caller(c)
	if !ok {
		return
	}
	s, err := h.progress.Stats(c.Request.Context(), uid)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, convert.ToStats(s))
}
