package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/and161185/studylife/internal/convert"
	"github.com/and161185/studylife/internal/model"
	"github.com/and161185/studylife/internal/service"
)

type noteCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
	IsStarred   bool   `json:"is_starred"`
}

type noteUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	IsStarred   *bool   `json:"is_starred"`
}

// CreateNote stores a note for the caller.
func (h *Handlers) CreateNote(c *gin.Context) {
	uid, ok := h.caller(c)
	if !ok {
		return
	}
	var req noteCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	n, err := h.notes.Create(c.Request.Context(), uid, service.NoteInput(req))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, convert.ToNote(*n))
}

// ListNotes returns the caller's notes.
func (h *Handlers) ListNotes(c *gin.Context) {
	uid, ok := h.caller(c)
	if !ok {
		return
	}
	ns, err := h.notes.List(c.Request.Context(), uid)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, convert.ToNotes(ns))
}

// GetNote returns one of the caller's notes.
func (h *Handlers) GetNote(c *gin.Context) {
	uid, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	n, err := h.notes.Get(c.Request.Context(), uid, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, convert.ToNote(*n))
}

// UpdateNote applies a partial update.
func (h *Handlers) UpdateNote(c *gin.Context) {
	uid, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req noteUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	n, err := h.notes.Update(c.Request.Context(), uid, id, model.NotePatch(req))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, convert.ToNote(*n))
}

// ToggleStar flips the star flag.
func (h *Handlers) ToggleStar(c *gin.Context) {
	uid, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	n, err := h.notes.ToggleStar(c.Request.Context(), uid, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, convert.ToNote(*n))
}

// DeleteNote removes one of the caller's notes.
func (h *Handlers) DeleteNote(c *gin.Context) {
	uid, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notes.Delete(c.Request.Context(), uid, id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "note deleted"})
}
