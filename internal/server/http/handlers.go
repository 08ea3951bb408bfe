package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/studylife/internal/convert"
	"github.com/and161185/studylife/internal/errs"
	"github.com/and161185/studylife/internal/model"
	"github.com/and161185/studylife/internal/service"
)

// Handlers implements the REST API on top of the services.
type Handlers struct {
	auth     service.AuthService
	notes    service.NoteService
	progress service.ProgressService
	quizzes  service.QuizService
	log      *zap.Logger
}

// NewHandlers wires handlers to services.
func NewHandlers(auth service.AuthService, notes service.NoteService, progress service.ProgressService, quizzes service.QuizService, log *zap.Logger) *Handlers {
	return &Handlers{auth: auth, notes: notes, progress: progress, quizzes: quizzes, log: log}
}

// caller returns the authenticated account id; it aborts with 401 when absent.
func (h *Handlers) caller(c *gin.Context) (uuid.UUID, bool) {
	id, ok := accountID(c)
	if !ok {
		writeError(c, h.log, errs.ErrUnauthorized)
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses a UUID path parameter; it aborts with 422 on malformed input.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.FromString(c.Param(name))
	if err != nil {
		respond(c, http.StatusUnprocessableEntity, "validation", errs.ErrValidation.Error(), map[string]string{name: "uuid"})
		return uuid.Nil, false
	}
	return id, true
}

// --- auth ---

type signupRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName string  `json:"full_name"`
	Course   *string `json:"course"`
}

type loginRequest struct {
	Email    string `json:"email" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type profileRequest struct {
	FullName string  `json:"full_name"`
	Course   *string `json:"course"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// Signup registers a new account.
func (h *Handlers) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	in := service.SignupInput{Email: req.Email, Password: req.Password, FullName: req.FullName}
	if req.Course != nil {
		in.Course = *req.Course
	}
	acc, err := h.auth.Signup(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, convert.ToAccount(*acc))
}

// Login accepts a JSON body or an OAuth2-style password form.
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	var err error
	switch c.ContentType() {
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		err = c.ShouldBind(&req)
	default:
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		writeBindError(c, err)
		return
	}
	tok, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, convert.ToToken(tok))
}

// Me returns the caller's account.
func (h *Handlers) Me(c *gin.Context) {
	id, ok := h.caller(c)
	if !ok {
		return
	}
	acc, err := h.auth.Me(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, convert.ToAccount(*acc))
}

// UpdateProfile changes the non-empty profile fields of the caller.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	id, ok := h.caller(c)
	if !ok {
		return
	}
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	upd := model.ProfileUpdate{FullName: req.FullName}
	if req.Course != nil {
		upd.Course = *req.Course
	}
	acc, err := h.auth.UpdateProfile(c.Request.Context(), id, upd)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, convert.ToAccount(*acc))
}

// ChangePassword replaces the caller's password.
func (h *Handlers) ChangePassword(c *gin.Context) {
	id, ok := h.caller(c)
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), id, req.CurrentPassword, req.NewPassword, c.ClientIP()); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// DeleteAccount removes the caller and everything they own.
func (h *Handlers) DeleteAccount(c *gin.Context) {
	id, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.auth.DeleteAccount(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
