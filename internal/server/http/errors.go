package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/and161185/studylife/internal/errs"
	"github.com/and161185/studylife/internal/service"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(service.JSONFieldName)
	}
}

// APIError is the body of every error response.
type APIError struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorEnvelope wraps APIError as {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respond(c *gin.Context, status int, code, msg string, fields map[string]string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code, Fields: fields}})
}

// writeError maps domain errors to HTTP statuses. Unknown errors are logged
// and reported as a bare 500 so internals never reach the client.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	var ve *errs.ValidationError
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		c.Header("WWW-Authenticate", "Bearer")
		respond(c, http.StatusUnauthorized, "unauthenticated", "unauthenticated", nil)
	case errors.Is(err, errs.ErrNotFound):
		respond(c, http.StatusNotFound, "not_found", "not found", nil)
	case errors.Is(err, errs.ErrAlreadyExists):
		respond(c, http.StatusConflict, "already_exists", "already exists", nil)
	case errors.Is(err, errs.ErrRateLimited):
		respond(c, http.StatusTooManyRequests, "rate_limited", "too many failed attempts, try later", nil)
	case errors.As(err, &ve):
		respond(c, http.StatusUnprocessableEntity, "validation", ve.Error(), ve.Fields)
	default:
		log.Error("request failed",
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		respond(c, http.StatusInternalServerError, "internal", "internal", nil)
	}
}

// writeBindError reports a request body that could not be decoded or bound.
func writeBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		respond(c, http.StatusUnprocessableEntity, "validation", errs.ErrValidation.Error(), fields)
		return
	}
	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typ):
		respond(c, http.StatusUnprocessableEntity, "validation", errs.ErrValidation.Error(), map[string]string{typ.Field: "type"})
	case errors.As(err, &syn):
		respond(c, http.StatusUnprocessableEntity, "validation", errs.ErrValidation.Error(), map[string]string{"body": "json"})
	default:
		respond(c, http.StatusUnprocessableEntity, "validation", errs.ErrValidation.Error(), map[string]string{"body": "invalid"})
	}
}
