package httpserver

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// IdentityResolver maps an Authorization header to an account id.
type IdentityResolver interface {
	Resolve(ctx context.Context, header string) (uuid.UUID, error)
}

// LoggingMiddleware logs one line per request.
func LoggingMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		// no payloads, metadata only
		log.Info("http",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("dur", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// RecoverMiddleware turns panics into 500 responses.
func RecoverMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				if err, ok := r.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(r)
				}
				log.Error("panic",
					zap.Any("reason", r),
					zap.ByteString("stack", debug.Stack()),
					zap.String("route", c.FullPath()),
				)
				respond(c, http.StatusInternalServerError, "internal", "internal", nil)
			}
		}()
		c.Next()
	}
}

// RequireAuth resolves the Authorization header and stores the caller id.
func RequireAuth(res IdentityResolver, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := res.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.Set(ginAccountKey, id)
		c.Request = c.Request.WithContext(WithAccountID(c.Request.Context(), id))
		c.Next()
	}
}
