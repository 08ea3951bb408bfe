package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
)

type ctxKey string

const accountIDKey ctxKey = "sl.accountID"

// ginAccountKey is the gin.Context key set by RequireAuth.
const ginAccountKey = "accountID"

// WithAccountID stores the authenticated account ID in context.
func WithAccountID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, accountIDKey, id)
}

// AccountIDFromCtx fetches the account ID from context.
func AccountIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	v := ctx.Value(accountIDKey)
	if v == nil {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// accountID returns the caller resolved by RequireAuth.
func accountID(c *gin.Context) (uuid.UUID, bool) {
	if v, ok := c.Get(ginAccountKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return AccountIDFromCtx(c.Request.Context())
}
