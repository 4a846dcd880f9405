package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lambojac/mirriora/internal/infra/logger"
)

const (
	requestIDHeader = "X-Request-ID"

	// maxRequestIDLength caps caller-supplied identifiers. Longer values are
	// replaced rather than truncated, so a logged id is always one the
	// service either received intact or minted itself.
	maxRequestIDLength = 64
)

// RequestID propagates the caller's request identifier, or mints a UUID when
// the header is absent or oversized. The id is echoed on the response and
// stored on the request context for the access logger.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" || len(reqID) > maxRequestIDLength {
			reqID = uuid.NewString()
		}

		c.Writer.Header().Set(requestIDHeader, reqID)
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey{}, reqID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(logger.RequestIDKey{}).(string); ok {
		return id
	}
	return ""
}
