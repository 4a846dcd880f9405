package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lambojac/mirriora/internal/core/domain"
	"github.com/lambojac/mirriora/internal/usecase"
)

// CurrentUserKey is the context key holding the authenticated domain user.
const CurrentUserKey = "current_user"

// guardMessage is the single message every authorization failure returns.
// Callers must not be able to tell a missing token from an expired one or a
// deleted account.
const guardMessage = "not authorized, please login"

// ErrorResponse matches the handlers error envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// newErrorResponse creates an error response with trace ID
func newErrorResponse(c *gin.Context, message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: message,
		TraceID: GetTraceID(c),
	}
}

// RequireAuth validates the bearer token and attaches the resolved user to the
// request context. The token comes from the Authorization header, with the
// auth cookie as fallback for browser clients.
func RequireAuth(auth *usecase.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, newErrorResponse(c, guardMessage))
			return
		}

		user, err := auth.Authorize(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, newErrorResponse(c, guardMessage))
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(CurrentUserKey, user)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.UserID = user.ID
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := c.Cookie("token"); err == nil {
		return strings.TrimSpace(cookie)
	}

	return ""
}

// GetAuthenticatedUserID retrieves the user ID from context (helper for handlers)
func GetAuthenticatedUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}

	if id, ok := userID.(string); ok {
		return id, true
	}

	return "", false
}

// GetAuthenticatedUser retrieves the full user attached by RequireAuth.
func GetAuthenticatedUser(c *gin.Context) (*domain.User, bool) {
	value, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}

	if user, ok := value.(*domain.User); ok {
		return user, true
	}

	return nil, false
}
