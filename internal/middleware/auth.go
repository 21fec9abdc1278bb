package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	// ContextKeyUserID is where AuthMiddleware stores the resolved caller id.
	ContextKeyUserID = "u_id"
	// ContextKeyToken holds the session token the caller was resolved from.
	ContextKeyToken = "token"
)

// SessionResolver turns a session token into a user id.
// *service.IdentityService satisfies it.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (int, error)
}

// AuthMiddleware resolves the request's session token and stores the caller's
// id in the gin context. On failure it records the error and aborts; the
// ErrorHandler further out writes the response.
func AuthMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		userID, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Set(ContextKeyToken, token)
		c.Next()
	}
}

type tokenEnvelope struct {
	Token string `json:"token"`
}

// TokenFromRequest finds the session token in, by priority: an
// "Authorization: Bearer" header, the "token" query parameter, the "token"
// field of a JSON body. The body is cached by gin, so handlers must bind it
// with ShouldBindBodyWith afterwards.
func TokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	if token := c.Query("token"); token != "" {
		return token
	}

	if c.Request.Body != nil && c.ContentType() == binding.MIMEJSON {
		var env tokenEnvelope
		if err := c.ShouldBindBodyWith(&env, binding.JSON); err == nil {
			return env.Token
		}
	}
	return ""
}

// GetUserID returns the caller id stored by AuthMiddleware, or 0 when the
// route is not behind it.
func GetUserID(c *gin.Context) int {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0
	}
	id, ok := val.(int)
	if !ok {
		return 0
	}
	return id
}

// GetToken returns the session token AuthMiddleware resolved, or "".
func GetToken(c *gin.Context) string {
	return c.GetString(ContextKeyToken)
}
