package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Anay7520/ChatSphere/pkg/response"
	"github.com/Anay7520/ChatSphere/pkg/token"
)

const ctxUserID = "user_id"

// Auth validates the bearer access token and stores the user id on the
// request context.
func Auth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			response.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := tokens.Validate(strings.TrimPrefix(auth, "Bearer "), token.TypeAccess)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
