package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDContextKey = "userID"

// userIDHeader carries the acting user's id. Authentication happens at the
// gateway in front of this service; the header is trusted here.
const userIDHeader = "X-User-ID"

// UserIdentityMiddleware reads the acting user id from the request header and
// stores it in the gin context. Requests without one act as "system", which
// keeps audit columns non-empty for gateway-internal calls.
func UserIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(userIDHeader))
		if userID == "" {
			userID = "system"
		}
		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

// GetUserIDFromContext retrieves the acting user id set by
// UserIdentityMiddleware.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Get(userIDContextKey)
	if !ok {
		return "", false
	}
	s, ok := userID.(string)
	return s, ok && s != ""
}
