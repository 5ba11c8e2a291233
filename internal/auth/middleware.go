package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const contextKey = "auth.session"

// Middleware extracts the bearer session token, if any. Requests without an
// Authorization header proceed anonymously; a present but invalid token is
// rejected.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			return
		}

		sess, err := ParseToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			return
		}

		c.Set(contextKey, sess)
		c.Next()
	}
}

// RequireSession aborts anonymous requests
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if SessionFromContext(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session required"})
			return
		}
		c.Next()
	}
}

// SessionFromContext returns the request session, or nil for anonymous
// requests
func SessionFromContext(c *gin.Context) *Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*Session)
	return sess
}
