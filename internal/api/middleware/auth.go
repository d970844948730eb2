package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cadchat/internal/domain"
)

// Auth guards the admin API with the shared key from config. The key arrives
// as X-API-Key or as a bearer token. An empty configured key disables the
// check for local development.
func Auth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		if presentedKey(c) != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": domain.ErrUnauthorized.Error(),
			})
			return
		}

		c.Next()
	}
}

// presentedKey extracts the admin key from the request, trying X-API-Key
// first and a bearer token second.
func presentedKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
