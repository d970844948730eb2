package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// panelHeaders are the request headers the chat panel actually sends:
// JSON bodies, plus the admin key for the admin dashboard pages.
const panelHeaders = "Content-Type, Authorization, X-API-Key"

// CORS lets the chat panel reach the API from the CAD host's embedded
// browser. The panel's origin varies per installation, so the allow-list is
// configured per deployment; "*" admits any origin.
func CORS(allowOrigins []string) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowOrigins))
	for _, o := range allowOrigins {
		if o == "*" {
			allowAll = true
			continue
		}
		allowed[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if _, ok := allowed[origin]; ok || allowAll {
			if origin == "" {
				origin = "*"
			}
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", panelHeaders)
			c.Header("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
