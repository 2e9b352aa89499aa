package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireSession gates admin routes on a valid admin_token cookie. The
// dashboard treats the 401 as a redirect-to-login signal.
func RequireSession(sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || sessions.Verify(token) != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
