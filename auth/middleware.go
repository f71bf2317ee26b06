package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	SubjectKey = "subject"
	RoleKey    = "role"
)

// Middleware rejects requests without a valid admin token. The token is
// read from the Authorization header, or from the token query parameter
// since browsers cannot set headers on a websocket upgrade.
func Middleware(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token is missing"})
			return
		}

		claims, err := issuer.Validate(tokenStr)
		if err != nil || claims.Role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(SubjectKey, claims.Subject)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}
