package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"accountant-api/services"
	"accountant-api/utils"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
)

// Auth guards protected routes. The bearer token is the signer-wrapped JWT;
// the wrapper is checked first (and against the revocation list), then the
// JWT inside it.
func Auth(jwtSecret string, signer *utils.Signer, tokens *services.TokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}
		wrapped := strings.TrimPrefix(header, "Bearer ")

		blacklisted, err := tokens.IsBlacklisted(c.Request.Context(), wrapped)
		if err != nil {
			log.Printf("❌ Blacklist lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token check failed"})
			c.Abort()
			return
		}
		if blacklisted {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
			c.Abort()
			return
		}

		rawJWT, err := signer.Verify(wrapped, utils.AccessTokenTTL)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, err := utils.ParseAccessToken(rawJWT, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func GetEmail(c *gin.Context) string {
	return c.GetString(ContextEmail)
}
