package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sidhant-sriv/consumeless/auth"
)

const userIDKey = "user_id"

// AuthMiddleware requires a valid token in the "token" query parameter. An
// "Authorization: Bearer" header is accepted when the parameter is absent.
func AuthMiddleware(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if tokenString == "" {
			if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tokenString = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			}
		}

		claims, err := issuer.Validate(tokenString)
		switch {
		case errors.Is(err, auth.ErrMissingToken):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is missing!"})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token is invalid!"})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// GetUserID retrieves the authenticated user ID from the Gin context
func GetUserID(c *gin.Context) uint {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return 0
	}
	id, _ := userID.(uint)
	return id
}
