package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"game_store/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // User ids
	"github.com/sirupsen/logrus" // Logging library
)

// Context keys set by JWTAuthMiddleware
const (
	UserIDKey = "userID"      // uuid.UUID of the caller
	ClaimsKey = "tokenClaims" // *utils.Claims of the bearer token
)

// abort stops the chain with the standard failure envelope
func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// JWTAuthMiddleware validates bearer tokens, rejects logged-out ones and extracts the user id
func JWTAuthMiddleware(secret string, revoker *utils.TokenRevoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			abort(c, http.StatusUnauthorized, "กรุณาเข้าสู่ระบบ")
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			abort(c, http.StatusUnauthorized, "Token ไม่ถูกต้องหรือหมดอายุ")
			return
		}
		// Check the logout list
		if revoker != nil {
			revoked, err := revoker.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"token_id": claims.ID,   // Token being checked
					"error":    err.Error(), // Store error
				}).Error("Token revocation lookup failed")
				abort(c, http.StatusInternalServerError, "เกิดข้อผิดพลาดในระบบ")
				return
			}
			if revoked {
				abort(c, http.StatusUnauthorized, "Token ไม่ถูกต้องหรือหมดอายุ")
				return
			}
		}
		c.Set(UserIDKey, claims.UserID) // Store userID in context
		c.Set(ClaimsKey, claims)        // Store claims for logout
		c.Next()                        // Proceed to the next handler
	}
}

// UserID returns the authenticated caller, if any
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}
