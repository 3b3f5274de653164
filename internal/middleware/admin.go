package middleware

import (
	"net/http" // HTTP status codes

	"game_store/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// AdminOnlyMiddleware checks the caller's role from the database on each request
func AdminOnlyMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := UserID(c) // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, abort with unauthorized status
			abort(c, http.StatusUnauthorized, "กรุณาเข้าสู่ระบบ")
			return
		}
		var account domain.Account // Fetch account from database
		if err := db.WithContext(c.Request.Context()).Select("id", "role").First(&account, "id = ?", userID).Error; err != nil {
			// If account not found or any error, abort with forbidden status
			abort(c, http.StatusForbidden, "Admin access required")
			return
		}
		// Check if account role is admin
		if !account.IsAdmin() {
			// If not admin, abort with forbidden status
			abort(c, http.StatusForbidden, "Admin access required")
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
