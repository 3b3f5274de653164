package api

import (
	"net/http" // HTTP status codes

	"game_store/internal/shop"    // Business operations
	"game_store/internal/storage" // Uploaded images

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// ProfileRequest is accepted as JSON or multipart form; empty fields are kept.
type ProfileRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GetProfileHandler returns the public part of an account
func GetProfileHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathUUID(c, "id", shop.ErrAccountNotFound.Message) // Parse id from path
		if !valid {
			return
		}
		account, err := svc.GetAccount(c.Request.Context(), id)
		if err != nil {
			respondError(c, err, "get profile")
			return
		}
		respondOK(c, "", PublicProfileDTO{
			ID:           account.ID,
			Username:     account.Username,
			Email:        account.Email,
			ProfileImage: account.ProfileImage,
			Role:         account.Role,
			CreatedAt:    account.CreatedAt,
		})
	}
}

// UpdateProfileHandler lets users edit themselves and admins edit anyone.
func UpdateProfileHandler(svc *shop.Service, images *storage.Images) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, exists := currentUser(c) // Get caller from context
		if !exists {
			return
		}
		id, valid := pathUUID(c, "id", shop.ErrAccountNotFound.Message) // Parse id from path
		if !valid {
			return
		}
		if id != callerID {
			caller, err := svc.GetAccount(c.Request.Context(), callerID)
			if err != nil || !caller.IsAdmin() {
				// If not allowed, return forbidden
				fail(c, http.StatusForbidden, "ไม่มีสิทธิ์แก้ไขข้อมูลผู้ใช้นี้")
				return
			}
		}
		var req ProfileRequest // Bind request to struct
		if err := c.ShouldBind(&req); err != nil {
			// If invalid, return bad request
			fail(c, http.StatusBadRequest, "ข้อมูลไม่ถูกต้อง")
			return
		}
		image, err := saveUpload(c, images, "profileImage")
		if err != nil {
			respondError(c, err, "update profile")
			return
		}
		account, replaced, err := svc.UpdateProfile(c.Request.Context(), id, shop.ProfileInput{
			Username:     optional(req.Username),
			Email:        optional(req.Email),
			Password:     optional(req.Password),
			ProfileImage: image,
		})
		if err != nil {
			discardUpload(images, image)
			respondError(c, err, "update profile")
			return
		}
		removeStoredImage(images, replaced)
		logrus.WithFields(logrus.Fields{"user_id": id, "by": callerID}).Info("Profile updated")
		respondOK(c, "อัปเดตโปรไฟล์สำเร็จ", toUser(*account))
	}
}
