package api

import (
	"net/http" // HTTP status codes
	"strings"  // Content type checks
	"time"     // Token lifetime

	"game_store/internal/middleware" // Token claims
	"game_store/internal/shop"       // Business operations
	"game_store/internal/storage"    // Profile images
	"game_store/internal/utils"      // JWT utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// SignupRequest is accepted as JSON or as multipart form fields
type SignupRequest struct {
	Username string `json:"username" form:"username" binding:"required"` // Unique username
	Email    string `json:"email" form:"email" binding:"required"`       // Unique email
	Password string `json:"password" form:"password" binding:"required"` // Plain password, hashed before storage
}

// LoginRequest identifies a user by username or email
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"` // Username or email
	Password   string `json:"password" binding:"required"`   // Plain password
}

// LoginResponse carries the bearer token and the signed-in user
type LoginResponse struct {
	Token     string    `json:"token"`     // JWT token
	ExpiresAt time.Time `json:"expiresAt"` // Token expiry
	User      UserDTO   `json:"user"`      // Account details
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// saveUpload stores the optional file field and returns its URL, or nil when absent
func saveUpload(c *gin.Context, images *storage.Images, field string) (*string, error) {
	if !isMultipart(c) {
		return nil, nil // JSON requests carry no file
	}
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil // Field not sent
	}
	if fh.Size > storage.MaxImageSize {
		return nil, storage.ErrTooLarge // Reject before reading
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	url, err := images.Save(f) // Sniff and store
	if err != nil {
		return nil, err
	}
	return &url, nil
}

// discardUpload removes a file saved for a request that then failed
func discardUpload(images *storage.Images, url *string) {
	if url == nil {
		return
	}
	if err := images.Delete(*url); err != nil {
		logrus.WithFields(logrus.Fields{"image": *url, "error": err.Error()}).Warn("Failed to remove orphaned image")
	}
}

// SignupHandler registers a new customer account
func SignupHandler(svc *shop.Service, images *storage.Images) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest // Bind JSON or form to struct
		if err := c.ShouldBind(&req); err != nil {
			// If binding fails, return bad request
			fail(c, http.StatusBadRequest, "กรุณากรอกข้อมูลให้ครบถ้วน")
			return
		}
		image, err := saveUpload(c, images, "profileImage") // Optional avatar
		if err != nil {
			respondError(c, err, "signup")
			return
		}
		account, err := svc.Signup(c.Request.Context(), shop.SignupInput{
			Username:     req.Username,
			Email:        req.Email,
			Password:     req.Password,
			ProfileImage: image,
		})
		if err != nil {
			discardUpload(images, image) // Do not keep avatars of rejected signups
			respondError(c, err, "signup")
			return
		}
		respondCreated(c, "สมัครสมาชิกสำเร็จ", toUser(*account))
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(svc *shop.Service, jwtSecret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			fail(c, http.StatusBadRequest, "กรุณากรอกชื่อผู้ใช้งานและรหัสผ่าน")
			return
		}
		account, err := svc.Authenticate(c.Request.Context(), req.Identifier, req.Password)
		if err != nil {
			respondError(c, err, "login")
			return
		}
		// Generate JWT token
		token, claims, err := utils.GenerateJWT(account.ID, jwtSecret, ttl)
		if err != nil {
			respondError(c, err, "login")
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  account.ID,   // Signed-in account
			"token_id": claims.ID,    // Issued token
			"role":     account.Role, // Account role
		}).Info("User logged in")
		respondOK(c, "เข้าสู่ระบบสำเร็จ", LoginResponse{
			Token:     token,
			ExpiresAt: claims.ExpiresAt.Time,
			User:      toUser(*account),
		})
	}
}

// LogoutHandler revokes the bearer token until it would have expired
func LogoutHandler(revoker *utils.TokenRevoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(middleware.ClaimsKey) // Claims set by the JWT middleware
		claims, isClaims := v.(*utils.Claims)
		if !exists || !isClaims {
			// If unauthenticated, return unauthorized
			fail(c, http.StatusUnauthorized, "กรุณาเข้าสู่ระบบ")
			return
		}
		if err := revoker.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			respondError(c, err, "logout")
			return
		}
		respondOK(c, "ออกจากระบบสำเร็จ", nil)
	}
}

// CheckAvailabilityHandler reports whether a username or email is free
func CheckAvailabilityHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		field, value := c.Query("type"), c.Query("value") // Query parameters
		if strings.TrimSpace(field) == "" || strings.TrimSpace(value) == "" {
			// If invalid, return bad request
			fail(c, http.StatusBadRequest, "Type and value query parameters are required")
			return
		}
		available, err := svc.CheckAvailability(c.Request.Context(), field, value)
		if err != nil {
			respondError(c, err, "check availability")
			return
		}
		message := field + " is already taken"
		if available {
			message = field + " is available"
		}
		c.JSON(http.StatusOK, Response{Success: available, Message: message, Data: gin.H{"available": available}})
	}
}
