package api

import (
	"net/http" // HTTP status codes

	"game_store/internal/middleware" // Caller identity
	"game_store/internal/shop"       // Business operations

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money amounts
)

// ValidateCouponRequest previews a coupon on a cart total.
type ValidateCouponRequest struct {
	Code        string          `json:"code"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// CouponRequest is the admin coupon form.
type CouponRequest struct {
	Code          string          `json:"code"`
	Description   *string         `json:"description"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	MaxUsage      int             `json:"maxUsage"`
}

func (r CouponRequest) input() shop.CouponInput {
	return shop.CouponInput{
		Code:          r.Code,
		Description:   r.Description,
		DiscountValue: r.DiscountValue,
		MaxUsage:      r.MaxUsage,
	}
}

// ValidateCouponHandler previews a coupon without redeeming it
func ValidateCouponHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := currentUser(c) // Get userID from context
		if !exists {
			return
		}
		var req ValidateCouponRequest // Bind request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request
			fail(c, http.StatusBadRequest, shop.ErrCouponCodeRequired.Message)
			return
		}
		quote, err := svc.ValidateCoupon(c.Request.Context(), userID, req.Code, req.TotalAmount)
		if err != nil {
			respondError(c, err, "validate coupon")
			return
		}
		respondOK(c, "คูปองใช้งานได้", toQuote(quote))
	}
}

// ListCouponsHandler lists every coupon (admin only)
func ListCouponsHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		coupons, err := svc.ListCoupons(c.Request.Context())
		if err != nil {
			respondError(c, err, "list coupons")
			return
		}
		out := make([]CouponDTO, len(coupons))
		for i, d := range coupons {
			out[i] = toCoupon(d)
		}
		respondOK(c, "", out)
	}
}

// GetCouponHandler returns one coupon (admin only)
func GetCouponHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathUUID(c, "id", shop.ErrCouponMissing.Message) // Parse id from path
		if !valid {
			return
		}
		coupon, err := svc.GetCoupon(c.Request.Context(), id)
		if err != nil {
			respondError(c, err, "get coupon")
			return
		}
		respondOK(c, "", toCoupon(*coupon))
	}
}

// CreateCouponHandler adds a coupon (admin only)
func CreateCouponHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, _ := middleware.UserID(c) // Acting admin
		var req CouponRequest              // Bind request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request
			fail(c, http.StatusBadRequest, "ข้อมูลคูปองไม่ถูกต้อง")
			return
		}
		coupon, err := svc.CreateCoupon(c.Request.Context(), adminID, req.input())
		if err != nil {
			respondError(c, err, "create coupon")
			return
		}
		respondCreated(c, "Coupon created successfully", toCoupon(*coupon))
	}
}

// UpdateCouponHandler edits a coupon (admin only)
func UpdateCouponHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, _ := middleware.UserID(c)                            // Acting admin
		id, valid := pathUUID(c, "id", shop.ErrCouponMissing.Message) // Parse id from path
		if !valid {
			return
		}
		var req CouponRequest // Bind request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request
			fail(c, http.StatusBadRequest, "ข้อมูลคูปองไม่ถูกต้อง")
			return
		}
		coupon, err := svc.UpdateCoupon(c.Request.Context(), adminID, id, req.input())
		if err != nil {
			respondError(c, err, "update coupon")
			return
		}
		respondOK(c, "Coupon updated successfully", toCoupon(*coupon))
	}
}

// DeleteCouponHandler removes a coupon (admin only)
func DeleteCouponHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, _ := middleware.UserID(c)                            // Acting admin
		id, valid := pathUUID(c, "id", shop.ErrCouponMissing.Message) // Parse id from path
		if !valid {
			return
		}
		if err := svc.DeleteCoupon(c.Request.Context(), adminID, id); err != nil {
			respondError(c, err, "delete coupon")
			return
		}
		respondOK(c, "Coupon deleted successfully", nil)
	}
}
