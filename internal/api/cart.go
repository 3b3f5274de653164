package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"game_store/internal/domain" // Importing domain models
	"game_store/internal/shop"   // Business operations

	"github.com/gin-gonic/gin" // Gin web framework
)

// CartHandler lists the caller's cart
func CartHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := currentUser(c) // Get userID from context
		if !exists {
			return
		}
		items, err := svc.Cart(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "get cart")
			return
		}
		respondOK(c, "", toCartItems(items))
	}
}

func toCartItems(items []domain.CartItem) []CartItemDTO {
	out := make([]CartItemDTO, len(items))
	for i, it := range items {
		out[i] = toCartItem(it)
	}
	return out
}

// CartSummaryHandler totals the cart; ?coupon= previews a discount.
func CartSummaryHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := currentUser(c) // Get userID from context
		if !exists {
			return
		}
		summary, err := svc.CartSummary(c.Request.Context(), userID, c.Query("coupon"))
		if err != nil {
			respondError(c, err, "cart summary")
			return
		}
		respondOK(c, "", CartSummaryDTO{
			Items:      toCartItems(summary.Items),
			TotalItems: summary.TotalItems,
			Subtotal:   summary.Subtotal,
			Discount:   summary.Discount,
			Total:      summary.Total,
			Coupon:     toQuote(summary.Coupon),
		})
	}
}

// AddToCartHandler puts a game in the caller's cart
func AddToCartHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := currentUser(c) // Get userID from context
		if !exists {
			return
		}
		gameID, valid := pathUUID(c, "gameId", shop.ErrInvalidGameID.Message) // Parse id from path
		if !valid {
			return
		}
		item, err := svc.AddToCart(c.Request.Context(), userID, gameID)
		if err != nil {
			respondError(c, err, "add to cart")
			return
		}
		respondCreated(c, "เพิ่มเกมลงตะกร้าสำเร็จ", toCartItem(*item))
	}
}

// RemoveFromCartHandler drops one cart row
func RemoveFromCartHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := currentUser(c) // Get userID from context
		if !exists {
			return
		}
		id, err := strconv.ParseUint(c.Param("cartItemId"), 10, 64)
		if err != nil {
			// If invalid, return bad request
			fail(c, http.StatusBadRequest, "รหัสสินค้าในตะกร้าไม่ถูกต้อง")
			return
		}
		if err := svc.RemoveFromCart(c.Request.Context(), userID, uint(id)); err != nil {
			respondError(c, err, "remove from cart")
			return
		}
		respondOK(c, "ลบเกมออกจากตะกร้าสำเร็จ", nil)
	}
}

// ClearCartHandler empties the caller's cart
func ClearCartHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := currentUser(c) // Get userID from context
		if !exists {
			return
		}
		removed, err := svc.ClearCart(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "clear cart")
			return
		}
		respondOK(c, "ล้างตะกร้าสินค้าสำเร็จ", gin.H{"removedCount": removed})
	}
}
