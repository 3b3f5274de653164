package api

import (
	"errors"   // For matching an empty body
	"io"       // For io.EOF
	"net/http" // For HTTP status codes

	"game_store/internal/shop" // Business operations

	"github.com/gin-gonic/gin" // Gin web framework
)

// CheckoutRequest optionally names a coupon to redeem
type CheckoutRequest struct {
	CouponCode string `json:"couponCode"` // Empty means no coupon
}

// CheckoutHandler buys the whole cart with wallet credit
func CheckoutHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := currentUser(c) // Get userID from context
		if !exists {
			return
		}
		var req CheckoutRequest // Bind request to struct
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			// An empty body means no coupon, anything unreadable is rejected
			fail(c, http.StatusBadRequest, "ข้อมูลไม่ถูกต้อง")
			return
		}
		receipt, err := svc.Checkout(c.Request.Context(), userID, req.CouponCode)
		if err != nil {
			respondError(c, err, "checkout")
			return
		}
		respondOK(c, "ซื้อเกมสำเร็จ", toReceipt(receipt))
	}
}

// PurchaseHistoryHandler pages through the caller's purchases
func PurchaseHistoryHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := currentUser(c) // Get userID from context
		if !exists {
			return
		}
		page, err := svc.PurchaseHistory(c.Request.Context(), userID, queryInt(c, "page", 1), queryInt(c, "pageSize", 10))
		if err != nil {
			respondError(c, err, "purchase history")
			return
		}
		respondOK(c, "", pageOf(page, toPurchase))
	}
}

// OwnedGamesHandler pages through the caller's library
func OwnedGamesHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := currentUser(c) // Get userID from context
		if !exists {
			return
		}
		page, err := svc.OwnedGames(c.Request.Context(), userID, queryInt(c, "page", 1), queryInt(c, "pageSize", 20))
		if err != nil {
			respondError(c, err, "owned games")
			return
		}
		respondOK(c, "", pageOf(page, func(o shop.OwnedGame) OwnedGameDTO {
			return OwnedGameDTO{GameDTO: toGame(o.Game), OwnedAt: o.OwnedAt}
		}))
	}
}

// VerifyOwnershipHandler reports whether the caller owns a game
func VerifyOwnershipHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := currentUser(c) // Get userID from context
		if !exists {
			return
		}
		gameID, valid := pathUUID(c, "gameId", shop.ErrInvalidGameID.Message) // Parse id from path
		if !valid {
			return
		}
		owned, err := svc.OwnsGame(c.Request.Context(), userID, gameID)
		if err != nil {
			respondError(c, err, "verify ownership")
			return
		}
		respondOK(c, "", gin.H{"isOwned": owned, "gameId": gameID})
	}
}

