package api

import (
	"net/http" // HTTP status codes

	"game_store/internal/shop" // Business operations

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Amounts
)

// TopupRequest represents a wallet credit request
type TopupRequest struct {
	Amount decimal.Decimal `json:"amount"` // Credit in baht
}

// TopupHandler credits the caller's wallet
func TopupHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := currentUser(c) // Get userID from context
		if !exists {
			return
		}
		var req TopupRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request
			fail(c, http.StatusBadRequest, shop.ErrTopupNotPositive.Message)
			return
		}
		result, err := svc.Topup(c.Request.Context(), userID, req.Amount)
		if err != nil {
			respondError(c, err, "topup")
			return
		}
		respondOK(c, "เติมเงินสำเร็จ", gin.H{
			"amount":        result.Amount,        // Credited amount
			"newBalance":    result.NewBalance,    // Balance after credit
			"transactionId": result.TransactionID, // History row
		})
	}
}

// BalanceHandler returns the caller's wallet balance
func BalanceHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := currentUser(c) // Get userID from context
		if !exists {
			return
		}
		balance, err := svc.Balance(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "balance")
			return
		}
		respondOK(c, "", gin.H{"balance": balance})
	}
}

// WalletHistoryHandler returns the caller's latest wallet movements
func WalletHistoryHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := currentUser(c) // Get userID from context
		if !exists {
			return
		}
		rows, err := svc.WalletHistory(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "wallet history")
			return
		}
		out := make([]TransactionDTO, len(rows)) // Map to response format
		for i, r := range rows {
			out[i] = toTransaction(r)
		}
		respondOK(c, "", out)
	}
}
