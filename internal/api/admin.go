package api

import (
	"net/http" // HTTP status codes
	"time"     // Date filters

	"game_store/internal/shop" // Business operations

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // Filter ids
)

// DashboardHandler returns store totals for the admin dashboard
func DashboardHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.DashboardStats(c.Request.Context())
		if err != nil {
			respondError(c, err, "dashboard")
			return
		}
		respondOK(c, "", DashboardDTO{
			TotalCustomers: stats.Customers,   // Non-admin accounts
			TotalGames:     stats.Games,       // Catalog size
			TotalPurchases: stats.Purchases,   // Completed checkouts
			TotalCoupons:   stats.Coupons,     // Coupons on file
			TotalRevenue:   stats.Revenue,     // Sum of final prices
			TotalTopups:    stats.TopupVolume, // Sum of wallet credits
		})
	}
}

// ListTransactionsHandler returns all wallet movements, with optional filtering by user, type, or date
func ListTransactionsHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := shop.TransactionFilter{
			Type:     c.Query("type"),              // TOPUP, PURCHASE or REFUND
			Page:     queryInt(c, "page", 1),       // Page number
			PageSize: queryInt(c, "page_size", 20), // Page size
		}
		// Filter by user ID
		if userID := c.Query("user_id"); userID != "" {
			id, err := uuid.Parse(userID)
			if err != nil {
				// If invalid, return bad request
				fail(c, http.StatusBadRequest, "Invalid user_id")
				return
			}
			filter.UserID = id
		}
		// Filter by start and end date
		var err error
		if filter.From, err = parseDate(c.Query("from")); err != nil {
			// If invalid, return bad request
			fail(c, http.StatusBadRequest, "Invalid from date")
			return
		}
		if filter.To, err = parseDate(c.Query("to")); err != nil {
			// If invalid, return bad request
			fail(c, http.StatusBadRequest, "Invalid to date")
			return
		}
		if len(c.Query("to")) == len("2006-01-02") {
			filter.To = filter.To.Add(24*time.Hour - time.Nanosecond) // Whole end day
		}
		page, err := svc.ListTransactions(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err, "list transactions")
			return
		}
		respondOK(c, "", pageOf(page, toTransaction))
	}
}

// ListUsersHandler returns every customer with their wallet history
func ListUsersHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accounts, err := svc.ListCustomers(c.Request.Context())
		if err != nil {
			respondError(c, err, "list users")
			return
		}
		resp := make([]UserTransactionDTO, len(accounts)) // Map accounts to response format
		for i, a := range accounts {
			histories := make([]TransactionDTO, len(a.TransactionHistories))
			for j, h := range a.TransactionHistories {
				histories[j] = toTransaction(h)
			}
			resp[i] = UserTransactionDTO{UserDTO: toUser(a), TransactionHistories: histories}
		}
		respondOK(c, "", resp)
	}
}
