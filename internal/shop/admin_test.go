package shop

import (
	"testing"
	"time"

	"game_store/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	svc, gdb := newTestService(t)

	stats, err := svc.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Customers)
	assert.True(t, stats.Revenue.IsZero())

	admin := createAccount(t, gdb, "admin", "0")
	require.NoError(t, gdb.Model(&admin).Update("role", domain.RoleAdmin).Error)
	user := createAccount(t, gdb, "user", "0")
	createCoupon(t, gdb, "C1", "5", 1)
	game := createGame(t, gdb, "Game", "40.50")
	_, err = svc.Topup(ctx, user.ID, dec("100"))
	require.NoError(t, err)
	fillCart(t, svc, user.ID, game)
	_, err = svc.Checkout(ctx, user.ID, "C1")
	require.NoError(t, err)

	stats, err = svc.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Customers)
	assert.Equal(t, int64(1), stats.Games)
	assert.Equal(t, int64(1), stats.Purchases)
	assert.Equal(t, int64(1), stats.Coupons)
	assert.Equal(t, "35.50", stats.Revenue.StringFixed(2))
	assert.Equal(t, "100.00", stats.TopupVolume.StringFixed(2))
}

func TestListTransactions(t *testing.T) {
	svc, gdb := newTestService(t)
	alice := createAccount(t, gdb, "alice", "0")
	bob := createAccount(t, gdb, "bob", "0")
	for i := 0; i < 3; i++ {
		_, err := svc.Topup(ctx, alice.ID, dec("10"))
		require.NoError(t, err)
	}
	_, err := svc.Topup(ctx, bob.ID, dec("10"))
	require.NoError(t, err)
	game := createGame(t, gdb, "Game", "5")
	fillCart(t, svc, bob.ID, game)
	_, err = svc.Checkout(ctx, bob.ID, "")
	require.NoError(t, err)

	page, err := svc.ListTransactions(ctx, TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 20, page.PageSize)

	page, err = svc.ListTransactions(ctx, TransactionFilter{UserID: alice.ID, Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)

	page, err = svc.ListTransactions(ctx, TransactionFilter{Type: "purchase"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, bob.ID, page.Items[0].UserID)

	page, err = svc.ListTransactions(ctx, TransactionFilter{From: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	page, err = svc.ListTransactions(ctx, TransactionFilter{To: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
}
