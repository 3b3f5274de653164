package shop

import (
	"context"
	"testing"
	"time"

	"game_store/internal/db"
	"game_store/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ctx = context.Background()

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard, NowFunc: func() time.Time { return time.Now().UTC() }})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))
	require.NoError(t, db.Seed(gdb, nil))
	return New(gdb), gdb
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createAccount(t *testing.T, gdb *gorm.DB, username, balance string) domain.Account {
	t.Helper()
	account := domain.Account{
		Username:      username,
		Email:         username + "@example.com",
		PasswordHash:  "x",
		WalletBalance: dec(balance),
	}
	require.NoError(t, gdb.Create(&account).Error)
	return account
}

func createGame(t *testing.T, gdb *gorm.DB, title, price string) domain.Game {
	t.Helper()
	game := domain.Game{
		Title:       title,
		Description: title + " description",
		Price:       dec(price),
		ReleaseDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, gdb.Create(&game).Error)
	return game
}

func createCoupon(t *testing.T, gdb *gorm.DB, code, value string, maxUsage int) domain.DiscountCode {
	t.Helper()
	coupon := domain.DiscountCode{Code: code, DiscountValue: dec(value), MaxUsage: maxUsage}
	require.NoError(t, gdb.Create(&coupon).Error)
	return coupon
}

func balanceOf(t *testing.T, gdb *gorm.DB, id uuid.UUID) decimal.Decimal {
	t.Helper()
	var account domain.Account
	require.NoError(t, gdb.First(&account, "id = ?", id).Error)
	return account.WalletBalance
}

func count(t *testing.T, gdb *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := gdb.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	got, ok := KindOf(err)
	require.True(t, ok, "expected a business error, got %v", err)
	require.Equal(t, kind, got, err.Error())
}
