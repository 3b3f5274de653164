package shop

import (
	"testing"

	"game_store/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopup(t *testing.T) {
	svc, gdb := newTestService(t)
	user := createAccount(t, gdb, "user", "10")

	result, err := svc.Topup(ctx, user.ID, dec("250.555"))
	require.NoError(t, err)
	assert.Equal(t, "250.56", result.Amount.StringFixed(2))
	assert.Equal(t, "260.56", result.NewBalance.StringFixed(2))
	assert.NotZero(t, result.TransactionID)

	balance, err := svc.Balance(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "260.56", balance.StringFixed(2))

	var history domain.TransactionHistory
	require.NoError(t, gdb.First(&history, result.TransactionID).Error)
	assert.Equal(t, domain.TransactionTopup, history.Type)
	assert.Equal(t, "250.56", history.Amount.StringFixed(2))
	assert.Equal(t, "เติมเงินเข้ากระเป๋า", history.Describe())
}

func TestTopupLimits(t *testing.T) {
	svc, gdb := newTestService(t)
	user := createAccount(t, gdb, "user", "999999999.00")

	cases := []struct {
		amount string
		want   error
	}{
		{"0", ErrTopupNotPositive},
		{"-5", ErrTopupNotPositive},
		{"100000.01", ErrTopupTooLarge},
		{"1.00", ErrWalletLimit},
	}
	for _, tc := range cases {
		t.Run(tc.amount, func(t *testing.T) {
			_, err := svc.Topup(ctx, user.ID, dec(tc.amount))
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, "999999999.00", balanceOf(t, gdb, user.ID).StringFixed(2))
	assert.Zero(t, count(t, gdb, &domain.TransactionHistory{}, ""))

	result, err := svc.Topup(ctx, user.ID, dec("0.99"))
	require.NoError(t, err)
	assert.Equal(t, "999999999.99", result.NewBalance.StringFixed(2))

	_, err = svc.Topup(ctx, uuid.New(), dec("10"))
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestWalletHistory(t *testing.T) {
	svc, gdb := newTestService(t)
	user := createAccount(t, gdb, "user", "0")
	for i := 1; i <= walletHistorySize+5; i++ {
		_, err := svc.Topup(ctx, user.ID, dec("1"))
		require.NoError(t, err)
	}
	game := createGame(t, gdb, "Game", "5")
	fillCart(t, svc, user.ID, game)
	_, err := svc.Checkout(ctx, user.ID, "")
	require.NoError(t, err)

	rows, err := svc.WalletHistory(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, rows, walletHistorySize)
	assert.Equal(t, domain.TransactionPurchase, rows[0].Type)
	assert.Equal(t, "ซื้อเกม", rows[0].Describe())
	assert.Equal(t, "-5.00", rows[0].Amount.StringFixed(2))
}
