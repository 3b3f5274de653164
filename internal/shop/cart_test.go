package shop

import (
	"testing"

	"game_store/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCart(t *testing.T) {
	svc, gdb := newTestService(t)
	user := createAccount(t, gdb, "user", "0")
	game := createGame(t, gdb, "Portal", "99")

	item, err := svc.AddToCart(ctx, user.ID, game.ID)
	require.NoError(t, err)
	assert.Equal(t, "Portal", item.Game.Title)

	_, err = svc.AddToCart(ctx, user.ID, game.ID)
	assert.ErrorIs(t, err, ErrAlreadyInCart)

	_, err = svc.AddToCart(ctx, user.ID, uuid.New())
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, err = svc.AddToCart(ctx, user.ID, uuid.Nil)
	assert.ErrorIs(t, err, ErrInvalidGameID)

	owned := createGame(t, gdb, "Portal 2", "99")
	require.NoError(t, gdb.Create(&domain.UserGame{UserID: user.ID, GameID: owned.ID}).Error)
	_, err = svc.AddToCart(ctx, user.ID, owned.ID)
	assert.ErrorIs(t, err, ErrAlreadyOwned)
}

func TestRemoveAndClearCart(t *testing.T) {
	svc, gdb := newTestService(t)
	user := createAccount(t, gdb, "user", "0")
	other := createAccount(t, gdb, "other", "0")
	a := createGame(t, gdb, "A", "10")
	b := createGame(t, gdb, "B", "20")

	itemA, err := svc.AddToCart(ctx, user.ID, a.ID)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, user.ID, b.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.RemoveFromCart(ctx, other.ID, itemA.ID), ErrCartItemNotFound)
	require.NoError(t, svc.RemoveFromCart(ctx, user.ID, itemA.ID))
	assert.ErrorIs(t, svc.RemoveFromCart(ctx, user.ID, itemA.ID), ErrCartItemNotFound)

	items, err := svc.Cart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "B", items[0].Game.Title)

	removed, err := svc.ClearCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	removed, err = svc.ClearCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestCartSummary(t *testing.T) {
	svc, gdb := newTestService(t)
	user := createAccount(t, gdb, "user", "0")
	a := createGame(t, gdb, "A", "10.50")
	b := createGame(t, gdb, "B", "20.25")
	createCoupon(t, gdb, "SAVE5", "5", 10)
	for _, g := range []domain.Game{a, b} {
		_, err := svc.AddToCart(ctx, user.ID, g.ID)
		require.NoError(t, err)
	}

	summary, err := svc.CartSummary(ctx, user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalItems)
	assert.Equal(t, "30.75", summary.Subtotal.StringFixed(2))
	assert.True(t, summary.Discount.IsZero())
	assert.Equal(t, "30.75", summary.Total.StringFixed(2))
	assert.Nil(t, summary.Coupon)

	summary, err = svc.CartSummary(ctx, user.ID, "SAVE5")
	require.NoError(t, err)
	assert.Equal(t, "5.00", summary.Discount.StringFixed(2))
	assert.Equal(t, "25.75", summary.Total.StringFixed(2))
	require.NotNil(t, summary.Coupon)
	assert.Equal(t, "SAVE5", summary.Coupon.Code)

	_, err = svc.CartSummary(ctx, user.ID, "NOPE")
	assert.ErrorIs(t, err, ErrCouponNotFound)
}
