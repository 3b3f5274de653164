package shop

import (
	"testing"
	"time"

	"game_store/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGame(t *testing.T) {
	svc, gdb := newTestService(t)
	admin := createAccount(t, gdb, "admin", "0")

	game, err := svc.CreateGame(ctx, admin.ID, GameInput{
		Title:       "  Hollow Knight ",
		Price:       dec("199.999"),
		CategoryIDs: []int{1, 3, 3},
		ImageURL:    "/image/hk.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hollow Knight", game.Title)
	assert.Equal(t, "200.00", game.Price.StringFixed(2))
	assert.Len(t, game.Categories, 2)
	assert.False(t, game.ReleaseDate.IsZero())
	assert.Equal(t, int64(1), count(t, gdb, &domain.AdminActivityLog{}, "action_type = ?", "CREATE_GAME"))

	_, err = svc.CreateGame(ctx, admin.ID, GameInput{Title: "X", Price: dec("10"), CategoryIDs: []int{999}})
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = svc.CreateGame(ctx, admin.ID, GameInput{Title: "X", Price: dec("0.001")})
	assert.ErrorIs(t, err, ErrGamePriceTooLow)

	_, err = svc.CreateGame(ctx, admin.ID, GameInput{Title: " ", Price: dec("10")})
	assert.ErrorIs(t, err, ErrGameTitleRequired)
}

func TestUpdateGame(t *testing.T) {
	svc, gdb := newTestService(t)
	admin := createAccount(t, gdb, "admin", "0")
	game, err := svc.CreateGame(ctx, admin.ID, GameInput{Title: "Celeste", Price: dec("150"), CategoryIDs: []int{1}, ImageURL: "/image/a.png"})
	require.NoError(t, err)

	updated, replaced, err := svc.UpdateGame(ctx, admin.ID, game.ID, GameInput{
		Title:       "Celeste DX",
		Price:       dec("120"),
		CategoryIDs: []int{2, 8},
		ImageURL:    "/image/b.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Celeste DX", updated.Title)
	assert.Equal(t, "120.00", updated.Price.StringFixed(2))
	assert.Equal(t, "/image/b.png", updated.ImageURL)
	assert.Equal(t, "/image/a.png", replaced)
	require.Len(t, updated.Categories, 2)
	assert.Equal(t, game.ReleaseDate.Unix(), updated.ReleaseDate.Unix())

	_, _, err = svc.UpdateGame(ctx, admin.ID, uuid.New(), GameInput{Title: "x", Price: dec("1")})
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestDeleteGame(t *testing.T) {
	svc, gdb := newTestService(t)
	admin := createAccount(t, gdb, "admin", "0")
	user := createAccount(t, gdb, "user", "0")
	game, err := svc.CreateGame(ctx, admin.ID, GameInput{Title: "Doomed", Price: dec("10"), CategoryIDs: []int{1}})
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, user.ID, game.ID)
	require.NoError(t, err)

	deleted, err := svc.DeleteGame(ctx, admin.ID, game.ID)
	require.NoError(t, err)
	assert.Equal(t, game.ID, deleted.ID)
	assert.Zero(t, count(t, gdb, &domain.CartItem{}, ""))
	assert.Zero(t, count(t, gdb, &domain.Game{}, ""))

	_, err = svc.DeleteGame(ctx, admin.ID, game.ID)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestDeleteOwnedGameIsRejected(t *testing.T) {
	svc, gdb := newTestService(t)
	admin := createAccount(t, gdb, "admin", "0")
	game := createGame(t, gdb, "Kept", "10")
	require.NoError(t, gdb.Create(&domain.UserGame{UserID: admin.ID, GameID: game.ID}).Error)

	_, err := svc.DeleteGame(ctx, admin.ID, game.ID)
	assert.ErrorIs(t, err, ErrGameHasOwners)
	assert.Equal(t, int64(1), count(t, gdb, &domain.Game{}, ""))
}

func TestListAndSearchGames(t *testing.T) {
	svc, gdb := newTestService(t)
	admin := createAccount(t, gdb, "admin", "0")
	_, err := svc.CreateGame(ctx, admin.ID, GameInput{Title: "Old Racer", Price: dec("10"), CategoryIDs: []int{7}, ReleaseDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	_, err = svc.CreateGame(ctx, admin.ID, GameInput{Title: "New Quest", Description: "a 100% racing-free RPG", Price: dec("20"), CategoryIDs: []int{3}, ReleaseDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	all, err := svc.ListGames(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "New Quest", all[0].Title)

	racing, err := svc.ListGames(ctx, 7)
	require.NoError(t, err)
	require.Len(t, racing, 1)
	assert.Equal(t, "Old Racer", racing[0].Title)
	require.Len(t, racing[0].Categories, 1)

	found, err := svc.SearchGames(ctx, "RAC")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = svc.SearchGames(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "New Quest", found[0].Title)

	_, err = svc.SearchGames(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptySearch)

	latest, err := svc.LatestGame(ctx)
	require.NoError(t, err)
	assert.Equal(t, "New Quest", latest.Title)

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 10)
}

func TestLatestGameOnEmptyCatalog(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.LatestGame(ctx)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestTopSellers(t *testing.T) {
	svc, gdb := newTestService(t)
	popular := createGame(t, gdb, "Popular", "10")
	niche := createGame(t, gdb, "Niche", "10")
	createGame(t, gdb, "Unsold", "10")

	for i := 0; i < 3; i++ {
		buyer := createAccount(t, gdb, "buyer"+string(rune('a'+i)), "100")
		_, err := svc.AddToCart(ctx, buyer.ID, popular.ID)
		require.NoError(t, err)
		if i == 0 {
			_, err = svc.AddToCart(ctx, buyer.ID, niche.ID)
			require.NoError(t, err)
		}
		_, err = svc.Checkout(ctx, buyer.ID, "")
		require.NoError(t, err)
	}

	top, err := svc.TopSellers(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Popular", top[0].Game.Title)
	assert.Equal(t, int64(3), top[0].Sold)
	assert.Equal(t, int64(1), top[1].Sold)
}
