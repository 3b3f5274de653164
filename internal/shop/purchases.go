package shop

import (
	"context"
	"time"

	"game_store/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedGame is a library entry.
type OwnedGame struct {
	Game    domain.Game
	OwnedAt time.Time
}

// PurchaseHistory pages through the user's purchases, newest first.
func (s *Service) PurchaseHistory(ctx context.Context, userID uuid.UUID, page, size int) (Page[domain.Purchase], error) {
	page, size = normalizePage(page, size, 10)
	query := s.conn(ctx).Model(&domain.Purchase{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return Page[domain.Purchase]{}, err
	}
	var purchases []domain.Purchase
	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Game").
		Order("purchased_at DESC, id").
		Offset((page - 1) * size).
		Limit(size).
		Find(&purchases).Error
	if err != nil {
		return Page[domain.Purchase]{}, err
	}
	return newPage(purchases, total, page, size), nil
}

// OwnedGames pages through the user's library, most recently acquired first.
func (s *Service) OwnedGames(ctx context.Context, userID uuid.UUID, page, size int) (Page[OwnedGame], error) {
	page, size = normalizePage(page, size, 20)
	query := s.conn(ctx).Model(&domain.UserGame{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return Page[OwnedGame]{}, err
	}
	var rows []domain.UserGame
	err := query.
		Preload("Game").
		Preload("Game.Categories").
		Order("owned_at DESC, id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&rows).Error
	if err != nil {
		return Page[OwnedGame]{}, err
	}
	games := make([]OwnedGame, len(rows))
	for i, r := range rows {
		games[i] = OwnedGame{Game: r.Game, OwnedAt: r.OwnedAt}
	}
	return newPage(games, total, page, size), nil
}

// OwnsGame reports whether the user has bought gameID.
func (s *Service) OwnsGame(ctx context.Context, userID, gameID uuid.UUID) (bool, error) {
	if gameID == uuid.Nil {
		return false, ErrInvalidGameID
	}
	return exists(s.conn(ctx), &domain.UserGame{}, "user_id = ? AND game_id = ?", userID, gameID)
}
