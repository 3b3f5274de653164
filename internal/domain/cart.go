package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // Foreign keys
)

// CartItem Model, one row per user and game
type CartItem struct {
	ID      uint      `gorm:"primaryKey"`                                                             // Primary key
	UserID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_cart_user_game,priority:1"`       // Cart owner
	GameID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_cart_user_game,priority:2;index"` // Selected game
	AddedAt time.Time `gorm:"autoCreateTime"`                                                         // Time added to the cart

	Game Game `gorm:"foreignKey:GameID"` // Preloaded game
}

// TableName keeps the original schema name
func (CartItem) TableName() string { return "cart_item" }
