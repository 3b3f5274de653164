package domain

import (
	"time" // Timestamps

	"github.com/google/uuid"        // Primary keys
	"github.com/shopspring/decimal" // Prices
	"gorm.io/gorm"                  // Hooks
)

// Purchase Model, one completed checkout
type Purchase struct {
	ID          uuid.UUID       `gorm:"type:char(36);primaryKey"`     // Primary key
	UserID      uuid.UUID       `gorm:"type:char(36);not null;index"` // Buyer
	DiscountID  *uuid.UUID      `gorm:"type:char(36);index"`          // Redeemed coupon, nil when none
	TotalPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`  // Sum of item prices
	FinalPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`  // Amount debited
	PurchasedAt time.Time       `gorm:"autoCreateTime;index"`         // Checkout time

	Items []PurchaseItem `gorm:"foreignKey:PurchaseID"` // Bought games
}

// TableName keeps the original schema name
func (Purchase) TableName() string { return "purchase" }

// BeforeCreate assigns a random id when none was set
func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// AfterFind normalizes prices to two decimal places
func (p *Purchase) AfterFind(tx *gorm.DB) error {
	p.TotalPrice = p.TotalPrice.Round(2)
	p.FinalPrice = p.FinalPrice.Round(2)
	return nil
}

// Discount returns how much the coupon took off the total
func (p Purchase) Discount() decimal.Decimal {
	return p.TotalPrice.Sub(p.FinalPrice)
}

// PurchaseItem Model, the price paid for a single game
type PurchaseItem struct {
	ID         uint            `gorm:"primaryKey"`                                                                  // Primary key
	PurchaseID uuid.UUID       `gorm:"type:char(36);not null;uniqueIndex:idx_pitem_purchase_game,priority:1"`       // Parent purchase
	GameID     uuid.UUID       `gorm:"type:char(36);not null;uniqueIndex:idx_pitem_purchase_game,priority:2;index"` // Bought game
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null"`                                                 // Price at checkout time

	Game Game `gorm:"foreignKey:GameID"` // Preloaded game
}

// TableName keeps the original schema name
func (PurchaseItem) TableName() string { return "purchase_item" }

// AfterFind normalizes the price to two decimal places
func (i *PurchaseItem) AfterFind(tx *gorm.DB) error {
	i.Price = i.Price.Round(2)
	return nil
}

// UserGame Model, a user owns a game at most once
type UserGame struct {
	ID      uint      `gorm:"primaryKey"`                                                           // Primary key
	UserID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_ug_user_game,priority:1"`       // Owner
	GameID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_ug_user_game,priority:2;index"` // Owned game
	OwnedAt time.Time `gorm:"autoCreateTime"`                                                       // Time ownership was granted

	Game Game `gorm:"foreignKey:GameID"` // Preloaded game
}

// TableName keeps the original schema name
func (UserGame) TableName() string { return "user_game" }
