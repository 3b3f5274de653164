package domain

import (
	"time" // Release dates

	"github.com/google/uuid"        // Primary keys
	"github.com/shopspring/decimal" // Prices
	"gorm.io/gorm"                  // Hooks
)

// Category Model
type Category struct {
	ID   int    `gorm:"primaryKey"`                    // Primary key
	Name string `gorm:"size:100;uniqueIndex;not null"` // Display name
}

// TableName keeps the original schema name
func (Category) TableName() string { return "game_category" }

// Game Model
type Game struct {
	ID          uuid.UUID       `gorm:"type:char(36);primaryKey"`      // Primary key
	Title       string          `gorm:"size:255;not null"`             // Display title
	Description string          `gorm:"type:text"`                     // Store page text
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`   // Price in baht
	ReleaseDate time.Time       `gorm:"index"`                         // Release date
	ImageURL    string          `gorm:"column:image_url;size:255"`     // "/image/<file>" or external URL
	Categories  []Category      `gorm:"many2many:game_category_link;"` // Linked categories
}

// TableName keeps the original schema name
func (Game) TableName() string { return "game" }

// BeforeCreate assigns a random id when none was set
func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// AfterFind normalizes the price to two decimal places
func (g *Game) AfterFind(tx *gorm.DB) error {
	g.Price = g.Price.Round(2)
	return nil
}
