package domain

import (
	"time" // Timestamps

	"github.com/google/uuid"        // Primary keys
	"github.com/shopspring/decimal" // Discount amounts
	"gorm.io/gorm"                  // Hooks
)

// DiscountCode Model, a shared coupon with a global usage cap
type DiscountCode struct {
	ID            uuid.UUID       `gorm:"type:char(36);primaryKey"`     // Primary key
	Code          string          `gorm:"size:50;uniqueIndex;not null"` // Code typed by customers
	Description   *string         `gorm:"size:255"`                     // Optional label
	DiscountValue decimal.Decimal `gorm:"type:decimal(12,2);not null"`  // Baht off the total
	MaxUsage      int             `gorm:"not null"`                     // Redemption cap
	UsedCount     int             `gorm:"not null;default:0"`           // Redemptions so far, never above MaxUsage
	CreatedAt     time.Time       // Timestamp of creation
}

// TableName keeps the original schema name
func (DiscountCode) TableName() string { return "discount_code" }

// BeforeCreate assigns a random id when none was set
func (d *DiscountCode) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// AfterFind normalizes the value to two decimal places
func (d *DiscountCode) AfterFind(tx *gorm.DB) error {
	d.DiscountValue = d.DiscountValue.Round(2)
	return nil
}

// Remaining is the number of redemptions left
func (d DiscountCode) Remaining() int {
	if d.UsedCount >= d.MaxUsage {
		return 0
	}
	return d.MaxUsage - d.UsedCount
}

// Exhausted reports whether the cap has been reached
func (d DiscountCode) Exhausted() bool {
	return d.Remaining() == 0
}

// DiscountUsage Model, a code redeemed by a user
type DiscountUsage struct {
	ID         uint      `gorm:"primaryKey"`                                                                  // Primary key
	DiscountID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_usage_discount_user,priority:1"`       // Redeemed code
	UserID     uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_usage_discount_user,priority:2;index"` // Redeeming user
	UsedAt     time.Time `gorm:"autoCreateTime"`                                                              // Redemption time
}

// TableName keeps the original schema name
func (DiscountUsage) TableName() string { return "discount_usage" }
