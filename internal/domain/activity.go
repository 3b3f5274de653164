package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // Admin and target ids
)

// AdminActivityLog Model
type AdminActivityLog struct {
	ID          uint       `gorm:"primaryKey"`                   // Primary key
	AdminID     uuid.UUID  `gorm:"type:char(36);not null;index"` // Acting admin
	ActionType  string     `gorm:"size:50;not null"`             // CREATE_GAME, DELETE_COUPON, ...
	TargetID    *uuid.UUID `gorm:"type:char(36)"`                // Affected row
	TargetTable string     `gorm:"size:50"`                      // Table of the affected row
	Description string     `gorm:"size:255"`                     // Human readable summary
	CreatedAt   time.Time  // Timestamp of creation
}

// TableName keeps the original schema name
func (AdminActivityLog) TableName() string { return "admin_activity_log" }

// Models lists every entity managed by migrations
func Models() []any {
	return []any{
		&Account{},            // Users and admins
		&Category{},           // Game categories
		&Game{},               // Catalog
		&CartItem{},           // Pending selections
		&DiscountCode{},       // Coupons
		&DiscountUsage{},      // Coupon redemptions
		&Purchase{},           // Completed checkouts
		&PurchaseItem{},       // Checkout lines
		&UserGame{},           // Ownership
		&TransactionHistory{}, // Wallet ledger
		&AdminActivityLog{},   // Dashboard audit trail
	}
}
