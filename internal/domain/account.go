package domain

import (
	"time" // Timestamps

	"github.com/google/uuid"        // Primary keys
	"github.com/shopspring/decimal" // Wallet amounts
	"gorm.io/gorm"                  // Hooks
)

// Account roles
const (
	RoleUser  = "USER"  // Regular customer
	RoleAdmin = "ADMIN" // Dashboard operator
)

// Account Model
type Account struct {
	ID            uuid.UUID       `gorm:"type:char(36);primaryKey"`              // Primary key
	Username      string          `gorm:"size:50;uniqueIndex;not null"`          // Unique username
	Email         string          `gorm:"size:255;uniqueIndex;not null"`         // Unique email
	PasswordHash  string          `gorm:"type:text;not null"`                    // bcrypt hash
	ProfileImage  *string         `gorm:"size:255"`                              // "/image/<file>" or nil
	Role          string          `gorm:"size:10;not null;default:USER"`         // USER or ADMIN
	WalletBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"` // Prepaid credit, never negative
	CreatedAt     time.Time       // Creation time
	UpdatedAt     time.Time       // Last update time

	TransactionHistories []TransactionHistory `gorm:"foreignKey:UserID"` // Wallet movements
}

// TableName keeps the original schema name
func (Account) TableName() string { return "account" }

// BeforeCreate assigns a random id when none was set
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Role == "" {
		a.Role = RoleUser
	}
	return nil
}

// IsAdmin reports whether the account may use the dashboard
func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// AfterFind normalizes the balance to two decimal places
func (a *Account) AfterFind(tx *gorm.DB) error {
	a.WalletBalance = a.WalletBalance.Round(2)
	return nil
}
