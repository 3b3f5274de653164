package domain

import (
	"time" // Timestamps

	"github.com/google/uuid"        // Foreign keys
	"github.com/shopspring/decimal" // Signed amounts
	"gorm.io/gorm"                  // Hooks
)

// Transaction types
const (
	TransactionTopup    = "TOPUP"    // Wallet credit
	TransactionPurchase = "PURCHASE" // Checkout debit
	TransactionRefund   = "REFUND"   // Returned credit
)

// TransactionHistory Model
type TransactionHistory struct {
	ID          uint            `gorm:"primaryKey"`                   // Primary key
	UserID      uuid.UUID       `gorm:"type:char(36);not null;index"` // Owner of the wallet
	Type        string          `gorm:"size:10;not null;index"`       // TOPUP, PURCHASE or REFUND
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`  // Positive for credit, negative for debit
	ReferenceID *uuid.UUID      `gorm:"type:char(36)"`                // Purchase id or topup reference
	CreatedAt   time.Time       `gorm:"index"`                        // Timestamp of creation
}

// TableName keeps the original schema name
func (TransactionHistory) TableName() string { return "transaction_history" }

// Describe returns the customer-facing label of the movement
func (t TransactionHistory) Describe() string {
	switch t.Type {
	case TransactionTopup:
		return "เติมเงินเข้ากระเป๋า"
	case TransactionPurchase:
		return "ซื้อเกม"
	case TransactionRefund:
		return "คืนเงิน"
	default:
		return "รายการอื่นๆ"
	}
}

// AfterFind normalizes the amount to two decimal places
func (t *TransactionHistory) AfterFind(tx *gorm.DB) error {
	t.Amount = t.Amount.Round(2)
	return nil
}
