// Package shop implements the storefront operations on top of gorm.
// Every operation that writes runs inside a single database transaction.
package shop

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// MaxTopup is the largest single wallet credit.
	MaxTopup = 100000
	// MaxWalletBalance caps the stored balance at the column precision.
	MaxWalletBalance = "999999999.99"
	// MinGamePrice is the cheapest price a game may be listed or sold at.
	MinGamePrice = "0.01"

	maxPageSize       = 100
	walletHistorySize = 50
)

var (
	maxWalletBalance = decimal.RequireFromString(MaxWalletBalance)
	minGamePrice     = decimal.RequireFromString(MinGamePrice)
)

// Service runs storefront operations against one database.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// New returns a Service backed by db.
func New(db *gorm.DB) *Service {
	return &Service{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items      []T
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

func newPage[T any](items []T, total int64, page, size int) Page[T] {
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}
}

// normalizePage clamps page to >= 1 and falls back to def for sizes
// outside 1..100.
func normalizePage(page, size, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > maxPageSize {
		size = def
	}
	return page, size
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
