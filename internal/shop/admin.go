package shop

import (
	"context"
	"strings"
	"time"

	"game_store/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardStats summarizes the store for the admin dashboard.
type DashboardStats struct {
	Customers   int64
	Games       int64
	Purchases   int64
	Coupons     int64
	Revenue     decimal.Decimal
	TopupVolume decimal.Decimal
}

// TransactionFilter narrows the admin transaction listing. Zero fields
// are ignored.
type TransactionFilter struct {
	UserID   uuid.UUID
	Type     string
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}

// DashboardStats counts customers, games, purchases and coupons and sums
// revenue and topups.
func (s *Service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	db := s.conn(ctx)
	var stats DashboardStats
	counts := []struct {
		model any
		dest  *int64
		where string
	}{
		{&domain.Account{}, &stats.Customers, "role <> 'ADMIN'"},
		{&domain.Game{}, &stats.Games, ""},
		{&domain.Purchase{}, &stats.Purchases, ""},
		{&domain.DiscountCode{}, &stats.Coupons, ""},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	var err error
	if stats.Revenue, err = sum(db.Model(&domain.Purchase{}), "final_price"); err != nil {
		return nil, err
	}
	topups := db.Model(&domain.TransactionHistory{}).Where("type = ?", domain.TransactionTopup)
	if stats.TopupVolume, err = sum(topups, "amount"); err != nil {
		return nil, err
	}
	return &stats, nil
}

func sum(q *gorm.DB, column string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := q.Select("SUM(" + column + ")").Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return money(total.Decimal), nil
}

// ListTransactions pages through every wallet movement, newest first.
func (s *Service) ListTransactions(ctx context.Context, f TransactionFilter) (Page[domain.TransactionHistory], error) {
	page, size := normalizePage(f.Page, f.PageSize, 20)
	query := s.conn(ctx).Model(&domain.TransactionHistory{})
	if f.UserID != uuid.Nil {
		query = query.Where("user_id = ?", f.UserID)
	}
	if t := strings.ToUpper(strings.TrimSpace(f.Type)); t != "" {
		query = query.Where("type = ?", t)
	}
	if !f.From.IsZero() {
		query = query.Where("created_at >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		query = query.Where("created_at <= ?", f.To.UTC())
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return Page[domain.TransactionHistory]{}, err
	}
	var rows []domain.TransactionHistory
	if err := query.Order("created_at DESC, id DESC").Offset((page - 1) * size).Limit(size).Find(&rows).Error; err != nil {
		return Page[domain.TransactionHistory]{}, err
	}
	return newPage(rows, total, page, size), nil
}

// logActivity appends an admin audit row inside the caller's transaction.
func logActivity(tx *gorm.DB, adminID uuid.UUID, action string, targetID uuid.UUID, table, description string) error {
	if adminID == uuid.Nil {
		return nil
	}
	return tx.Create(&domain.AdminActivityLog{
		AdminID:     adminID,
		ActionType:  action,
		TargetID:    &targetID,
		TargetTable: table,
		Description: description,
	}).Error
}
