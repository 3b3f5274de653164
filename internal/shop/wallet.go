package shop

import (
	"context"
	"fmt"
	"time"

	"game_store/internal/domain"
	"game_store/internal/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var maxTopup = decimal.NewFromInt(MaxTopup)

// TopupResult reports a completed wallet credit.
type TopupResult struct {
	Amount        decimal.Decimal
	NewBalance    decimal.Decimal
	TransactionID uint
	CreatedAt     time.Time
}

// Topup credits amount to the user's wallet and records a TOPUP movement.
func (s *Service) Topup(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*TopupResult, error) {
	amount = money(amount)
	switch {
	case !amount.IsPositive():
		metrics.RecordTopup(metrics.OutcomeRejected)
		return nil, ErrTopupNotPositive
	case amount.GreaterThan(maxTopup):
		metrics.RecordTopup(metrics.OutcomeRejected)
		return nil, ErrTopupTooLarge
	}

	var result TopupResult
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var account domain.Account
		if err := tx.First(&account, "id = ?", userID).Error; err != nil {
			if isNotFound(err) {
				return ErrAccountNotFound
			}
			return err
		}
		balance := account.WalletBalance.Add(amount)
		if balance.GreaterThan(maxWalletBalance) {
			return ErrWalletLimit
		}
		res := tx.Model(&domain.Account{}).
			Where("id = ? AND wallet_balance <= ?", userID, maxWalletBalance.Sub(amount)).
			Updates(map[string]any{
				"wallet_balance": gorm.Expr("wallet_balance + ?", amount),
				"updated_at":     s.now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrWalletLimit
		}
		history := domain.TransactionHistory{
			UserID: userID,
			Type:   domain.TransactionTopup,
			Amount: amount,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}
		var updated domain.Account
		if err := tx.Select("wallet_balance").First(&updated, "id = ?", userID).Error; err != nil {
			return err
		}
		result = TopupResult{
			Amount:        amount,
			NewBalance:    updated.WalletBalance,
			TransactionID: history.ID,
			CreatedAt:     history.CreatedAt,
		}
		return nil
	})
	if err != nil {
		fields := logrus.Fields{"user_id": userID, "amount": amount.StringFixed(2), "error": err.Error()}
		if _, ok := KindOf(err); ok {
			metrics.RecordTopup(metrics.OutcomeRejected)
			logrus.WithFields(fields).Warn("Topup rejected")
			return nil, err
		}
		metrics.RecordTopup(metrics.OutcomeError)
		logrus.WithFields(fields).Error("Topup failed")
		return nil, fmt.Errorf("topup: %w", err)
	}
	metrics.RecordTopup(metrics.OutcomeSuccess)
	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"amount":         amount.StringFixed(2),
		"new_balance":    result.NewBalance.StringFixed(2),
		"transaction_id": result.TransactionID,
	}).Info("Topup completed")
	return &result, nil
}

// Balance returns the user's wallet balance.
func (s *Service) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	account, err := s.GetAccount(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.WalletBalance, nil
}

// WalletHistory returns the latest wallet movements, newest first.
func (s *Service) WalletHistory(ctx context.Context, userID uuid.UUID) ([]domain.TransactionHistory, error) {
	var rows []domain.TransactionHistory
	err := s.conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(walletHistorySize).
		Find(&rows).Error
	return rows, err
}
