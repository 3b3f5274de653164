package shop

import (
	"context"
	"fmt"

	"game_store/internal/domain"
	"game_store/internal/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReceiptItem is one game line of a completed checkout.
type ReceiptItem struct {
	GameID uuid.UUID
	Title  string
	Price  decimal.Decimal
}

// Receipt describes a completed checkout.
type Receipt struct {
	Purchase   domain.Purchase
	Items      []ReceiptItem
	Discount   decimal.Decimal
	CouponCode string
	NewBalance decimal.Decimal
}

// Checkout buys everything in the user's cart with wallet credit. A non-empty
// couponCode is redeemed in the same transaction. Nothing is written unless
// every step succeeds.
func (s *Service) Checkout(ctx context.Context, userID uuid.UUID, couponCode string) (*Receipt, error) {
	var receipt Receipt
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var cart []domain.CartItem
		if err := tx.Where("user_id = ?", userID).Order("added_at, id").Find(&cart).Error; err != nil {
			return err
		}
		if len(cart) == 0 {
			return ErrEmptyCart
		}

		ids := make([]uuid.UUID, len(cart))
		for i, it := range cart {
			ids[i] = it.GameID
		}
		var games []domain.Game
		if err := tx.Where("id IN ?", ids).Find(&games).Error; err != nil {
			return err
		}
		if len(games) != len(ids) {
			return ErrGamesUnavailable
		}
		byID := make(map[uuid.UUID]domain.Game, len(games))
		for _, g := range games {
			if g.Price.LessThan(minGamePrice) {
				return ErrInvalidPricing
			}
			byID[g.ID] = g
		}

		// Cart games the user already has
		var owned []uuid.UUID
		if err := tx.Model(&domain.UserGame{}).Where("user_id = ? AND game_id IN ?", userID, ids).Pluck("game_id", &owned).Error; err != nil {
			return err
		}
		if len(owned) > 0 {
			titles := make([]string, len(owned))
			for i, id := range owned {
				titles[i] = byID[id].Title
			}
			return ownedGamesError(titles)
		}

		total := decimal.Zero
		for _, it := range cart {
			total = total.Add(byID[it.GameID].Price)
		}
		total = money(total)
		if !total.IsPositive() {
			return ErrInvalidTotal
		}

		final := total
		var coupon *domain.DiscountCode
		if couponCode != "" {
			c, quote, err := quoteCoupon(tx, userID, couponCode, total)
			if err != nil {
				return err
			}
			coupon = c
			receipt.Discount = quote.AppliedDiscount
			receipt.CouponCode = c.Code
			final = money(total.Sub(quote.AppliedDiscount))
		}

		var account domain.Account
		if err := tx.First(&account, "id = ?", userID).Error; err != nil {
			if isNotFound(err) {
				return ErrAccountNotFound
			}
			return err
		}
		if account.WalletBalance.LessThan(final) {
			return ErrInsufficientBalance
		}

		// Conditional debit keeps the balance non-negative under concurrent checkouts
		res := tx.Model(&domain.Account{}).
			Where("id = ? AND wallet_balance >= ?", userID, final).
			Updates(map[string]any{
				"wallet_balance": gorm.Expr("wallet_balance - ?", final),
				"updated_at":     s.now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBalance
		}

		purchase := domain.Purchase{
			UserID:     userID,
			TotalPrice: total,
			FinalPrice: final,
		}
		if coupon != nil {
			res := tx.Model(&domain.DiscountCode{}).
				Where("id = ? AND used_count < max_usage", coupon.ID).
				Update("used_count", gorm.Expr("used_count + 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrCouponExhausted
			}
			usage := domain.DiscountUsage{DiscountID: coupon.ID, UserID: userID}
			if err := tx.Create(&usage).Error; err != nil {
				if isDuplicate(err) {
					return ErrCouponAlreadyUsed
				}
				return err
			}
			purchase.DiscountID = &coupon.ID
		}

		if err := tx.Omit(clause.Associations).Create(&purchase).Error; err != nil {
			return err
		}
		items := make([]domain.PurchaseItem, len(cart))
		grants := make([]domain.UserGame, len(cart))
		receipt.Items = make([]ReceiptItem, len(cart))
		for i, it := range cart {
			g := byID[it.GameID]
			items[i] = domain.PurchaseItem{PurchaseID: purchase.ID, GameID: g.ID, Price: g.Price}
			grants[i] = domain.UserGame{UserID: userID, GameID: g.ID}
			receipt.Items[i] = ReceiptItem{GameID: g.ID, Title: g.Title, Price: g.Price}
		}
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&grants).Error; err != nil {
			if isDuplicate(err) {
				return ErrAlreadyOwned
			}
			return err
		}
		history := domain.TransactionHistory{
			UserID:      userID,
			Type:        domain.TransactionPurchase,
			Amount:      final.Neg(),
			ReferenceID: &purchase.ID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}

		// Balance after the debit, including any concurrent credit
		var updated domain.Account
		if err := tx.Select("wallet_balance").First(&updated, "id = ?", userID).Error; err != nil {
			return err
		}

		purchase.Items = items
		receipt.Purchase = purchase
		receipt.NewBalance = updated.WalletBalance
		return nil
	})
	if err != nil {
		fields := logrus.Fields{"user_id": userID, "coupon": couponCode, "error": err.Error()}
		if _, ok := KindOf(err); ok {
			metrics.RecordCheckout(metrics.OutcomeRejected, 0)
			logrus.WithFields(fields).Warn("Checkout rejected")
			return nil, err
		}
		metrics.RecordCheckout(metrics.OutcomeError, 0)
		logrus.WithFields(fields).Error("Checkout failed")
		return nil, fmt.Errorf("checkout: %w", err)
	}

	metrics.RecordCheckout(metrics.OutcomeSuccess, receipt.Purchase.FinalPrice.InexactFloat64())
	logrus.WithFields(logrus.Fields{
		"user_id":     userID,
		"purchase_id": receipt.Purchase.ID,
		"items":       len(receipt.Items),
		"total":       receipt.Purchase.TotalPrice.StringFixed(2),
		"final":       receipt.Purchase.FinalPrice.StringFixed(2),
		"coupon":      receipt.CouponCode,
	}).Info("Checkout completed")
	return &receipt, nil
}
