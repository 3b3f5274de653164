package shop

import (
	"context"

	"game_store/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CartSummary prices the cart, optionally with a coupon applied.
type CartSummary struct {
	Items      []domain.CartItem
	TotalItems int
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	Total      decimal.Decimal
	Coupon     *CouponQuote
}

func loadCart(tx *gorm.DB, userID uuid.UUID) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := tx.
		Preload("Game").
		Preload("Game.Categories").
		Where("user_id = ?", userID).
		Order("added_at, id").
		Find(&items).Error
	return items, err
}

// Cart returns the user's cart, oldest first.
func (s *Service) Cart(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	return loadCart(s.conn(ctx), userID)
}

// AddToCart puts a game in the cart unless it is already there or owned.
func (s *Service) AddToCart(ctx context.Context, userID, gameID uuid.UUID) (*domain.CartItem, error) {
	if gameID == uuid.Nil {
		return nil, ErrInvalidGameID
	}
	var item domain.CartItem
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var game domain.Game
		if err := tx.First(&game, "id = ?", gameID).Error; err != nil {
			if isNotFound(err) {
				return ErrGameNotFound
			}
			return err
		}
		if inCart, err := exists(tx, &domain.CartItem{}, "user_id = ? AND game_id = ?", userID, gameID); err != nil {
			return err
		} else if inCart {
			return ErrAlreadyInCart
		}
		if owned, err := exists(tx, &domain.UserGame{}, "user_id = ? AND game_id = ?", userID, gameID); err != nil {
			return err
		} else if owned {
			return ErrAlreadyOwned
		}
		item = domain.CartItem{UserID: userID, GameID: gameID}
		if err := tx.Omit("Game").Create(&item).Error; err != nil {
			if isDuplicate(err) {
				return ErrAlreadyInCart
			}
			return err
		}
		item.Game = game
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveFromCart deletes one of the user's cart rows.
func (s *Service) RemoveFromCart(ctx context.Context, userID uuid.UUID, cartItemID uint) error {
	res := s.conn(ctx).Where("id = ? AND user_id = ?", cartItemID, userID).Delete(&domain.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// ClearCart empties the cart and reports how many rows were removed.
func (s *Service) ClearCart(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := s.conn(ctx).Where("user_id = ?", userID).Delete(&domain.CartItem{})
	if res.Error != nil {
		return 0, res.Error
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "removed": res.RowsAffected}).Info("Cart cleared")
	return res.RowsAffected, nil
}

// CartSummary totals the cart. When couponCode is not empty the coupon is
// validated against the subtotal but not redeemed.
func (s *Service) CartSummary(ctx context.Context, userID uuid.UUID, couponCode string) (*CartSummary, error) {
	items, err := loadCart(s.conn(ctx), userID)
	if err != nil {
		return nil, err
	}
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Game.Price)
	}
	summary := &CartSummary{
		Items:      items,
		TotalItems: len(items),
		Subtotal:   money(subtotal),
		Discount:   decimal.Zero,
		Total:      money(subtotal),
	}
	if couponCode != "" {
		quote, err := s.ValidateCoupon(ctx, userID, couponCode, subtotal)
		if err != nil {
			return nil, err
		}
		summary.Coupon = quote
		summary.Discount = quote.AppliedDiscount
		summary.Total = money(subtotal.Sub(quote.AppliedDiscount))
	}
	return summary, nil
}
