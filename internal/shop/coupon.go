package shop

import (
	"context"
	"strings"

	"game_store/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CouponQuote is the discount a coupon would give on a given total.
type CouponQuote struct {
	CouponID        uuid.UUID
	Code            string
	DiscountValue   decimal.Decimal
	AppliedDiscount decimal.Decimal
	Description     *string
}

// CouponInput is the admin form for a coupon.
type CouponInput struct {
	Code          string
	Description   *string
	DiscountValue decimal.Decimal
	MaxUsage      int
}

// quoteCoupon loads the code and checks that userID may redeem it against
// total. It never writes.
func quoteCoupon(tx *gorm.DB, userID uuid.UUID, code string, total decimal.Decimal) (*domain.DiscountCode, *CouponQuote, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil, ErrCouponCodeRequired
	}
	if total.IsNegative() {
		return nil, nil, ErrInvalidAmount
	}
	var coupon domain.DiscountCode
	if err := tx.Where("code = ?", code).First(&coupon).Error; err != nil {
		if isNotFound(err) {
			return nil, nil, ErrCouponNotFound
		}
		return nil, nil, err
	}
	if coupon.Exhausted() {
		return nil, nil, ErrCouponExhausted
	}
	if used, err := exists(tx, &domain.DiscountUsage{}, "discount_id = ? AND user_id = ?", coupon.ID, userID); err != nil {
		return nil, nil, err
	} else if used {
		return nil, nil, ErrCouponAlreadyUsed
	}
	applied := decimal.Min(coupon.DiscountValue, total)
	return &coupon, &CouponQuote{
		CouponID:        coupon.ID,
		Code:            coupon.Code,
		DiscountValue:   coupon.DiscountValue,
		AppliedDiscount: money(applied),
		Description:     coupon.Description,
	}, nil
}

// ValidateCoupon previews a coupon for userID on totalAmount.
func (s *Service) ValidateCoupon(ctx context.Context, userID uuid.UUID, code string, totalAmount decimal.Decimal) (*CouponQuote, error) {
	_, quote, err := quoteCoupon(s.conn(ctx), userID, code, totalAmount)
	return quote, err
}

// ListCoupons returns every coupon, newest first.
func (s *Service) ListCoupons(ctx context.Context) ([]domain.DiscountCode, error) {
	var coupons []domain.DiscountCode
	err := s.conn(ctx).Order("created_at DESC").Find(&coupons).Error
	return coupons, err
}

// GetCoupon loads a coupon by id.
func (s *Service) GetCoupon(ctx context.Context, id uuid.UUID) (*domain.DiscountCode, error) {
	var coupon domain.DiscountCode
	if err := s.conn(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrCouponMissing
		}
		return nil, err
	}
	return &coupon, nil
}

func (in CouponInput) validate() error {
	if strings.TrimSpace(in.Code) == "" {
		return ErrCouponCodeRequired
	}
	if !in.DiscountValue.IsPositive() {
		return ErrCouponValue
	}
	if in.MaxUsage < 1 {
		return ErrCouponMaxUsage
	}
	return nil
}

// CreateCoupon adds a coupon with no redemptions.
func (s *Service) CreateCoupon(ctx context.Context, adminID uuid.UUID, in CouponInput) (*domain.DiscountCode, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	coupon := domain.DiscountCode{
		Code:          strings.TrimSpace(in.Code),
		Description:   in.Description,
		DiscountValue: money(in.DiscountValue),
		MaxUsage:      in.MaxUsage,
	}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if taken, err := exists(tx, &domain.DiscountCode{}, "code = ?", coupon.Code); err != nil {
			return err
		} else if taken {
			return ErrCouponCodeTaken
		}
		if err := tx.Create(&coupon).Error; err != nil {
			if isDuplicate(err) {
				return ErrCouponCodeTaken
			}
			return err
		}
		return logActivity(tx, adminID, "CREATE_COUPON", coupon.ID, "discount_code", coupon.Code)
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"admin_id": adminID, "coupon_id": coupon.ID, "code": coupon.Code}).Info("Coupon created")
	return &coupon, nil
}

// UpdateCoupon edits a coupon. MaxUsage may not drop below UsedCount.
func (s *Service) UpdateCoupon(ctx context.Context, adminID, id uuid.UUID, in CouponInput) (*domain.DiscountCode, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var coupon domain.DiscountCode
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&coupon, "id = ?", id).Error; err != nil {
			if isNotFound(err) {
				return ErrCouponMissing
			}
			return err
		}
		code := strings.TrimSpace(in.Code)
		if taken, err := exists(tx, &domain.DiscountCode{}, "code = ? AND id <> ?", code, id); err != nil {
			return err
		} else if taken {
			return ErrCouponCodeTaken
		}
		if in.MaxUsage < coupon.UsedCount {
			return ErrCouponBelowUsed
		}
		err := tx.Model(&coupon).Updates(map[string]any{
			"code":           code,
			"description":    in.Description,
			"discount_value": money(in.DiscountValue),
			"max_usage":      in.MaxUsage,
		}).Error
		if err != nil {
			if isDuplicate(err) {
				return ErrCouponCodeTaken
			}
			return err
		}
		if err := tx.First(&coupon, "id = ?", id).Error; err != nil {
			return err
		}
		return logActivity(tx, adminID, "UPDATE_COUPON", coupon.ID, "discount_code", coupon.Code)
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"admin_id": adminID, "coupon_id": id}).Info("Coupon updated")
	return &coupon, nil
}

// DeleteCoupon removes a coupon and its redemption rows. Purchases that
// used it keep their prices but lose the reference.
func (s *Service) DeleteCoupon(ctx context.Context, adminID, id uuid.UUID) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var coupon domain.DiscountCode
		if err := tx.First(&coupon, "id = ?", id).Error; err != nil {
			if isNotFound(err) {
				return ErrCouponMissing
			}
			return err
		}
		if err := tx.Where("discount_id = ?", id).Delete(&domain.DiscountUsage{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Purchase{}).Where("discount_id = ?", id).Update("discount_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&coupon).Error; err != nil {
			return err
		}
		return logActivity(tx, adminID, "DELETE_COUPON", coupon.ID, "discount_code", coupon.Code)
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"admin_id": adminID, "coupon_id": id}).Info("Coupon deleted")
	return nil
}
