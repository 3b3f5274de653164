package shop

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"game_store/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,50}$`)

// SignupInput is the data needed to open an account.
type SignupInput struct {
	Username     string
	Email        string
	Password     string
	ProfileImage *string
}

// ProfileInput changes an account. Nil fields are left untouched.
type ProfileInput struct {
	Username     *string
	Email        *string
	Password     *string
	ProfileImage *string
}

func validPassword(p string) bool {
	return len(p) >= 8 && len(p) <= 72
}

func normalizeEmail(email string) (string, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", false
	}
	return email, true
}

// Signup creates a USER account with an empty wallet.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.Account, error) {
	username := strings.TrimSpace(in.Username)
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	email, ok := normalizeEmail(in.Email)
	if !ok {
		return nil, ErrInvalidEmail
	}
	if !validPassword(in.Password) {
		return nil, ErrInvalidPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := domain.Account{
		Username:      username,
		Email:         email,
		PasswordHash:  string(hash),
		ProfileImage:  in.ProfileImage,
		Role:          domain.RoleUser,
		WalletBalance: decimal.Zero,
	}
	err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if taken, err := exists(tx, &domain.Account{}, "username = ?", username); err != nil {
			return err
		} else if taken {
			return ErrUsernameTaken
		}
		if taken, err := exists(tx, &domain.Account{}, "email = ?", email); err != nil {
			return err
		} else if taken {
			return ErrEmailTaken
		}
		if err := tx.Create(&account).Error; err != nil {
			// A concurrent signup can still win the race past the checks above
			switch {
			case duplicateOn(err, "email"):
				return ErrEmailTaken
			case isDuplicate(err):
				return ErrUsernameTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  account.ID,
		"username": account.Username,
	}).Info("Account created")
	return &account, nil
}

// Authenticate checks a password against the account found by username,
// or by email when the identifier contains "@".
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (*domain.Account, error) {
	identifier = strings.TrimSpace(identifier)
	byEmail := strings.Contains(identifier, "@")
	query := s.conn(ctx)
	if byEmail {
		query = query.Where("email = ?", strings.ToLower(identifier))
	} else {
		query = query.Where("username = ?", identifier)
	}
	var account domain.Account
	if err := query.First(&account).Error; err != nil {
		if isNotFound(err) {
			return nil, invalidCredentials(byEmail)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, invalidCredentials(byEmail)
	}
	return &account, nil
}

// CheckAvailability reports whether a username or email is still free.
func (s *Service) CheckAvailability(ctx context.Context, field, value string) (bool, error) {
	value = strings.TrimSpace(value)
	var column string
	switch strings.ToLower(field) {
	case "username":
		column = "username"
	case "email":
		column = "email"
		value = strings.ToLower(value)
	default:
		return false, ErrInvalidCheckType
	}
	taken, err := exists(s.conn(ctx), &domain.Account{}, column+" = ?", value)
	return !taken, err
}

// GetAccount loads an account by id.
func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var account domain.Account
	if err := s.conn(ctx).First(&account, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// UpdateProfile applies the non-nil fields of in and returns the updated
// account together with the profile image it replaced, if any.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (*domain.Account, string, error) {
	var account domain.Account
	var replaced string
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&account, "id = ?", id).Error; err != nil {
			if isNotFound(err) {
				return ErrAccountNotFound
			}
			return err
		}
		updates := map[string]any{"updated_at": s.now()}
		if in.Username != nil && strings.TrimSpace(*in.Username) != "" {
			username := strings.TrimSpace(*in.Username)
			if !usernamePattern.MatchString(username) {
				return ErrInvalidUsername
			}
			if taken, err := exists(tx, &domain.Account{}, "username = ? AND id <> ?", username, id); err != nil {
				return err
			} else if taken {
				return newError(KindConflict, "Username is already taken")
			}
			updates["username"] = username
		}
		if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
			email, ok := normalizeEmail(*in.Email)
			if !ok {
				return ErrInvalidEmail
			}
			if taken, err := exists(tx, &domain.Account{}, "email = ? AND id <> ?", email, id); err != nil {
				return err
			} else if taken {
				return newError(KindConflict, "Email is already taken")
			}
			updates["email"] = email
		}
		if in.Password != nil && *in.Password != "" {
			if !validPassword(*in.Password) {
				return ErrInvalidPassword
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			updates["password_hash"] = string(hash)
		}
		if in.ProfileImage != nil {
			if account.ProfileImage != nil {
				replaced = *account.ProfileImage
			}
			updates["profile_image"] = *in.ProfileImage
		}
		if err := tx.Model(&account).Updates(updates).Error; err != nil {
			switch {
			case duplicateOn(err, "email"):
				return newError(KindConflict, "Email is already taken")
			case isDuplicate(err):
				return newError(KindConflict, "Username is already taken")
			}
			return err
		}
		return tx.First(&account, "id = ?", id).Error
	})
	if err != nil {
		return nil, "", err
	}
	return &account, replaced, nil
}

// ListCustomers returns every non-admin account ordered by username,
// each with its wallet history newest first.
func (s *Service) ListCustomers(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	err := s.conn(ctx).
		Where("role <> ?", domain.RoleAdmin).
		Order("username").
		Preload("TransactionHistories", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		Find(&accounts).Error
	return accounts, err
}

func exists(tx *gorm.DB, model any, query string, args ...any) (bool, error) {
	var n int64
	if err := tx.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
