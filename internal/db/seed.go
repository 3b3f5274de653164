package db

import (
	"errors"  // Error matching
	"strings" // Case folding

	"game_store/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Starting balance
	"github.com/sirupsen/logrus"    // Logging library
	"golang.org/x/crypto/bcrypt"    // Password hashing
	"gorm.io/gorm"                  // GORM ORM library
	"gorm.io/gorm/clause"           // ON CONFLICT clauses
)

// DefaultCategories are created on first migration.
var DefaultCategories = []string{
	"Action",
	"Adventure",
	"RPG",
	"Strategy",
	"Simulation",
	"Sports",
	"Racing",
	"Puzzle",
	"Horror",
	"Indie",
}

// AdminSeed describes the dashboard account created by Seed.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// Seed inserts default categories and, when given, an admin account.
// Running it twice changes nothing.
func Seed(db *gorm.DB, admin *AdminSeed) error {
	categories := make([]domain.Category, 0, len(DefaultCategories))
	for _, name := range DefaultCategories {
		categories = append(categories, domain.Category{Name: name})
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&categories) // Existing names are skipped
	if res.Error != nil {
		return res.Error
	}
	logrus.WithField("inserted", res.RowsAffected).Info("Categories seeded")

	if admin == nil {
		return nil
	}
	return seedAdmin(db, *admin)
}

func seedAdmin(db *gorm.DB, admin AdminSeed) error {
	var existing domain.Account // Admin from an earlier run
	err := db.Where("username = ?", strings.ToLower(admin.Username)).First(&existing).Error
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			return db.Model(&existing).Update("role", domain.RoleAdmin).Error
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost) // Hash the password
	if err != nil {
		return err
	}
	account := domain.Account{
		Username:      strings.ToLower(admin.Username),
		Email:         strings.ToLower(admin.Email),
		PasswordHash:  string(hash),
		Role:          domain.RoleAdmin,
		WalletBalance: decimal.Zero,
	}
	if err := db.Create(&account).Error; err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"admin_id": account.ID,
		"username": account.Username,
	}).Info("Admin account seeded")
	return nil
}
