package db

import (
	"time" // Timestamps in UTC

	"game_store/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM logger levels
)

// Open connects to MySQL with the given DSN
func Open(dsn string, verbose bool) (*gorm.DB, error) {
	level := logger.Warn // Only slow queries and errors by default
	if verbose {
		level = logger.Info // Every statement in development
	}
	return gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(level),                // GORM statement logging
		NowFunc: func() time.Time { return time.Now().UTC() }, // Store timestamps in UTC
	})
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return err
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
