package main

import (
	"game_store/internal/config" // Custom import path (Config)
	"game_store/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	gdb, err := db.Open(cfg.DSN(), true)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}

	var admin *db.AdminSeed // Seed admin only when fully configured
	if cfg.HasAdminSeed() {
		admin = &db.AdminSeed{Username: cfg.AdminUsername, Email: cfg.AdminEmail, Password: cfg.AdminPassword}
	}
	if err := db.Seed(gdb, admin); err != nil {
		logrus.Fatalf("seeding failed: %v", err)
	}
	logrus.Info("Migration completed")
}
