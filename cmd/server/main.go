package main

import (
	"context" // context package is needed for Redis operations
	"time"    // Redis ping timeout

	"game_store/internal/api"     // Custom package for API handlers
	"game_store/internal/config"  // Custom package for configuration
	"game_store/internal/db"      // Database connection
	"game_store/internal/shop"    // Business operations
	"game_store/internal/storage" // Uploaded images
	"game_store/internal/utils"   // Token revocation

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode) // Set Mode to Release if in production
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	// Connect to the database
	gdb, err := db.Open(cfg.DSN(), !cfg.IsProd)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client, optional
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err = redisClient.Ping(ctx).Result() // Test Redis connection
		cancel()
		if err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	} else {
		logrus.Warn("REDIS_ADDR not set, using in-process rate limits and token revocation")
	}

	images, err := storage.NewImages(cfg.UploadsDir)
	if err != nil {
		logrus.Fatalf("failed to prepare uploads dir: %v", err)
	}

	r := api.NewRouter(api.Deps{
		Config:  cfg,
		DB:      gdb,
		Redis:   redisClient,
		Shop:    shop.New(gdb),
		Images:  images,
		Revoker: utils.NewTokenRevoker(redisClient),
	})

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.Infof("Server running on %s", cfg.AppPort) // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {  // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}
