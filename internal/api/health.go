package api

import (
	"context"  // Context for health checks
	"net/http" // HTTP status codes
	"time"     // Dates and timestamps

	"game_store/internal/storage" // Uploaded images

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

const healthTimeout = 2 * time.Second

type check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func status(err error) check {
	if err != nil {
		return check{Status: "unhealthy", Error: err.Error()}
	}
	return check{Status: "healthy"}
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// HelloHandler answers the root path.
func HelloHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondOK(c, "Game Store API", gin.H{"time": time.Now().UTC()})
	}
}

// HealthHandler checks the database, the uploads directory and Redis when
// configured. Degraded dependencies still answer 200 with success=false.
func HealthHandler(db *gorm.DB, images *storage.Images, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		checks := map[string]check{
			"database":          status(pingDB(ctx, db)),
			"uploads_directory": status(images.Healthy()),
		}
		if rdb != nil {
			checks["redis"] = status(rdb.Ping(ctx).Err())
		}
		healthy := true
		for _, ch := range checks {
			healthy = healthy && ch.Status == "healthy"
		}
		overall, message := "healthy", "All systems operational"
		if !healthy {
			overall, message = "degraded", "Some systems are not healthy"
		}
		c.JSON(http.StatusOK, Response{
			Success: healthy,
			Message: message,
			Data:    gin.H{"status": overall, "timestamp": time.Now().UTC(), "checks": checks},
		})
	}
}

// ReadyHandler answers 503 until the database is reachable.
func ReadyHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		if err := pingDB(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "timestamp": time.Now().UTC()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "timestamp": time.Now().UTC()})
	}
}
