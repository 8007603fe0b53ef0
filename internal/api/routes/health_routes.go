package routes

import (
	"net/http"
	"time"

	"github.com/Noxter68/habit-tracking-sub006/internal/infrastructure/cache"
	"github.com/Noxter68/habit-tracking-sub006/internal/infrastructure/persistence/postgres/connection"
	"github.com/gin-gonic/gin"
)

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status    string    `json:"status" example:"healthy"`
	Timestamp time.Time `json:"timestamp" example:"2025-04-17T02:00:00Z"`
}

// SetupHealthRoutes registers health check endpoints
func SetupHealthRoutes(router *gin.Engine, db *connection.Database, redis *cache.RedisClient) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
		})
	})

	// Readiness checks the database and cache backends.
	router.GET("/health/ready", func(c *gin.Context) {
		sqlDB, err := db.DB.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, HealthResponse{
				Status:    "database unavailable",
				Timestamp: time.Now().UTC(),
			})
			return
		}

		if redis != nil {
			if err := redis.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, HealthResponse{
					Status:    "cache unavailable",
					Timestamp: time.Now().UTC(),
				})
				return
			}
		}

		c.JSON(http.StatusOK, HealthResponse{
			Status:    "ready",
			Timestamp: time.Now().UTC(),
		})
	})
}
