package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Noxter68/habit-tracking-sub006/internal/api/handlers"
	"github.com/Noxter68/habit-tracking-sub006/internal/api/middleware"
	"github.com/Noxter68/habit-tracking-sub006/internal/api/routes"
	"github.com/Noxter68/habit-tracking-sub006/internal/domain/groups"
	"github.com/Noxter68/habit-tracking-sub006/internal/domain/habits"
	"github.com/Noxter68/habit-tracking-sub006/internal/domain/quests"
	"github.com/Noxter68/habit-tracking-sub006/internal/infrastructure/cache"
	"github.com/Noxter68/habit-tracking-sub006/internal/infrastructure/persistence/postgres/connection"
	"github.com/Noxter68/habit-tracking-sub006/internal/infrastructure/persistence/postgres/migrations"
	"github.com/Noxter68/habit-tracking-sub006/internal/infrastructure/scheduler"
	"github.com/Noxter68/habit-tracking-sub006/pkg/config"
	"github.com/Noxter68/habit-tracking-sub006/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RequestLoggerMiddleware logs all incoming HTTP requests
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("") // Empty string will make it search in default locations
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Configuration loaded successfully")
	log.Info("Server mode: " + cfg.Server.Mode)

	// Set up Gin
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: cfg.CORS.AllowedMethods,
		AllowHeaders: append(cfg.CORS.AllowedHeaders,
			"Accept-Encoding",
			"Content-Encoding",
			"Content-Type",
			"X-User-ID",
		),
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Encoding",
			"Content-Type",
		},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	metricsMiddleware := middleware.NewMetricsMiddleware()
	router.Use(metricsMiddleware.CollectMetrics())

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Connect to database
	db, err := connection.NewDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if err := migrations.AutoMigrate(db, log.Logger); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize Redis
	redisConfig := cache.NewConfigFromEnv(cfg)
	redisClient, err := cache.NewRedisClient(redisConfig)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	habitsRepo := habits.NewRepository(db)
	groupsRepo := groups.NewRepository(db)
	questsRepo := quests.NewRepository(db)

	// Initialize services
	habitsService := habits.NewService(habitsRepo, redisClient, log.Logger)
	groupsService := groups.NewService(groupsRepo, redisClient, log.Logger, groups.Options{
		SaverWindow:        cfg.Gamification.StreakSaverWindow,
		ExceptionThreshold: cfg.Gamification.ExceptionThreshold,
	})
	questsService := quests.NewService(questsRepo, redisClient, log.Logger)

	// Initialize and start the midnight scheduler
	gamificationScheduler := scheduler.NewScheduler(habitsService, groupsService, log)
	gamificationScheduler.Start()
	log.Info("Gamification scheduler started successfully")

	// Cache middleware
	cacheMiddleware := middleware.NewCacheMiddleware(redisClient, "habits", 5*time.Minute)

	// Initialize handlers
	habitsHandler := handlers.NewHabitsHandler(habitsService)
	groupsHandler := handlers.NewGroupsHandler(groupsService)
	questsHandler := handlers.NewQuestsHandler(questsService)

	// Health check routes (no /api prefix as these are system endpoints)
	routes.SetupHealthRoutes(router, db, redisClient)

	// Habits routes
	habitsRoutes := routes.NewHabitsRoutes(habitsHandler)
	habitsRoutes.RegisterRoutes(router, cacheMiddleware)
	log.Info("Registered habits routes at /api/habits")

	// Group habit routes
	groupsRoutes := routes.NewGroupsRoutes(groupsHandler)
	groupsRoutes.RegisterRoutes(router, cacheMiddleware)
	log.Info("Registered group habit routes at /api/group-habits")

	// Quest routes
	questsRoutes := routes.NewQuestsRoutes(questsHandler)
	questsRoutes.RegisterRoutes(router, cacheMiddleware)
	log.Info("Registered quest routes at /api/quests")

	// Start server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info(fmt.Sprintf("Server starting on port %d", cfg.Server.Port))

		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited properly")
}
