package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/animechat/backend/internal/auth"
	"github.com/animechat/backend/internal/cache"
	"github.com/animechat/backend/internal/chat"
	"github.com/animechat/backend/internal/config"
	"github.com/animechat/backend/internal/database"
	"github.com/animechat/backend/internal/handlers"
	"github.com/animechat/backend/internal/jikan"
	"github.com/animechat/backend/internal/kernel"
	"github.com/animechat/backend/internal/logger"
	"github.com/animechat/backend/internal/metrics"
	"github.com/animechat/backend/internal/middleware"
	"github.com/animechat/backend/internal/recommend"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := config.Load()

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Log.Info("=== AnimeChat server starting ===",
		zap.String("environment", cfg.Environment),
	)

	metrics.Initialize()

	// Initialize database
	if err := database.Initialize(); err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	if cfg.JWTSecret == "" {
		logger.Log.Fatal("JWT_SECRET environment variable is required")
	}

	k := kernel.New().
		SetLogger(logger.Log).
		SetDB(database.DB)
	k.OnCleanup(func(ctx context.Context) error {
		return database.Close()
	})

	// Redis backs the trending cache; the server runs fine without it
	if cfg.RedisHost != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
		if err != nil {
			logger.Log.Warn("Redis unavailable, trending cache disabled", zap.Error(err))
		} else {
			k.SetCache(redisClient)
			k.OnCleanup(func(ctx context.Context) error {
				return redisClient.Close()
			})
		}
	}

	catalog := jikan.NewClient(
		cfg.JikanBaseURL,
		cfg.CatalogTimeout,
		jikan.BackoffPolicy{
			MaxAttempts: cfg.CatalogAttempts,
			BaseDelay:   cfg.CatalogBackoff,
			Multiplier:  2,
		},
		jikan.RealClock(),
	)
	k.SetCatalog(catalog)

	k.SetAuthService(auth.NewService([]byte(cfg.JWTSecret)))
	k.SetResolver(chat.NewResolver(catalog, cfg.SimilarityThreshold))

	historyStore := recommend.NewGormHistoryStore(database.DB)
	k.SetRecommender(recommend.NewService(
		catalog,
		historyStore,
		recommend.NewProfileBuilder(catalog, cfg.TopGenreCount),
		recommend.NewFetcher(catalog, cfg.FetchWorkers),
		recommend.NewRanker(cfg.EpisodeSlackFactor, cfg.MaxRecommendations),
	))

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.PrometheusMiddleware())

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // Configure properly for production
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	h := handlers.New(k, cfg)
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info("AnimeChat backend listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := k.Cleanup(ctx); err != nil {
		logger.Log.Error("Cleanup failed", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}
