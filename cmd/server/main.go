package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/animeroast-backend/config"
	"github.com/ikkim/animeroast-backend/internal/app/controller"
	"github.com/ikkim/animeroast-backend/internal/app/repository"
	"github.com/ikkim/animeroast-backend/internal/app/service"
	"github.com/ikkim/animeroast-backend/internal/db"
	"github.com/ikkim/animeroast-backend/internal/middleware"
	"github.com/ikkim/animeroast-backend/internal/router"
	"github.com/ikkim/animeroast-backend/internal/storage"
	"github.com/ikkim/animeroast-backend/pkg/ai"
	"github.com/ikkim/animeroast-backend/pkg/anilist"
	"github.com/ikkim/animeroast-backend/pkg/cache"
	"github.com/ikkim/animeroast-backend/pkg/kvstore"
	"github.com/ikkim/animeroast-backend/pkg/logger"
	"github.com/ikkim/animeroast-backend/pkg/ratelimit"
	"github.com/ikkim/animeroast-backend/pkg/redis"
	"github.com/ikkim/animeroast-backend/pkg/util"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Environment() == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: logFormat == "console",
	})

	logger.Info("Starting anime roast backend", map[string]interface{}{
		"environment": cfg.Environment(),
		"port":        cfg.Server.Port,
		"ai_provider": cfg.AI.Provider,
		"log_level":   logLevel,
	})

	// Initialize database
	database, err := db.Initialize(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(database); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Shared key-value store backing the cache and rate limits
	store := newStore(cfg)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close key-value store", err)
		}
	}()

	// Upstream clients
	catalog, err := anilist.NewClient(anilist.Config{
		BaseURL: cfg.AniList.BaseURL,
		Timeout: cfg.AniList.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to create AniList client", err)
	}

	provider, err := ai.NewProvider(ai.Config{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		BaseURL:  cfg.AI.BaseURL,
		Model:    cfg.AI.Model,
		Timeout:  cfg.AI.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to create AI provider", err)
	}

	var snapshots service.SnapshotStorage
	if cfg.S3.Enabled {
		s3Storage, err := storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			logger.Fatal("Failed to initialize S3 storage", err)
		}
		snapshots = s3Storage
	} else {
		logger.Info("S3 disabled, roast shares are stored without snapshots")
	}

	// Initialize repositories
	commentRepo := repository.NewCommentRepository(database)
	shareRepo := repository.NewRoastShareRepository(database)

	// Initialize services
	responseCache := cache.New(store)
	animeService := service.NewAnimeService(catalog, responseCache, cfg.Cache.TTL)
	roastService := service.NewRoastService(catalog, provider, responseCache, service.RoastConfig{
		AITimeout:  cfg.AI.Timeout,
		MaxTokens:  cfg.AI.MaxTokens,
		MaxReviews: cfg.AniList.MaxReviews,
		CacheTTL:   cfg.Cache.TTL,
	})
	commentService := service.NewCommentService(commentRepo, service.NewSpamDetector(commentRepo), cfg.Comment)
	authorService := service.NewAuthorService(cfg.AuthorToken.Secret, cfg.AuthorToken.Expiry, cfg.Comment.MaxAuthorLength)
	shareService := service.NewShareService(shareRepo, snapshots, cfg.Server.PublicBaseURL)

	// Initialize controllers
	animeController := controller.NewAnimeController(animeService)
	roastController := controller.NewRoastController(roastService)
	commentController := controller.NewCommentController(commentService)
	authorController := controller.NewAuthorController(authorService)
	shareController := controller.NewShareController(shareService)

	// Initialize middlewares
	authorMiddleware := middleware.NewAuthorMiddleware(cfg.AuthorToken.Secret)
	rateLimiter := middleware.NewRateLimiter(ratelimit.NewLimiter(store), cfg.RateLimit.Window)
	ipHasher := util.NewIPHasher(cfg.Security.IPHashKey)

	// Setup router
	r := router.NewRouter(
		animeController,
		roastController,
		commentController,
		authorController,
		shareController,
		authorMiddleware,
		rateLimiter,
		ipHasher,
		cfg,
	)
	engine := r.Setup()

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shut down", err)
	}
	logger.Info("Server stopped")
}

// newStore connects to Redis when enabled and falls back to an in-process
// LRU so a single instance still works without it.
func newStore(cfg *config.Config) kvstore.Store {
	if cfg.Redis.Enabled {
		client, err := redis.NewClient(&cfg.Redis)
		if err == nil {
			return kvstore.NewRedisStore(client)
		}
		logger.Warn("Redis unavailable, falling back to in-memory store", map[string]interface{}{
			"error": err.Error(),
		})
	}

	store, err := kvstore.NewMemoryStore(cfg.Cache.MemorySize)
	if err != nil {
		logger.Fatal("Failed to create in-memory store", err)
	}
	return store
}
