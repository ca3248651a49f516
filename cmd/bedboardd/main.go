package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"bedboard-backend/config"
	"bedboard-backend/internal/api"
	"bedboard-backend/internal/db"
	"bedboard-backend/internal/logger"
	"bedboard-backend/internal/mw"
	"bedboard-backend/internal/refresher"
	"bedboard-backend/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	zl, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "bedboardd")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()
	zl.Info("configuration loaded", zap.String("path", configPath))

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database, zl)
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}
	appStore := store.NewGormStore(gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	responses, closeCache, err := newResponseCache(ctx, cfg)
	if err != nil {
		zl.Fatal("failed to initialize response cache", zap.Error(err))
	}
	defer closeCache()
	zl.Info("response cache ready", zap.String("backend", cfg.Cache.Backend))

	// The first load must succeed; later reloads keep the last good census.
	census := refresher.NewService(&cfg.Census, appStore, responses, zl)
	if _, err := census.RefreshOnce(ctx); err != nil {
		zl.Fatal("failed to load census", zap.Error(err))
	}
	go census.Run(ctx)

	limiter := mw.NewIPRateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	go pruneLimiter(ctx, limiter, zl)

	router := api.NewRouter(appStore, responses, limiter, cfg.Server.CacheTTL, cfg.Census.Location, zl)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		zl.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	zl.Info("shutdown signal received, stopping services")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("HTTP server Shutdown", zap.Error(err))
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}

	zl.Info("server gracefully stopped")
}

func newResponseCache(ctx context.Context, cfg *config.Config) (mw.ResponseCache, func(), error) {
	switch cfg.Cache.Backend {
	case "memory":
		return mw.NewMemoryCache(cfg.Server.CacheTTL, 2*cfg.Server.CacheTTL), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Cache.Redis.Addr, err)
		}
		return mw.NewRedisCache(client, cfg.Cache.Redis.Prefix), func() { client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unsupported cache backend %q", cfg.Cache.Backend)
}

func pruneLimiter(ctx context.Context, limiter *mw.IPRateLimiter, zl *zap.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.Prune(10 * time.Minute); n > 0 {
				zl.Debug("pruned idle rate limit clients", zap.Int("clients", n))
			}
		}
	}
}
