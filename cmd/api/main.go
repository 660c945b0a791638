package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/htmlpage/engine/docs"
	"github.com/htmlpage/engine/internal/api"
	"github.com/htmlpage/engine/internal/api/handlers"
	"github.com/htmlpage/engine/internal/api/middleware"
	"github.com/htmlpage/engine/internal/cache"
	"github.com/htmlpage/engine/internal/cors"
	"github.com/htmlpage/engine/internal/repository"
	"github.com/htmlpage/engine/internal/services"
	"github.com/htmlpage/engine/pkg/config"
	"github.com/htmlpage/engine/pkg/database"
	"github.com/htmlpage/engine/pkg/logger"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting htmlpage REST engine",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
		zap.Bool("cors_enabled", cfg.CORSEnabled),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL, log, database.Options{
		Verbose: cfg.AppEnv == "development" || cfg.AppEnv == "test",
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		// the cache degrades to direct store reads
		log.Warn("redis not reachable at startup", zap.Error(err))
	}

	queue := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer queue.Close()

	jwtSecret := []byte(cfg.JWTSecret)
	if len(jwtSecret) == 0 {
		log.Warn("JWT_SECRET not set, using default (INSECURE for production)")
		jwtSecret = []byte("change-me-in-production-please")
	}

	pageRepo := repository.NewHTMLPageRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	pageCache := cache.NewRedisPageCache(rdb, pageRepo, cfg.CacheTTL)
	pageSvc := services.NewHTMLPageService(pageCache, services.NewRolePolicy(roleRepo))

	corsPolicy := cors.NewPolicy(cors.Config{
		Enabled:        cfg.CORSEnabled,
		Methods:        cfg.CORSMethods,
		OriginPatterns: cfg.CORSOrigin,
	})

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatal("invalid TRUSTED_PROXIES", zap.Error(err))
	}

	router := api.NewRouter(ctx, api.Dependencies{
		HMACSecret:      jwtSecret,
		RateLimitRPS:    cfg.RateLimitRPS,
		RateLimitBurst:  cfg.RateLimitBurst,
		TrustedProxies:  trustedProxies,
		HTMLPageHandler: handlers.NewHTMLPageHandler(pageSvc, corsPolicy),
		AdminHandler:    handlers.NewAdminHandler(queue),
		HealthHandler: handlers.NewHealthHandler(map[string]handlers.Check{
			"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
