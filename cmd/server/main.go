// Package main is the entry point for the API server. It loads the
// configuration, opens postgres and redis, wires the routes and serves until
// interrupted.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fidelite/internal/config"
	"fidelite/internal/logger"
	"fidelite/internal/metrics"
	"fidelite/internal/repositories"
	"fidelite/internal/repositories/cache"
	"fidelite/internal/routes"
	"fidelite/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger is not configured yet.
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Env); err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.L()

	db, err := repositories.InitDB(cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			log.Warn("Failed to close database connection", zap.Error(err))
		}
	}()
	log.Info("Connected to database", zap.String("host", cfg.DB.Host), zap.String("name", cfg.DB.Name))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	readCache := connectCache(ctx, cfg)
	if closer, ok := readCache.(interface{ Close() error }); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Warn("Failed to close redis connection", zap.Error(err))
			}
		}()
	}

	go logPoolStats(ctx, db)

	m := metrics.NewDefault()

	app := fiber.New(fiber.Config{
		AppName: "fidelite",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return response.Error(c, fe.Code, "HTTP_ERROR", fe.Message)
			}
			return response.FromError(c, err)
		},
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key, X-Request-ID",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(logger.Middleware())
	app.Use(m.Middleware())

	routes.SetupRoutes(app, cfg, db, readCache, m)

	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Error("Graceful shutdown failed", zap.Error(err))
		}
	}()

	log.Info("Starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("Server stopped", zap.Error(err))
	}
}

// connectCache returns the redis-backed cache, or a no-op cache when redis
// cannot be reached so the API keeps serving from postgres.
func connectCache(ctx context.Context, cfg *config.Config) routes.Cache {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := cache.Connect(pingCtx, &cache.RedisConfig{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		logger.L().Warn("Redis unavailable, caching disabled", zap.Error(err))
		return cache.Noop{}
	}

	logger.L().Info("Connected to redis", zap.String("addr", cfg.Redis.Addr()))
	return cache.NewCacheService(client, cfg.CacheTTL)
}

func logPoolStats(ctx context.Context, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := sqlDB.Stats()
			logger.L().Debug("DB pool stats",
				zap.Int("open", stats.OpenConnections),
				zap.Int("idle", stats.Idle),
				zap.Int("in_use", stats.InUse),
				zap.Int64("wait_count", stats.WaitCount),
				zap.Duration("wait_duration", stats.WaitDuration),
			)
		}
	}
}
