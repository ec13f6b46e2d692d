package handlers

import (
	"context"
	"time"

	"fidelite/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Pinger is anything with a liveness check, such as the redis cache.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	db    *gorm.DB
	cache Pinger
}

func NewHealthHandler(db *gorm.DB, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	database := "connected"
	if err := h.pingDB(ctx); err != nil {
		logger.FromFiber(c).Error("database health check failed", zap.Error(err))
		database = "unavailable"
		status = fiber.StatusServiceUnavailable
	}

	cache := "connected"
	if h.cache == nil {
		cache = "disabled"
	} else if err := h.cache.HealthCheck(ctx); err != nil {
		logger.FromFiber(c).Warn("cache health check failed", zap.Error(err))
		cache = "unavailable"
	}

	state := "ok"
	if status != fiber.StatusOK {
		state = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status": state,
		"services": fiber.Map{
			"database": database,
			"redis":    cache,
		},
	})
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
