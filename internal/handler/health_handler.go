package handler

import (
	"context"
	"time"

	"quizhub/internal/domain"
	"quizhub/internal/dto"
	"quizhub/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache domain.Cache
}

func NewHealthHandler(db Pinger, cache domain.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Check pings the database and redis.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Checks: map[string]string{}}
	check := func(name string, ping func(context.Context) error) {
		if err := ping(ctx); err != nil {
			logger.Get().Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			return
		}
		resp.Checks[name] = "ok"
	}
	check("database", h.db.PingContext)
	check("redis", h.cache.Ping)

	if resp.Status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
