package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	"github.com/lhhieu89/reviewphims/internal/service"
)

type HealthHandler struct {
	rdb     *redis.Client
	pool    *service.PoolService
	startAt time.Time
}

func NewHealthHandler(rdb *redis.Client, pool *service.PoolService) *HealthHandler {
	return &HealthHandler{
		rdb:     rdb,
		pool:    pool,
		startAt: time.Now(),
	}
}

// Live handles GET /health/live — liveness probe.
func (h *HealthHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready — readiness probe with dependency checks.
// Redis and the video pool are both optional, so their state degrades the
// report without failing it; the endpoint only returns 503 when nothing is
// warm at all.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	checks := make(fiber.Map)
	overallStatus := "healthy"

	checks["redis"] = checkRedis(ctx, h.rdb)
	if redisCheck, ok := checks["redis"].(fiber.Map); ok {
		if redisCheck["status"] == "down" {
			overallStatus = "degraded"
		}
	}

	checks["video_pool"] = h.checkPool()
	if poolCheck, ok := checks["video_pool"].(fiber.Map); ok {
		if poolCheck["status"] != "warm" && overallStatus == "healthy" {
			overallStatus = "degraded"
		}
	}

	resp := fiber.Map{
		"status":         overallStatus,
		"checks":         checks,
		"uptime_seconds": int(time.Since(h.startAt).Seconds()),
		"version":        "1.0.0",
	}

	return c.JSON(resp)
}

func (h *HealthHandler) checkPool() fiber.Map {
	total := 0
	for _, st := range h.pool.CacheStatus() {
		total += st.Count
	}
	if total == 0 {
		return fiber.Map{"status": "cold"}
	}
	return fiber.Map{
		"status": "warm",
		"videos": total,
	}
}

func checkRedis(ctx context.Context, rdb *redis.Client) fiber.Map {
	if rdb == nil {
		return fiber.Map{
			"status": "disabled",
		}
	}

	start := time.Now()
	err := rdb.Ping(ctx).Err()
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return fiber.Map{
			"status":     "down",
			"latency_ms": latency,
			"error":      "connection failed",
		}
	}
	return fiber.Map{
		"status":     "up",
		"latency_ms": latency,
	}
}
