package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/lhhieu89/reviewphims/internal/middleware"
	"github.com/lhhieu89/reviewphims/internal/model"
	"github.com/lhhieu89/reviewphims/internal/service"
)

type CacheHandler struct {
	pool *service.PoolService
}

func NewCacheHandler(pool *service.PoolService) *CacheHandler {
	return &CacheHandler{pool: pool}
}

// GetVideos handles GET /api/cache/videos?type=X&count=N — a random slice of
// the pre-fetched pool. An empty pool triggers a refill before the pick;
// pool reads themselves never cost quota.
func (h *CacheHandler) GetVideos(c fiber.Ctx) error {
	category := fiber.Query[string](c, "type")
	if category == "" {
		category = "general"
	}
	count := middleware.ClampMaxResults(fiber.Query[int](c, "count"), 12)

	videos := h.pool.GetRandomVideos(category, count)
	if len(videos) == 0 {
		if _, err := h.pool.FetchAndCacheVideos(c.Context(), category); err != nil {
			log.Error().Err(err).Str("category", category).Msg("pool refill failed")
		} else {
			Metrics.PoolRefreshes.Inc()
		}
		videos = h.pool.GetRandomVideos(category, count)
	}
	if videos == nil {
		videos = []model.VideoRecord{}
	}

	return c.JSON(fiber.Map{
		"videos": videos,
		"count":  len(videos),
		"type":   category,
	})
}

// PostVideos handles POST /api/cache/videos — pool administration.
func (h *CacheHandler) PostVideos(c fiber.Ctx) error {
	var body struct {
		Action string `json:"action"`
	}
	if err := c.Bind().Body(&body); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest,
			"INVALID_BODY", "Request body must be JSON")
	}

	switch body.Action {
	case "initialize_cache":
		h.pool.Initialize(c.Context())
		Metrics.PoolRefreshes.Inc()
		return c.JSON(fiber.Map{"status": "initialized"})
	case "clear_cache":
		h.pool.ClearCache()
		return c.JSON(fiber.Map{"status": "cleared"})
	default:
		return middleware.ErrorResponse(c, fiber.StatusBadRequest,
			"INVALID_PARAM", "action must be initialize_cache or clear_cache")
	}
}

// Status handles GET /api/cache/status
func (h *CacheHandler) Status(c fiber.Ctx) error {
	return c.JSON(h.pool.CacheStatus())
}
