package handler

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/lhhieu89/reviewphims/internal/middleware"
	"github.com/lhhieu89/reviewphims/internal/service"
	"github.com/lhhieu89/reviewphims/internal/youtube"
)

type VideoHandler struct {
	svc   *service.VideoService
	cache *service.ResponseCache
}

func NewVideoHandler(svc *service.VideoService, cache *service.ResponseCache) *VideoHandler {
	return &VideoHandler{svc: svc, cache: cache}
}

// Search handles GET /api/youtube/search
func (h *VideoHandler) Search(c fiber.Ctx) error {
	q := fiber.Query[string](c, "q")
	if q == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest,
			"MISSING_PARAM", "q query parameter is required")
	}
	if len(q) > middleware.MaxQueryLen {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest,
			"INVALID_PARAM", "q is too long")
	}

	params := youtube.SearchParams{
		Q:                 q,
		MaxResults:        middleware.ClampMaxResults(fiber.Query[int](c, "maxResults"), 20),
		PageToken:         fiber.Query[string](c, "pageToken"),
		RegionCode:        fiber.Query[string](c, "regionCode"),
		Order:             fiber.Query[string](c, "order"),
		VideoCategoryID:   fiber.Query[string](c, "videoCategoryId"),
		VideoDuration:     fiber.Query[string](c, "videoDuration"),
		SafeSearch:        fiber.Query[string](c, "safeSearch"),
		RelevanceLanguage: fiber.Query[string](c, "relevanceLanguage"),
		VideoEmbeddable:   fiber.Query[string](c, "videoEmbeddable"),
	}

	key := service.SearchKey(params)
	if cached := h.cached(c, key); cached != nil {
		return c.Send(cached)
	}

	resp, err := h.svc.Search(c.Context(), params)
	if err != nil {
		if youtube.IsQuotaExceeded(err) {
			return quotaUnavailable(c, "https://www.youtube.com/results?search_query="+url.QueryEscape(q))
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError,
			"UPSTREAM_ERROR", "Failed to search videos")
	}

	h.recordSource(c, key, "search", resp.IsCrawlerData, resp, service.SearchCacheTTL)
	return c.JSON(resp)
}

// MostPopular handles GET /api/youtube/most-popular
func (h *VideoHandler) MostPopular(c fiber.Ctx) error {
	params := youtube.MostPopularParams{
		RegionCode:      fiber.Query[string](c, "regionCode"),
		MaxResults:      middleware.ClampMaxResults(fiber.Query[int](c, "maxResults"), 20),
		PageToken:       fiber.Query[string](c, "pageToken"),
		VideoCategoryID: fiber.Query[string](c, "videoCategoryId"),
	}

	key := service.PopularKey(params)
	if cached := h.cached(c, key); cached != nil {
		return c.Send(cached)
	}

	resp, err := h.svc.ListMostPopular(c.Context(), params)
	if err != nil {
		if youtube.IsQuotaExceeded(err) {
			return quotaUnavailable(c, "https://www.youtube.com/feed/trending")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError,
			"UPSTREAM_ERROR", "Failed to list popular videos")
	}

	h.recordSource(c, key, "videos", resp.IsCrawlerData, resp, service.SearchCacheTTL)
	return c.JSON(resp)
}

// GetVideo handles GET /api/youtube/video?id=X
func (h *VideoHandler) GetVideo(c fiber.Ctx) error {
	id, msg := middleware.ValidateVideoID(fiber.Query[string](c, "id"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PARAM", msg)
	}

	key := service.VideoKey(id)
	if cached := h.cached(c, key); cached != nil {
		return c.Send(cached)
	}

	rec, err := h.svc.GetByID(c.Context(), id)
	if err != nil {
		if youtube.IsQuotaExceeded(err) {
			return quotaUnavailable(c, "https://www.youtube.com/watch?v="+id)
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError,
			"UPSTREAM_ERROR", "Failed to fetch video")
	}
	if rec == nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound,
			"NOT_FOUND", "Video not found")
	}

	h.recordSource(c, key, "videos", rec.IsCrawlerData, rec, service.VideoCacheTTL)
	return c.JSON(rec)
}

// GetChannel handles GET /api/youtube/channel?id=X
func (h *VideoHandler) GetChannel(c fiber.Ctx) error {
	id, msg := middleware.ValidateChannelID(fiber.Query[string](c, "id"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PARAM", msg)
	}

	key := service.ChannelKey(id)
	if cached := h.cached(c, key); cached != nil {
		return c.Send(cached)
	}

	rec, err := h.svc.GetChannelByID(c.Context(), id)
	if err != nil {
		if youtube.IsQuotaExceeded(err) {
			return quotaUnavailable(c, "https://www.youtube.com/channel/"+id)
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError,
			"UPSTREAM_ERROR", "Failed to fetch channel")
	}
	if rec == nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound,
			"NOT_FOUND", "Channel not found")
	}

	h.recordSource(c, key, "channels", false, rec, service.VideoCacheTTL)
	return c.JSON(rec)
}

// cached serves a stored response body, setting the content type the JSON
// writer would have set.
func (h *VideoHandler) cached(c fiber.Ctx, key string) []byte {
	data, err := h.cache.Get(c.Context(), key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("response cache read failed")
		return nil
	}
	if data == nil {
		Metrics.ResponseCacheMiss.Inc()
		return nil
	}
	Metrics.ResponseCacheHits.Inc()
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return data
}

// recordSource counts the upstream hit and caches API-sourced payloads.
// Crawler output stays out of Redis so degraded data never outlives the
// quota exhaustion that produced it.
func (h *VideoHandler) recordSource(c fiber.Ctx, key, endpoint string, crawled bool, payload interface{}, ttl time.Duration) {
	source := "api"
	if crawled {
		source = "crawler"
		Metrics.QuotaFallbacks.Inc()
	}
	Metrics.UpstreamRequests.WithLabelValues(endpoint, source).Inc()

	if !crawled {
		if err := h.cache.Set(c.Context(), key, payload, ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("response cache write failed")
		}
	}
}

func quotaUnavailable(c fiber.Ctx, fallbackURL string) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "QUOTA_EXCEEDED",
			"message": "YouTube API quota exhausted",
		},
		"fallbackUrl": fallbackURL,
	})
}
