package main

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/lhhieu89/reviewphims/internal/config"
	"github.com/lhhieu89/reviewphims/internal/crawler"
	"github.com/lhhieu89/reviewphims/internal/handler"
	"github.com/lhhieu89/reviewphims/internal/middleware"
	"github.com/lhhieu89/reviewphims/internal/router"
	"github.com/lhhieu89/reviewphims/internal/service"
	"github.com/lhhieu89/reviewphims/internal/youtube"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "reviewphims-api")

	if cfg.YouTubeAPIKey == "" {
		log.Fatal().Msg("YOUTUBE_API_KEY is required")
	}

	apiClient := youtube.NewClient(cfg.YouTubeAPIBaseURL, cfg.YouTubeAPIKey, cfg.RegionCode)
	webCrawler := crawler.New(cfg.YouTubeBaseURL)
	quotaSvc := service.NewQuotaService()
	videoSvc := service.NewVideoService(apiClient, webCrawler, quotaSvc)
	respCache := service.NewResponseCache(cfg.RedisURL)
	defer respCache.Close()
	poolSvc := service.NewPoolService(videoSvc)

	handler.InitMetrics()

	limiter := middleware.NewAPIRateLimiter()
	defer limiter.Stop()

	h := &router.Handlers{
		Video:  handler.NewVideoHandler(videoSvc, respCache),
		Cache:  handler.NewCacheHandler(poolSvc),
		Quota:  handler.NewQuotaHandler(quotaSvc),
		Health: handler.NewHealthHandler(respCache.Client(), poolSvc),
	}

	app := fiber.New(fiber.Config{
		AppName:      "ReviewPhims API",
		ServerHeader: "ReviewPhims",
	})
	router.Setup(app, h, limiter, cfg.CORSOrigins)

	// Warm the video pools without blocking startup. A failed warmup is not
	// fatal; the first /api/cache/videos request retries it.
	go poolSvc.Initialize(context.Background())

	log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("reviewphims backend starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
