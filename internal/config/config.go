package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	YouTubeAPIKey     string
	YouTubeAPIBaseURL string
	YouTubeBaseURL    string
	RegionCode        string
	RedisURL          string
	LogLevel          string
	Environment       string
	CORSOrigins       string
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Port:              getEnv("PORT", "8080"),
		YouTubeAPIKey:     getEnv("YOUTUBE_API_KEY", ""),
		YouTubeAPIBaseURL: getEnv("YOUTUBE_API_BASE_URL", "https://www.googleapis.com/youtube/v3"),
		YouTubeBaseURL:    getEnv("YOUTUBE_BASE_URL", "https://www.youtube.com"),
		RegionCode:        getEnv("YOUTUBE_REGION_CODE", "VN"),
		RedisURL:          getEnv("REDIS_URL", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		CORSOrigins:       getEnv("CORS_ORIGINS", "*"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
