package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries every tunable the service reads from the environment.
// It is built once in main and passed down explicitly; components never
// reach for process-wide state themselves.
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	LogFile     string

	DatabaseURL string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	JWTSecret string

	// Catalog client
	JikanBaseURL    string
	CatalogTimeout  time.Duration
	CatalogAttempts int
	CatalogBackoff  time.Duration

	// Resolution and ranking. These came out of tuning against real query
	// logs; treat them as product decisions, not derived values.
	SimilarityThreshold float64
	EpisodeSlackFactor  float64
	TopGenreCount       int
	MaxRecommendations  int
	FetchWorkers        int

	TrendingCacheTTL time.Duration
}

// Load reads configuration from the environment, applying defaults
// suitable for local development.
func Load() *Config {
	return &Config{
		Port:        getEnvOrDefault("PORT", "8787"),
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:     getEnvOrDefault("LOG_FILE", "server.log"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		JikanBaseURL:    getEnvOrDefault("JIKAN_BASE_URL", "https://api.jikan.moe/v4"),
		CatalogTimeout:  getEnvDuration("CATALOG_TIMEOUT", 10*time.Second),
		CatalogAttempts: getEnvInt("CATALOG_MAX_ATTEMPTS", 3),
		CatalogBackoff:  getEnvDuration("CATALOG_BASE_BACKOFF", 500*time.Millisecond),

		SimilarityThreshold: getEnvFloat("SIMILARITY_THRESHOLD", 0.7),
		EpisodeSlackFactor:  getEnvFloat("EPISODE_SLACK_FACTOR", 1.5),
		TopGenreCount:       getEnvInt("TOP_GENRE_COUNT", 3),
		MaxRecommendations:  getEnvInt("MAX_RECOMMENDATIONS", 10),
		FetchWorkers:        getEnvInt("FETCH_WORKERS", 5),

		TrendingCacheTTL: getEnvDuration("TRENDING_CACHE_TTL", 5*time.Minute),
	}
}

// getEnvOrDefault returns environment variable or default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
