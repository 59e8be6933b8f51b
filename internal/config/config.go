package config

import (
	"os"
	"strconv"
)

type Config struct {
	DatabaseURL string
	Port        string
	Environment string

	// Price estimation
	CrawlerBaseURL        string
	CrawlerTimeoutSeconds int
	PriceCacheHours       int
	SettlementWindowDays  int
	MinCrawlSamples       int
}

func Load() *Config {
	// Default MySQL connection string
	defaultDSN := "root:auction@tcp(127.0.0.1:3306)/auction?charset=utf8mb4&parseTime=True&loc=UTC"

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", defaultDSN),
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		CrawlerBaseURL:        getEnv("CRAWLER_BASE_URL", "https://web.joongna.com"),
		CrawlerTimeoutSeconds: getEnvInt("CRAWLER_TIMEOUT_SECONDS", 30),
		PriceCacheHours:       getEnvInt("PRICE_CACHE_HOURS", 24),
		SettlementWindowDays:  getEnvInt("SETTLEMENT_WINDOW_DAYS", 30),
		MinCrawlSamples:       getEnvInt("MIN_CRAWL_SAMPLES", 3),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
