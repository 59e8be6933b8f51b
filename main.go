package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"auction-ai/internal/api"
	"auction-ai/internal/config"
	"auction-ai/internal/crawler"
	"auction-ai/internal/database"
	"auction-ai/internal/pricing"
	"auction-ai/internal/recommend"
	"auction-ai/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	dataStore := store.New(db)

	// Build the recommender index from a full snapshot before serving
	recommender := recommend.New(dataStore, dataStore)
	if err := recommender.Rebuild(context.Background()); err != nil {
		log.Fatal("Failed to build recommender index:", err)
	}

	// Price estimator with the joongna crawler as sample provider
	crawlTimeout := time.Duration(cfg.CrawlerTimeoutSeconds) * time.Second
	provider := crawler.New(cfg.CrawlerBaseURL, crawlTimeout)
	estimator := pricing.NewEstimator(dataStore, provider, pricing.EstimatorConfig{
		CacheWindow:      time.Duration(cfg.PriceCacheHours) * time.Hour,
		SettlementWindow: time.Duration(cfg.SettlementWindowDays) * 24 * time.Hour,
		MinCrawlSamples:  cfg.MinCrawlSamples,
		CrawlTimeout:     crawlTimeout,
	})

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	apiGroup := r.Group("/api/v1")
	api.SetupRoutes(apiGroup, recommender, estimator)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
