package api

import (
	"net/http"
	"strconv"
	"time"

	"auction-ai/internal/models"
	"auction-ai/internal/pricing"
	"auction-ai/internal/recommend"

	"github.com/gin-gonic/gin"
)

const (
	defaultRecommendations = 10
	maxRecommendations     = 50
)

type APIHandler struct {
	recommender *recommend.Recommender
	estimator   *pricing.Estimator
}

func SetupRoutes(r *gin.RouterGroup, recommender *recommend.Recommender, estimator *pricing.Estimator) *APIHandler {
	handler := &APIHandler{
		recommender: recommender,
		estimator:   estimator,
	}

	rec := r.Group("/recommendations")
	{
		rec.GET("", handler.GetRecommendations)
	}

	r.POST("/recommender/rebuild", handler.RebuildRecommender)

	price := r.Group("/price")
	{
		price.GET("/estimate", handler.EstimatePrice)
	}

	return handler
}

// GetRecommendations returns ranked item recommendations for a user.
// Unknown users get the popularity fallback; callers that need a hard
// "user not found" must validate existence themselves.
func (h *APIHandler) GetRecommendations(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be a positive integer"})
		return
	}

	limit := defaultRecommendations
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= maxRecommendations {
			limit = parsed
		}
	}

	recommendations, err := h.recommender.RecommendItems(c.Request.Context(), userID, limit)
	if err != nil {
		status := http.StatusInternalServerError
		if err == recommend.ErrNotReady {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":         200,
		"data":         recommendations,
		"total":        len(recommendations),
		"generated_at": time.Now(),
		"msg":          "success",
	})
}

// RebuildRecommender rebuilds the similarity index from a fresh snapshot
// and swaps it in atomically.
func (h *APIHandler) RebuildRecommender(c *gin.Context) {
	if err := h.recommender.Rebuild(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "success",
	})
}

// EstimatePrice returns fused market-price statistics and a suggested
// starting price for a keyword. "No price data" is a normal 200 response
// with null statistics.
func (h *APIHandler) EstimatePrice(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword is required"})
		return
	}

	var category models.Category
	if raw := c.Query("category"); raw != "" {
		category = models.Category(raw)
		if !category.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category: " + raw})
			return
		}
	}

	estimate, err := h.estimator.Estimate(c.Request.Context(), keyword, category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": estimate,
		"msg":  "success",
	})
}
