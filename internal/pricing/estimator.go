package pricing

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"auction-ai/internal/models"
)

// Platform is the external marketplace the crawler samples prices from.
const Platform = "joongna"

// SampleProvider fetches observed prices for a keyword from an external
// source. An empty slice means no results; an error means the provider
// itself failed (network, timeout).
type SampleProvider interface {
	CrawlSamples(ctx context.Context, keyword string) ([]int, error)
}

// MarketStore is the persistence surface the estimator needs: a freshness-
// windowed cache read, settlement price lookup, and a conflict-resolving
// cache upsert.
type MarketStore interface {
	FreshMarketPrices(ctx context.Context, keyword string, since time.Time) ([]models.MarketPrice, error)
	SettlementPrices(ctx context.Context, keyword string, since time.Time) ([]int, error)
	UpsertMarketPrice(ctx context.Context, entry *models.MarketPrice) error
}

// SourceCounts reports where the fused samples came from.
type SourceCounts struct {
	ExternalCount   int `json:"external_count"`
	SettlementCount int `json:"settlement_count"`
	TotalCount      int `json:"total_count"`
}

// Estimate is the market-price estimation result. Stats pointers and
// SuggestedStartPrice are nil when no data exists for the keyword; that is
// a normal result, not an error.
type Estimate struct {
	ExternalStats       *Stats       `json:"external_stats"`
	SettlementStats     *Stats       `json:"settlement_stats"`
	CombinedStats       *Stats       `json:"combined_stats"`
	SuggestedStartPrice *int         `json:"suggested_start_price"`
	CategoryRatio       float64      `json:"category_ratio"`
	FinalKeyword        string       `json:"final_keyword"`
	FromCache           bool         `json:"from_cache"`
	SourceCounts        SourceCounts `json:"source_counts"`
}

// EstimatorConfig carries the tunable windows and thresholds.
type EstimatorConfig struct {
	CacheWindow      time.Duration // cached stats newer than this are reused
	SettlementWindow time.Duration // how far back settled auctions count
	MinCrawlSamples  int           // below this the keyword is reduced and retried
	CrawlTimeout     time.Duration // budget for the whole crawl fallback chain
}

// DefaultEstimatorConfig mirrors the service defaults: 24h cache, 30d
// settlement window, 3-sample crawl threshold, 30s crawl budget.
func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		CacheWindow:      24 * time.Hour,
		SettlementWindow: 30 * 24 * time.Hour,
		MinCrawlSamples:  3,
		CrawlTimeout:     30 * time.Second,
	}
}

// Estimator fuses cached or freshly crawled external price samples with
// authoritative settlement prices into outlier-robust statistics and a
// suggested starting price.
type Estimator struct {
	store    MarketStore
	provider SampleProvider
	cfg      EstimatorConfig
}

// NewEstimator creates an Estimator. Zero-valued config fields fall back to
// the defaults.
func NewEstimator(store MarketStore, provider SampleProvider, cfg EstimatorConfig) *Estimator {
	defaults := DefaultEstimatorConfig()
	if cfg.CacheWindow <= 0 {
		cfg.CacheWindow = defaults.CacheWindow
	}
	if cfg.SettlementWindow <= 0 {
		cfg.SettlementWindow = defaults.SettlementWindow
	}
	if cfg.MinCrawlSamples <= 0 {
		cfg.MinCrawlSamples = defaults.MinCrawlSamples
	}
	if cfg.CrawlTimeout <= 0 {
		cfg.CrawlTimeout = defaults.CrawlTimeout
	}
	return &Estimator{store: store, provider: provider, cfg: cfg}
}

// Estimate runs the cache-first estimation pipeline for a keyword. The
// category only influences the suggested-price ratio and may be empty.
func (e *Estimator) Estimate(ctx context.Context, keyword string, category models.Category) (*Estimate, error) {
	now := time.Now().UTC()

	cached, err := e.store.FreshMarketPrices(ctx, keyword, now.Add(-e.cfg.CacheWindow))
	if err != nil {
		return nil, fmt.Errorf("cache lookup: %w", err)
	}

	if len(cached) > 0 {
		return e.estimateFromCache(ctx, keyword, category, cached[0], now)
	}
	return e.estimateFresh(ctx, keyword, category, now)
}

// estimateFromCache replicates the cached average sampleCount times as a
// stand-in for the unavailable raw samples, then folds in live settlement
// prices. The replication deliberately biases the combined average toward
// the cached mean; raw samples are not stored.
func (e *Estimator) estimateFromCache(ctx context.Context, keyword string, category models.Category, entry models.MarketPrice, now time.Time) (*Estimate, error) {
	log.Printf("Market price cache hit: %q (platform %s, %d samples)", keyword, entry.Platform, entry.SampleCount)

	external := make([]int, 0, entry.SampleCount)
	for i := 0; i < entry.SampleCount; i++ {
		external = append(external, entry.AvgPrice)
	}

	settlement, err := e.store.SettlementPrices(ctx, keyword, now.Add(-e.cfg.SettlementWindow))
	if err != nil {
		return nil, fmt.Errorf("settlement lookup: %w", err)
	}

	result := e.fuse(external, settlement, category)
	result.FinalKeyword = keyword
	result.FromCache = true
	result.ExternalStats = cachedStats(entry)
	return result, nil
}

// estimateFresh crawls with keyword-reduction fallback, folds in settlement
// prices, and caches the crawl statistics for the keyword actually used.
func (e *Estimator) estimateFresh(ctx context.Context, keyword string, category models.Category, now time.Time) (*Estimate, error) {
	log.Printf("Market price cache miss: %q, crawling", keyword)

	crawlCtx, cancel := context.WithTimeout(ctx, e.cfg.CrawlTimeout)
	defer cancel()
	samples, finalKeyword := e.crawlWithFallback(crawlCtx, keyword)

	settlement, err := e.store.SettlementPrices(ctx, finalKeyword, now.Add(-e.cfg.SettlementWindow))
	if err != nil {
		return nil, fmt.Errorf("settlement lookup: %w", err)
	}

	result := e.fuse(samples, settlement, category)
	result.FinalKeyword = finalKeyword
	result.FromCache = false

	if len(samples) > 0 {
		_, crawlStats := FilterOutliers(samples)
		result.ExternalStats = &crawlStats
		e.saveCache(ctx, finalKeyword, crawlStats, now)
	}

	return result, nil
}

// crawlWithFallback queries the provider, dropping the last keyword word
// and retrying while the sample count stays below the minimum. Provider
// failures degrade to zero samples so the caller can still answer from
// settlement data alone.
func (e *Estimator) crawlWithFallback(ctx context.Context, keyword string) ([]int, string) {
	current := keyword
	var samples []int

	for {
		result, err := e.provider.CrawlSamples(ctx, current)
		if err != nil {
			log.Printf("Sample provider failed for %q: %v", current, err)
			return nil, current
		}
		samples = result

		if len(samples) >= e.cfg.MinCrawlSamples {
			return samples, current
		}

		reduced := reduceKeyword(current)
		if reduced == "" {
			return samples, current
		}
		log.Printf("Insufficient samples for %q (%d < %d), retrying with %q",
			current, len(samples), e.cfg.MinCrawlSamples, reduced)
		current = reduced
	}
}

// fuse concatenates external and settlement samples and computes combined
// statistics plus the suggested starting price. Zero total samples produce
// a null-valued result.
func (e *Estimator) fuse(external, settlement []int, category models.Category) *Estimate {
	result := &Estimate{
		CategoryRatio: CategoryRatio(category),
		SourceCounts: SourceCounts{
			ExternalCount:   len(external),
			SettlementCount: len(settlement),
			TotalCount:      len(external) + len(settlement),
		},
	}

	if len(settlement) > 0 {
		_, settlementStats := FilterOutliers(settlement)
		result.SettlementStats = &settlementStats
	}

	if result.SourceCounts.TotalCount == 0 {
		return result
	}

	all := make([]int, 0, result.SourceCounts.TotalCount)
	all = append(all, external...)
	all = append(all, settlement...)

	_, combined := FilterOutliers(all)
	result.CombinedStats = &combined
	if combined.AvgPrice != nil {
		suggested := SuggestStartPrice(*combined.AvgPrice, category)
		result.SuggestedStartPrice = &suggested
	}
	return result
}

// saveCache upserts the crawl statistics for (keyword, Platform). Cache
// write failures are logged, not propagated; the estimate itself is sound.
func (e *Estimator) saveCache(ctx context.Context, keyword string, stats Stats, now time.Time) {
	if stats.SampleCount == 0 || stats.AvgPrice == nil {
		return
	}
	entry := &models.MarketPrice{
		Keyword:     keyword,
		Platform:    Platform,
		AvgPrice:    *stats.AvgPrice,
		MinPrice:    *stats.MinPrice,
		MaxPrice:    *stats.MaxPrice,
		SampleCount: stats.SampleCount,
		CrawledAt:   now,
	}
	if err := e.store.UpsertMarketPrice(ctx, entry); err != nil {
		log.Printf("Market price cache write failed for %q: %v", keyword, err)
	}
}

// cachedStats rebuilds a Stats from a cache row. No quartile fields; the
// raw samples behind the row are gone.
func cachedStats(entry models.MarketPrice) *Stats {
	return &Stats{
		AvgPrice:    intPtr(entry.AvgPrice),
		MinPrice:    intPtr(entry.MinPrice),
		MaxPrice:    intPtr(entry.MaxPrice),
		SampleCount: entry.SampleCount,
	}
}

// reduceKeyword drops the last whitespace-separated word, returning "" when
// nothing is left to drop.
func reduceKeyword(keyword string) string {
	words := strings.Fields(keyword)
	if len(words) <= 1 {
		return ""
	}
	return strings.Join(words[:len(words)-1], " ")
}
