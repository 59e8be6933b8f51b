package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"auction-ai/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	samples  map[string][]int
	err      error
	keywords []string
}

func (f *fakeProvider) CrawlSamples(ctx context.Context, keyword string) ([]int, error) {
	f.keywords = append(f.keywords, keyword)
	if f.err != nil {
		return nil, f.err
	}
	return f.samples[keyword], nil
}

type fakeMarketStore struct {
	cached     []models.MarketPrice
	settlement map[string][]int
	upserted   []models.MarketPrice
}

func (f *fakeMarketStore) FreshMarketPrices(ctx context.Context, keyword string, since time.Time) ([]models.MarketPrice, error) {
	var fresh []models.MarketPrice
	for _, entry := range f.cached {
		if entry.Keyword == keyword && entry.CrawledAt.After(since) {
			fresh = append(fresh, entry)
		}
	}
	return fresh, nil
}

func (f *fakeMarketStore) SettlementPrices(ctx context.Context, keyword string, since time.Time) ([]int, error) {
	return f.settlement[keyword], nil
}

func (f *fakeMarketStore) UpsertMarketPrice(ctx context.Context, entry *models.MarketPrice) error {
	f.upserted = append(f.upserted, *entry)
	return nil
}

func newEstimator(store *fakeMarketStore, provider *fakeProvider) *Estimator {
	return NewEstimator(store, provider, DefaultEstimatorConfig())
}

func TestEstimateCacheHitReplicatesAverage(t *testing.T) {
	store := &fakeMarketStore{
		cached: []models.MarketPrice{{
			Keyword:     "macbook",
			Platform:    Platform,
			AvgPrice:    50000,
			MinPrice:    45000,
			MaxPrice:    55000,
			SampleCount: 4,
			CrawledAt:   time.Now().UTC().Add(-time.Hour),
		}},
		settlement: map[string][]int{"macbook": {48000, 52000}},
	}
	provider := &fakeProvider{}

	estimate, err := newEstimator(store, provider).Estimate(context.Background(), "macbook", "")
	require.NoError(t, err)

	// Fused sample list is [50000 x4, 48000, 52000].
	assert.True(t, estimate.FromCache)
	assert.Equal(t, 4, estimate.SourceCounts.ExternalCount)
	assert.Equal(t, 2, estimate.SourceCounts.SettlementCount)
	assert.Equal(t, 6, estimate.SourceCounts.TotalCount)
	require.NotNil(t, estimate.CombinedStats)
	assert.Equal(t, 50000, *estimate.CombinedStats.AvgPrice)

	// External stats come straight from the cache row.
	require.NotNil(t, estimate.ExternalStats)
	assert.Equal(t, 50000, *estimate.ExternalStats.AvgPrice)
	assert.Equal(t, 4, estimate.ExternalStats.SampleCount)

	// The crawler is never consulted and the cache is not rewritten.
	assert.Empty(t, provider.keywords)
	assert.Empty(t, store.upserted)
}

func TestEstimateMissCrawlsAndCaches(t *testing.T) {
	store := &fakeMarketStore{
		settlement: map[string][]int{"iphone": {880000}},
	}
	provider := &fakeProvider{samples: map[string][]int{
		"iphone": {900000, 910000, 890000, 905000},
	}}

	estimate, err := newEstimator(store, provider).Estimate(context.Background(), "iphone", models.CategoryDigital)
	require.NoError(t, err)

	assert.False(t, estimate.FromCache)
	assert.Equal(t, "iphone", estimate.FinalKeyword)
	assert.Equal(t, 4, estimate.SourceCounts.ExternalCount)
	assert.Equal(t, 1, estimate.SourceCounts.SettlementCount)
	assert.Equal(t, 0.92, estimate.CategoryRatio)
	require.NotNil(t, estimate.SuggestedStartPrice)

	// Crawl statistics are cached under (finalKeyword, platform);
	// settlement prices never are.
	require.Len(t, store.upserted, 1)
	cached := store.upserted[0]
	assert.Equal(t, "iphone", cached.Keyword)
	assert.Equal(t, Platform, cached.Platform)
	assert.Equal(t, 4, cached.SampleCount)
}

func TestEstimateKeywordReductionFallback(t *testing.T) {
	store := &fakeMarketStore{}
	provider := &fakeProvider{samples: map[string][]int{
		"iphone 13 pro": {500000},
		"iphone 13":     {510000, 505000},
		"iphone":        {500000, 510000, 505000, 495000},
	}}

	estimate, err := newEstimator(store, provider).Estimate(context.Background(), "iphone 13 pro", models.CategoryDigital)
	require.NoError(t, err)

	assert.Equal(t, []string{"iphone 13 pro", "iphone 13", "iphone"}, provider.keywords)
	assert.Equal(t, "iphone", estimate.FinalKeyword)
	assert.Equal(t, 4, estimate.SourceCounts.ExternalCount)

	require.Len(t, store.upserted, 1)
	assert.Equal(t, "iphone", store.upserted[0].Keyword)
}

func TestEstimateKeywordReductionStopsAtSingleWord(t *testing.T) {
	store := &fakeMarketStore{}
	provider := &fakeProvider{samples: map[string][]int{
		"galaxy fold": {700000},
		"galaxy":      {710000},
	}}

	estimate, err := newEstimator(store, provider).Estimate(context.Background(), "galaxy fold", "")
	require.NoError(t, err)

	// Below the threshold even at a single word: use what was last collected.
	assert.Equal(t, "galaxy", estimate.FinalKeyword)
	assert.Equal(t, 1, estimate.SourceCounts.ExternalCount)
}

func TestEstimateProviderFailureDegradesToSettlementOnly(t *testing.T) {
	store := &fakeMarketStore{
		settlement: map[string][]int{"camera": {300000, 310000, 305000}},
	}
	provider := &fakeProvider{err: errors.New("connection refused")}

	estimate, err := newEstimator(store, provider).Estimate(context.Background(), "camera", "")
	require.NoError(t, err)

	assert.Zero(t, estimate.SourceCounts.ExternalCount)
	assert.Equal(t, 3, estimate.SourceCounts.SettlementCount)
	assert.Nil(t, estimate.ExternalStats)
	require.NotNil(t, estimate.CombinedStats)
	require.NotNil(t, estimate.SuggestedStartPrice)

	// Nothing to cache from a failed crawl.
	assert.Empty(t, store.upserted)
}

func TestEstimateNoDataReturnsNullResult(t *testing.T) {
	store := &fakeMarketStore{}
	provider := &fakeProvider{}

	estimate, err := newEstimator(store, provider).Estimate(context.Background(), "nonexistent", "")
	require.NoError(t, err)

	assert.Nil(t, estimate.ExternalStats)
	assert.Nil(t, estimate.SettlementStats)
	assert.Nil(t, estimate.CombinedStats)
	assert.Nil(t, estimate.SuggestedStartPrice)
	assert.Zero(t, estimate.SourceCounts.TotalCount)
	assert.Equal(t, "nonexistent", estimate.FinalKeyword)
	assert.Empty(t, store.upserted)
}

func TestEstimateStaleCacheIsIgnored(t *testing.T) {
	store := &fakeMarketStore{
		cached: []models.MarketPrice{{
			Keyword:     "monitor",
			Platform:    Platform,
			AvgPrice:    200000,
			SampleCount: 5,
			CrawledAt:   time.Now().UTC().Add(-48 * time.Hour),
		}},
	}
	provider := &fakeProvider{samples: map[string][]int{
		"monitor": {210000, 220000, 215000},
	}}

	estimate, err := newEstimator(store, provider).Estimate(context.Background(), "monitor", "")
	require.NoError(t, err)

	assert.False(t, estimate.FromCache)
	assert.Equal(t, []string{"monitor"}, provider.keywords)
}

func TestReduceKeyword(t *testing.T) {
	assert.Equal(t, "iphone 13", reduceKeyword("iphone 13 pro"))
	assert.Equal(t, "iphone", reduceKeyword("iphone 13"))
	assert.Equal(t, "", reduceKeyword("iphone"))
	assert.Equal(t, "", reduceKeyword(""))
}
