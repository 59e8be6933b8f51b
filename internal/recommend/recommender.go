package recommend

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync/atomic"
	"time"

	"auction-ai/internal/models"
)

const (
	// neighborCount is how many similar users drive candidate generation.
	neighborCount = 5

	// popularWindow bounds the popularity fallback to recently created items.
	popularWindow = 3 * 24 * time.Hour
)

// ErrNotReady is returned when RecommendItems is called before the first
// successful Rebuild.
var ErrNotReady = errors.New("recommender index not built")

// DataSource loads the full snapshot the index is built from.
type DataSource interface {
	Users(ctx context.Context) ([]models.User, error)
	ItemsByID(ctx context.Context) (map[int64]models.Item, error)
	Transactions(ctx context.Context) ([]models.ItemTransaction, error)
	LikedEntries(ctx context.Context) ([]models.UserLiked, error)
}

// ItemReader answers the per-request item lookups of the recommendation path.
type ItemReader interface {
	// BiddableItemsByIDs returns the subset of ids that is still biddable
	// (status BIDDING, end time after now), with region loaded.
	BiddableItemsByIDs(ctx context.Context, ids []int64, now time.Time) ([]models.Item, error)

	// RecentPopularItems returns biddable items created after since,
	// excluding the given ids, ordered by (bid count desc, view count desc,
	// item id asc), at most limit rows.
	RecentPopularItems(ctx context.Context, since, now time.Time, exclude []int64, limit int) ([]models.Item, error)
}

// Recommendation is one ranked item returned to the caller. Score is the
// candidate occurrence count from collaborative filtering, or 0 for items
// produced by the popularity fallback.
type Recommendation struct {
	ItemID       int64             `json:"item_id"`
	Name         string            `json:"name"`
	Title        string            `json:"title"`
	Category     models.Category   `json:"category"`
	CurrentPrice int               `json:"current_price"`
	EndTime      time.Time         `json:"end_time"`
	ItemStatus   models.ItemStatus `json:"item_status"`
	RegionName   string            `json:"region_name"`
	ViewCount    int64             `json:"view_count"`
	BidCount     int64             `json:"bid_count"`
	Score        int               `json:"recommendation_score"`
}

// snapshot pairs the profiles and similarity index built from one data load.
// Immutable once published.
type snapshot struct {
	profiles *ProfileSet
	index    *SimilarityIndex
	builtAt  time.Time
}

// Recommender serves user-based collaborative-filtering recommendations with
// a popularity fallback for cold starts. The backing index is replaced
// wholesale by Rebuild and read lock-free by concurrent requests.
type Recommender struct {
	source DataSource
	items  ItemReader
	snap   atomic.Pointer[snapshot]
}

// New creates a Recommender. Call Rebuild before serving requests.
func New(source DataSource, items ItemReader) *Recommender {
	return &Recommender{source: source, items: items}
}

// Rebuild loads a fresh snapshot, builds profiles and the similarity index
// off the hot path, and atomically swaps them in. In-flight requests keep
// reading the previous snapshot.
func (r *Recommender) Rebuild(ctx context.Context) error {
	start := time.Now()

	users, err := r.source.Users(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	items, err := r.source.ItemsByID(ctx)
	if err != nil {
		return fmt.Errorf("load items: %w", err)
	}
	transactions, err := r.source.Transactions(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	likes, err := r.source.LikedEntries(ctx)
	if err != nil {
		return fmt.Errorf("load liked entries: %w", err)
	}

	profiles := BuildProfiles(users, items, transactions, likes)
	index := BuildSimilarityIndex(profiles)

	r.snap.Store(&snapshot{profiles: profiles, index: index, builtAt: time.Now()})

	log.Printf("Recommender index rebuilt: %d users, %d items, %d transactions, %d likes, %d feature columns (%.2fs)",
		len(users), len(items), len(transactions), len(likes), len(index.Columns()), time.Since(start).Seconds())
	return nil
}

// Ready reports whether an index snapshot has been built.
func (r *Recommender) Ready() bool { return r.snap.Load() != nil }

// RecommendItems returns up to n ranked recommendations for the target user.
// Unknown users are not an error; they fall through to the popularity path.
func (r *Recommender) RecommendItems(ctx context.Context, targetUserID int64, n int) ([]Recommendation, error) {
	snap := r.snap.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	if n <= 0 {
		return []Recommendation{}, nil
	}

	now := time.Now().UTC()

	// Neighbors are sorted by score descending, so a zero score up front
	// means the target shares no category signal with anyone. That is a
	// cold start even for a known user; route it to the popularity path.
	neighbors := snap.index.NearestNeighbors(targetUserID, neighborCount)
	if len(neighbors) == 0 || neighbors[0].Score == 0 {
		return r.popularItems(ctx, snap, targetUserID, n, now, nil)
	}

	// Candidate multiset: one count per contributing neighbor interaction.
	// A neighbor who both bid on and liked an item contributes it twice.
	counts := make(map[int64]int)
	for _, neighbor := range neighbors {
		for itemID := range snap.profiles.BidItems[neighbor.UserID] {
			counts[itemID]++
		}
		for itemID := range snap.profiles.LikedItems[neighbor.UserID] {
			counts[itemID]++
		}
	}

	// Never recommend something the target already engaged with.
	interacted := snap.profiles.InteractedItems(targetUserID)
	for itemID := range interacted {
		delete(counts, itemID)
	}

	pool := rankCandidates(counts, n*2)
	if len(pool) == 0 {
		return r.popularItems(ctx, snap, targetUserID, n, now, nil)
	}

	items, err := r.items.BiddableItemsByIDs(ctx, pool, now)
	if err != nil {
		return nil, fmt.Errorf("load candidate items: %w", err)
	}
	byID := make(map[int64]models.Item, len(items))
	for _, item := range items {
		byID[item.ItemID] = item
	}

	recommendations := make([]Recommendation, 0, n)
	for _, itemID := range pool {
		item, ok := byID[itemID]
		if !ok {
			continue
		}
		recommendations = append(recommendations, toRecommendation(item, counts[itemID]))
		if len(recommendations) >= n {
			break
		}
	}

	// Top up a short result from the popularity path, deduplicated against
	// what is already selected.
	if len(recommendations) < n {
		selected := make(map[int64]struct{}, len(recommendations))
		for _, rec := range recommendations {
			selected[rec.ItemID] = struct{}{}
		}
		popular, err := r.popularItems(ctx, snap, targetUserID, n-len(recommendations), now, selected)
		if err != nil {
			return nil, err
		}
		for _, rec := range popular {
			recommendations = append(recommendations, rec)
			if len(recommendations) >= n {
				break
			}
		}
	}

	return recommendations, nil
}

// popularItems is the cold-start fallback: recently created biddable items
// ordered by bid and view counts, excluding everything the target already
// interacted with. Fallback results always carry score 0.
func (r *Recommender) popularItems(ctx context.Context, snap *snapshot, targetUserID int64, n int, now time.Time, alreadySelected map[int64]struct{}) ([]Recommendation, error) {
	if n <= 0 {
		return []Recommendation{}, nil
	}

	exclude := make([]int64, 0)
	for itemID := range snap.profiles.InteractedItems(targetUserID) {
		exclude = append(exclude, itemID)
	}

	items, err := r.items.RecentPopularItems(ctx, now.Add(-popularWindow), now, exclude, n*2)
	if err != nil {
		return nil, fmt.Errorf("load popular items: %w", err)
	}

	recommendations := make([]Recommendation, 0, n)
	for _, item := range items {
		if _, dup := alreadySelected[item.ItemID]; dup {
			continue
		}
		recommendations = append(recommendations, toRecommendation(item, 0))
		if len(recommendations) >= n {
			break
		}
	}
	return recommendations, nil
}

// rankCandidates orders candidate item ids by occurrence count descending,
// ties broken by ascending item id, and returns at most limit ids.
func rankCandidates(counts map[int64]int, limit int) []int64 {
	ids := make([]int64, 0, len(counts))
	for itemID := range counts {
		ids = append(ids, itemID)
	}
	sort.Slice(ids, func(a, b int) bool {
		if counts[ids[a]] != counts[ids[b]] {
			return counts[ids[a]] > counts[ids[b]]
		}
		return ids[a] < ids[b]
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

func toRecommendation(item models.Item, score int) Recommendation {
	return Recommendation{
		ItemID:       item.ItemID,
		Name:         item.Name,
		Title:        item.Title,
		Category:     item.Category,
		CurrentPrice: item.CurrentPrice,
		EndTime:      item.EndTime,
		ItemStatus:   item.ItemStatus,
		RegionName:   item.Region.Sigungu,
		ViewCount:    item.ViewCount,
		BidCount:     item.BidCount,
		Score:        score,
	}
}
