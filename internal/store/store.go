package store

import (
	"context"
	"time"

	"auction-ai/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the gorm-backed persistence layer for the intelligence services.
// All item/user/transaction access is read-only; the only write is the
// market price cache upsert.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Users returns every user.
func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ItemsByID returns all items indexed by id for fast profile lookups.
func (s *Store) ItemsByID(ctx context.Context) (map[int64]models.Item, error) {
	var items []models.Item
	if err := s.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Item, len(items))
	for _, item := range items {
		byID[item.ItemID] = item
	}
	return byID, nil
}

// Transactions returns every bid record.
func (s *Store) Transactions(ctx context.Context) ([]models.ItemTransaction, error) {
	var transactions []models.ItemTransaction
	if err := s.db.WithContext(ctx).Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// LikedEntries returns wishlist rows whose liked flag is set.
func (s *Store) LikedEntries(ctx context.Context) ([]models.UserLiked, error) {
	var likes []models.UserLiked
	if err := s.db.WithContext(ctx).Where("liked = ?", true).Find(&likes).Error; err != nil {
		return nil, err
	}
	return likes, nil
}

// BiddableItemsByIDs returns the subset of ids that is still open for
// bidding, with the region joined in for display.
func (s *Store) BiddableItemsByIDs(ctx context.Context, ids []int64, now time.Time) ([]models.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.Item
	err := s.db.WithContext(ctx).
		Preload("Region").
		Where("item_id IN ?", ids).
		Where("item_status = ?", models.ItemStatusBidding).
		Where("end_time > ?", now).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// RecentPopularItems returns biddable items created after since, ordered by
// bid count, then view count, then item id for a stable ranking.
func (s *Store) RecentPopularItems(ctx context.Context, since, now time.Time, exclude []int64, limit int) ([]models.Item, error) {
	query := s.db.WithContext(ctx).
		Preload("Region").
		Where("item_status = ?", models.ItemStatusBidding).
		Where("end_time > ?", now).
		Where("created_at > ?", since)
	if len(exclude) > 0 {
		query = query.Where("item_id NOT IN ?", exclude)
	}

	var items []models.Item
	err := query.
		Order("bid_count DESC").
		Order("view_count DESC").
		Order("item_id ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SettlementPrices returns current prices of successfully settled items
// whose name contains keyword, created after since.
func (s *Store) SettlementPrices(ctx context.Context, keyword string, since time.Time) ([]int, error) {
	var items []models.Item
	err := s.db.WithContext(ctx).
		Where("item_status = ?", models.ItemStatusSuccess).
		Where("name LIKE ?", "%"+keyword+"%").
		Where("created_at > ?", since).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	prices := make([]int, 0, len(items))
	for _, item := range items {
		if item.CurrentPrice > 0 {
			prices = append(prices, item.CurrentPrice)
		}
	}
	return prices, nil
}

// FreshMarketPrices returns cache rows for keyword crawled after since.
func (s *Store) FreshMarketPrices(ctx context.Context, keyword string, since time.Time) ([]models.MarketPrice, error) {
	var entries []models.MarketPrice
	err := s.db.WithContext(ctx).
		Where("keyword = ?", keyword).
		Where("crawled_at > ?", since).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// UpsertMarketPrice inserts or updates the cache row for the entry's
// (keyword, platform) key in a single conflict-resolving statement, so
// concurrent writers resolve last-writer-wins without a read-then-write
// race.
func (s *Store) UpsertMarketPrice(ctx context.Context, entry *models.MarketPrice) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "keyword"}, {Name: "platform"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"avg_price", "min_price", "max_price", "sample_count", "crawled_at",
			}),
		}).
		Create(entry).Error
}

// ListMarketPrices returns every cache row, most recently crawled first.
func (s *Store) ListMarketPrices(ctx context.Context) ([]models.MarketPrice, error) {
	var entries []models.MarketPrice
	err := s.db.WithContext(ctx).
		Order("crawled_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
