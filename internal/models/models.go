package models

import (
	"time"
)

// User represents a marketplace user
type User struct {
	ID              int64        `json:"id" gorm:"primaryKey"`
	Nickname        string       `json:"nickname" gorm:"size:15;unique;not null"`
	Email           string       `json:"email" gorm:"size:254"`
	MannerScore     int          `json:"manner_score" gorm:"not null;default:50"`
	RangeSetting    RangeSetting `json:"range_setting" gorm:"size:20;not null;default:'NEAR'"`
	ProfileImage    string       `json:"profile_image" gorm:"size:200"`
	PhoneNumber     string       `json:"phone_number" gorm:"size:20"`
	PhoneVerifiedAt *time.Time   `json:"phone_verified_at"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// Region represents an administrative district an item is traded in
type Region struct {
	RegionID     int64   `json:"region_id" gorm:"primaryKey"`
	Sido         string  `json:"sido" gorm:"size:50;not null"`
	Sigungu      string  `json:"sigungu" gorm:"size:50;not null"`
	Eupmyeondong string  `json:"eupmyeondong" gorm:"size:50;not null"`
	Latitude     float64 `json:"latitude" gorm:"not null"`
	Longitude    float64 `json:"longitude" gorm:"not null"`
}

func (Region) TableName() string { return "region" }

// Item represents an auction listing. The marketplace mutates items;
// this service only reads them.
type Item struct {
	ItemID       int64      `json:"item_id" gorm:"primaryKey"`
	SellerID     int64      `json:"seller_id" gorm:"not null"`
	WinnerID     *int64     `json:"winner_id"`
	Name         string     `json:"name" gorm:"size:30;not null"`
	Title        string     `json:"title" gorm:"size:30;not null"`
	Description  string     `json:"description" gorm:"type:text"`
	Category     Category   `json:"category" gorm:"size:30;not null;index"`
	CurrentPrice int        `json:"current_price" gorm:"not null"`
	StartPrice   int        `json:"start_price" gorm:"not null"`
	BidIncrement int        `json:"bid_increment" gorm:"not null"`
	EndTime      time.Time  `json:"end_time" gorm:"not null"`
	ItemStatus   ItemStatus `json:"item_status" gorm:"size:10;not null;default:'BIDDING';index"`
	RegionID     int64      `json:"region_id" gorm:"not null"`
	Region       Region     `json:"region" gorm:"foreignKey:RegionID"`
	ViewCount    int64      `json:"view_count" gorm:"not null;default:0"`
	BidCount     int64      `json:"bid_count" gorm:"not null;default:0"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Item) TableName() string { return "item" }

// ItemTransaction is an append-only bid record
type ItemTransaction struct {
	TransactionID int64     `json:"transaction_id" gorm:"primaryKey"`
	BuyerID       int64     `json:"buyer_id" gorm:"not null;index"`
	ItemID        int64     `json:"item_id" gorm:"not null;index"`
	BidPrice      int       `json:"bid_price" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
}

func (ItemTransaction) TableName() string { return "item_transaction" }

// UserLiked is a wishlist entry; only rows with Liked=true count as interactions
type UserLiked struct {
	LikedID   int64     `json:"liked_id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index"`
	ItemID    int64     `json:"item_id" gorm:"not null;index"`
	Liked     bool      `json:"liked" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserLiked) TableName() string { return "user_liked" }

// MarketPrice caches crawled price statistics per (keyword, platform)
type MarketPrice struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Keyword     string    `json:"keyword" gorm:"size:100;not null;uniqueIndex:idx_keyword_platform"`
	Platform    string    `json:"platform" gorm:"size:30;not null;uniqueIndex:idx_keyword_platform"`
	AvgPrice    int       `json:"avg_price"`
	MinPrice    int       `json:"min_price"`
	MaxPrice    int       `json:"max_price"`
	SampleCount int       `json:"sample_count"`
	CrawledAt   time.Time `json:"crawled_at" gorm:"index"`
}

func (MarketPrice) TableName() string { return "market_price" }
