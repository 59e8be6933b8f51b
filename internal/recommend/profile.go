package recommend

import (
	"auction-ai/internal/models"
)

// Profile is a per-user mapping from item category to interaction frequency.
// Interactions are bids and liked wishlist entries.
type Profile map[models.Category]int

// ProfileSet holds the derived interaction data for every user in one snapshot.
type ProfileSet struct {
	// Profiles maps user id to their category-frequency profile. Users with
	// no interactions get an empty (non-nil) profile.
	Profiles map[int64]Profile

	// BidItems maps user id to the set of item ids they bid on. Duplicate
	// bids on the same item collapse into one set entry.
	BidItems map[int64]map[int64]struct{}

	// LikedItems maps user id to the set of item ids they liked.
	LikedItems map[int64]map[int64]struct{}
}

// BuildProfiles derives a ProfileSet from a full data snapshot. Items missing
// from the index (soft-deleted or inconsistent rows) are skipped. Pure
// function of its inputs.
func BuildProfiles(users []models.User, items map[int64]models.Item, transactions []models.ItemTransaction, likes []models.UserLiked) *ProfileSet {
	ps := &ProfileSet{
		Profiles:   make(map[int64]Profile, len(users)),
		BidItems:   make(map[int64]map[int64]struct{}),
		LikedItems: make(map[int64]map[int64]struct{}),
	}

	for _, tx := range transactions {
		set := ps.BidItems[tx.BuyerID]
		if set == nil {
			set = make(map[int64]struct{})
			ps.BidItems[tx.BuyerID] = set
		}
		set[tx.ItemID] = struct{}{}
	}

	for _, like := range likes {
		if !like.Liked {
			continue
		}
		set := ps.LikedItems[like.UserID]
		if set == nil {
			set = make(map[int64]struct{})
			ps.LikedItems[like.UserID] = set
		}
		set[like.ItemID] = struct{}{}
	}

	for _, user := range users {
		profile := make(Profile)
		for itemID := range ps.BidItems[user.ID] {
			if item, ok := items[itemID]; ok && item.Category != "" {
				profile[item.Category]++
			}
		}
		for itemID := range ps.LikedItems[user.ID] {
			if item, ok := items[itemID]; ok && item.Category != "" {
				profile[item.Category]++
			}
		}
		ps.Profiles[user.ID] = profile
	}

	return ps
}

// InteractedItems returns the union of a user's bid and liked item ids.
func (ps *ProfileSet) InteractedItems(userID int64) map[int64]struct{} {
	union := make(map[int64]struct{})
	for itemID := range ps.BidItems[userID] {
		union[itemID] = struct{}{}
	}
	for itemID := range ps.LikedItems[userID] {
		union[itemID] = struct{}{}
	}
	return union
}
