package models

// Category is the fixed set of item categories used as recommendation features.
type Category string

const (
	CategoryHomeAppliance Category = "HOME_APPLIANCE"
	CategoryHealthFood    Category = "HEALTH_FOOD"
	CategoryBeauty        Category = "BEAUTY"
	CategoryFoodProcessed Category = "FOOD_PROCESSED"
	CategoryPet           Category = "PET"
	CategoryDigital       Category = "DIGITAL"
	CategoryLivingKitchen Category = "LIVING_KITCHEN"
	CategoryWomenAcc      Category = "WOMEN_ACC"
	CategorySports        Category = "SPORTS"
	CategoryPlant         Category = "PLANT"
	CategoryGameHobby     Category = "GAME_HOBBY"
	CategoryTicket        Category = "TICKET"
	CategoryFurniture     Category = "FURNITURE"
	CategoryBook          Category = "BOOK"
	CategoryKids          Category = "KIDS"
	CategoryClothes       Category = "CLOTHES"
	CategoryEtc           Category = "ETC"
)

// AllCategories lists every known category.
var AllCategories = []Category{
	CategoryHomeAppliance, CategoryHealthFood, CategoryBeauty,
	CategoryFoodProcessed, CategoryPet, CategoryDigital,
	CategoryLivingKitchen, CategoryWomenAcc, CategorySports,
	CategoryPlant, CategoryGameHobby, CategoryTicket,
	CategoryFurniture, CategoryBook, CategoryKids,
	CategoryClothes, CategoryEtc,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ItemStatus is the lifecycle state of an auction item.
type ItemStatus string

const (
	ItemStatusBidding ItemStatus = "BIDDING" // auction in progress
	ItemStatusSuccess ItemStatus = "SUCCESS" // settled with a winner
	ItemStatusFail    ItemStatus = "FAIL"    // ended without a winner
)

// RangeSetting is the user's preferred trade distance.
type RangeSetting string

const (
	RangeVeryNear RangeSetting = "VERY_NEAR" // 2km
	RangeNear     RangeSetting = "NEAR"      // 5km
	RangeMedium   RangeSetting = "MEDIUM"    // 20km
	RangeFar      RangeSetting = "FAR"       // 50km
	RangeAll      RangeSetting = "ALL"       // nationwide
)
