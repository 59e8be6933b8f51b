package pricing

import (
	"math"

	"auction-ai/internal/models"
)

// categoryRatios maps categories with well-understood resale behavior to
// their starting-price ratio. Categories with stable market prices start
// closer to the average; fast-turnover categories start lower.
var categoryRatios = map[models.Category]float64{
	models.CategoryDigital:       0.92,
	models.CategoryClothes:       0.85,
	models.CategoryHomeAppliance: 0.90,
	models.CategoryBeauty:        0.85,
	models.CategorySports:        0.88,
}

// DefaultRatio applies when the category is absent or unmapped.
const DefaultRatio = 0.90

// CategoryRatio returns the starting-price ratio for a category.
func CategoryRatio(category models.Category) float64 {
	if ratio, ok := categoryRatios[category]; ok {
		return ratio
	}
	return DefaultRatio
}

// SuggestStartPrice computes the suggested auction starting price from the
// average market price, rounded to the nearest 1000 won.
func SuggestStartPrice(avgPrice int, category models.Category) int {
	start := float64(avgPrice) * CategoryRatio(category)
	return int(math.Round(start/1000)) * 1000
}
