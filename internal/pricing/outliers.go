package pricing

import (
	"sort"
)

// minFilterSamples is the smallest sample size IQR filtering runs on.
// Below it the input is returned unchanged with basic stats only.
const minFilterSamples = 3

// Stats summarizes a price sample. Avg/Min/Max are nil for an empty sample.
// The quartile fields are populated only when IQR filtering actually ran.
type Stats struct {
	AvgPrice    *int `json:"avg_price"`
	MinPrice    *int `json:"min_price"`
	MaxPrice    *int `json:"max_price"`
	SampleCount int  `json:"sample_count"`

	Q1           *int `json:"q1,omitempty"`
	Q3           *int `json:"q3,omitempty"`
	IQR          *int `json:"iqr,omitempty"`
	LowerBound   *int `json:"lower_bound,omitempty"`
	UpperBound   *int `json:"upper_bound,omitempty"`
	RemovedCount *int `json:"removed_count,omitempty"`
}

// FilterOutliers removes prices outside the 1.5×IQR fences and returns the
// surviving prices with summary statistics. Quartiles are computed over the
// full input; the returned stats describe the filtered sample plus the
// fence parameters. Fewer than minFilterSamples prices skip filtering
// entirely. Deterministic pure function.
func FilterOutliers(prices []int) ([]int, Stats) {
	if len(prices) < minFilterSamples {
		return prices, basicStats(prices)
	}

	q1 := percentile(prices, 25)
	q3 := percentile(prices, 75)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	filtered := make([]int, 0, len(prices))
	for _, p := range prices {
		if float64(p) >= lower && float64(p) <= upper {
			filtered = append(filtered, p)
		}
	}

	stats := basicStats(filtered)
	stats.Q1 = intPtr(int(q1))
	stats.Q3 = intPtr(int(q3))
	stats.IQR = intPtr(int(iqr))
	stats.LowerBound = intPtr(int(lower))
	stats.UpperBound = intPtr(int(upper))
	stats.RemovedCount = intPtr(len(prices) - len(filtered))

	return filtered, stats
}

func basicStats(prices []int) Stats {
	if len(prices) == 0 {
		return Stats{SampleCount: 0}
	}

	sum := 0
	min := prices[0]
	max := prices[0]
	for _, p := range prices {
		sum += p
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	avg := int(float64(sum) / float64(len(prices)))

	return Stats{
		AvgPrice:    intPtr(avg),
		MinPrice:    intPtr(min),
		MaxPrice:    intPtr(max),
		SampleCount: len(prices),
	}
}

// percentile computes the p-th percentile with linear interpolation between
// adjacent ranks.
func percentile(prices []int, p float64) float64 {
	sorted := make([]float64, len(prices))
	for i, v := range prices {
		sorted[i] = float64(v)
	}
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(rank)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func intPtr(v int) *int { return &v }
