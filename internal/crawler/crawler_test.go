package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
		ok   bool
	}{
		{"manwon notation", "49만원", 490_000, true},
		{"fractional manwon", "49.9만원", 499_000, true},
		{"man notation", "49만", 490_000, true},
		{"won with separators", "490,000원", 490_000, true},
		{"bare digits", "490000", 490_000, true},
		{"digits with noise", "가격 1,250,000원 택배비 포함", 1_250_000, true},
		{"too cheap", "500원", 0, false},
		{"too expensive", "990000000000", 0, false},
		{"short digit run", "300", 0, false},
		{"no price", "가격문의", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractPrice(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPricesFromMarkup(t *testing.T) {
	body := `<ul>
		<li><a href="/product/1"><span>아이폰 13</span><strong>490,000원</strong></a></li>
		<li><a href="/product/2"><span>아이폰 13 프로</span><strong>65만원</strong></a></li>
		<li><a href="/product/3"><span>케이스</span><strong>판매완료</strong></a></li>
	</ul>`

	prices := ExtractPrices(body, 20)

	require.Len(t, prices, 2)
	assert.Equal(t, []int{490_000, 650_000}, prices)
}

func TestExtractPricesHonorsLimit(t *testing.T) {
	body := "<p>10,000원</p><p>20,000원</p><p>30,000원</p>"

	prices := ExtractPrices(body, 2)

	assert.Equal(t, []int{10_000, 20_000}, prices)
}
