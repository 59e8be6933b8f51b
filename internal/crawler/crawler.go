package crawler

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// price sanity band in won; anything outside is listing noise
	minPlausiblePrice = 1_000
	maxPlausiblePrice = 100_000_000

	defaultMaxItems = 20
)

// Client fetches secondhand listing prices for a keyword from the joongna
// web search. No results is a normal outcome and yields an empty slice;
// errors are reserved for transport failures.
type Client struct {
	baseURL  string
	maxItems int
	client   *resty.Client
}

// New creates a crawler client against baseURL (e.g. https://web.joongna.com).
func New(baseURL string, timeout time.Duration) *Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxItems: defaultMaxItems,
		client:   client,
	}
}

// CrawlSamples fetches the search page for keyword and extracts up to
// maxItems listing prices from it.
func (c *Client) CrawlSamples(ctx context.Context, keyword string) ([]int, error) {
	searchURL := fmt.Sprintf("%s/search/%s", c.baseURL, url.PathEscape(keyword))

	resp, err := c.client.R().SetContext(ctx).Get(searchURL)
	if err != nil {
		return nil, fmt.Errorf("fetch search page: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("search page returned HTTP %d", resp.StatusCode())
	}

	prices := ExtractPrices(string(resp.Body()), c.maxItems)
	log.Printf("Crawled %q: %d prices", keyword, len(prices))
	return prices, nil
}

var (
	manwonPattern = regexp.MustCompile(`(\d+\.?\d*)만원`)
	manPattern    = regexp.MustCompile(`(\d+\.?\d*)만`)
	wonPattern    = regexp.MustCompile(`(\d+)원`)
	digitsPattern = regexp.MustCompile(`(\d{4,})`)
)

// ExtractPrices pulls listing prices out of search-result markup, at most
// limit of them.
func ExtractPrices(body string, limit int) []int {
	prices := make([]int, 0, limit)
	for _, token := range priceTokens(body) {
		if price, ok := ExtractPrice(token); ok {
			prices = append(prices, price)
			if len(prices) >= limit {
				break
			}
		}
	}
	return prices
}

// priceTokens splits markup into text fragments that could carry a price.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

func priceTokens(body string) []string {
	text := tagPattern.ReplaceAllString(body, "\n")
	return strings.FieldsFunc(text, func(r rune) bool { return r == '\n' })
}

// ExtractPrice parses a single text fragment into a won amount. It handles
// the 만원 and 만 (ten-thousand) notations, plain 원 amounts, and bare
// digit runs, rejecting values outside the plausible band.
func ExtractPrice(text string) (int, bool) {
	text = strings.NewReplacer(",", "", " ", "", "\n", "").Replace(text)

	if strings.Contains(text, "만원") {
		if m := manwonPattern.FindStringSubmatch(text); m != nil {
			if value, err := strconv.ParseFloat(m[1], 64); err == nil {
				return plausible(int(value * 10_000))
			}
		}
	}

	if strings.Contains(text, "만") && !strings.Contains(text, "만원") {
		if m := manPattern.FindStringSubmatch(text); m != nil {
			if value, err := strconv.ParseFloat(m[1], 64); err == nil {
				return plausible(int(value * 10_000))
			}
		}
	}

	if strings.Contains(text, "원") {
		if m := wonPattern.FindStringSubmatch(text); m != nil {
			if value, err := strconv.Atoi(m[1]); err == nil {
				return plausible(value)
			}
		}
	}

	if m := digitsPattern.FindStringSubmatch(text); m != nil {
		if value, err := strconv.Atoi(m[1]); err == nil {
			return plausible(value)
		}
	}

	return 0, false
}

func plausible(price int) (int, bool) {
	if price >= minPlausiblePrice && price <= maxPlausiblePrice {
		return price, true
	}
	return 0, false
}
