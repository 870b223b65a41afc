package business

import (
	"context"
	"fmt"
	"ktrend_api/config/values"
	"ktrend_api/internal/trends/models"
	"ktrend_api/internal/trends/storage"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	defaultTopBrands   = 10
	insightsSampleSize = 1000
)

// PriceBounds split KRW prices into the dashboard's ranges.
var PriceBounds = []int64{10000, 30000, 50000, 100000}

// InsightsService aggregates brand and price distributions client-side, since
// the upstream offers no GROUP BY.
type InsightsService struct {
	products *storage.ProductRepository
	values   values.TrendsValues
}

func NewInsightsService(products *storage.ProductRepository, v values.TrendsValues) *InsightsService {
	return &InsightsService{products: products, values: v}
}

func (s *InsightsService) FetchInsights(ctx context.Context, platform string, top int) (models.Insights, error) {
	if top <= 0 {
		top = defaultTopBrands
	}
	sample, err := s.products.Recent(ctx, platform, insightsSampleSize)
	if err != nil {
		return models.Insights{}, err
	}
	return models.Insights{
		Platform: platform,
		Sample:   len(sample),
		Brands:   TopBrands(sample, top, s.values.InsightsExcludedBrands),
		Prices:   PriceDistribution(sample, PriceBounds),
	}, nil
}

// TopBrands counts products per brand, most frequent first, ties by name.
// Blank and excluded brands are skipped.
func TopBrands(products []models.ProductRecord, n int, excluded []string) []models.BrandCount {
	counts := make(map[string]int)
	for _, p := range products {
		brand := strings.TrimSpace(p.Brand)
		if brand == "" || values.Contains(excluded, brand) {
			continue
		}
		counts[brand]++
	}

	out := make([]models.BrandCount, 0, len(counts))
	for brand, count := range counts {
		out = append(out, models.BrandCount{Brand: brand, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Brand < out[j].Brand
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// PriceDistribution places every known price into len(bounds)+1 buckets. Each
// bucket includes its lower bound; products without a price are not counted.
func PriceDistribution(products []models.ProductRecord, bounds []int64) []models.PriceBucket {
	buckets := make([]models.PriceBucket, len(bounds)+1)
	for i := range buckets {
		if i > 0 {
			buckets[i].Min = decimal.NewFromInt(bounds[i-1])
		}
		if i < len(bounds) {
			upper := decimal.NewFromInt(bounds[i])
			buckets[i].Max = &upper
		}
		buckets[i].Label = bucketLabel(bounds, i)
	}

	for _, p := range products {
		if p.Price == nil {
			continue
		}
		i := sort.Search(len(bounds), func(k int) bool {
			return p.Price.LessThan(decimal.NewFromInt(bounds[k]))
		})
		buckets[i].Count++
	}
	return buckets
}

func bucketLabel(bounds []int64, i int) string {
	switch {
	case i == 0:
		return "~" + manwon(bounds[0])
	case i == len(bounds):
		return manwon(bounds[i-1]) + "+"
	default:
		return manwon(bounds[i-1]) + "~" + manwon(bounds[i])
	}
}

// manwon renders a KRW amount in units of 10,000 (만).
func manwon(v int64) string {
	if v%10000 == 0 {
		return fmt.Sprintf("%d만", v/10000)
	}
	return decimal.NewFromInt(v).Div(decimal.NewFromInt(10000)).String() + "만"
}
