package business

import (
	"fmt"
	"ktrend_api/config/values"
	"ktrend_api/internal/trends/storage"
	"ktrend_api/internal/trends/storage/storagetest"
	"testing"
)

type testServices struct {
	fx         *storagetest.Fixture
	values     values.TrendsValues
	rankings   *storage.RankingRepository
	products   *storage.ProductRepository
	deals      *storage.DealRepository
	categories *storage.CategoryRepository
	views      *storage.ViewRepository
	resolver   *CategoryResolver
	ranked     *RankedProductService
	trending   *TrendingService
	history    *HistoryService
	dealsSvc   *DealsService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	fx := storagetest.New(t)
	v := values.DefaultTrendsValues()
	s := &testServices{
		fx:         fx,
		values:     v,
		rankings:   storage.NewRankingRepository(fx.Source),
		products:   storage.NewProductRepository(fx.Source, storage.Batcher{Size: 2, Concurrency: 2}),
		deals:      storage.NewDealRepository(fx.Source),
		categories: storage.NewCategoryRepository(fx.Source),
		views:      storage.NewViewRepository(fx.Source),
	}
	s.resolver = NewCategoryResolver(s.categories, v, nil)
	s.ranked = NewRankedProductService(s.rankings, s.products, s.resolver, v, nil)
	s.trending = NewTrendingService(s.rankings, s.products, s.views, v, nil)
	s.history = NewHistoryService(s.rankings, s.deals, v)
	s.dealsSvc = NewDealsService(s.deals, s.products, nil)
	return s
}

// addProducts inserts products from..to on platform named "Item n" with external ids "<prefix>n".
func (s *testServices) addProducts(platform, prefix string, from, to int64, brand string) {
	for i := from; i <= to; i++ {
		s.fx.AddProduct(storagetest.Product{
			ID:       i,
			External: fmt.Sprintf("%s%d", prefix, i),
			Platform: platform,
			Name:     fmt.Sprintf("Item %d", i),
			Brand:    brand,
			Price:    "20000",
		})
	}
}

func intPtr(v int) *int { return &v }
