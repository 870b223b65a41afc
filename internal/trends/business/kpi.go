package business

import (
	"context"
	"ktrend_api/internal/trends/models"
	"ktrend_api/internal/trends/storage"

	"golang.org/x/sync/errgroup"
)

const kpiTrendingLimit = 100

// KPIService computes the dashboard headline numbers for a platform.
type KPIService struct {
	trending *TrendingService
	deals    *DealsService
	products *storage.ProductRepository
}

func NewKPIService(trending *TrendingService, deals *DealsService, products *storage.ProductRepository) *KPIService {
	return &KPIService{trending: trending, deals: deals, products: products}
}

func (s *KPIService) FetchKPIs(ctx context.Context, platform string) (models.KPIs, error) {
	kpi := models.KPIs{Platform: platform}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.trending.FetchTrending(gctx, kpiTrendingLimit, platform)
		if err != nil {
			return err
		}
		kpi.Trending = page.Count
		return nil
	})
	// same deduplicated, joined set as the deals list, so both report one count
	g.Go(func() error {
		page, err := s.deals.FetchDailySpecials(gctx, platform)
		if err != nil {
			return err
		}
		kpi.Deals = page.Count
		return nil
	})
	g.Go(func() (err error) {
		kpi.Total, err = s.products.Count(gctx, platform)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.KPIs{}, err
	}
	return kpi, nil
}
