package app

import (
	"ktrend_api/config/values"
	"ktrend_api/internal/trends/app/web/handlers"
	"ktrend_api/internal/trends/business"
	"ktrend_api/internal/trends/report"
	"ktrend_api/internal/trends/storage"
	"ktrend_api/pkg/logger"
	"time"
)

// Services is the assembled aggregation layer over one Source.
type Services struct {
	Rankings   *storage.RankingRepository
	Categories *storage.CategoryRepository
	Resolver   business.CategoryNamer

	Ranked       *business.RankedProductService
	Trending     *business.TrendingService
	History      *business.HistoryService
	Deals        *business.DealsService
	CategoryList *business.CategoryService
	KPI          *business.KPIService
	Reviews      *business.ReviewGrowthService
	Insights     *business.InsightsService
	Report       *report.Builder
}

// NewServices wires repositories and services. A nil cache disables category memoization.
func NewServices(src storage.Source, v values.TrendsValues, cache business.KeyValueCache, cacheTTL time.Duration, log logger.Logger) *Services {
	log = logger.OrNop(log)
	batch := storage.Batcher{Size: v.JoinBatchSize, Concurrency: v.JoinBatchConcurrent}

	rankings := storage.NewRankingRepository(src)
	products := storage.NewProductRepository(src, batch)
	deals := storage.NewDealRepository(src)
	categories := storage.NewCategoryRepository(src)
	views := storage.NewViewRepository(src)

	var resolver business.CategoryNamer = business.NewCategoryResolver(categories, v, log)
	if cache != nil {
		resolver = business.NewCachedResolver(resolver, cache, cacheTTL, log)
	}

	s := &Services{
		Rankings:     rankings,
		Categories:   categories,
		Resolver:     resolver,
		Ranked:       business.NewRankedProductService(rankings, products, resolver, v, log),
		Trending:     business.NewTrendingService(rankings, products, views, v, log),
		History:      business.NewHistoryService(rankings, deals, v),
		Deals:        business.NewDealsService(deals, products, log),
		CategoryList: business.NewCategoryService(categories, v),
		Reviews:      business.NewReviewGrowthService(views),
		Insights:     business.NewInsightsService(products, v),
	}
	s.KPI = business.NewKPIService(s.Trending, s.Deals, products)
	s.Report = report.NewBuilder(s.Ranked, s.Trending, s.Deals)
	return s
}

// Handlers returns one handler per route group.
func (s *Services) Handlers(v values.TrendsValues, log logger.Logger) []handlers.Handler {
	return []handlers.Handler{
		handlers.NewProductHandler(s.Ranked, s.History, v.HistoryDays, log),
		handlers.NewTrendingHandler(s.Trending, s.Reviews, log),
		handlers.NewDealsHandler(s.Deals, s.KPI, log),
		handlers.NewCategoryHandler(s.CategoryList, log),
		handlers.NewInsightsHandler(s.Insights, log),
		handlers.NewReportHandler(s.Report, log),
	}
}
