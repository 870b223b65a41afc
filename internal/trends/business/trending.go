package business

import (
	"context"
	"ktrend_api/config/values"
	"ktrend_api/internal/trends/models"
	"ktrend_api/internal/trends/storage"
	"ktrend_api/metrics"
	"ktrend_api/pkg/logger"
	"sort"

	"golang.org/x/sync/errgroup"
)

// TrendingService ranks products by how far they climbed between two snapshot dates.
type TrendingService struct {
	rankings *storage.RankingRepository
	products *storage.ProductRepository
	views    *storage.ViewRepository
	values   values.TrendsValues
	log      logger.Logger
}

func NewTrendingService(rankings *storage.RankingRepository, products *storage.ProductRepository, views *storage.ViewRepository, v values.TrendsValues, log logger.Logger) *TrendingService {
	return &TrendingService{
		rankings: rankings,
		products: products,
		views:    views,
		values:   v,
		log:      logger.OrNop(log).WithPrefix("[Trending]"),
	}
}

func (s *TrendingService) FetchTrending(ctx context.Context, limit int, platform string) (models.Page[models.TrendingProduct], error) {
	if limit <= 0 {
		limit = s.values.TrendingLimit
	}

	page, err := s.fetch(ctx, limit, platform)
	if err != nil {
		return models.Page[models.TrendingProduct]{}, err
	}
	metrics.RecordStrategy("trending", page.Strategy)
	return page, nil
}

func (s *TrendingService) fetch(ctx context.Context, limit int, platform string) (models.Page[models.TrendingProduct], error) {
	if values.Contains(s.values.PureTrendPlatforms, platform) {
		return s.latestTop(ctx, limit, platform, models.StrategyPureTrend)
	}

	viewRows, err := s.views.Trending(ctx, platform, limit)
	if err != nil {
		return models.Page[models.TrendingProduct]{}, err
	}
	if len(viewRows) > 0 {
		if err := s.enrich(ctx, viewRows); err != nil {
			return models.Page[models.TrendingProduct]{}, err
		}
		return trendingPage(viewRows, models.StrategyView, ""), nil
	}

	s.log.Log("trending view empty for %s, comparing snapshot dates", platform)
	latest, err := s.rankings.LatestDate(ctx, platform)
	if err != nil {
		return models.Page[models.TrendingProduct]{}, err
	}
	if latest == "" {
		return models.EmptyPage[models.TrendingProduct](), nil
	}
	previous, err := s.rankings.DateBefore(ctx, platform, latest)
	if err != nil {
		return models.Page[models.TrendingProduct]{}, err
	}
	if previous == "" {
		return s.latestTop(ctx, limit, platform, models.StrategySingleDay)
	}
	return s.twoDate(ctx, limit, platform, latest, previous)
}

// twoDate keeps products whose rank improved from previous to latest, biggest climb first.
func (s *TrendingService) twoDate(ctx context.Context, limit int, platform, latest, previous string) (models.Page[models.TrendingProduct], error) {
	var current, before map[models.InternalID]models.RankingSnapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.rankings.ForDate(gctx, platform, latest, "")
		current = DedupeRankings(rows)
		return err
	})
	g.Go(func() error {
		rows, err := s.rankings.ForDate(gctx, platform, previous, "")
		before = DedupeRankings(rows)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Page[models.TrendingProduct]{}, err
	}

	var climbers []models.TrendingProduct
	for id, cur := range current {
		prev, ok := before[id]
		if !ok {
			continue
		}
		delta := RankDelta(prev.Rank, cur.Rank)
		if delta <= 0 {
			continue
		}
		prevRank := prev.Rank
		climbers = append(climbers, models.TrendingProduct{
			ProductRecord: models.ProductRecord{ProductKey: models.ProductKey{Internal: id}},
			CurrentRank:   cur.Rank,
			PreviousRank:  &prevRank,
			RankChange:    delta,
			CategoryCode:  cur.CategoryCode,
		})
	}
	sort.SliceStable(climbers, func(i, j int) bool {
		a, b := climbers[i], climbers[j]
		if a.RankChange != b.RankChange {
			return a.RankChange > b.RankChange
		}
		if a.CurrentRank != b.CurrentRank {
			return a.CurrentRank < b.CurrentRank
		}
		return a.Internal < b.Internal
	})
	// truncate after the join so climbers missing from the master table do not use up the limit
	joined, err := s.join(ctx, climbers)
	if err != nil {
		return models.Page[models.TrendingProduct]{}, err
	}
	if len(joined) > limit {
		joined = joined[:limit]
	}
	return trendingPage(joined, models.StrategyTwoDate, latest), nil
}

// latestTop returns the best-ranked products of the newest date with no delta.
func (s *TrendingService) latestTop(ctx context.Context, limit int, platform, strategy string) (models.Page[models.TrendingProduct], error) {
	latest, err := s.rankings.LatestDate(ctx, platform)
	if err != nil {
		return models.Page[models.TrendingProduct]{}, err
	}
	if latest == "" {
		return models.EmptyPage[models.TrendingProduct](), nil
	}
	rows, err := s.rankings.ForDate(ctx, platform, latest, "")
	if err != nil {
		return models.Page[models.TrendingProduct]{}, err
	}
	ranked := SortByRank(DedupeRankings(rows))

	top := make([]models.TrendingProduct, len(ranked))
	for i, r := range ranked {
		top[i] = models.TrendingProduct{
			ProductRecord: models.ProductRecord{ProductKey: models.ProductKey{Internal: r.ProductID}},
			CurrentRank:   r.Rank,
			CategoryCode:  r.CategoryCode,
		}
	}
	joined, err := s.join(ctx, top)
	if err != nil {
		return models.Page[models.TrendingProduct]{}, err
	}
	if len(joined) > limit {
		joined = joined[:limit]
	}
	return trendingPage(joined, strategy, latest), nil
}

// join fills product records by storage id, summary included; products missing
// from the master table are dropped.
func (s *TrendingService) join(ctx context.Context, items []models.TrendingProduct) ([]models.TrendingProduct, error) {
	ids := make([]models.InternalID, len(items))
	for i, it := range items {
		ids[i] = it.Internal
	}
	products, err := s.products.ByInternalIDs(ctx, ids, storage.ProductFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]models.TrendingProduct, 0, len(items))
	for _, it := range items {
		p, ok := products[it.Internal]
		if !ok {
			continue
		}
		it.ProductRecord = p
		out = append(out, it)
	}
	return out, nil
}

// enrich merges AI summaries onto view rows; absence is not an error.
func (s *TrendingService) enrich(ctx context.Context, items []models.TrendingProduct) error {
	ids := make([]models.InternalID, len(items))
	for i, it := range items {
		ids[i] = it.Internal
	}
	summaries, err := s.products.AISummaries(ctx, ids)
	if err != nil {
		return err
	}
	for i := range items {
		items[i].AISummary = summaries[items[i].Internal]
	}
	return nil
}

// RankDelta is positive when the product climbed: rank 1 is best.
func RankDelta(previousRank, currentRank int) int {
	return previousRank - currentRank
}

func trendingPage(items []models.TrendingProduct, strategy, date string) models.Page[models.TrendingProduct] {
	if items == nil {
		items = []models.TrendingProduct{}
	}
	return models.Page[models.TrendingProduct]{Data: items, Count: len(items), Strategy: strategy, Date: date}
}
