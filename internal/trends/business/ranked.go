package business

import (
	"context"
	"fmt"
	"ktrend_api/config/values"
	"ktrend_api/internal/trends/models"
	"ktrend_api/internal/trends/storage"
	"ktrend_api/metrics"
	"ktrend_api/pkg/logger"
	"ktrend_api/pkg/textclean"
	"strings"
)

type RankedQuery struct {
	Page         int
	PerPage      int
	Search       string
	CategoryCode string
	Platform     string
	Gender       string
}

// RankedProductService answers "what is the current ranked list" for a platform.
type RankedProductService struct {
	rankings *storage.RankingRepository
	products *storage.ProductRepository
	resolver CategoryNamer
	values   values.TrendsValues
	text     textclean.ITextService
	log      logger.Logger
}

func NewRankedProductService(rankings *storage.RankingRepository, products *storage.ProductRepository, resolver CategoryNamer, v values.TrendsValues, log logger.Logger) *RankedProductService {
	return &RankedProductService{
		rankings: rankings,
		products: products,
		resolver: resolver,
		text:     textclean.NewTextService(),
		values:   v,
		log:      logger.OrNop(log).WithPrefix("[RankedProducts]"),
	}
}

// FetchRankedProducts serves the latest ranking when it yields matches and
// falls back to a direct product query only when it yields none. Count always
// belongs to the strategy that produced Data.
func (s *RankedProductService) FetchRankedProducts(ctx context.Context, q RankedQuery) (models.Page[models.RankedProduct], error) {
	q = s.normalize(q)
	filter := storage.ProductFilter{Search: q.Search, Gender: q.Gender}

	merged, date, err := s.rankedSet(ctx, q, filter)
	if err != nil {
		return models.Page[models.RankedProduct]{}, err
	}
	if len(merged) > 0 {
		metrics.RecordStrategy("ranked", models.StrategyRanking)
		return models.Page[models.RankedProduct]{
			Data:     pageSlice(merged, q.Page, q.PerPage),
			Count:    len(merged),
			Strategy: models.StrategyRanking,
			Date:     date,
		}, nil
	}

	s.log.Log("no ranked matches for %s (date %q), using product fallback", q.Platform, date)
	page, err := s.fallback(ctx, q, filter)
	if err != nil {
		return models.Page[models.RankedProduct]{}, err
	}
	metrics.RecordStrategy("ranked", page.Strategy)
	return page, nil
}

func (s *RankedProductService) normalize(q RankedQuery) RankedQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage <= 0 {
		q.PerPage = s.values.DefaultPerPage
	}
	if s.values.MaxPerPage > 0 && q.PerPage > s.values.MaxPerPage {
		q.PerPage = s.values.MaxPerPage
	}
	q.Search = s.text.SearchTerm(q.Search)
	if values.Contains(s.values.AllCategoryCodes, q.CategoryCode) {
		q.CategoryCode = ""
	}
	q.Gender = strings.TrimSpace(q.Gender)
	if values.Contains(s.values.AllGenderValues, strings.ToLower(q.Gender)) || !values.Contains(s.values.GenderPlatforms, q.Platform) {
		q.Gender = ""
	}
	return q
}

// rankedSet is the full filtered, deduplicated, joined list in rank order.
func (s *RankedProductService) rankedSet(ctx context.Context, q RankedQuery, filter storage.ProductFilter) ([]models.RankedProduct, string, error) {
	date, err := s.rankings.LatestDate(ctx, q.Platform)
	if err != nil {
		return nil, "", err
	}
	if date == "" {
		return nil, "", nil
	}

	rows, err := s.rankings.ForDate(ctx, q.Platform, date, q.CategoryCode)
	if err != nil {
		return nil, date, err
	}
	if len(rows) == 0 {
		return nil, date, nil
	}
	ranked := SortByRank(DedupeRankings(rows))

	products, err := s.products.ByInternalIDs(ctx, rankIDs(ranked), filter)
	if err != nil {
		return nil, date, err
	}

	merged := make([]models.RankedProduct, 0, len(products))
	for _, r := range ranked {
		p, ok := products[r.ProductID]
		if !ok {
			continue
		}
		rank := r.Rank
		merged = append(merged, models.RankedProduct{
			ProductRecord: p,
			CurrentRank:   &rank,
			CategoryCode:  r.CategoryCode,
		})
	}
	return merged, date, nil
}

func (s *RankedProductService) fallback(ctx context.Context, q RankedQuery, filter storage.ProductFilter) (models.Page[models.RankedProduct], error) {
	search := storage.ProductSearch{
		ProductFilter: filter,
		Platform:      q.Platform,
		Limit:         q.PerPage,
		Offset:        (q.Page - 1) * q.PerPage,
	}
	if q.CategoryCode != "" {
		name, err := s.resolver.Resolve(ctx, q.Platform, q.CategoryCode)
		if err != nil {
			return models.Page[models.RankedProduct]{}, fmt.Errorf("fallback category: %w", err)
		}
		search.CategoryText = name
	}

	products, total, err := s.products.Search(ctx, search)
	if err != nil {
		return models.Page[models.RankedProduct]{}, err
	}
	data := make([]models.RankedProduct, len(products))
	for i, p := range products {
		data[i] = models.RankedProduct{ProductRecord: p}
	}
	return models.Page[models.RankedProduct]{Data: data, Count: total, Strategy: models.StrategyFallback}, nil
}

// pageSlice returns items[(page-1)*perPage : page*perPage], clamped; never nil.
func pageSlice[T any](items []T, page, perPage int) []T {
	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	end := min(start+perPage, len(items))
	return items[start:end]
}
