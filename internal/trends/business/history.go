package business

import (
	"context"
	"fmt"
	"ktrend_api/config/values"
	"ktrend_api/internal/trends/models"
	"ktrend_api/internal/trends/storage"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// HistoryWindow limits history to the last Days days; All ignores Days.
type HistoryWindow struct {
	Days int
	All  bool
}

// ParseHistoryWindow accepts "all", a positive day count, or "" for defaultDays.
func ParseHistoryWindow(s string, defaultDays int) (HistoryWindow, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		return HistoryWindow{Days: defaultDays}, nil
	case "all":
		return HistoryWindow{All: true}, nil
	}
	days, err := strconv.Atoi(s)
	if err != nil || days <= 0 {
		return HistoryWindow{}, fmt.Errorf("invalid days %q: want a positive number or \"all\"", s)
	}
	return HistoryWindow{Days: days}, nil
}

// HistoryService aligns a product's rank and price series on one time axis.
type HistoryService struct {
	rankings *storage.RankingRepository
	deals    *storage.DealRepository
	values   values.TrendsValues
	now      func() time.Time
}

func NewHistoryService(rankings *storage.RankingRepository, deals *storage.DealRepository, v values.TrendsValues) *HistoryService {
	return &HistoryService{rankings: rankings, deals: deals, values: v, now: time.Now}
}

func (s *HistoryService) FetchProductHistory(ctx context.Context, id models.InternalID, window HistoryWindow) (models.ProductHistory, error) {
	since := ""
	if !window.All {
		days := window.Days
		if days <= 0 {
			days = s.values.HistoryDays
		}
		since = s.now().UTC().AddDate(0, 0, -days).Format(models.DateLayout)
	}

	var (
		ranks  []models.RankingSnapshot
		prices []models.PriceSnapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ranks, err = s.rankings.History(gctx, id, since)
		return err
	})
	g.Go(func() (err error) {
		prices, err = s.deals.PriceHistory(gctx, id, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.ProductHistory{}, err
	}
	return MergeHistory(ranks, prices), nil
}

// MergeHistory builds the union of both series' instants, ascending. At each
// instant a series without an observation is null; nothing is interpolated.
// When one series has several rows at the same instant the last one wins.
func MergeHistory(ranks []models.RankingSnapshot, prices []models.PriceSnapshot) models.ProductHistory {
	h := models.ProductHistory{
		Ranks:    make([]models.RankPoint, 0, len(ranks)),
		Prices:   make([]models.PricePoint, 0, len(prices)),
		Timeline: []models.HistoryPoint{},
	}

	instants := make(map[int64]time.Time)
	rankAt := make(map[int64]int)
	for _, r := range ranks {
		ts := r.ObservedAt()
		if ts.IsZero() {
			continue
		}
		h.Ranks = append(h.Ranks, models.RankPoint{Timestamp: ts, Rank: r.Rank})
		instants[ts.UnixNano()] = ts
		rankAt[ts.UnixNano()] = r.Rank
	}

	priceAt := make(map[int64]models.PriceSnapshot)
	for _, p := range prices {
		ts := p.ObservedAt()
		if ts.IsZero() {
			continue
		}
		h.Prices = append(h.Prices, models.PricePoint{Timestamp: ts, Price: p.DealPrice, OriginalPrice: p.OriginalPrice})
		instants[ts.UnixNano()] = ts
		priceAt[ts.UnixNano()] = p
	}

	keys := make([]int64, 0, len(instants))
	for k := range instants {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, k := range keys {
		point := models.HistoryPoint{Timestamp: instants[k]}
		if rank, ok := rankAt[k]; ok {
			point.Rank = &rank
		}
		if p, ok := priceAt[k]; ok {
			point.Price = p.DealPrice
			point.OriginalPrice = p.OriginalPrice
			if p.DealPrice != nil {
				if pct, ok := models.DiscountPercent(*p.DealPrice, p.OriginalPrice); ok {
					point.DiscountPct = &pct
				}
			}
		}
		h.Timeline = append(h.Timeline, point)
	}
	return h
}
