package business

import (
	"context"
	"ktrend_api/internal/trends/models"
	"ktrend_api/internal/trends/storage"
	"ktrend_api/metrics"
	"ktrend_api/pkg/logger"
	"sort"

	"github.com/shopspring/decimal"
)

// DealsService joins the latest daily specials to product records.
type DealsService struct {
	deals    *storage.DealRepository
	products *storage.ProductRepository
	log      logger.Logger
}

func NewDealsService(deals *storage.DealRepository, products *storage.ProductRepository, log logger.Logger) *DealsService {
	return &DealsService{
		deals:    deals,
		products: products,
		log:      logger.OrNop(log).WithPrefix("[Deals]"),
	}
}

func (s *DealsService) FetchDailySpecials(ctx context.Context, platform string) (models.Page[models.DealProduct], error) {
	date, err := s.deals.LatestDate(ctx, platform)
	if err != nil {
		return models.Page[models.DealProduct]{}, err
	}
	if date == "" {
		metrics.RecordStrategy("deals", models.StrategyEmpty)
		return models.EmptyPage[models.DealProduct](), nil
	}

	rows, err := s.deals.ForDate(ctx, platform, date)
	if err != nil {
		return models.Page[models.DealProduct]{}, err
	}
	latest, ids := dedupeDeals(rows)

	products, err := s.products.ByExternalIDs(ctx, platform, ids)
	if err != nil {
		return models.Page[models.DealProduct]{}, err
	}

	out := make([]models.DealProduct, 0, len(latest))
	for _, d := range latest {
		p, ok := products[d.ProductID]
		if !ok {
			continue
		}
		out = append(out, mergeDeal(p, d))
	}
	if missing := len(latest) - len(out); missing > 0 {
		s.log.Log("%d deals on %s have no product record", missing, date)
	}
	SortDeals(out)

	metrics.RecordStrategy("deals", models.StrategySingleDay)
	return models.Page[models.DealProduct]{Data: out, Count: len(out), Strategy: models.StrategySingleDay, Date: date}, nil
}

func mergeDeal(p models.ProductRecord, d models.DealSnapshot) models.DealProduct {
	deal := models.DealProduct{
		ProductRecord: p,
		SpecialPrice:  d.SpecialPrice,
		OriginalPrice: d.OriginalPrice,
	}
	if d.DiscountRate != nil {
		deal.DiscountRate = *d.DiscountRate
	}
	deal.DiscountPct = DealDiscount(d, p.Price)
	if deal.OriginalPrice == nil && p.Price != nil && p.Price.GreaterThan(d.SpecialPrice) {
		deal.OriginalPrice = p.Price
	}
	return deal
}

// DealDiscount derives the discount from a trustworthy original price: the
// snapshot's own, else the product's list price. Without one it falls back to
// the stored rate, else nil.
func DealDiscount(d models.DealSnapshot, listPrice *decimal.Decimal) *int {
	if pct, ok := models.DiscountPercent(d.SpecialPrice, d.OriginalPrice); ok {
		return &pct
	}
	if pct, ok := models.DiscountPercent(d.SpecialPrice, listPrice); ok {
		return &pct
	}
	if d.DiscountRate != nil {
		rate := *d.DiscountRate
		return &rate
	}
	return nil
}

// SortDeals orders by discount descending with unknown discounts last.
func SortDeals(deals []models.DealProduct) {
	sort.SliceStable(deals, func(i, j int) bool {
		a, b := deals[i].DiscountPct, deals[j].DiscountPct
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return *a > *b
	})
}
