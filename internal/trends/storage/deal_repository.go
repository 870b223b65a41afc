package storage

import (
	"context"
	"fmt"
	"ktrend_api/internal/trends/models"
)

const (
	specialsTable = "daily_specials_v2"
	pricesTable   = "deals_snapshots"
)

type DealRepository struct {
	src Source
}

func NewDealRepository(src Source) *DealRepository {
	return &DealRepository{src: src}
}

// LatestDate returns the newest deal date for platform, "" when the platform has no deals.
func (r *DealRepository) LatestDate(ctx context.Context, platform string) (string, error) {
	q := From(specialsTable).Select("date").Where(Eq("source", platform)).OrderBy(Desc("date")).Page(1, 0)
	res, err := r.src.Select(ctx, q)
	if err != nil {
		return "", fmt.Errorf("failed to resolve latest deal date: %w", err)
	}
	if len(res.Rows) == 0 {
		return "", nil
	}
	return res.Rows[0].Date("date"), nil
}

// ForDate returns all deal rows of one date, newest capture first.
func (r *DealRepository) ForDate(ctx context.Context, platform, date string) ([]models.DealSnapshot, error) {
	q := From(specialsTable).
		Select(dealColumns...).
		Where(Eq("source", platform), Eq("date", date)).
		OrderBy(Desc("created_at"), Asc("id"))
	rows, err := selectAll(ctx, r.src, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals for %s %s: %w", platform, date, err)
	}
	out := make([]models.DealSnapshot, len(rows))
	for i, row := range rows {
		out[i] = decodeDeal(row)
	}
	return out, nil
}

// PriceHistory returns a product's price rows since the given date ("" for all), oldest first.
func (r *DealRepository) PriceHistory(ctx context.Context, id models.InternalID, since string) ([]models.PriceSnapshot, error) {
	q := From(pricesTable).
		Select(priceColumns...).
		Where(Eq("product_id", id)).
		OrderBy(Asc("snapshot_date"), Asc("created_at"))
	if since != "" {
		q.Where(Gte("snapshot_date", since))
	}
	rows, err := selectAll(ctx, r.src, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price history of %s: %w", id, err)
	}
	out := make([]models.PriceSnapshot, len(rows))
	for i, row := range rows {
		out[i] = decodePrice(row)
	}
	return out, nil
}
