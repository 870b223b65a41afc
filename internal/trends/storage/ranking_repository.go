package storage

import (
	"context"
	"fmt"
	"ktrend_api/internal/trends/models"
)

const rankingsTable = "daily_rankings_v2"

type RankingRepository struct {
	src Source
}

func NewRankingRepository(src Source) *RankingRepository {
	return &RankingRepository{src: src}
}

// LatestDate returns the newest snapshot date for platform, "" when none exists.
// It reads at most one row.
func (r *RankingRepository) LatestDate(ctx context.Context, platform string) (string, error) {
	return r.latestDate(ctx, From(rankingsTable).Where(Eq("source", platform)))
}

// DateBefore returns the newest snapshot date strictly earlier than before, "" when none.
func (r *RankingRepository) DateBefore(ctx context.Context, platform, before string) (string, error) {
	return r.latestDate(ctx, From(rankingsTable).Where(Eq("source", platform), Lt("date", before)))
}

func (r *RankingRepository) latestDate(ctx context.Context, q *Query) (string, error) {
	res, err := r.src.Select(ctx, q.Select("date").OrderBy(Desc("date")).Page(1, 0))
	if err != nil {
		return "", fmt.Errorf("failed to resolve latest ranking date: %w", err)
	}
	if len(res.Rows) == 0 {
		return "", nil
	}
	return res.Rows[0].Date("date"), nil
}

// ForDate returns every snapshot row of one date, newest capture first.
// An empty categoryCode means all categories.
func (r *RankingRepository) ForDate(ctx context.Context, platform, date, categoryCode string) ([]models.RankingSnapshot, error) {
	q := From(rankingsTable).
		Select(rankingColumns...).
		Where(Eq("source", platform), Eq("date", date)).
		OrderBy(Desc("created_at"), Asc("id"))
	if categoryCode != "" {
		q.Where(Eq("category_code", categoryCode))
	}

	rows, err := selectAll(ctx, r.src, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rankings for %s %s: %w", platform, date, err)
	}
	out := make([]models.RankingSnapshot, len(rows))
	for i, row := range rows {
		out[i] = decodeRanking(row)
	}
	return out, nil
}

// History returns a product's rank rows since the given date ("" for all), oldest first.
func (r *RankingRepository) History(ctx context.Context, id models.InternalID, since string) ([]models.RankingSnapshot, error) {
	q := From(rankingsTable).
		Select(rankingColumns...).
		Where(Eq("product_id", id)).
		OrderBy(Asc("date"), Asc("created_at"), Asc("id"))
	if since != "" {
		q.Where(Gte("date", since))
	}

	rows, err := selectAll(ctx, r.src, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rank history of %s: %w", id, err)
	}
	out := make([]models.RankingSnapshot, len(rows))
	for i, row := range rows {
		out[i] = decodeRanking(row)
	}
	return out, nil
}
