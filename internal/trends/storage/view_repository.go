package storage

import (
	"context"
	"fmt"
	"ktrend_api/internal/trends/models"
)

const (
	trendingView     = "v_trending_7d"
	reviewGrowthView = "v_review_growth"
)

var viewProductColumns = []string{"product_id", "source", "name", "brand", "image_url", "url", "price"}

// ViewRepository reads the precomputed views maintained by the database.
type ViewRepository struct {
	src Source
}

func NewViewRepository(src Source) *ViewRepository {
	return &ViewRepository{src: src}
}

// Trending reads the 7-day delta view, biggest improvement first.
func (r *ViewRepository) Trending(ctx context.Context, platform string, limit int) ([]models.TrendingProduct, error) {
	q := From(trendingView).
		Select(append(viewProductColumns, "current_rank", "previous_rank", "rank_change", "category_code")...).
		Where(Eq("source", platform)).
		OrderBy(Desc("rank_change"), Asc("current_rank")).
		Page(limit, 0)
	res, err := r.src.Select(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to read trending view: %w", err)
	}
	out := make([]models.TrendingProduct, len(res.Rows))
	for i, row := range res.Rows {
		out[i] = models.TrendingProduct{
			ProductRecord: decodeViewProduct(row),
			CurrentRank:   row.Int("current_rank"),
			PreviousRank:  row.IntPtr("previous_rank"),
			RankChange:    row.Int("rank_change"),
			CategoryCode:  row.String("category_code"),
		}
	}
	return out, nil
}

func (r *ViewRepository) ReviewGrowth(ctx context.Context, platform string, limit int) ([]models.ReviewGrowthProduct, error) {
	q := From(reviewGrowthView).
		Select(append(viewProductColumns, "review_count", "review_rating")...).
		Where(Eq("source", platform)).
		OrderBy(Desc("review_count"), Asc("product_id")).
		Page(limit, 0)
	res, err := r.src.Select(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to read review growth view: %w", err)
	}
	out := make([]models.ReviewGrowthProduct, len(res.Rows))
	for i, row := range res.Rows {
		out[i] = models.ReviewGrowthProduct{
			ProductRecord: decodeViewProduct(row),
			ReviewCount:   row.Int("review_count"),
			ReviewRating:  row.Decimal("review_rating"),
		}
	}
	return out, nil
}

// decodeViewProduct maps view rows, whose product_id is the storage id.
func decodeViewProduct(r Row) models.ProductRecord {
	return models.ProductRecord{
		ProductKey: models.ProductKey{Internal: models.InternalID(r.Int64("product_id"))},
		Name:       r.String("name"),
		Brand:      r.String("brand"),
		Platform:   r.String("source"),
		Price:      r.Decimal("price"),
		ImageURL:   r.String("image_url"),
		URL:        r.String("url"),
	}
}
