package storage

import (
	"context"
	"fmt"
	"ktrend_api/internal/trends/models"
)

const categoriesTable = "categories"

type CategoryRepository struct {
	src Source
}

func NewCategoryRepository(src Source) *CategoryRepository {
	return &CategoryRepository{src: src}
}

// ByCode returns the entry for (platform, code) or nil.
func (r *CategoryRepository) ByCode(ctx context.Context, platform, code string) (*models.CategoryEntry, error) {
	q := From(categoriesTable).
		Select(categoryColumns...).
		Where(Eq("platform", platform), Eq("category_code", code)).
		Page(1, 0)
	res, err := r.src.Select(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category %s/%s: %w", platform, code, err)
	}
	if len(res.Rows) == 0 {
		return nil, nil
	}
	c := decodeCategory(res.Rows[0])
	return &c, nil
}

// Active lists active categories of platform by sort order; depth <= 0 means every depth.
func (r *CategoryRepository) Active(ctx context.Context, platform string, depth int) ([]models.CategoryEntry, error) {
	q := From(categoriesTable).
		Select(categoryColumns...).
		Where(Eq("platform", platform), Eq("is_active", true)).
		OrderBy(Asc("sort_order"), Asc("category_code"))
	if depth > 0 {
		q.Where(Eq("depth", depth))
	}
	rows, err := selectAll(ctx, r.src, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories of %s: %w", platform, err)
	}
	out := make([]models.CategoryEntry, len(rows))
	for i, row := range rows {
		out[i] = decodeCategory(row)
	}
	return out, nil
}
