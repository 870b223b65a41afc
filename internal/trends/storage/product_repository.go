package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"ktrend_api/internal/trends/models"

	"golang.org/x/sync/errgroup"
)

const productsTable = "products_master"

// ProductFilter narrows product fetches. Empty fields do not filter.
type ProductFilter struct {
	// Search is a case-insensitive substring over name or brand.
	Search string
	// Gender matches tags.gender.
	Gender string
}

func (f ProductFilter) apply(q *Query) *Query {
	if f.Search != "" {
		q.AnyOf(ILike("name", f.Search), ILike("brand", f.Search))
	}
	if f.Gender != "" {
		q.Where(JSONEq("tags", "gender", f.Gender))
	}
	return q
}

// ProductSearch is a direct, paged product query used when no ranking data applies.
type ProductSearch struct {
	ProductFilter
	Platform string
	// CategoryText is a substring of the free-text category column.
	CategoryText string
	Limit        int
	Offset       int
}

type ProductRepository struct {
	src   Source
	batch Batcher
}

func NewProductRepository(src Source, batch Batcher) *ProductRepository {
	return &ProductRepository{src: src, batch: batch}
}

// ByInternalIDs joins by the storage id. Products excluded by filter are absent from the map.
func (r *ProductRepository) ByInternalIDs(ctx context.Context, ids []models.InternalID, filter ProductFilter) (map[models.InternalID]models.ProductRecord, error) {
	rows, err := fetchBatched(ctx, r.batch, ids, func(ctx context.Context, chunk []models.InternalID) ([]Row, error) {
		q := filter.apply(From(productsTable).Select(productColumns...).Where(In("id", chunk)))
		res, err := r.src.Select(ctx, q)
		if err != nil {
			return nil, err
		}
		return res.Rows, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products by id: %w", err)
	}

	out := make(map[models.InternalID]models.ProductRecord, len(rows))
	for _, row := range rows {
		p := decodeProduct(row)
		out[p.Internal] = p
	}
	return out, nil
}

// ByExternalIDs joins by the platform-native id within one platform.
func (r *ProductRepository) ByExternalIDs(ctx context.Context, platform string, ids []models.ExternalID) (map[models.ExternalID]models.ProductRecord, error) {
	rows, err := fetchBatched(ctx, r.batch, ids, func(ctx context.Context, chunk []models.ExternalID) ([]Row, error) {
		q := From(productsTable).Select(productColumns...).Where(Eq("source", platform), In("product_id", chunk))
		res, err := r.src.Select(ctx, q)
		if err != nil {
			return nil, err
		}
		return res.Rows, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products by business id: %w", err)
	}

	out := make(map[models.ExternalID]models.ProductRecord, len(rows))
	for _, row := range rows {
		p := decodeProduct(row)
		if _, dup := out[p.External]; !dup {
			out[p.External] = p
		}
	}
	return out, nil
}

// Search runs the count query and the page query concurrently. The count has no
// limit or offset, so it is the total for the filters.
func (r *ProductRepository) Search(ctx context.Context, s ProductSearch) ([]models.ProductRecord, int, error) {
	base := func() *Query {
		q := From(productsTable).Where(Eq("source", s.Platform))
		if s.CategoryText != "" {
			q.Where(ILike("category", s.CategoryText))
		}
		return s.ProductFilter.apply(q)
	}

	var (
		rows  []Row
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := r.src.Select(gctx, base().Select("id").CountOnly())
		if err != nil {
			return err
		}
		total = res.Count
		return nil
	})
	g.Go(func() error {
		q := base().Select(productColumns...).OrderBy(Desc("created_at"), Desc("id")).Page(s.Limit, s.Offset)
		res, err := r.src.Select(gctx, q)
		if err != nil {
			return err
		}
		rows = res.Rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}

	out := make([]models.ProductRecord, len(rows))
	for i, row := range rows {
		out[i] = decodeProduct(row)
	}
	return out, total, nil
}

// Count is the number of products recorded for platform.
func (r *ProductRepository) Count(ctx context.Context, platform string) (int, error) {
	res, err := r.src.Select(ctx, From(productsTable).Select("id").Where(Eq("source", platform)).CountOnly())
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return res.Count, nil
}

// Recent reads the brand and price of the newest limit products of platform.
func (r *ProductRepository) Recent(ctx context.Context, platform string, limit int) ([]models.ProductRecord, error) {
	q := From(productsTable).
		Select("id", "product_id", "brand", "price", "created_at").
		Where(Eq("source", platform)).
		OrderBy(Desc("created_at"), Desc("id")).
		Page(limit, 0)
	res, err := r.src.Select(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to read recent products: %w", err)
	}
	out := make([]models.ProductRecord, len(res.Rows))
	for i, row := range res.Rows {
		out[i] = decodeProduct(row)
	}
	return out, nil
}

// AISummaries fetches only the summary column; products without one are absent.
func (r *ProductRepository) AISummaries(ctx context.Context, ids []models.InternalID) (map[models.InternalID]json.RawMessage, error) {
	rows, err := fetchBatched(ctx, r.batch, ids, func(ctx context.Context, chunk []models.InternalID) ([]Row, error) {
		res, err := r.src.Select(ctx, From(productsTable).Select("id", "ai_summary").Where(In("id", chunk)))
		if err != nil {
			return nil, err
		}
		return res.Rows, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ai summaries: %w", err)
	}

	out := make(map[models.InternalID]json.RawMessage)
	for _, row := range rows {
		if raw := row.JSON("ai_summary"); len(raw) > 0 && string(raw) != "null" {
			out[models.InternalID(row.Int64("id"))] = raw
		}
	}
	return out, nil
}
