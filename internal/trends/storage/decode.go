package storage

import (
	"ktrend_api/internal/trends/models"
	"strings"
)

var productColumns = []string{
	"id", "product_id", "name", "brand", "source", "price", "image_url",
	"url", "category", "tags", "ai_summary", "created_at",
}

var rankingColumns = []string{"id", "product_id", "rank", "category_code", "source", "date", "created_at"}

var dealColumns = []string{"id", "product_id", "source", "special_price", "original_price", "discount_rate", "date", "created_at"}

var priceColumns = []string{"product_id", "deal_price", "original_price", "snapshot_date", "created_at"}

var categoryColumns = []string{
	"platform", "category_code", "name_ko", "name_en", "name_vi",
	"parent_code", "depth", "sort_order", "is_active",
}

func decodeProduct(r Row) models.ProductRecord {
	return models.ProductRecord{
		ProductKey: models.ProductKey{
			Internal: models.InternalID(r.Int64("id")),
			External: models.ExternalID(r.String("product_id")),
		},
		Name:         r.String("name"),
		Brand:        r.String("brand"),
		Platform:     r.String("source"),
		Price:        r.Decimal("price"),
		ImageURL:     r.String("image_url"),
		URL:          r.String("url"),
		CategoryText: r.String("category"),
		Tags:         r.Map("tags"),
		AISummary:    r.JSON("ai_summary"),
		CreatedAt:    r.Time("created_at"),
	}
}

func decodeRanking(r Row) models.RankingSnapshot {
	return models.RankingSnapshot{
		ProductID:    models.InternalID(r.Int64("product_id")),
		Rank:         r.Int("rank"),
		CategoryCode: r.String("category_code"),
		Platform:     r.String("source"),
		Date:         r.Date("date"),
		CapturedAt:   r.Time("created_at"),
	}
}

func decodeDeal(r Row) models.DealSnapshot {
	d := models.DealSnapshot{
		ProductID:     models.ExternalID(r.String("product_id")),
		Platform:      r.String("source"),
		OriginalPrice: r.Decimal("original_price"),
		DiscountRate:  r.IntPtr("discount_rate"),
		Date:          r.Date("date"),
		CapturedAt:    r.Time("created_at"),
	}
	if p := r.Decimal("special_price"); p != nil {
		d.SpecialPrice = *p
	}
	return d
}

func decodePrice(r Row) models.PriceSnapshot {
	return models.PriceSnapshot{
		ProductID:     models.InternalID(r.Int64("product_id")),
		DealPrice:     r.Decimal("deal_price"),
		OriginalPrice: r.Decimal("original_price"),
		SnapshotDate:  r.Date("snapshot_date"),
		CapturedAt:    r.Time("created_at"),
	}
}

func decodeCategory(r Row) models.CategoryEntry {
	names := make(map[string]string, 3)
	for _, lang := range []string{"ko", "en", "vi"} {
		if v := strings.TrimSpace(r.String("name_" + lang)); v != "" {
			names[lang] = v
		}
	}
	return models.CategoryEntry{
		Platform:      r.String("platform"),
		Code:          r.String("category_code"),
		NameLocalized: names,
		ParentCode:    r.String("parent_code"),
		Depth:         r.Int("depth"),
		SortOrder:     r.Int("sort_order"),
		IsActive:      r.Bool("is_active"),
	}
}
