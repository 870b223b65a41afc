package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StrategyRanking   = "ranking"
	StrategyFallback  = "fallback"
	StrategyView      = "precomputed"
	StrategyTwoDate   = "two_date"
	StrategySingleDay = "single_date"
	StrategyPureTrend = "pure_trend"
	StrategyEmpty     = "empty"
)

// Page is what every list assembler returns. Count always belongs to the strategy that produced Data.
type Page[T any] struct {
	Data     []T    `json:"data"`
	Count    int    `json:"count"`
	Strategy string `json:"strategy,omitempty"`
	Date     string `json:"date,omitempty"`
}

func EmptyPage[T any]() Page[T] {
	return Page[T]{Data: []T{}, Count: 0, Strategy: StrategyEmpty}
}

type RankedProduct struct {
	ProductRecord
	CurrentRank  *int   `json:"current_rank,omitempty"`
	CategoryCode string `json:"category_code,omitempty"`
}

type TrendingProduct struct {
	ProductRecord
	CurrentRank  int    `json:"current_rank"`
	PreviousRank *int   `json:"previous_rank,omitempty"`
	RankChange   int    `json:"rank_change"`
	CategoryCode string `json:"category_code,omitempty"`
}

type DealProduct struct {
	ProductRecord
	SpecialPrice  decimal.Decimal  `json:"special_price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	DiscountPct   *int             `json:"discount_pct"`
	DiscountRate  int              `json:"discount_rate"`
}

type ReviewGrowthProduct struct {
	ProductRecord
	ReviewCount  int              `json:"review_count"`
	ReviewRating *decimal.Decimal `json:"review_rating,omitempty"`
}

type RankPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Rank      int       `json:"rank"`
}

type PricePoint struct {
	Timestamp     time.Time        `json:"timestamp"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
}

// HistoryPoint is one instant on the unified axis; a series absent at that instant is null.
type HistoryPoint struct {
	Timestamp     time.Time        `json:"timestamp"`
	Rank          *int             `json:"rank"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	DiscountPct   *int             `json:"discount_pct"`
}

type ProductHistory struct {
	Ranks    []RankPoint    `json:"ranks"`
	Prices   []PricePoint   `json:"prices"`
	Timeline []HistoryPoint `json:"timeline"`
}

type KPIs struct {
	Platform string `json:"platform"`
	Trending int    `json:"trending"`
	Deals    int    `json:"deals"`
	Total    int    `json:"total"`
}

type BrandCount struct {
	Brand string `json:"brand"`
	Count int    `json:"count"`
}

// PriceBucket counts prices in [Min, Max); a nil Max is unbounded.
type PriceBucket struct {
	Label string           `json:"label"`
	Min   decimal.Decimal  `json:"min"`
	Max   *decimal.Decimal `json:"max"`
	Count int              `json:"count"`
}

// Insights are distributions over a bounded sample of a platform's newest products.
type Insights struct {
	Platform string        `json:"platform"`
	Sample   int           `json:"sample"`
	Brands   []BrandCount  `json:"brands"`
	Prices   []PriceBucket `json:"prices"`
}
