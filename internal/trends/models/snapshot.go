package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used by every snapshot table.
const DateLayout = "2006-01-02"

// RankingSnapshot is one crawl observation from daily_rankings_v2.
// The table's product_id column references products_master.id.
type RankingSnapshot struct {
	ProductID    InternalID `json:"product_id"`
	Rank         int        `json:"rank"`
	CategoryCode string     `json:"category_code"`
	Platform     string     `json:"source"`
	Date         string     `json:"date"`
	CapturedAt   *time.Time `json:"created_at,omitempty"`
}

// ObservedAt is the capture time, or midnight UTC of Date when the row has none.
func (s RankingSnapshot) ObservedAt() time.Time {
	return ObservedAt(s.CapturedAt, s.Date)
}

// DealSnapshot is one row of daily_specials_v2, keyed by the business id.
type DealSnapshot struct {
	ProductID     ExternalID       `json:"product_id"`
	Platform      string           `json:"source"`
	SpecialPrice  decimal.Decimal  `json:"special_price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	DiscountRate  *int             `json:"discount_rate,omitempty"`
	Date          string           `json:"date"`
	CapturedAt    *time.Time       `json:"created_at,omitempty"`
}

// PriceSnapshot is one row of deals_snapshots, the per-product price history.
type PriceSnapshot struct {
	ProductID     InternalID       `json:"product_id"`
	DealPrice     *decimal.Decimal `json:"deal_price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	SnapshotDate  string           `json:"snapshot_date"`
	CapturedAt    *time.Time       `json:"created_at,omitempty"`
}

func (s PriceSnapshot) ObservedAt() time.Time {
	return ObservedAt(s.CapturedAt, s.SnapshotDate)
}

// ObservedAt synthesizes midnight UTC of date when capturedAt is missing.
// An unparseable date yields the zero time.
func ObservedAt(capturedAt *time.Time, date string) time.Time {
	if capturedAt != nil && !capturedAt.IsZero() {
		return capturedAt.UTC()
	}
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}
	}
	return d.UTC()
}
