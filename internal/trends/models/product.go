package models

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// InternalID is the storage-assigned key of products_master.id. Every join
// against product records goes through it.
type InternalID int64

// ExternalID is the platform-native product identifier (products_master.product_id).
// It is what crawlers and deal feeds speak, never the join key for rankings.
type ExternalID string

func (id InternalID) String() string { return strconv.FormatInt(int64(id), 10) }

// ProductKey is the tagged pair of both identifier spaces for one product.
type ProductKey struct {
	Internal InternalID `json:"id"`
	External ExternalID `json:"product_id"`
}

type ProductRecord struct {
	ProductKey
	Name         string           `json:"name"`
	Brand        string           `json:"brand"`
	Platform     string           `json:"source"`
	Price        *decimal.Decimal `json:"price"`
	ImageURL     string           `json:"image_url"`
	URL          string           `json:"url"`
	CategoryText string           `json:"category"`
	Tags         map[string]any   `json:"tags,omitempty"`
	AISummary    json.RawMessage  `json:"ai_summary,omitempty"`
	CreatedAt    *time.Time       `json:"created_at,omitempty"`
}

// Gender reads the apparel gender tag, empty when absent.
func (p ProductRecord) Gender() string {
	if p.Tags == nil {
		return ""
	}
	g, _ := p.Tags["gender"].(string)
	return g
}
