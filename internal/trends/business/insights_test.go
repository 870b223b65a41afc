package business

import (
	"context"
	"ktrend_api/internal/trends/models"
	"ktrend_api/internal/trends/storage/storagetest"
	"testing"

	"github.com/shopspring/decimal"
)

func brands(names ...string) []models.ProductRecord {
	out := make([]models.ProductRecord, len(names))
	for i, n := range names {
		out[i] = models.ProductRecord{Brand: n}
	}
	return out
}

func bc(brand string, count int) models.BrandCount {
	return models.BrandCount{Brand: brand, Count: count}
}

func TestTopBrands(t *testing.T) {
	excluded := []string{"Naver Data Lab", "Google Trend"}
	cases := []struct {
		name     string
		products []models.ProductRecord
		n        int
		want     []models.BrandCount
	}{
		{"empty", nil, 10, []models.BrandCount{}},
		{"most frequent first", brands("A", "B", "B", "C", "B", "C"), 10,
			[]models.BrandCount{bc("B", 3), bc("C", 2), bc("A", 1)}},
		{"ties by name", brands("Torriden", "Anua", "Torriden", "Anua"), 10,
			[]models.BrandCount{bc("Anua", 2), bc("Torriden", 2)}},
		{"truncated", brands("A", "B", "B", "C", "C", "C"), 2,
			[]models.BrandCount{bc("C", 3), bc("B", 2)}},
		{"blank and excluded skipped", brands("", "  ", "Google Trend", "Naver Data Lab", " rom&nd "), 10,
			[]models.BrandCount{bc("rom&nd", 1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TopBrands(tc.products, tc.n, excluded)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestPriceDistribution(t *testing.T) {
	cases := []struct {
		name   string
		prices []string
		want   []int
	}{
		{"empty", nil, []int{0, 0, 0, 0, 0}},
		{"lower bound is inclusive", []string{"9999.99", "10000", "29999", "30000", "50000", "99999", "100000", "250000"}, []int{1, 2, 1, 2, 2}},
		{"free item", []string{"0"}, []int{1, 0, 0, 0, 0}},
		{"missing price", []string{""}, []int{0, 0, 0, 0, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			products := make([]models.ProductRecord, len(tc.prices))
			for i, p := range tc.prices {
				if p != "" {
					products[i].Price = dec(p)
				}
			}
			got := PriceDistribution(products, PriceBounds)
			if len(got) != len(tc.want) {
				t.Fatalf("buckets = %d", len(got))
			}
			for i, want := range tc.want {
				if got[i].Count != want {
					t.Errorf("bucket %s = %d, want %d", got[i].Label, got[i].Count, want)
				}
			}
		})
	}
}

func TestPriceDistribution_Labels(t *testing.T) {
	got := PriceDistribution(nil, PriceBounds)
	labels := []string{"~1만", "1만~3만", "3만~5만", "5만~10만", "10만+"}
	for i, want := range labels {
		if got[i].Label != want {
			t.Errorf("label %d = %q, want %q", i, got[i].Label, want)
		}
	}
	if !got[0].Min.IsZero() || !got[0].Max.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("first bucket = %+v", got[0])
	}
	if got[4].Max != nil || !got[4].Min.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("last bucket = %+v", got[4])
	}
	if l := bucketLabel([]int64{5000, 15000}, 1); l != "0.5만~1.5만" {
		t.Errorf("fractional label = %q", l)
	}
}

func TestFetchInsights(t *testing.T) {
	s := newTestServices(t)
	for i, p := range []storagetest.Product{
		{Brand: "Round Lab", Price: "18000"},
		{Brand: "Round Lab", Price: "22000"},
		{Brand: "Anua", Price: "8000"},
		{Brand: "Google Trend"},
	} {
		p.ID = int64(i + 1)
		p.External = "OY" + models.InternalID(p.ID).String()
		p.Platform = "oliveyoung"
		p.Name = "Item"
		s.fx.AddProduct(p)
	}
	s.fx.AddProduct(storagetest.Product{ID: 9, External: "M9", Platform: "musinsa", Name: "Hoodie", Brand: "Round Lab", Price: "60000"})
	svc := NewInsightsService(s.products, s.values)
	s.fx.Counter.Reset()

	got, err := svc.FetchInsights(context.Background(), "oliveyoung", 0)
	if err != nil {
		t.Fatal(err)
	}
	if got.Sample != 4 {
		t.Fatalf("sample = %d", got.Sample)
	}
	if len(got.Brands) != 2 || got.Brands[0] != (models.BrandCount{Brand: "Round Lab", Count: 2}) {
		t.Fatalf("brands = %v", got.Brands)
	}
	if got.Prices[0].Count != 1 || got.Prices[1].Count != 2 || got.Prices[3].Count != 0 {
		t.Fatalf("prices = %+v", got.Prices)
	}

	q := s.fx.Counter.Queries("products_master")
	if len(q) != 1 || q[0].Limit != insightsSampleSize {
		t.Fatalf("insights read = %+v", q)
	}
}
