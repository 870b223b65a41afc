package business

import (
	"context"
	"ktrend_api/internal/trends/storage/storagetest"
	"testing"
)

func TestFetchKPIs(t *testing.T) {
	s := newTestServices(t)
	seedTwoDates(s)
	s.fx.AddDeal(storagetest.Deal{External: "OY1", Platform: "oliveyoung", Special: "100", Date: "2026-03-01"})
	s.fx.AddDeal(storagetest.Deal{External: "OY1", Platform: "oliveyoung", Special: "100", Date: "2026-03-02"})
	s.fx.AddDeal(storagetest.Deal{External: "OY2", Platform: "oliveyoung", Special: "100", Date: "2026-03-02"})
	// an intraday repeat and an id missing from the master table do not count
	s.fx.AddDeal(storagetest.Deal{External: "OY2", Platform: "oliveyoung", Special: "90", Date: "2026-03-02"})
	s.fx.AddDeal(storagetest.Deal{External: "ZZ9", Platform: "oliveyoung", Special: "100", Date: "2026-03-02"})
	svc := NewKPIService(s.trending, s.dealsSvc, s.products)

	got, err := svc.FetchKPIs(context.Background(), "oliveyoung")
	if err != nil {
		t.Fatal(err)
	}
	if got.Trending != 2 || got.Deals != 2 || got.Total != 4 {
		t.Fatalf("kpis = %+v", got)
	}
	deals, err := s.dealsSvc.FetchDailySpecials(context.Background(), "oliveyoung")
	if err != nil {
		t.Fatal(err)
	}
	if deals.Count != got.Deals {
		t.Fatalf("deals list count %d, kpi %d", deals.Count, got.Deals)
	}

	empty, err := svc.FetchKPIs(context.Background(), "musinsa")
	if err != nil {
		t.Fatal(err)
	}
	if empty.Trending != 0 || empty.Deals != 0 || empty.Total != 0 {
		t.Fatalf("empty platform kpis = %+v", empty)
	}
}
