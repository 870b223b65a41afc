package business

import (
	"context"
	"ktrend_api/internal/trends/models"
	"ktrend_api/internal/trends/storage/storagetest"
	"testing"
)

func TestRankDelta_SignConvention(t *testing.T) {
	if d := RankDelta(10, 3); d != 7 {
		t.Fatalf("RankDelta(10, 3) = %d, want 7", d)
	}
	if d := RankDelta(3, 10); d != -7 {
		t.Fatalf("RankDelta(3, 10) = %d, want -7", d)
	}
}

func seedTwoDates(s *testServices) {
	s.addProducts("oliveyoung", "OY", 1, 4, "Brand")
	// older than the previous date; must not be used
	s.fx.AddRanking(4, 50, "", "oliveyoung", "2026-02-20", "")

	s.fx.AddRanking(1, 10, "", "oliveyoung", "2026-03-01", "2026-03-01T02:00:00Z")
	s.fx.AddRanking(2, 3, "", "oliveyoung", "2026-03-01", "2026-03-01T02:00:00Z")
	s.fx.AddRanking(4, 6, "", "oliveyoung", "2026-03-01", "2026-03-01T02:00:00Z")

	s.fx.AddRanking(1, 3, "10", "oliveyoung", "2026-03-05", "2026-03-05T02:00:00Z")
	s.fx.AddRanking(2, 10, "10", "oliveyoung", "2026-03-05", "2026-03-05T02:00:00Z")
	s.fx.AddRanking(3, 1, "10", "oliveyoung", "2026-03-05", "2026-03-05T02:00:00Z")
	s.fx.AddRanking(4, 9, "10", "oliveyoung", "2026-03-05", "2026-03-05T01:00:00Z")
	s.fx.AddRanking(4, 5, "10", "oliveyoung", "2026-03-05", "2026-03-05T02:00:00Z")
}

func TestFetchTrending_TwoDateDelta(t *testing.T) {
	s := newTestServices(t)
	seedTwoDates(s)

	got, err := s.trending.FetchTrending(context.Background(), 10, "oliveyoung")
	if err != nil {
		t.Fatal(err)
	}
	if got.Strategy != models.StrategyTwoDate || got.Date != "2026-03-05" {
		t.Fatalf("strategy/date = %s/%s", got.Strategy, got.Date)
	}
	if got.Count != 2 || len(got.Data) != 2 {
		t.Fatalf("got %+v, want products 1 and 4", got.Data)
	}
	first, second := got.Data[0], got.Data[1]
	if first.Internal != 1 || first.RankChange != 7 || *first.PreviousRank != 10 || first.CurrentRank != 3 {
		t.Fatalf("first = %+v", first)
	}
	if second.Internal != 4 || second.RankChange != 1 {
		t.Fatalf("second = %+v", second)
	}
	if first.External != "OY1" || first.Name != "Item 1" {
		t.Fatalf("product record not joined: %+v", first.ProductRecord)
	}
}

func TestFetchTrending_DateDiscoveryIsBounded(t *testing.T) {
	s := newTestServices(t)
	seedTwoDates(s)
	s.fx.Counter.Reset()

	if _, err := s.trending.FetchTrending(context.Background(), 10, "oliveyoung"); err != nil {
		t.Fatal(err)
	}
	discovery := 0
	for _, q := range s.fx.Counter.Queries("daily_rankings_v2") {
		if len(q.Columns) == 1 && q.Columns[0] == "date" {
			discovery++
			if q.Limit != 1 {
				t.Fatalf("date discovery read limit %d", q.Limit)
			}
		}
	}
	if discovery != 2 {
		t.Fatalf("date discovery queries = %d, want 2", discovery)
	}
}

func TestFetchTrending_Truncates(t *testing.T) {
	s := newTestServices(t)
	seedTwoDates(s)

	got, err := s.trending.FetchTrending(context.Background(), 1, "oliveyoung")
	if err != nil {
		t.Fatal(err)
	}
	if got.Count != 1 || got.Data[0].Internal != 1 {
		t.Fatalf("got %+v", got.Data)
	}
}

func TestFetchTrending_UnjoinedClimbersDoNotShortenTheLimit(t *testing.T) {
	s := newTestServices(t)
	seedTwoDates(s)
	s.fx.Exec(`DELETE FROM products_master WHERE id = 1`)

	got, err := s.trending.FetchTrending(context.Background(), 1, "oliveyoung")
	if err != nil {
		t.Fatal(err)
	}
	if got.Count != 1 || got.Data[0].Internal != 4 || got.Data[0].RankChange != 1 {
		t.Fatalf("got %+v", got.Data)
	}
}

func TestFetchTrending_PrefersPrecomputedView(t *testing.T) {
	s := newTestServices(t)
	seedTwoDates(s)
	s.fx.Exec(`UPDATE products_master SET ai_summary = '{"ko":"인기 급상승"}' WHERE id = 2`)
	s.fx.AddTrendingRow(2, "oliveyoung", "Item 2", 2, 9)
	s.fx.AddTrendingRow(3, "oliveyoung", "Item 3", 1, 20)

	got, err := s.trending.FetchTrending(context.Background(), 10, "oliveyoung")
	if err != nil {
		t.Fatal(err)
	}
	if got.Strategy != models.StrategyView || got.Count != 2 {
		t.Fatalf("got %+v", got)
	}
	if got.Data[0].Internal != 3 || got.Data[0].RankChange != 19 {
		t.Fatalf("view order = %+v", got.Data)
	}
	if string(got.Data[1].AISummary) != `{"ko":"인기 급상승"}` || got.Data[0].AISummary != nil {
		t.Fatalf("summaries = %s / %s", got.Data[1].AISummary, got.Data[0].AISummary)
	}
}

func TestFetchTrending_SingleDate(t *testing.T) {
	s := newTestServices(t)
	s.addProducts("oliveyoung", "OY", 1, 3, "Brand")
	s.fx.AddRanking(1, 3, "", "oliveyoung", "2026-03-05", "")
	s.fx.AddRanking(2, 1, "", "oliveyoung", "2026-03-05", "")
	s.fx.AddRanking(3, 2, "", "oliveyoung", "2026-03-05", "")

	got, err := s.trending.FetchTrending(context.Background(), 2, "oliveyoung")
	if err != nil {
		t.Fatal(err)
	}
	if got.Strategy != models.StrategySingleDay || got.Count != 2 {
		t.Fatalf("got %+v", got)
	}
	if got.Data[0].Internal != 2 || got.Data[1].Internal != 3 || got.Data[0].RankChange != 0 {
		t.Fatalf("order = %+v", got.Data)
	}
}

func TestFetchTrending_SingleDateSkipsUnjoinedBeforeLimit(t *testing.T) {
	s := newTestServices(t)
	s.addProducts("oliveyoung", "OY", 2, 3, "Brand")
	// rank 1 has no master record
	s.fx.AddRanking(1, 1, "", "oliveyoung", "2026-03-05", "")
	s.fx.AddRanking(2, 2, "", "oliveyoung", "2026-03-05", "")
	s.fx.AddRanking(3, 3, "", "oliveyoung", "2026-03-05", "")

	got, err := s.trending.FetchTrending(context.Background(), 2, "oliveyoung")
	if err != nil {
		t.Fatal(err)
	}
	if got.Count != 2 || got.Data[0].Internal != 2 || got.Data[1].Internal != 3 {
		t.Fatalf("got %+v", got.Data)
	}
}

func TestFetchTrending_PureTrendPlatform(t *testing.T) {
	s := newTestServices(t)
	s.fx.AddProduct(storagetest.Product{ID: 1, External: "kw-1", Platform: "google_trends", Name: "선크림"})
	s.fx.AddProduct(storagetest.Product{ID: 2, External: "kw-2", Platform: "google_trends", Name: "쿠션"})
	s.fx.AddRanking(1, 2, "", "google_trends", "2026-03-01", "")
	s.fx.AddRanking(2, 1, "", "google_trends", "2026-03-02", "")
	s.fx.AddRanking(1, 2, "", "google_trends", "2026-03-02", "")
	s.fx.AddTrendingRow(1, "google_trends", "선크림", 1, 30)

	got, err := s.trending.FetchTrending(context.Background(), 10, "google_trends")
	if err != nil {
		t.Fatal(err)
	}
	if got.Strategy != models.StrategyPureTrend || got.Count != 2 {
		t.Fatalf("got %+v", got)
	}
	if got.Data[0].Name != "쿠션" || got.Data[0].RankChange != 0 {
		t.Fatalf("first = %+v", got.Data[0])
	}
}

func TestFetchTrending_NoData(t *testing.T) {
	s := newTestServices(t)
	got, err := s.trending.FetchTrending(context.Background(), 10, "oliveyoung")
	if err != nil {
		t.Fatal(err)
	}
	if got.Count != 0 || len(got.Data) != 0 || got.Data == nil {
		t.Fatalf("got %+v", got)
	}
}
