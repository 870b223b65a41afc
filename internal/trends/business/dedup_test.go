package business

import (
	"ktrend_api/internal/trends/models"
	"testing"
	"time"
)

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestDedupeRankings_LatestCaptureWins(t *testing.T) {
	t1 := at("2026-03-01T03:00:00Z")
	t2 := at("2026-03-01T09:00:00Z")
	newestFirst := []models.RankingSnapshot{
		{ProductID: 1, Rank: 3, Date: "2026-03-01", CapturedAt: t2},
		{ProductID: 1, Rank: 5, Date: "2026-03-01", CapturedAt: t1},
	}
	oldestFirst := []models.RankingSnapshot{newestFirst[1], newestFirst[0]}

	for name, rows := range map[string][]models.RankingSnapshot{"newest first": newestFirst, "oldest first": oldestFirst} {
		got := DedupeRankings(rows)
		if len(got) != 1 || got[1].Rank != 3 {
			t.Errorf("%s: dedupe = %+v, want rank 3", name, got)
		}
	}
}

func TestDedupeRankings_OneRowPerProduct(t *testing.T) {
	rows := []models.RankingSnapshot{
		{ProductID: 1, Rank: 1, Date: "2026-03-01", CapturedAt: at("2026-03-01T05:00:00Z")},
		{ProductID: 2, Rank: 2, Date: "2026-03-01", CapturedAt: at("2026-03-01T05:00:00Z")},
		{ProductID: 1, Rank: 4, Date: "2026-03-01", CapturedAt: at("2026-03-01T01:00:00Z")},
		{ProductID: 3, Rank: 9, Date: "2026-03-01"},
		{ProductID: 2, Rank: 7, Date: "2026-03-01", CapturedAt: at("2026-03-01T02:00:00Z")},
	}
	got := DedupeRankings(rows)
	if len(got) != 3 {
		t.Fatalf("dedupe kept %d products, want 3", len(got))
	}
	if got[1].Rank != 1 || got[2].Rank != 2 || got[3].Rank != 9 {
		t.Fatalf("dedupe = %+v", got)
	}
}

func TestDedupeRankings_MissingCaptureComparesAsMidnight(t *testing.T) {
	rows := []models.RankingSnapshot{
		{ProductID: 1, Rank: 8, Date: "2026-03-01"},
		{ProductID: 1, Rank: 2, Date: "2026-03-01", CapturedAt: at("2026-03-01T00:00:01Z")},
	}
	if got := DedupeRankings(rows)[1].Rank; got != 2 {
		t.Fatalf("rank = %d, want the captured row", got)
	}
}

func TestDedupeRankings_TiesKeepFirstSeen(t *testing.T) {
	same := at("2026-03-01T05:00:00Z")
	rows := []models.RankingSnapshot{
		{ProductID: 1, Rank: 6, Date: "2026-03-01", CapturedAt: same},
		{ProductID: 1, Rank: 2, Date: "2026-03-01", CapturedAt: same},
	}
	for i := 0; i < 5; i++ {
		if got := DedupeRankings(rows)[1].Rank; got != 6 {
			t.Fatalf("tie resolved to rank %d, want first seen", got)
		}
	}
}

func TestSortByRank(t *testing.T) {
	got := SortByRank(map[models.InternalID]models.RankingSnapshot{
		3: {ProductID: 3, Rank: 2},
		1: {ProductID: 1, Rank: 7},
		2: {ProductID: 2, Rank: 2},
	})
	if got[0].ProductID != 2 || got[1].ProductID != 3 || got[2].ProductID != 1 {
		t.Fatalf("order = %+v", got)
	}
}
