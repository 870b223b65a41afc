package scheduler

import (
	"context"
	"ktrend_api/internal/trends/storage"
	"ktrend_api/internal/trends/storage/storagetest"
	"testing"
	"time"
)

type countingNamer struct{ calls int }

func (n *countingNamer) Resolve(context.Context, string, string) (string, error) {
	n.calls++
	return "", nil
}

func TestAgeInDays(t *testing.T) {
	now := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	age, err := AgeInDays("2026-03-01", now)
	if err != nil || age != 2.5 {
		t.Fatalf("AgeInDays = %v, %v", age, err)
	}
	if _, err := AgeInDays("yesterday", now); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFreshnessJob_RunOnce(t *testing.T) {
	fx := storagetest.New(t)
	fx.AddRanking(1, 1, "", "oliveyoung", "2026-03-01", "")
	fx.AddCategory("oliveyoung", "10", "스킨케어", "Skincare", 1, 1, true)
	fx.AddCategory("oliveyoung", "20", "메이크업", "Makeup", 1, 2, true)

	namer := &countingNamer{}
	job := NewFreshnessJob("@every 1h", []string{"oliveyoung", "musinsa"},
		storage.NewRankingRepository(fx.Source), storage.NewCategoryRepository(fx.Source), namer, nil)
	job.now = func() time.Time { return time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC) }

	job.RunOnce(context.Background())

	m := job.Metrics()
	if m.Runs.Load() != 1 || m.CheckedCount.Load() != 2 || m.ErroredChecks.Load() != 0 {
		t.Fatalf("runs %d checked %d errored %d", m.Runs.Load(), m.CheckedCount.Load(), m.ErroredChecks.Load())
	}
	if m.StaleCount.Load() != 2 {
		t.Fatalf("stale = %d, want oliveyoung (3 days) and musinsa (empty)", m.StaleCount.Load())
	}
	if namer.calls != 2 {
		t.Fatalf("warmed %d categories, want 2", namer.calls)
	}
}
