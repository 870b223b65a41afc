package business

import (
	"context"
	"ktrend_api/internal/trends/storage/storagetest"
	"testing"
)

func TestFetchReviewGrowth(t *testing.T) {
	s := newTestServices(t)
	s.fx.AddProduct(storagetest.Product{ID: 1, External: "R1", Platform: "oliveyoung", Name: "Toner", Tags: `{"review_count": 250, "review_rating": 4.5}`})
	s.fx.AddProduct(storagetest.Product{ID: 2, External: "R2", Platform: "oliveyoung", Name: "Cushion", Tags: `{"review_count": 900}`})
	s.fx.AddProduct(storagetest.Product{ID: 3, External: "R3", Platform: "oliveyoung", Name: "Mask", Tags: `{"review_count": 40}`})
	s.fx.AddProduct(storagetest.Product{ID: 4, External: "R4", Platform: "musinsa", Name: "Hoodie", Tags: `{"review_count": 5000}`})
	svc := NewReviewGrowthService(s.views)

	got, err := svc.FetchReviewGrowth(context.Background(), 0, "oliveyoung")
	if err != nil {
		t.Fatal(err)
	}
	if got.Count != 2 || len(got.Data) != 2 {
		t.Fatalf("count = %d, data = %d", got.Count, len(got.Data))
	}
	if got.Data[0].Internal != 2 || got.Data[0].ReviewCount != 900 {
		t.Errorf("first = %+v", got.Data[0])
	}
	if r := got.Data[1].ReviewRating; r == nil || r.String() != "4.5" {
		t.Errorf("rating = %v", r)
	}

	limited, err := svc.FetchReviewGrowth(context.Background(), 1, "oliveyoung")
	if err != nil {
		t.Fatal(err)
	}
	if limited.Count != 1 {
		t.Errorf("limited count = %d", limited.Count)
	}
}

func TestFetchReviewGrowth_EmptyIsNotNil(t *testing.T) {
	s := newTestServices(t)
	got, err := NewReviewGrowthService(s.views).FetchReviewGrowth(context.Background(), 5, "ably")
	if err != nil {
		t.Fatal(err)
	}
	if got.Data == nil || got.Count != 0 {
		t.Fatalf("got %+v", got)
	}
}
