package business

import (
	"context"
	"ktrend_api/internal/trends/models"
	"ktrend_api/internal/trends/storage"
)

const defaultReviewLimit = 20

type ReviewGrowthService struct {
	views *storage.ViewRepository
}

func NewReviewGrowthService(views *storage.ViewRepository) *ReviewGrowthService {
	return &ReviewGrowthService{views: views}
}

// FetchReviewGrowth returns the most reviewed products of platform.
func (s *ReviewGrowthService) FetchReviewGrowth(ctx context.Context, limit int, platform string) (models.Page[models.ReviewGrowthProduct], error) {
	if limit <= 0 {
		limit = defaultReviewLimit
	}
	rows, err := s.views.ReviewGrowth(ctx, platform, limit)
	if err != nil {
		return models.Page[models.ReviewGrowthProduct]{}, err
	}
	if rows == nil {
		rows = []models.ReviewGrowthProduct{}
	}
	return models.Page[models.ReviewGrowthProduct]{Data: rows, Count: len(rows)}, nil
}
