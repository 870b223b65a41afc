package business

import (
	"context"
	"ktrend_api/config/values"
	"ktrend_api/internal/trends/models"
	"ktrend_api/internal/trends/storage"

	"golang.org/x/text/language"
)

// AllCategoryCode is the code of the synthetic "everything" entry.
const AllCategoryCode = "all"

var allCategoryNames = map[string]string{"ko": "전체", "en": "All", "vi": "Tất cả"}

type CategoryItem struct {
	models.CategoryEntry
	DisplayName string `json:"display_name"`
}

type CategoryService struct {
	repo   *storage.CategoryRepository
	values values.TrendsValues
}

func NewCategoryService(repo *storage.CategoryRepository, v values.TrendsValues) *CategoryService {
	return &CategoryService{repo: repo, values: v}
}

// FetchCategories lists active categories by sort order. For a single depth it
// prepends an "all" entry unless the platform defines one itself. acceptLanguage
// is an Accept-Language value choosing DisplayName; empty uses the configured order.
func (s *CategoryService) FetchCategories(ctx context.Context, platform string, depth int, acceptLanguage string) (models.Page[CategoryItem], error) {
	entries, err := s.repo.Active(ctx, platform, depth)
	if err != nil {
		return models.Page[CategoryItem]{}, err
	}

	prefs := parseTags(s.values.CategoryLanguages)
	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
			prefs = tags
		}
	}

	items := make([]CategoryItem, 0, len(entries)+1)
	if depth > 0 && !s.hasAllEntry(entries) {
		all := models.CategoryEntry{
			Platform:      platform,
			Code:          AllCategoryCode,
			NameLocalized: allCategoryNames,
			Depth:         depth,
			IsActive:      true,
		}
		items = append(items, CategoryItem{CategoryEntry: all, DisplayName: DisplayName(all, prefs)})
	}
	for _, e := range entries {
		items = append(items, CategoryItem{CategoryEntry: e, DisplayName: DisplayName(e, prefs)})
	}
	return models.Page[CategoryItem]{Data: items, Count: len(items)}, nil
}

func (s *CategoryService) hasAllEntry(entries []models.CategoryEntry) bool {
	for _, e := range entries {
		if e.Code != "" && values.Contains(s.values.AllCategoryCodes, e.Code) {
			return true
		}
	}
	return false
}
