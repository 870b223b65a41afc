package business

import (
	"context"
	"fmt"
	"ktrend_api/config/values"
	"ktrend_api/internal/trends/models"
	"ktrend_api/internal/trends/storage"
	"ktrend_api/pkg/logger"
	"sort"

	"golang.org/x/text/language"
)

// CategoryNamer maps a platform category code to the display name products are labelled with.
// An empty name means unresolved; callers then skip category filtering.
type CategoryNamer interface {
	Resolve(ctx context.Context, platform, code string) (string, error)
}

// CategoryResolver bridges ranking category codes and the free-text product category.
type CategoryResolver struct {
	repo     *storage.CategoryRepository
	allCodes []string
	prefs    []language.Tag
	log      logger.Logger
}

func NewCategoryResolver(repo *storage.CategoryRepository, v values.TrendsValues, log logger.Logger) *CategoryResolver {
	return &CategoryResolver{
		repo:     repo,
		allCodes: v.AllCategoryCodes,
		prefs:    parseTags(v.CategoryLanguages),
		log:      logger.OrNop(log).WithPrefix("[CategoryResolver]"),
	}
}

func (r *CategoryResolver) Resolve(ctx context.Context, platform, code string) (string, error) {
	if values.Contains(r.allCodes, code) {
		return "", nil
	}
	entry, err := r.repo.ByCode(ctx, platform, code)
	if err != nil {
		return "", fmt.Errorf("resolve category %s/%s: %w", platform, code, err)
	}
	if entry == nil {
		r.log.Log("no category entry for %s/%s, filtering skipped", platform, code)
		return "", nil
	}
	return DisplayName(*entry, r.prefs), nil
}

// DisplayName picks the entry's name in the closest preferred language.
func DisplayName(entry models.CategoryEntry, prefs []language.Tag) string {
	if len(entry.NameLocalized) == 0 {
		return ""
	}
	var (
		available []language.Tag
		names     []string
	)
	for _, lang := range []string{"ko", "en", "vi"} {
		if name, ok := entry.NameLocalized[lang]; ok {
			available = append(available, language.Make(lang))
			names = append(names, name)
		}
	}
	var extra []string
	for lang := range entry.NameLocalized {
		if lang != "ko" && lang != "en" && lang != "vi" {
			extra = append(extra, lang)
		}
	}
	sort.Strings(extra)
	for _, lang := range extra {
		available = append(available, language.Make(lang))
		names = append(names, entry.NameLocalized[lang])
	}
	if len(prefs) == 0 {
		return names[0]
	}
	_, idx, _ := language.NewMatcher(available).Match(prefs...)
	return names[idx]
}

func parseTags(langs []string) []language.Tag {
	tags := make([]language.Tag, 0, len(langs))
	for _, l := range langs {
		if t, err := language.Parse(l); err == nil {
			tags = append(tags, t)
		}
	}
	return tags
}
