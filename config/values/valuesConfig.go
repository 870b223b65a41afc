package values

// TrendsValues tunes the aggregation layer per platform.
type TrendsValues struct {
	// PureTrendPlatforms publish keywords without a rank baseline, so trending is the latest top list.
	PureTrendPlatforms []string `yaml:"pure-trend-platforms"`
	// GenderPlatforms are the apparel platforms where the gender tag filter is meaningful.
	GenderPlatforms []string `yaml:"gender-platforms"`
	// AllCategoryCodes mean "no category filter".
	AllCategoryCodes []string `yaml:"all-category-codes"`
	// AllGenderValues mean "no gender filter", compared case-insensitively.
	AllGenderValues []string `yaml:"all-gender-values"`
	// InsightsExcludedBrands are placeholder brands of keyword platforms, left out of brand counts.
	InsightsExcludedBrands []string `yaml:"insights-excluded-brands"`
	// CategoryLanguages is the preference order for category display names.
	CategoryLanguages []string `yaml:"category-languages"`

	DefaultPerPage      int `yaml:"default-per-page"`
	MaxPerPage          int `yaml:"max-per-page"`
	TrendingLimit       int `yaml:"trending-limit"`
	HistoryDays         int `yaml:"history-days"`
	JoinBatchSize       int `yaml:"join-batch-size"`
	JoinBatchConcurrent int `yaml:"join-batch-concurrency"`
}

func DefaultTrendsValues() TrendsValues {
	return TrendsValues{
		PureTrendPlatforms:     []string{"google_trends", "naver_datalab"},
		GenderPlatforms:        []string{"musinsa"},
		AllCategoryCodes:       []string{"", "all", "000"},
		AllGenderValues:        []string{"", "all"},
		CategoryLanguages:      []string{"ko", "en", "vi"},
		InsightsExcludedBrands: []string{"Naver Data Lab", "Google Trend"},
		DefaultPerPage:         20,
		MaxPerPage:             100,
		TrendingLimit:          50,
		HistoryDays:            30,
		JoinBatchSize:          150,
		JoinBatchConcurrent:    4,
	}
}

// Contains reports whether value is listed.
func Contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
