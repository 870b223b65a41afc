package models

// CategoryEntry is reference data from the categories table; (Platform, Code) is unique.
type CategoryEntry struct {
	Platform      string            `json:"platform"`
	Code          string            `json:"category_code"`
	NameLocalized map[string]string `json:"names"`
	ParentCode    string            `json:"parent_code,omitempty"`
	Depth         int               `json:"depth"`
	SortOrder     int               `json:"sort_order"`
	IsActive      bool              `json:"is_active"`
}
