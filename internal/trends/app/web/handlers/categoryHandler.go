package handlers

import (
	"ktrend_api/internal/trends/business"
	"ktrend_api/pkg/logger"
	"net/http"
)

type CategoryHandler struct {
	categories *business.CategoryService
	log        logger.Logger
}

func NewCategoryHandler(categories *business.CategoryService, log logger.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, log: logger.OrNop(log).WithPrefix("[CategoryHandler]")}
}

func (h *CategoryHandler) Name() string { return "CategoryHandler" }

// GetCategoriesHandler names entries in the caller's language, ?lang first, then Accept-Language.
func (h *CategoryHandler) GetCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	depth, err := intParam(r, "depth", 0)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = r.Header.Get("Accept-Language")
	}
	result, err := h.categories.FetchCategories(r.Context(), platformParam(r), depth, lang)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, result)
}
