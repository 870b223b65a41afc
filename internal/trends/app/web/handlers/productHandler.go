package handlers

import (
	"ktrend_api/internal/trends/business"
	"ktrend_api/internal/trends/models"
	"ktrend_api/pkg/logger"
	"net/http"
	"strconv"
	"strings"
)

type ProductHandler struct {
	ranked      *business.RankedProductService
	history     *business.HistoryService
	historyDays int
	log         logger.Logger
}

func NewProductHandler(ranked *business.RankedProductService, history *business.HistoryService, historyDays int, log logger.Logger) *ProductHandler {
	return &ProductHandler{
		ranked:      ranked,
		history:     history,
		historyDays: historyDays,
		log:         logger.OrNop(log).WithPrefix("[ProductHandler]"),
	}
}

func (h *ProductHandler) Name() string { return "ProductHandler" }

// GetRankedProductsHandler serves GET /api/products.
func (h *ProductHandler) GetRankedProductsHandler(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	perPage, err := intParam(r, "per_page", 0)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}

	q := r.URL.Query()
	result, err := h.ranked.FetchRankedProducts(r.Context(), business.RankedQuery{
		Page:         page,
		PerPage:      perPage,
		Search:       strings.TrimSpace(q.Get("search")),
		CategoryCode: strings.TrimSpace(q.Get("category")),
		Platform:     platformParam(r),
		Gender:       strings.TrimSpace(q.Get("gender")),
	})
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, result)
}

// GetHistoryHandler serves GET /api/history/{id}?days=N|all.
func (h *ProductHandler) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, h.log, r, badRequestf("invalid product id %q", r.PathValue("id")))
		return
	}
	window, err := business.ParseHistoryWindow(r.URL.Query().Get("days"), h.historyDays)
	if err != nil {
		writeError(w, h.log, r, badRequestf("%v", err))
		return
	}

	history, err := h.history.FetchProductHistory(r.Context(), models.InternalID(id), window)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, history)
}
