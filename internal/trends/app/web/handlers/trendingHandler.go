package handlers

import (
	"ktrend_api/internal/trends/business"
	"ktrend_api/pkg/logger"
	"net/http"
)

type TrendingHandler struct {
	trending *business.TrendingService
	reviews  *business.ReviewGrowthService
	log      logger.Logger
}

func NewTrendingHandler(trending *business.TrendingService, reviews *business.ReviewGrowthService, log logger.Logger) *TrendingHandler {
	return &TrendingHandler{trending: trending, reviews: reviews, log: logger.OrNop(log).WithPrefix("[TrendingHandler]")}
}

func (h *TrendingHandler) Name() string { return "TrendingHandler" }

func (h *TrendingHandler) GetTrendingHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	result, err := h.trending.FetchTrending(r.Context(), limit, platformParam(r))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, result)
}

func (h *TrendingHandler) GetReviewGrowthHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	result, err := h.reviews.FetchReviewGrowth(r.Context(), limit, platformParam(r))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, result)
}
