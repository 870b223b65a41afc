package handlers

import (
	"ktrend_api/internal/trends/business"
	"ktrend_api/pkg/logger"
	"net/http"
)

type InsightsHandler struct {
	insights *business.InsightsService
	log      logger.Logger
}

func NewInsightsHandler(insights *business.InsightsService, log logger.Logger) *InsightsHandler {
	return &InsightsHandler{insights: insights, log: logger.OrNop(log).WithPrefix("[InsightsHandler]")}
}

func (h *InsightsHandler) Name() string { return "InsightsHandler" }

// GetInsightsHandler serves GET /api/insights?platform&top.
func (h *InsightsHandler) GetInsightsHandler(w http.ResponseWriter, r *http.Request) {
	top, err := intParam(r, "top", 0)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	result, err := h.insights.FetchInsights(r.Context(), platformParam(r), top)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, result)
}
