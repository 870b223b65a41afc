package handlers

import (
	"ktrend_api/internal/trends/business"
	"ktrend_api/pkg/logger"
	"net/http"
)

type DealsHandler struct {
	deals *business.DealsService
	kpi   *business.KPIService
	log   logger.Logger
}

func NewDealsHandler(deals *business.DealsService, kpi *business.KPIService, log logger.Logger) *DealsHandler {
	return &DealsHandler{deals: deals, kpi: kpi, log: logger.OrNop(log).WithPrefix("[DealsHandler]")}
}

func (h *DealsHandler) Name() string { return "DealsHandler" }

func (h *DealsHandler) GetDealsHandler(w http.ResponseWriter, r *http.Request) {
	result, err := h.deals.FetchDailySpecials(r.Context(), platformParam(r))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, result)
}

func (h *DealsHandler) GetKPIHandler(w http.ResponseWriter, r *http.Request) {
	result, err := h.kpi.FetchKPIs(r.Context(), platformParam(r))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, result)
}
