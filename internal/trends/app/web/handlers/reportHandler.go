package handlers

import (
	"bytes"
	"fmt"
	"ktrend_api/internal/trends/report"
	"ktrend_api/pkg/logger"
	"net/http"
	"time"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	builder *report.Builder
	log     logger.Logger
}

func NewReportHandler(builder *report.Builder, log logger.Logger) *ReportHandler {
	return &ReportHandler{builder: builder, log: logger.OrNop(log).WithPrefix("[ReportHandler]")}
}

func (h *ReportHandler) Name() string { return "ReportHandler" }

// GetReportHandler renders into memory first so a failure still yields a JSON error.
func (h *ReportHandler) GetReportHandler(w http.ResponseWriter, r *http.Request) {
	platform := platformParam(r)
	var buf bytes.Buffer
	if err := h.builder.Write(r.Context(), platform, &buf); err != nil {
		writeError(w, h.log, r, err)
		return
	}

	filename := fmt.Sprintf("ktrend_%s_%s.xlsx", platform, time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Log("failed to write report: %v", err)
	}
}
