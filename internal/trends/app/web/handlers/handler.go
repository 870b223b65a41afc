package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"ktrend_api/internal/trends/storage"
	"ktrend_api/pkg/logger"
	"net/http"
	"strconv"
	"strings"
)

const defaultPlatform = "oliveyoung"

// Handler is implemented by every route group.
type Handler interface {
	Name() string
}

// badRequest marks caller mistakes in parameters.
type badRequest struct{ msg string }

func (e *badRequest) Error() string { return e.msg }

func badRequestf(format string, args ...interface{}) error {
	return &badRequest{msg: fmt.Sprintf(format, args...)}
}

func writeJSON(w http.ResponseWriter, log logger.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Log("failed to encode response: %v", err)
	}
}

// writeError maps parameter errors to 400, upstream query failures to 502 and
// everything else to 500.
func writeError(w http.ResponseWriter, log logger.Logger, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var (
		br *badRequest
		qe *storage.QueryError
	)
	switch {
	case errors.As(err, &br):
		status = http.StatusBadRequest
	case errors.As(err, &qe):
		status = http.StatusBadGateway
	}
	if status != http.StatusBadRequest {
		log.Log("%s %s failed: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, log, status, map[string]string{"error": err.Error()})
}

func platformParam(r *http.Request) string {
	if p := strings.TrimSpace(r.URL.Query().Get("platform")); p != "" {
		return strings.ToLower(p)
	}
	return defaultPlatform
}

// intParam returns def when the parameter is absent, and an error when it is not a non-negative integer.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, badRequestf("%s must be a non-negative integer, got %q", name, raw)
	}
	return v, nil
}
