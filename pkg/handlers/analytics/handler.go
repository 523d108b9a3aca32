package analytics

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/de-tools/freight-atlas/pkg/models/api"
	"github.com/de-tools/freight-atlas/pkg/models/domain"
	"github.com/de-tools/freight-atlas/pkg/services/analytics"
	"github.com/rs/zerolog"
)

type Handler struct {
	analyzer analytics.Analyzer
	profile  string
}

func NewHandler(analyzer analytics.Analyzer, profile string) *Handler {
	return &Handler{
		analyzer: analyzer,
		profile:  profile,
	}
}

// GetReport serves GET /analytics?window_days=&client=. Unsupported windows fall back to the
// default; a non-numeric window is rejected.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	query := r.URL.Query()

	var windowDays int
	if raw := query.Get("window_days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid 'window_days' value. Expected an integer number of days", http.StatusBadRequest)
			return
		}
		windowDays = days
	}

	report := h.analyzer.Analyze(ctx, analytics.Request{
		WindowDays:   windowDays,
		ClientFilter: query.Get("client"),
	})

	status := http.StatusOK
	if storeFailed(report) {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report, logger)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.Health{Status: "ok", Profile: h.profile}, zerolog.Ctx(r.Context()))
}

// storeFailed reports whether the report failed for a reason other than an empty window.
func storeFailed(report *domain.Report) bool {
	return !report.Success && report.Error != analytics.NoData
}

func writeJSON(w http.ResponseWriter, status int, body any, logger *zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode response")
	}
}
