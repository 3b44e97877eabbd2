package reporting

import (
	"net/http"
	"time"

	"github.com/rentkart/backend-rentkart/internal/common"
)

// Handler exposes the seller console reporting endpoint.
type Handler struct {
	Svc *Service
}

// Summary returns KPIs plus the top products and categories for the requested
// window. Explicit bounds come as RFC3339 from_ts/to_ts; otherwise the window
// is the trailing number of days.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "REPORTING_NOT_CONFIGURED", "reporting service not configured", nil)
		return
	}
	query := r.URL.Query()
	fromStr := query.Get("from_ts")
	toStr := query.Get("to_ts")
	now := h.Svc.now()
	var (
		from time.Time
		to   time.Time
		err  error
	)
	if fromStr != "" && toStr != "" {
		from, err = time.Parse(time.RFC3339, fromStr)
		if err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid from_ts", nil)
			return
		}
		to, err = time.Parse(time.RFC3339, toStr)
		if err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid to_ts", nil)
			return
		}
	} else {
		days := h.Svc.DefaultRange
		if days <= 0 {
			days = 30
		}
		if raw := query.Get("days"); raw != "" {
			parsed := common.AtoiDefault(raw, days)
			if parsed > 0 {
				days = parsed
			}
		}
		to = now
		from = to.AddDate(0, 0, -days)
	}
	if !from.Before(to) {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "from_ts must be before to_ts", nil)
		return
	}
	limit := common.AtoiDefault(query.Get("limit"), 5)
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	summary, err := h.Svc.Summarize(r.Context(), from, to, int32(limit))
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "REPORTING_ERROR", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": summary})
}
