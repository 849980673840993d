package http

import (
	"net/http"

	"github.com/teolmungchi/admin-gateway/internal/admin/service"
)

// DashboardHandler proxies the dashboard aggregates.
type DashboardHandler struct {
	Dashboard *service.DashboardService
}

// HandleStats godoc
//
//	@Summary	Dashboard statistics
//	@Tags		Dashboard
//	@Produce	json
//	@Success	200	{object}	Envelope{data=domain.DashboardStats}
//	@Failure	401	{object}	Envelope
//	@Router		/v1/dashboard [get].
func (h *DashboardHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Dashboard.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

func (h *DashboardHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	recent, err := h.Dashboard.Recent(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, recent)
}

func (h *DashboardHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	points, err := h.Dashboard.Activity(r.Context(), q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, points)
}
