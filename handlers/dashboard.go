package handlers

import (
	"net/http"

	"github.com/Dosada05/belote-club/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(ds services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: ds,
	}
}

// GetHandler обрабатывает GET /dashboard
func (h *DashboardHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetClubStats(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stats": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
