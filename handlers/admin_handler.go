package handlers

import (
	"net/http"

	"github.com/Dosada05/belote-club/services"
)

type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(as services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: as,
	}
}

// RepairBeloteHandler обрабатывает POST /admin/matches/{matchID}/fix-belote.
// Разовая починка матчей, записанных до исправления подсчёта белота;
// повторный запуск добавит премию ещё раз, поэтому ручка существует
// только как отдельный административный вызов.
func (h *AdminHandler) RepairBeloteHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getUUIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.adminService.RepairBeloteScores(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"repair": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
