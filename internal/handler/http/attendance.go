package http

import (
	"net/http"

	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/logger"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/utils"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/models"
)

// attendanceHistory returns the caller's own ledger records, newest first.
func (h *Handler) attendanceHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	records, err := h.services.AttendanceLedger.History(ctx, userID)
	if err != nil {
		log.Err(err).Msg("unexpected error occurred listing attendance records")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if records == nil {
		records = []models.AttendanceRecord{}
	}
	utils.WriteJSON(w, records, http.StatusOK)
}
