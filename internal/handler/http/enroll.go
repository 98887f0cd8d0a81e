package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/logger"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/service"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/utils"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/models"
)

// enrollFace finalizes a registration by storing the caller's reference
// embedding. A duplicate face rolls the provisional account back, so the
// caller's token becomes useless after a 409.
func (h *Handler) enrollFace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req faceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	reference, err := h.services.EnrollmentService.EnrollFace(ctx, userID, req.Embedding)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateFace):
			log.Warn().Int64("user_id", userID).Msg("face already enrolled for another user")
			http.Error(w, "face already enrolled for another user", http.StatusConflict)
			return
		case errors.Is(err, service.ErrBadDimension):
			log.Err(err).Msg("bad embedding dimension")
			http.Error(w, "bad embedding dimension", http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during face enrollment")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	utils.WriteJSON(w, reference, http.StatusCreated)
}

// rejectEnrollment abandons a provisional registration; the account is
// removed unless it already holds references.
func (h *Handler) rejectEnrollment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.services.EnrollmentService.RejectEnrollment(ctx, userID); err != nil {
		log.Err(err).Msg("unexpected error occurred during enrollment rejection")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// replaceFaces swaps every reference of the target user for the embedding
// in the request body.
func (h *Handler) replaceFaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	role, _ := utils.GetRoleFromContext(ctx)

	targetUserID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		log.Err(err).Msg("invalid user ID in path")
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}

	var req faceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	actor := models.Principal{UserID: userID, Role: role}
	if err := h.services.EnrollmentService.ReplaceFace(ctx, actor, targetUserID, req.Embedding); err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			log.Warn().Int64("actor_id", userID).Int64("target_id", targetUserID).Msg("replacement forbidden")
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		case errors.Is(err, service.ErrDuplicateFace):
			log.Warn().Int64("target_id", targetUserID).Msg("face already enrolled for another user")
			http.Error(w, "face already enrolled for another user", http.StatusConflict)
			return
		case errors.Is(err, service.ErrBadDimension):
			log.Err(err).Msg("bad embedding dimension")
			http.Error(w, "bad embedding dimension", http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during face replacement")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) revokeFaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	role, _ := utils.GetRoleFromContext(ctx)

	targetUserID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		log.Err(err).Msg("invalid user ID in path")
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}

	actor := models.Principal{UserID: userID, Role: role}
	if err := h.services.EnrollmentService.RevokeFaces(ctx, actor, targetUserID); err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			log.Warn().Int64("actor_id", userID).Int64("target_id", targetUserID).Msg("revocation forbidden")
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during face revocation")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}
