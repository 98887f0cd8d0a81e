package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/logger"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/service"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/store"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/utils"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/models"
	"github.com/google/uuid"
)

// sessionIDHeader carries the opaque login-session identifier across the
// face and credential phases of one login attempt.
const sessionIDHeader = "X-Session-ID"

// sessionID returns the request's session identifier, minting one when the
// client did not supply any, and echoes it on the response.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(sessionIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(sessionIDHeader, id)
	return id
}

// faceRequest is the body of probe-carrying requests.
type faceRequest struct {
	Embedding models.Embedding `json:"embedding"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	registeredUser, err := h.services.AuthService.RegisterUser(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		case errors.Is(err, store.ErrUsernameTaken):
			log.Err(err).Msg("username already exists")
			http.Error(w, "username already exists", http.StatusConflict)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during user registration")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	// the account stays provisional until a face is enrolled; the token
	// lets the owner reach the enroll-face endpoint
	token, err := h.services.AuthService.CreateToken(ctx, models.Principal{
		UserID:   registeredUser.UserID,
		Username: registeredUser.Username,
		Role:     registeredUser.Role,
	})
	if err != nil {
		log.Err(err).Msg("creation of token failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID(w, r)
	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	utils.WriteJSON(w, registeredUser, http.StatusCreated)
}

func (h *Handler) submitFace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req faceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	match, err := h.services.SessionService.SubmitFace(ctx, sessionID(w, r), req.Embedding)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoMatch):
			log.Info().Msg("face not recognized")
			http.Error(w, "face not recognized", http.StatusUnauthorized)
			return
		case errors.Is(err, service.ErrBadDimension):
			log.Err(err).Msg("bad embedding dimension")
			http.Error(w, "bad embedding dimension", http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during face identification")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	utils.WriteJSON(w, match, http.StatusOK)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	token, err := h.services.SessionService.SubmitCredentials(ctx, sessionID(w, r), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrWrongPassword):
			log.Warn().Str("username", req.Username).Msg("wrong username or password")
			http.Error(w, "invalid username/password", http.StatusUnauthorized)
			return
		case errors.Is(err, service.ErrIdentityMismatch):
			log.Warn().Str("username", req.Username).Msg("credentials do not match identified face")
			http.Error(w, "credentials do not match identified face", http.StatusConflict)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during login")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.services.SessionService.Logout(ctx, sessionID(w, r), userID); err != nil {
		log.Err(err).Msg("unexpected error occurred during logout")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	role, ok := utils.GetRoleFromContext(ctx)
	if !ok {
		log.Error().Msg("no role in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	utils.WriteJSON(w, models.Principal{UserID: userID, Role: role}, http.StatusOK)
}
