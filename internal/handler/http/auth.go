package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/marketplace-auth/internal/logger"
	"github.com/MKhiriev/marketplace-auth/internal/utils"
	"github.com/MKhiriev/marketplace-auth/models"
)

const invalidJSONMessage = "Invalid JSON was passed"

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg(invalidJSONMessage)
		h.writeErrorMessage(w, invalidJSONMessage, codeValidationFailed, http.StatusBadRequest)
		return
	}

	if err := h.validator.Validate(ctx, request); err != nil {
		log.Err(err).Msg("registration data failed validation")
		h.writeError(w, r, err)
		return
	}

	user, pair, err := h.services.AuthService.Register(ctx, request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Debug().Int64("id", user.UserID).Msg("user successfully registered")

	utils.WriteJSON(w, models.AuthResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg(invalidJSONMessage)
		h.writeErrorMessage(w, invalidJSONMessage, codeValidationFailed, http.StatusBadRequest)
		return
	}

	if err := h.validator.Validate(ctx, request); err != nil {
		log.Err(err).Msg("login data failed validation")
		h.writeError(w, r, err)
		return
	}

	user, pair, err := h.services.AuthService.Login(ctx, request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Debug().Int64("id", user.UserID).Msg("user successfully logged in")

	utils.WriteJSON(w, models.AuthResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, http.StatusOK)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg(invalidJSONMessage)
		h.writeErrorMessage(w, invalidJSONMessage, codeValidationFailed, http.StatusBadRequest)
		return
	}

	if err := h.validator.Validate(ctx, request); err != nil {
		log.Err(err).Msg("refresh request failed validation")
		h.writeError(w, r, err)
		return
	}

	accessToken, err := h.services.AuthService.Refresh(ctx, request.RefreshToken)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.RefreshResponse{AccessToken: accessToken}, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg(invalidJSONMessage)
		h.writeErrorMessage(w, invalidJSONMessage, codeValidationFailed, http.StatusBadRequest)
		return
	}

	if err := h.validator.Validate(ctx, request); err != nil {
		log.Err(err).Msg("logout request failed validation")
		h.writeError(w, r, err)
		return
	}

	if err := h.services.AuthService.Logout(ctx, request.RefreshToken); err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.AckResponse{Status: "ok"}, http.StatusOK)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := utils.GetIdentityFromContext(ctx)
	if !ok {
		h.writeErrorMessage(w, ErrEmptyAuthorizationHeader.Error(), codeTokenMissing, http.StatusUnauthorized)
		return
	}

	user, err := h.services.AuthService.GetUser(ctx, identity.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.UserResponse{User: user}, http.StatusOK)
}

// getUser serves GET /api/users/{userID}: the owner sees their own account,
// admins see anyone.
func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, ok := utils.GetIdentityFromContext(ctx)
	if !ok {
		h.writeErrorMessage(w, ErrEmptyAuthorizationHeader.Error(), codeTokenMissing, http.StatusUnauthorized)
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		log.Err(err).Msg("invalid user id in path")
		h.writeErrorMessage(w, "invalid user id", codeValidationFailed, http.StatusBadRequest)
		return
	}

	if !authorizedForOwner(identity, userID) {
		h.denyAccess(w, r, identity)
		return
	}

	user, err := h.services.AuthService.GetUser(ctx, userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.UserResponse{User: user}, http.StatusOK)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, ok := utils.GetIdentityFromContext(ctx)
	if !ok {
		h.writeErrorMessage(w, ErrEmptyAuthorizationHeader.Error(), codeTokenMissing, http.StatusUnauthorized)
		return
	}

	var request models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg(invalidJSONMessage)
		h.writeErrorMessage(w, invalidJSONMessage, codeValidationFailed, http.StatusBadRequest)
		return
	}

	if err := h.validator.Validate(ctx, request); err != nil {
		log.Err(err).Msg("password change request failed validation")
		h.writeError(w, r, err)
		return
	}

	if err := h.services.AuthService.ChangePassword(ctx, identity.UserID, request); err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.AckResponse{Status: "ok"}, http.StatusOK)
}

// deactivateUser serves DELETE /api/admin/users/{userID}. Reached only
// through the ADMIN role gate.
func (h *Handler) deactivateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		log.Err(err).Msg("invalid user id in path")
		h.writeErrorMessage(w, "invalid user id", codeValidationFailed, http.StatusBadRequest)
		return
	}

	if err = h.services.AuthService.DeactivateUser(ctx, userID); err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.AckResponse{Status: "ok"}, http.StatusOK)
}

func (h *Handler) ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("pong"))
}
