package handlers

import (
	"net/http"

	"booklog-backend/application/services"
	"booklog-backend/pkg/common"
	pkgerrors "booklog-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ProfileHandler serves the profile picker and PIN login
type ProfileHandler struct {
	auth   *services.AuthService
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(auth *services.AuthService, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{auth: auth, errors: errors, logger: logger}
}

// LoginRequest is the body of a PIN login. The PIN format is checked by the profile itself.
type LoginRequest struct {
	PIN string `json:"pin" validate:"required"`
}

// ListProfiles handles GET /profiles
func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.auth.ListProfiles(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondList(w, middleware.GetReqID(r.Context()), profiles, len(profiles))
}

// Login handles POST /profiles/{profileID}/login
func (h *ProfileHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), chi.URLParam(r, "profileID"), req.PIN)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
