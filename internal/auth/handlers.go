package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/extreme-startup/internal/logging"
	httperrors "github.com/gokatarajesh/extreme-startup/pkg/http/errors"
)

// LoginRequest is the body of POST /v1/admin/login.
type LoginRequest struct {
	Password string `json:"password"`
}

// HTTPHandlers exposes admin session endpoints.
type HTTPHandlers struct {
	authSvc *Service
	logger  zerolog.Logger
}

func NewHTTPHandlers(authSvc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		authSvc: authSvc,
		logger:  logging.Component(logger, "auth_http"),
	}
}

// Login handles POST /v1/admin/login
func (h *HTTPHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.Password == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "password is required", "password")
		return
	}

	token, err := h.authSvc.Login(r.Context(), req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeLoginFailed, "Invalid password")
			return
		}
		h.logger.Error().Err(err).Msg("admin login failed")
		httperrors.RespondInternalError(w, "Login failed")
		return
	}

	httperrors.RespondJSON(w, http.StatusOK, token)
}

// Logout handles POST /v1/admin/logout. It must sit behind RequireAdmin.
func (h *HTTPHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}
	if err := h.authSvc.Logout(r.Context(), claims); err != nil {
		h.logger.Error().Err(err).Msg("admin logout failed")
		httperrors.RespondInternalError(w, "Logout failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
