package handlers

import (
	"errors"
	"net/http"
	"time"

	authsvc "github.com/TLN1/linkr-back/backend/internal/services/auth"
	"github.com/TLN1/linkr-back/backend/internal/transport/http/dto"
	httperrors "github.com/TLN1/linkr-back/backend/internal/transport/http/errors"
)

type AuthHandler struct {
	service *authsvc.Service
}

func NewAuthHandler(service *authsvc.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Refresh exchanges a refresh token for a new token pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	var req dto.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	tokens, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		handleAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, tokensResponse(tokens))
}

// Logout revokes the session behind the presented access token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.revoke(w, r, func(identity authsvc.Identity) error {
		return h.service.Logout(r.Context(), identity.SID)
	})
}

// LogoutAll revokes every session of the current actor.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	h.revoke(w, r, func(identity authsvc.Identity) error {
		return h.service.LogoutAll(r.Context(), identity.UserID)
	})
}

func (h *AuthHandler) revoke(w http.ResponseWriter, r *http.Request, fn func(authsvc.Identity) error) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	if err := fn(identity); err != nil {
		handleAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LogoutResponse{OK: true})
}

func tokensResponse(tokens authsvc.Tokens) dto.AuthTokensResponse {
	return dto.AuthTokensResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresInSec: max(0, int64(time.Until(tokens.AccessExpires).Seconds())),
		Me: dto.AuthMeResponse{
			ID:   tokens.Actor.UserID,
			Role: string(tokens.Actor.Role),
		},
	}
}

func handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authsvc.ErrInvalidInput):
		writeBadRequest(w, "INVALID_REQUEST", "request validation failed")
	case errors.Is(err, authsvc.ErrUnauthorized):
		writeUnauthorized(w, "UNAUTHORIZED", "authentication failed")
	case errors.Is(err, authsvc.ErrSessionsOff):
		httperrors.Write(w, http.StatusNotImplemented, httperrors.APIError{
			Code:    "SESSIONS_DISABLED",
			Message: "session store is not configured",
		})
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
