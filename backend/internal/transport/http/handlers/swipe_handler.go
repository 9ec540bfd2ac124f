package handlers

import (
	"net/http"

	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
	authsvc "github.com/TLN1/linkr-back/backend/internal/services/auth"
	swipesvc "github.com/TLN1/linkr-back/backend/internal/services/swipes"
	"github.com/TLN1/linkr-back/backend/internal/transport/http/dto"
	httperrors "github.com/TLN1/linkr-back/backend/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
}

func NewSwipeHandler(service *swipesvc.Service) *SwipeHandler {
	return &SwipeHandler{service: service}
}

// Application serves POST /swipes/applications: the caller swipes an application.
func (h *SwipeHandler) Application(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeApplicationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	direction, ok := enums.ParseSwipeDirection(req.Direction)
	if req.ApplicationID <= 0 || !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "application_id and direction LEFT|RIGHT are required")
		return
	}

	result, err := h.service.SwipeApplication(r.Context(), identity.UserID, req.ApplicationID, direction)
	if err != nil {
		writeEngineError(w, err, "invalid swipe request", swipesvc.ErrValidation)
		return
	}
	writeSwipeResult(w, result)
}

// User serves POST /applications/{id}/swipes: the owner swipes a user for the application.
func (h *SwipeHandler) User(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}
	applicationID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid application id")
		return
	}

	var req dto.SwipeUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	direction, ok := enums.ParseSwipeDirection(req.Direction)
	if req.UserID <= 0 || !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "user_id and direction LEFT|RIGHT are required")
		return
	}

	result, err := h.service.SwipeUser(r.Context(), identity.UserID, applicationID, req.UserID, direction)
	if err != nil {
		writeEngineError(w, err, "invalid swipe request", swipesvc.ErrValidation)
		return
	}
	writeSwipeResult(w, result)
}

func writeSwipeResult(w http.ResponseWriter, result swipesvc.SwipeResult) {
	httperrors.Write(w, http.StatusOK, dto.SwipeResponse{
		OK:        true,
		Direction: string(result.Direction),
		Matched:   result.Matched,
		Changed:   result.Changed,
	})
}
