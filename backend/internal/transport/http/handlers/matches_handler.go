package handlers

import (
	"context"
	"net/http"

	"github.com/TLN1/linkr-back/backend/internal/domain/model"
	authsvc "github.com/TLN1/linkr-back/backend/internal/services/auth"
	matchessvc "github.com/TLN1/linkr-back/backend/internal/services/matches"
	"github.com/TLN1/linkr-back/backend/internal/transport/http/dto"
	httperrors "github.com/TLN1/linkr-back/backend/internal/transport/http/errors"
)

type MatchEventHistory interface {
	Recent(ctx context.Context, accountID int64, limit int) ([]model.MatchEvent, error)
}

type MatchesHandler struct {
	service *matchessvc.Service
	events  MatchEventHistory
}

func NewMatchesHandler(service *matchessvc.Service, events MatchEventHistory) *MatchesHandler {
	return &MatchesHandler{service: service, events: events}
}

// Handle serves GET /matches for the calling user.
func (h *MatchesHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	items, err := h.service.ListForUser(r.Context(), identity.UserID, parseIntOrDefault(r.URL.Query().Get("limit"), 0))
	if err != nil {
		writeEngineError(w, err, "failed to load matches", matchessvc.ErrValidation)
		return
	}
	httperrors.Write(w, http.StatusOK, mapMatches(items))
}

// Application serves GET /applications/{id}/matches for the application's owner.
func (h *MatchesHandler) Application(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}
	applicationID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid application id")
		return
	}

	items, err := h.service.ListForOwnedApplication(r.Context(), identity.UserID, applicationID, parseIntOrDefault(r.URL.Query().Get("limit"), 0))
	if err != nil {
		writeEngineError(w, err, "failed to load matches", matchessvc.ErrValidation)
		return
	}
	httperrors.Write(w, http.StatusOK, mapMatches(items))
}

// Events serves GET /matches/events: recent match notifications addressed to the caller.
func (h *MatchesHandler) Events(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.events == nil {
		httperrors.Write(w, http.StatusNotImplemented, httperrors.APIError{
			Code:    "EVENTS_DISABLED",
			Message: "match event history is not configured",
		})
		return
	}

	events, err := h.events.Recent(r.Context(), identity.UserID, parseIntOrDefault(r.URL.Query().Get("limit"), 0))
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load match events")
		return
	}

	items := make([]dto.MatchEventResponse, 0, len(events))
	for _, event := range events {
		items = append(items, dto.MatchEventResponse{
			ID:            event.ID,
			UserID:        event.UserID,
			ApplicationID: event.ApplicationID,
			OwnerID:       event.OwnerID,
			CompanyID:     event.CompanyID,
			OccurredAt:    event.OccurredAt,
		})
	}
	httperrors.Write(w, http.StatusOK, dto.MatchEventsResponse{Items: items})
}

func mapMatches(items []model.MatchItem) dto.MatchesResponse {
	out := make([]dto.MatchItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.MatchItemResponse{
			UserID:        item.UserID,
			ApplicationID: item.ApplicationID,
			MatchedAt:     item.MatchedAt,
		})
	}
	return dto.MatchesResponse{Items: out}
}
