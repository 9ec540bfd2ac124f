package handlers

import (
	"net/http"

	"github.com/TLN1/linkr-back/backend/internal/domain/model"
	"github.com/TLN1/linkr-back/backend/internal/domain/rules"
	authsvc "github.com/TLN1/linkr-back/backend/internal/services/auth"
	feedsvc "github.com/TLN1/linkr-back/backend/internal/services/feed"
	"github.com/TLN1/linkr-back/backend/internal/transport/http/dto"
	httperrors "github.com/TLN1/linkr-back/backend/internal/transport/http/errors"
)

type CandidateHandler struct {
	service *feedsvc.Service
}

func NewCandidateHandler(service *feedsvc.Service) *CandidateHandler {
	return &CandidateHandler{service: service}
}

// Applications serves GET /candidates/applications. Any filter parameter replaces the
// saved preference for this request.
func (h *CandidateHandler) Applications(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}

	override, err := preferenceFromQuery(r)
	if err != nil {
		writeEngineError(w, err, "invalid preference filter")
		return
	}

	limit := parseIntOrDefault(r.URL.Query().Get("limit"), h.service.DefaultLimit())
	apps, err := h.service.Applications(r.Context(), identity.UserID, override, limit)
	if err != nil {
		writeEngineError(w, err, "failed to select applications", feedsvc.ErrValidation)
		return
	}

	items := make([]dto.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		items = append(items, mapApplication(app))
	}
	httperrors.Write(w, http.StatusOK, dto.ApplicationsResponse{Items: items})
}

// Users serves GET /applications/{id}/candidates for the application's owner.
func (h *CandidateHandler) Users(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}
	applicationID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid application id")
		return
	}

	limit := parseIntOrDefault(r.URL.Query().Get("limit"), h.service.DefaultLimit())
	users, err := h.service.Users(r.Context(), identity.UserID, applicationID, limit)
	if err != nil {
		writeEngineError(w, err, "failed to select users", feedsvc.ErrValidation)
		return
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, dto.UserResponse{
			ID:              user.ID,
			Username:        user.Username,
			Location:        string(user.Location),
			JobType:         string(user.JobType),
			ExperienceLevel: string(user.ExperienceLevel),
			Industry:        string(user.Industry),
		})
	}
	httperrors.Write(w, http.StatusOK, dto.UsersResponse{Items: items})
}

// Application serves GET /applications/{id} and counts a view.
func (h *CandidateHandler) Application(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}
	applicationID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid application id")
		return
	}

	app, err := h.service.Application(r.Context(), identity.UserID, applicationID)
	if err != nil {
		writeEngineError(w, err, "failed to load application", feedsvc.ErrValidation)
		return
	}
	httperrors.Write(w, http.StatusOK, mapApplication(app))
}

func preferenceFromQuery(r *http.Request) (*model.PreferenceFilter, error) {
	locations := queryValues(r, "location")
	jobTypes := queryValues(r, "job_type")
	levels := queryValues(r, "experience_level")
	industries := queryValues(r, "industry")
	if len(locations)+len(jobTypes)+len(levels)+len(industries) == 0 {
		return nil, nil
	}

	pref, err := rules.ParsePreference(locations, jobTypes, levels, industries)
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

func mapApplication(app model.Application) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:              app.ID,
		CompanyID:       app.CompanyID,
		Title:           app.Title,
		Description:     app.Description,
		Location:        string(app.Location),
		JobType:         string(app.JobType),
		ExperienceLevel: string(app.ExperienceLevel),
		Industry:        string(app.Industry),
		Views:           app.Views,
		CreatedAt:       app.CreatedAt,
	}
}
