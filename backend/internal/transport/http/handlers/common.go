package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/TLN1/linkr-back/backend/internal/domain/apperrors"
	swipesvc "github.com/TLN1/linkr-back/backend/internal/services/swipes"
	httperrors "github.com/TLN1/linkr-back/backend/internal/transport/http/errors"
)

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}

// writeEngineError maps the shared error taxonomy onto HTTP. validation lists the
// calling service's own ErrValidation sentinels.
func writeEngineError(w http.ResponseWriter, err error, message string, validation ...error) {
	for _, target := range validation {
		if errors.Is(err, target) {
			writeBadRequest(w, "VALIDATION_ERROR", message)
			return
		}
	}

	var invalid *apperrors.InvalidFilterError
	switch {
	case errors.As(err, &invalid):
		writeBadRequest(w, "INVALID_FILTER", invalid.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		httperrors.Write(w, http.StatusForbidden, httperrors.APIError{Code: "FORBIDDEN", Message: "application is owned by another account"})
	case apperrors.IsRetryable(err):
		httperrors.WriteRetry(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "storage is temporarily unavailable", int64(apperrors.DefaultRetryAfter.Seconds()))
	default:
		if tf, ok := swipesvc.IsTooFast(err); ok {
			httperrors.WriteRetry(w, http.StatusTooManyRequests, "TOO_FAST", "too many swipes, slow down", tf.RetryAfter())
			return
		}
		writeInternal(w, "INTERNAL_ERROR", message)
	}
}

func parseIntOrDefault(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}

func pathID(r *http.Request, name string) (int64, bool) {
	value, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, name)), 10, 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

// queryValues accepts repeated and comma separated parameters.
func queryValues(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
