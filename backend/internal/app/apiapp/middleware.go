package apiapp

import (
	"errors"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	authsvc "github.com/TLN1/linkr-back/backend/internal/services/auth"
	httperrors "github.com/TLN1/linkr-back/backend/internal/transport/http/errors"
)

const defaultRequestTimeout = 60 * time.Second

type chiRouter interface {
	Use(middlewares ...func(http.Handler) http.Handler)
}

// ApplyMiddlewares installs the shared stack. requestTimeout bounds every request
// context, which in turn bounds store calls made on its behalf.
func ApplyMiddlewares(r chiRouter, log *zap.Logger, requestTimeout time.Duration) {
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))
}

// AuthMiddleware resolves the bearer credential to the current actor. Session store
// failures are reported as retryable instead of as a rejected credential.
func AuthMiddleware(authService *authsvc.Service, log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authService == nil {
				httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{
					Code:    "AUTH_SERVICE_UNAVAILABLE",
					Message: "auth service is unavailable",
				})
				return
			}

			accessToken, ok := extractBearerToken(r.Header.Get("Authorization"))
			if !ok {
				httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
					Code:    "UNAUTHORIZED",
					Message: "missing bearer token",
				})
				return
			}

			claims, err := authService.ValidateAccessToken(r.Context(), accessToken)
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(authsvc.WithIdentity(r.Context(), claims.Identity())))
			case errors.Is(err, authsvc.ErrUnauthorized):
				log.Debug("access token rejected", zap.String("request_id", chimiddleware.GetReqID(r.Context())))
				httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
					Code:    "UNAUTHORIZED",
					Message: "invalid access token",
				})
			default:
				log.Warn("access token validation failed", zap.Error(err))
				httperrors.WriteRetry(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "session store is unavailable", 1)
			}
		})
	}
}

func extractBearerToken(value string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(value), " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			fields := []zap.Field{
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			}
			if ww.Status() >= http.StatusInternalServerError {
				log.Warn("http_request", fields...)
				return
			}
			log.Info("http_request", fields...)
		})
	}
}
