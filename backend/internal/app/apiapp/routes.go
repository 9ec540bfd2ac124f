package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/TLN1/linkr-back/backend/internal/transport/http/handlers"
)

type Dependencies struct {
	Engine *Engine
	Logger *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	e := deps.Engine

	var history handlers.MatchEventHistory
	if e.MatchEvents != nil {
		history = e.MatchEvents
	}

	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(e.Auth)
	candidateHandler := handlers.NewCandidateHandler(e.Feed)
	swipeHandler := handlers.NewSwipeHandler(e.Swipes)
	matchesHandler := handlers.NewMatchesHandler(e.Matches, history)
	authMW := AuthMiddleware(e.Auth, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/refresh", authHandler.Refresh)
		r.With(authMW).Post("/logout", authHandler.Logout)
		r.With(authMW).Post("/logout-all", authHandler.LogoutAll)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMW)
		r.Get("/candidates/applications", candidateHandler.Applications)
		r.Post("/swipes/applications", swipeHandler.Application)
		r.Get("/matches", matchesHandler.Handle)
		r.Get("/matches/events", matchesHandler.Events)

		r.Route("/applications/{id}", func(r chi.Router) {
			r.Get("/", candidateHandler.Application)
			r.Get("/candidates", candidateHandler.Users)
			r.Post("/swipes", swipeHandler.User)
			r.Get("/matches", matchesHandler.Application)
		})
	})
}
