package api

import (
	"net/http"
	"time"

	"cp_journey/internal/api/handler"
	"cp_journey/internal/app/service"
	"cp_journey/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	syncService *service.SyncService,
	journeyService *service.JourneyService,
	topicService *service.TopicService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies token from "Authorization: Bearer T", puts claims in context.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(publicAuth chi.Router) {
			authHandler.RegisterRoutes(publicAuth)
		})

		// Topic catalog (public)
		topicHandler := handler.NewTopicHandler(topicService)
		v1.Route("/topics", topicHandler.RegisterRoutes)

		// Platform sync routes (authenticated)
		syncHandler := handler.NewSyncHandler(syncService, journeyService)
		v1.Route("/sync", syncHandler.RegisterRoutes)

		// Journey routes (authenticated)
		journeyHandler := handler.NewJourneyHandler(journeyService)
		v1.Route("/journey", journeyHandler.RegisterRoutes)
	})

	return r
}
