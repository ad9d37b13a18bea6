package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/photo-portfolio/errs"
	"github.com/rs/zerolog/log"
)

// setupFallbackRoutes answers unknown paths and wrong methods with JSON errors
func setupFallbackRoutes(r chi.Router) {
	responder := NewResponder(log.With().Str("handlerName", "fallback").Logger())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responder.WriteError(w, errs.NewRouteNotFoundError(req.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responder.WriteError(w, errs.NewMethodNotAllowedError(req.Method))
	})
}

// setupPublicRoutes sets up the gallery routes anyone can read
func setupPublicRoutes(r chi.Router, handlers *routeHandlers, services Services) {
	r.Get("/events", services.Hub.ServeWS)

	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", handlers.healthHandler.getHealth())

		// Photo Handler endpoints
		r.Get("/photos", handlers.photoHandler.getAllPhotos())
		r.Get("/photo/{photoID}", handlers.photoHandler.getPhoto())
		r.Get("/photos/{photoID}/neighbors", handlers.photoHandler.getNeighbors())

		// Tag Handler endpoints
		r.Get("/tags", handlers.tagHandler.getAllTags())
		r.Get("/suggestions", handlers.tagHandler.getSuggestions())

		r.Get("/geocode", handlers.geocodeHandler.reverseGeocode())

		r.Post("/auth/login", handlers.authHandler.login())
	})
}

// setupAdminRoutes sets up all routes with authentication
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)

		r.Post("/auth/logout", handlers.authHandler.logout())
		r.Get("/auth/session", handlers.authHandler.session())

		r.Post("/photos/upload", handlers.uploadHandler.uploadPhotos())
		r.Put("/photo/{photoID}", handlers.photoHandler.updatePhoto())
		r.Delete("/photo/{photoID}", handlers.photoHandler.deletePhoto())
		r.Post("/delete-photo", handlers.photoHandler.deletePhotoFromBody())
	})
}
