package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/api/config", h.handleConfig)
	r.Get("/api/health", h.handleHealth)

	// Image endpoints need no voter identity
	r.Get("/api/polls/{id}/chart.png", h.handleChart)
	r.Get("/api/polls/{id}/codes/{code}/qr.png", h.handleQRCode)

	r.Group(func(r chi.Router) {
		r.Use(h.Sessions.Middleware)

		r.Post("/api/polls", h.handleCreatePoll)
		r.Get("/api/polls/{id}", h.handleViewPoll)
		r.Post("/api/polls/{id}/vote", h.handleVote)
		r.Get("/api/polls/{id}/results", h.handleResults)

		// Admin (password in query string)
		r.Get("/api/polls/{id}/admin", h.handleAdminView)
		r.Post("/api/polls/{id}/admin", h.handleAdminEdit)
	})

	return r
}
