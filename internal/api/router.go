package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/sowilo/internal/service"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *service.Service, authEnabled bool, token string, sseHandler http.Handler, limit RateLimit) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(limit))
		r.Post("/ask", h.Ask)
		r.Get("/faqs", h.ListFAQs)
		r.Get("/faqs/search", h.SearchFAQs)
		r.Get("/styles", h.Styles)
		r.Post("/generate", h.Generate)

		r.Post("/sessions", h.CreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.ResetSession)
			r.Post("/messages", h.SendMessage)
			r.Post("/sequence", h.GenerateSequence)
			r.Get("/sequence", h.GetSequence)
			r.Get("/sequence/export", h.ExportJSON)
			r.Get("/sequence/midi", h.ExportMIDI)
			r.Get("/sequence/wav", h.ExportWAV)
			r.Post("/playback", h.StartPlayback)
		})
	})

	// SSE streams are long-lived and stay outside the limiter.
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
