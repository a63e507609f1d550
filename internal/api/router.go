package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/fdsreac/internal/reacservice"
	"github.com/starford/fdsreac/internal/sse"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// broker, if non-nil, is mounted at GET /events and receives reaction.saved events.
func NewRouter(svc *reacservice.Service, authEnabled bool, token string, broker *sse.Broker) chi.Router {
	h := NewHandler(svc, broker)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Post("/reactions", h.Compute)

	r.Get("/cases", h.ListCases)
	r.Get("/cases/*", h.ImportCase)
	r.Put("/cases/*", h.SaveCase)

	r.Get("/search", h.Search)

	if broker != nil {
		r.Get("/events", broker.ServeHTTP)
	}
	return r
}
