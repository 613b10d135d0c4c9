package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/maribelle/cosgo/internal/pageservice"
)

// NewRouter creates a chi router with all API routes mounted.
// project is the default Cosense project every route reads from.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(svc *pageservice.Service, project string, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc, project)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Page listing and retrieval.
	r.Get("/pages", h.ListPages)
	r.Post("/pages", h.CreatePage)
	r.Get("/pages/*", h.GetPage)

	// Full-text search.
	r.Get("/search", h.Search)

	return r
}
