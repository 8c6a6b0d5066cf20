package routes

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"Yatube/internal/api/handlers/ops"
	"Yatube/internal/core/pagecache"
)

// RegisterOpsRoutes registers the response cache endpoints.
// Nothing is registered when token is empty.
func RegisterOpsRoutes(r chi.Router, cache pagecache.Cache, token string, logger *slog.Logger) {
	if token == "" {
		return
	}
	h := ops.NewCacheHandler(cache, token, logger)

	r.Route("/internal/cache", func(r chi.Router) {
		r.Use(h.RequireToken)
		r.Post("/flush", h.HandleFlush)
		r.Get("/stats", h.HandleStats)
	})
}
