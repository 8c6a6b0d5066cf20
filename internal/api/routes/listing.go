package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"Yatube/internal/api/handlers/listing"
	"Yatube/internal/api/middleware"
	listingCore "Yatube/internal/core/listing"
	"Yatube/internal/core/pagecache"
	"Yatube/internal/web"
)

// RegisterListingRoutes registers the index, group, profile and follow-feed listings.
// Only the index listing goes through the response cache.
func RegisterListingRoutes(r chi.Router, service listingCore.Service, pages *web.Handlers, cache pagecache.Cache, indexTTL time.Duration) {
	h := listing.NewHandler(service, pages, cache, indexTTL)

	r.Get("/", h.HandleIndex)
	r.Get("/group/{slug}/", h.HandleGroup)
	r.Get("/profile/{username}/", h.HandleProfile)
	r.With(middleware.RequireLogin).Get("/follow/", h.HandleFeed)
}
