package routes

import (
	"github.com/go-chi/chi/v5"

	"Yatube/internal/api/handlers/follow"
	"Yatube/internal/api/middleware"
	"Yatube/internal/core/follows"
	"Yatube/internal/web"
)

// RegisterFollowRoutes registers the follow and unfollow actions
func RegisterFollowRoutes(r chi.Router, service follows.Service, pages *web.Handlers) {
	h := follow.NewHandler(service, pages)

	r.With(middleware.RequireLogin).Get("/profile/{username}/follow/", h.HandleFollow)
	r.With(middleware.RequireLogin).Get("/profile/{username}/unfollow/", h.HandleUnfollow)
}
