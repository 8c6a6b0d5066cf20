package routes

import (
	"github.com/go-chi/chi/v5"

	"Yatube/internal/api/handlers/post"
	"Yatube/internal/api/middleware"
	"Yatube/internal/core/posts"
	"Yatube/internal/web"
)

// RegisterPostRoutes registers the post page and the post/comment forms
func RegisterPostRoutes(r chi.Router, service posts.Service, groupLister post.GroupLister, pages *web.Handlers, maxUpload int64) {
	h := post.NewHandler(service, groupLister, pages, maxUpload)

	r.Get("/posts/{id:[0-9]+}/", h.HandleDetail)

	// Everything below requires a logged in user
	r.With(middleware.RequireLogin).Get("/create/", h.HandleCreate)
	r.With(middleware.RequireLogin).Post("/create/", h.HandleCreate)
	r.With(middleware.RequireLogin).Get("/posts/{id:[0-9]+}/edit/", h.HandleEdit)
	r.With(middleware.RequireLogin).Post("/posts/{id:[0-9]+}/edit/", h.HandleEdit)
	r.With(middleware.RequireLogin).Post("/posts/{id:[0-9]+}/comment/", h.HandleComment)
}
