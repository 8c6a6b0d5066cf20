package follow

import (
	"net/http"

	"Yatube/internal/api/handlers"
	"Yatube/internal/api/middleware"
	"Yatube/internal/core/follows"
	"Yatube/internal/web"

	"github.com/go-chi/chi/v5"
)

// Handler serves the follow and unfollow actions
type Handler struct {
	service follows.Service
	pages   *web.Handlers
}

// NewHandler creates a new follow handler
func NewHandler(service follows.Service, pages *web.Handlers) *Handler {
	return &Handler{service: service, pages: pages}
}

// HandleFollow handles GET /profile/{username}/follow/ (login required)
func (h *Handler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if err := h.service.Follow(r.Context(), middleware.GetUserID(r), username); err != nil {
		handlers.RenderError(h.pages, w, r, err)
		return
	}
	http.Redirect(w, r, handlers.ProfileURL(username), http.StatusFound)
}

// HandleUnfollow handles GET /profile/{username}/unfollow/ (login required)
func (h *Handler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if err := h.service.Unfollow(r.Context(), middleware.GetUserID(r), username); err != nil {
		handlers.RenderError(h.pages, w, r, err)
		return
	}
	http.Redirect(w, r, handlers.ProfileURL(username), http.StatusFound)
}
