package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"Yatube/internal/api/middleware"
	"Yatube/internal/core/pagination"
	"Yatube/internal/core/posts"
	"Yatube/internal/core/users"
)

// Page is the data every page template receives. User is the viewer
// (nil when anonymous); Data is the page-specific view model.
type Page struct {
	User *users.User
	Data interface{}
}

// Listing is the data of the "post_list" fragment
type Listing struct {
	Page  *pagination.Page[*posts.PostView]
	Query url.Values
}

// NotFoundData holds data for the 404 page
type NotFoundData struct {
	Path string
}

// Handlers provides page rendering shared by the per-domain handlers,
// plus the static about pages and error pages.
type Handlers struct {
	templates *Templates
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance with the provided dependencies.
func NewHandlers(templates *Templates, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{templates: templates, logger: logger}
}

// Templates returns the parsed template set
func (h *Handlers) Templates() *Templates {
	return h.templates
}

// RenderPage renders a page for the current viewer
func (h *Handlers) RenderPage(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	page := Page{User: middleware.GetUser(r), Data: data}
	if err := h.templates.Render(w, status, name, page); err != nil {
		h.logger.Error("failed to render page", "template", name, "path", r.URL.Path, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// NotFound renders the custom 404 page
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.RenderPage(w, r, http.StatusNotFound, "404.html", NotFoundData{Path: r.URL.Path})
}

// ServerError logs err and renders the generic 500 page without detail
func (h *Handlers) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	h.RenderPage(w, r, http.StatusInternalServerError, "500.html", nil)
}

// AboutAuthorHandler handles GET /about/author/
func (h *Handlers) AboutAuthorHandler(w http.ResponseWriter, r *http.Request) {
	h.RenderPage(w, r, http.StatusOK, "about_author.html", nil)
}

// AboutTechHandler handles GET /about/tech/
func (h *Handlers) AboutTechHandler(w http.ResponseWriter, r *http.Request) {
	h.RenderPage(w, r, http.StatusOK, "about_tech.html", nil)
}

// MediaFileServer serves uploaded images under /media/. Directory
// listings are not served.
func MediaFileServer(root string) http.Handler {
	files := http.StripPrefix("/media/", http.FileServer(http.Dir(root)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
