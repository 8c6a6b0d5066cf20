package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Yatube/internal/web"
)

// RegisterWebRoutes registers the static pages, uploaded media, the health
// check and the custom 404 page.
func RegisterWebRoutes(r chi.Router, pages *web.Handlers, uploadDir string) {
	r.Get("/about/author/", pages.AboutAuthorHandler)
	r.Get("/about/tech/", pages.AboutTechHandler)

	// Uploaded post images
	r.Get("/media/*", web.MediaFileServer(uploadDir).ServeHTTP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.NotFound(pages.NotFound)
}
