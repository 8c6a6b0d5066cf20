package listing

import (
	"html/template"
	"net/http"
	"time"

	"Yatube/internal/api/handlers"
	"Yatube/internal/api/middleware"
	"Yatube/internal/core/groups"
	"Yatube/internal/core/listing"
	"Yatube/internal/core/pagecache"
	"Yatube/internal/core/pagination"
	"Yatube/internal/core/users"
	"Yatube/internal/web"

	"github.com/go-chi/chi/v5"
)

// IndexData holds data for the index page. Listing is the cached
// post_list fragment.
type IndexData struct {
	Listing template.HTML
}

// GroupData holds data for a group page
type GroupData struct {
	Group   *groups.Group
	Listing web.Listing
}

// ProfileData holds data for a profile page
type ProfileData struct {
	Author    *users.User
	Listing   web.Listing
	PostCount int
	Following bool
	CanFollow bool
}

// FeedData holds data for the follow feed
type FeedData struct {
	Listing web.Listing
}

// Handler serves the four post listings
type Handler struct {
	service  listing.Service
	pages    *web.Handlers
	cache    pagecache.Cache
	cacheTTL time.Duration
}

// NewHandler creates a listing handler. The index listing is cached in
// cache for cacheTTL.
func NewHandler(service listing.Service, pages *web.Handlers, cache pagecache.Cache, cacheTTL time.Duration) *Handler {
	return &Handler{
		service:  service,
		pages:    pages,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// HandleIndex handles GET /
// The listing fragment is cached per request URI and shared by all viewers;
// only the surrounding layout is rendered per request.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	fragment, cached, err := pagecache.Fetch(h.cache, r.URL.RequestURI(), h.cacheTTL, func() ([]byte, error) {
		page, err := h.service.ListAll(r.Context(), pagination.ParseNumber(query.Get(pagination.QueryParam)))
		if err != nil {
			return nil, err
		}
		return h.pages.Templates().RenderFragment("post_list", web.Listing{Page: page, Query: query})
	})
	if err != nil {
		handlers.RenderError(h.pages, w, r, err)
		return
	}

	if cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	h.pages.RenderPage(w, r, http.StatusOK, "index.html", IndexData{Listing: template.HTML(fragment)})
}

// HandleGroup handles GET /group/{slug}/
func (h *Handler) HandleGroup(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result, err := h.service.ListByGroup(r.Context(), chi.URLParam(r, "slug"), pagination.ParseNumber(query.Get(pagination.QueryParam)))
	if err != nil {
		handlers.RenderError(h.pages, w, r, err)
		return
	}

	h.pages.RenderPage(w, r, http.StatusOK, "group.html", GroupData{
		Group:   result.Group,
		Listing: web.Listing{Page: result.Page, Query: query},
	})
}

// HandleProfile handles GET /profile/{username}/
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	viewerID := middleware.GetUserID(r)

	result, err := h.service.ListByAuthor(r.Context(), chi.URLParam(r, "username"), viewerID, pagination.ParseNumber(query.Get(pagination.QueryParam)))
	if err != nil {
		handlers.RenderError(h.pages, w, r, err)
		return
	}

	h.pages.RenderPage(w, r, http.StatusOK, "profile.html", ProfileData{
		Author:    result.Author,
		Listing:   web.Listing{Page: result.Page, Query: query},
		PostCount: result.PostCount,
		Following: result.Following,
		CanFollow: viewerID > 0 && viewerID != result.Author.ID,
	})
}

// HandleFeed handles GET /follow/ (login required)
func (h *Handler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := h.service.ListFollowedFeed(r.Context(), middleware.GetUserID(r), pagination.ParseNumber(query.Get(pagination.QueryParam)))
	if err != nil {
		handlers.RenderError(h.pages, w, r, err)
		return
	}

	h.pages.RenderPage(w, r, http.StatusOK, "follow.html", FeedData{
		Listing: web.Listing{Page: page, Query: query},
	})
}
