package handlers

import (
	"net/http"
	"strconv"

	"Yatube/internal/core/follows"
	"Yatube/internal/core/groups"
	"Yatube/internal/core/posts"
	"Yatube/internal/core/users"
	"Yatube/internal/web"

	"github.com/go-chi/chi/v5"
)

// IsNotFound reports whether err means an unknown slug, username, post or group
func IsNotFound(err error) bool {
	return posts.IsNotFound(err) ||
		groups.IsNotFound(err) ||
		users.IsNotFound(err) ||
		follows.IsNotFound(err)
}

// RenderError maps a service error to the 404 page or the generic 500 page
func RenderError(pages *web.Handlers, w http.ResponseWriter, r *http.Request, err error) {
	if IsNotFound(err) {
		pages.NotFound(w, r)
		return
	}
	pages.ServerError(w, r, err)
}

// PostID parses the {id} URL parameter
func PostID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ProfileURL returns the profile page of username
func ProfileURL(username string) string {
	return "/profile/" + username + "/"
}

// PostURL returns the detail page of a post
func PostURL(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10) + "/"
}
