package post

import (
	"errors"
	"net/http"

	"Yatube/internal/api/handlers"
	"Yatube/internal/core/posts"
	"Yatube/internal/web"
)

// fieldErrors collects form errors per field, as the templates expect
type fieldErrors map[string][]string

func (e fieldErrors) add(field, message string) {
	e[field] = append(e[field], message)
}

// handleServiceError maps service errors to HTTP responses. Validation
// errors are added to errs and reported as handled=false so the caller can
// re-render its form.
func handleServiceError(pages *web.Handlers, w http.ResponseWriter, r *http.Request, postID int64, err error, errs fieldErrors) (handled bool) {
	var valErr *posts.ValidationError
	switch {
	case errors.As(err, &valErr):
		errs.add(valErr.Field, valErr.Message)
		return false
	case posts.IsPermissionDenied(err):
		// Non-authors are sent to the read-only view
		http.Redirect(w, r, handlers.PostURL(postID), http.StatusFound)
	default:
		handlers.RenderError(pages, w, r, err)
	}
	return true
}
