package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"Yatube/internal/api/middleware"
	"Yatube/internal/core/follows"
	"Yatube/internal/core/groups"
	"Yatube/internal/core/listing"
	"Yatube/internal/core/pagecache"
	"Yatube/internal/core/posts"
	"Yatube/internal/core/users"
	"Yatube/internal/web"
)

// Deps are the services and settings the router is built from
type Deps struct {
	Users     users.UserService
	Groups    groups.Service
	Posts     posts.Service
	Follows   follows.Service
	Listing   listing.Service
	Sessions  *middleware.SessionAuth
	Cache     pagecache.Cache
	Pages     *web.Handlers
	Logger    *slog.Logger
	UploadDir string
	OpsToken  string
	IndexTTL  time.Duration
	MaxUpload int64
}

// NewRouter builds the route table. mws run before session loading.
//
//	GET      /                              index listing (cached)
//	GET      /group/{slug}/                 group listing
//	GET      /profile/{username}/           author listing + follow status
//	GET      /posts/{id}/                   post, comments, comment form
//	GET/POST /create/                       new post (login)
//	GET/POST /posts/{id}/edit/              edit post (login, author)
//	POST     /posts/{id}/comment/           add comment (login)
//	GET      /follow/                       follow feed (login)
//	GET      /profile/{username}/follow/    follow (login)
//	GET      /profile/{username}/unfollow/  unfollow (login)
//	*        /auth/...                      signup, login, logout
//	GET      /about/author/, /about/tech/   static pages
//	GET      /media/*                       uploaded images
//	GET      /health                        health check
//	*        /internal/cache/...            cache flush + stats (ops token)
func NewRouter(deps Deps, mws ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(mws...)
	r.Use(deps.Sessions.LoadUser)

	RegisterListingRoutes(r, deps.Listing, deps.Pages, deps.Cache, deps.IndexTTL)
	RegisterPostRoutes(r, deps.Posts, deps.Groups, deps.Pages, deps.MaxUpload)
	RegisterFollowRoutes(r, deps.Follows, deps.Pages)
	RegisterAccountRoutes(r, deps.Users, deps.Sessions, deps.Pages, deps.Logger)
	RegisterOpsRoutes(r, deps.Cache, deps.OpsToken, deps.Logger)
	RegisterWebRoutes(r, deps.Pages, deps.UploadDir)

	return r
}
