package routes

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"Yatube/internal/api/handlers/account"
	"Yatube/internal/core/users"
	"Yatube/internal/web"
)

// RegisterAccountRoutes registers signup, login and logout under /auth/
func RegisterAccountRoutes(r chi.Router, userService users.UserService, sessions account.SessionManager, pages *web.Handlers, logger *slog.Logger) {
	h := account.NewHandler(userService, sessions, pages, logger)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/signup/", h.HandleSignup)
		r.Post("/signup/", h.HandleSignup)
		r.Get("/login/", h.HandleLogin)
		r.Post("/login/", h.HandleLogin)
		r.Get("/logout/", h.HandleLogout)
		r.Post("/logout/", h.HandleLogout)
	})
}
