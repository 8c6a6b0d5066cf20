package account

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"Yatube/internal/api/middleware"
	"Yatube/internal/core/users"
	"Yatube/internal/web"
)

// SessionManager starts and ends login sessions
type SessionManager interface {
	StartSession(w http.ResponseWriter, r *http.Request, user *users.User) error
	EndSession(w http.ResponseWriter, r *http.Request) error
}

// LoginData holds data for the login page
type LoginData struct {
	Username string
	Next     string
	Errors   []string
}

// SignupData holds data for the signup page
type SignupData struct {
	Errors   map[string][]string
	Username string
}

// Handler serves signup, login and logout
type Handler struct {
	users    users.UserService
	sessions SessionManager
	pages    *web.Handlers
	logger   *slog.Logger
}

// NewHandler creates a new account handler
func NewHandler(userService users.UserService, sessions SessionManager, pages *web.Handlers, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{users: userService, sessions: sessions, pages: pages, logger: logger}
}

// HandleSignup handles GET and POST /auth/signup/
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	data := SignupData{Errors: map[string][]string{}}
	if r.Method != http.MethodPost {
		h.pages.RenderPage(w, r, http.StatusOK, "signup.html", data)
		return
	}

	if err := r.ParseForm(); err != nil {
		data.Errors["form"] = []string{"could not read the submitted form"}
		h.pages.RenderPage(w, r, http.StatusOK, "signup.html", data)
		return
	}
	data.Username = r.PostFormValue("username")

	user, err := h.users.Register(r.Context(), users.RegisterRequest{
		Username:        data.Username,
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
	})
	if err != nil {
		var valErr *users.ValidationError
		if errors.As(err, &valErr) {
			data.Errors[valErr.Field] = append(data.Errors[valErr.Field], valErr.Message)
			h.pages.RenderPage(w, r, http.StatusOK, "signup.html", data)
			return
		}
		h.pages.ServerError(w, r, err)
		return
	}

	if err := h.sessions.StartSession(w, r, user); err != nil {
		h.pages.ServerError(w, r, err)
		return
	}
	h.logger.Info("user signed up", "user_id", user.ID, "username", user.Username)
	http.Redirect(w, r, "/", http.StatusFound)
}

// HandleLogin handles GET and POST /auth/login/
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	data := LoginData{Next: safeNext(r.URL.Query().Get("next"))}
	if r.Method != http.MethodPost {
		h.pages.RenderPage(w, r, http.StatusOK, "login.html", data)
		return
	}

	if err := r.ParseForm(); err != nil {
		data.Errors = []string{"could not read the submitted form"}
		h.pages.RenderPage(w, r, http.StatusOK, "login.html", data)
		return
	}
	data.Username = r.PostFormValue("username")
	if next := r.PostFormValue("next"); next != "" {
		data.Next = safeNext(next)
	}

	user, err := h.users.Authenticate(r.Context(), data.Username, r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			data.Errors = []string{"Please enter a correct username and password."}
			h.pages.RenderPage(w, r, http.StatusOK, "login.html", data)
			return
		}
		h.pages.ServerError(w, r, err)
		return
	}

	if err := h.sessions.StartSession(w, r, user); err != nil {
		h.pages.ServerError(w, r, err)
		return
	}

	target := data.Next
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// HandleLogout handles /auth/logout/
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.EndSession(w, r); err != nil {
		h.logger.Warn("failed to clear session", "error", err)
	}
	r = r.WithContext(middleware.WithUser(r.Context(), nil))
	h.pages.RenderPage(w, r, http.StatusOK, "logged_out.html", nil)
}

// safeNext returns next if it is a local path, otherwise ""
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
