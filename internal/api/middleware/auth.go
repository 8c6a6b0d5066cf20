package middleware

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"Yatube/internal/core/users"

	"github.com/gorilla/sessions"
)

// Context keys for storing user information
type contextKey string

const (
	UserKey contextKey = "user"
)

const (
	// SessionName is the session cookie name
	SessionName = "yatube_session"
	// LoginPath is where RequireLogin sends anonymous visitors
	LoginPath = "/auth/login/"

	sessionUserIDKey = "user_id"
	sessionMaxAge    = 14 * 24 * 60 * 60
)

// UserLoader resolves the user id stored in the session
type UserLoader interface {
	GetUserByID(ctx context.Context, id int64) (*users.User, error)
}

// SessionAuth authenticates requests with a signed session cookie
type SessionAuth struct {
	store *sessions.CookieStore
	users UserLoader
}

// NewSessionAuth creates session middleware. secret signs the cookie;
// secure restricts it to HTTPS.
func NewSessionAuth(secret []byte, secure bool, userLoader UserLoader) *SessionAuth {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionAuth{store: store, users: userLoader}
}

// LoadUser injects the session user into the request context, if any.
// Invalid cookies and deleted users are treated as anonymous.
func (a *SessionAuth) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := a.store.Get(r, SessionName)
		if err != nil {
			// Tampered or rotated-secret cookie; continue anonymously
			next.ServeHTTP(w, r)
			return
		}

		userID, ok := session.Values[sessionUserIDKey].(int64)
		if !ok || userID <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		user, err := a.users.GetUserByID(r.Context(), userID)
		if err != nil {
			if !users.IsNotFound(err) {
				log.Printf("Failed to load session user %d: %v", userID, err)
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireLogin redirects anonymous requests to the login page, carrying the
// requested path in the next parameter
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUser(r) == nil {
			http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoginURL builds the login redirect for a requested path
func LoginURL(next string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
	return LoginPath + "?next=" + escaped
}

// StartSession records user as logged in
func (a *SessionAuth) StartSession(w http.ResponseWriter, r *http.Request, user *users.User) error {
	session, _ := a.store.Get(r, SessionName)
	session.Values[sessionUserIDKey] = user.ID
	return session.Save(r, w)
}

// EndSession clears the session cookie
func (a *SessionAuth) EndSession(w http.ResponseWriter, r *http.Request) error {
	session, _ := a.store.Get(r, SessionName)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// GetUser extracts the authenticated user from the request context
// Returns nil if not authenticated
func GetUser(r *http.Request) *users.User {
	user, _ := r.Context().Value(UserKey).(*users.User)
	return user
}

// GetUserID returns the authenticated user's id, or 0 for anonymous requests
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// WithUser returns ctx carrying user as the authenticated viewer.
// A nil user makes the request anonymous.
func WithUser(ctx context.Context, user *users.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}
