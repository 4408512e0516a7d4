// Package auth provides login sessions for the draft service, backed by an
// OIDC provider in production and a mock provider in development.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/logger"
)

const (
	sessionCookie = "session_id"
	stateCookie   = "oauth_state"
	adminGroup    = "admins"
)

// User represents an authenticated user
type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Groups   []string `json:"groups"`
}

// Login is a signed-in browser session
type Login struct {
	ID        string
	User      *User
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Provider is a common interface for authentication providers
type Provider interface {
	LoginHandler(w http.ResponseWriter, r *http.Request)
	CallbackHandler(w http.ResponseWriter, r *http.Request)
	LogoutHandler(w http.ResponseWriter, r *http.Request)
	Middleware(next http.HandlerFunc) http.HandlerFunc
}

type ctxKey struct{}

// WithUser returns a copy of ctx carrying user
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// GetUser retrieves the authenticated user from the request context
func GetUser(r *http.Request) *User {
	user, ok := r.Context().Value(ctxKey{}).(*User)
	if !ok {
		return nil
	}
	return user
}

// IsAdmin checks if the user has admin privileges
func IsAdmin(user *User) bool {
	if user == nil {
		return false
	}
	for _, group := range user.Groups {
		if group == adminGroup {
			return true
		}
	}
	return false
}

// RequireAdmin wraps next so only admins reach it. It must run inside a
// provider's Middleware.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		if !IsAdmin(user) {
			username := ""
			if user != nil {
				username = user.Username
			}
			logger.Warn("Admin route refused", "path", r.URL.Path, "user", username)
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next(w, r)
	}
}

// loginStore keeps logins in memory, keyed by cookie value
type loginStore struct {
	mu     sync.RWMutex
	logins map[string]*Login
}

func newLoginStore() *loginStore {
	return &loginStore{logins: make(map[string]*Login)}
}

func (s *loginStore) create(user *User, expires time.Time) *Login {
	l := &Login{ID: randomToken(), User: user, CreatedAt: time.Now(), ExpiresAt: expires}
	s.mu.Lock()
	s.logins[l.ID] = l
	s.mu.Unlock()
	return l
}

func (s *loginStore) get(id string) (*Login, bool) {
	s.mu.RLock()
	l, ok := s.logins[id]
	s.mu.RUnlock()
	if !ok || time.Now().After(l.ExpiresAt) {
		return nil, false
	}
	return l, true
}

func (s *loginStore) delete(id string) {
	s.mu.Lock()
	delete(s.logins, id)
	s.mu.Unlock()
}

// middleware rejects requests without a live login cookie
func (s *loginStore) middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		l, ok := s.get(cookie.Value)
		if !ok {
			writeError(w, http.StatusUnauthorized, "session expired")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), l.User)))
	}
}

// logout drops the login named by the request cookie and clears it
func (s *loginStore) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.delete(cookie.Value)
	}
	clearCookie(w, sessionCookie)
}

func setSessionCookie(w http.ResponseWriter, l *Login, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    l.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  l.ExpiresAt,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// randomToken generates a random URL-safe token for states and session ids
func randomToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
