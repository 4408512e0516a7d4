package auth

import (
	"net/http"
	"time"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/logger"
)

// DevUser is the user MockAuth signs everyone in as
var DevUser = User{
	ID:       "dev-user-123",
	Email:    "dev@turkeybowl.local",
	Name:     "Dev User",
	Username: "devuser",
	Groups:   []string{"users", adminGroup},
}

// MockAuth provides a mock authentication for local development
type MockAuth struct {
	logins *loginStore
}

// NewMockAuth creates a new mock authentication handler
func NewMockAuth() *MockAuth {
	logger.Info("Using MOCK auth, every login is an admin")
	return &MockAuth{logins: newLoginStore()}
}

// LoginHandler signs in as DevUser without a provider round trip
func (m *MockAuth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	user := DevUser
	l := m.logins.create(&user, time.Now().Add(24*time.Hour))
	setSessionCookie(w, l, false)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// CallbackHandler is not needed for mock auth
func (m *MockAuth) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LogoutHandler for mock auth
func (m *MockAuth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	m.logins.logout(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Middleware for mock auth
func (m *MockAuth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return m.logins.middleware(next)
}
