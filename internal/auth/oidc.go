package auth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/logger"
)

// OIDCConfig holds the configuration for an Authentik-style OAuth2/OIDC provider
type OIDCConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	Application  string // application slug used in the end-session URL
}

// OIDCAuth manages authentication with an OIDC provider
type OIDCAuth struct {
	config       OIDCConfig
	oauth2Config *oauth2.Config
	logins       *loginStore
	httpClient   *http.Client
}

// NewOIDCAuth creates a new OIDC authentication handler
func NewOIDCAuth(config OIDCConfig) *OIDCAuth {
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if len(config.Scopes) == 0 {
		config.Scopes = []string{"openid", "profile", "email"}
	}
	if config.Application == "" {
		config.Application = "turkey-bowl-draft"
	}

	return &OIDCAuth{
		config: config,
		oauth2Config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       config.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  config.BaseURL + "/application/o/authorize/",
				TokenURL: config.BaseURL + "/application/o/token/",
			},
		},
		logins:     newLoginStore(),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// LoginHandler initiates the OAuth2 login flow
func (a *OIDCAuth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	state := randomToken()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300,
	})

	http.Redirect(w, r, a.oauth2Config.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// CallbackHandler handles the OAuth2 callback from the provider
func (a *OIDCAuth) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil {
		http.Error(w, "Missing state cookie", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != cookie.Value {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	token, err := a.oauth2Config.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		logger.Error("OIDC token exchange failed", "error", err)
		http.Error(w, "Failed to exchange token", http.StatusBadGateway)
		return
	}

	user, err := a.getUserInfo(r, token)
	if err != nil {
		logger.Error("OIDC userinfo failed", "error", err)
		http.Error(w, "Failed to get user info", http.StatusBadGateway)
		return
	}

	expires := token.Expiry
	if expires.IsZero() {
		expires = time.Now().Add(8 * time.Hour)
	}
	l := a.logins.create(user, expires)
	setSessionCookie(w, l, true)
	clearCookie(w, stateCookie)

	logger.Info("User logged in", "user", user.Username, "admin", IsAdmin(user))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LogoutHandler handles user logout and ends the provider session
func (a *OIDCAuth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	a.logins.logout(w, r)
	logoutURL := fmt.Sprintf("%s/application/o/%s/end-session/", a.config.BaseURL, a.config.Application)
	http.Redirect(w, r, logoutURL, http.StatusSeeOther)
}

// Middleware protects routes requiring authentication
func (a *OIDCAuth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return a.logins.middleware(next)
}

// getUserInfo fetches user information from the provider
func (a *OIDCAuth) getUserInfo(r *http.Request, token *oauth2.Token) (*User, error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, a.config.BaseURL+"/application/o/userinfo/", nil)
	if err != nil {
		return nil, err
	}
	token.SetAuthHeader(req)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get user info: %s - %s", resp.Status, string(body))
	}

	var userInfo struct {
		Sub               string   `json:"sub"`
		Email             string   `json:"email"`
		Name              string   `json:"name"`
		PreferredUsername string   `json:"preferred_username"`
		Groups            []string `json:"groups"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, err
	}

	return &User{
		ID:       userInfo.Sub,
		Email:    userInfo.Email,
		Name:     userInfo.Name,
		Username: userInfo.PreferredUsername,
		Groups:   userInfo.Groups,
	}, nil
}
