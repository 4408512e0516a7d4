package handlers

import (
	"net/http"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/auth"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/metrics"
)

// Routes builds the HTTP mux. rec may be nil.
func Routes(api *APIHandlers, health *Health, authProvider auth.Provider, rec *metrics.Recorder) *http.ServeMux {
	mux := http.NewServeMux()
	handle := func(route string, h http.HandlerFunc) {
		mux.HandleFunc(route, rec.Middleware(route, h))
	}

	// Auth routes (public)
	mux.HandleFunc("/auth/login", authProvider.LoginHandler)
	mux.HandleFunc("/auth/callback", authProvider.CallbackHandler)
	mux.HandleFunc("/auth/logout", authProvider.LogoutHandler)

	// Players API
	handle("/api/players", api.ListPlayers)
	handle("/api/players/add", authProvider.Middleware(auth.RequireAdmin(api.AddPlayer)))
	handle("/api/players/stats", api.PlayerStats)

	// League API
	handle("/api/teams", api.ListTeams)
	handle("/api/odds", api.Odds)
	handle("/api/leaderboard", api.Leaderboard)

	// Draft API
	handle("/api/draft/sessions", api.Sessions)
	handle("/api/draft/state", api.DraftState)
	handle("/api/draft/select", api.SelectPlayer)
	handle("/api/draft/pick", api.DraftPick)
	handle("/api/draft/advance", api.AdvanceTurn)

	// SSE for realtime updates
	handle("/api/events", api.EventsSSE)

	// Health check endpoints
	mux.HandleFunc("/api/health", health.Status)
	mux.HandleFunc("/healthz", health.Liveness)
	mux.HandleFunc("/readyz", health.Readiness)

	return mux
}
