// Package handlers serves the JSON HTTP API of the draft service.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/dal"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/draft"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/logger"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/pubsub"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/roster"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/scouting"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/session"
)

// APIHandlers contains all API handler methods
type APIHandlers struct {
	store    dal.LeagueDAL
	sessions *session.Manager
	roster   *roster.Service
	pubsub   *pubsub.PubSub
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(store dal.LeagueDAL, sessions *session.Manager, rs *roster.Service, ps *pubsub.PubSub) *APIHandlers {
	return &APIHandlers{
		store:    store,
		sessions: sessions,
		roster:   rs,
		pubsub:   ps,
	}
}

// ListPlayers returns the player table, narrowed by the scouting filters
// and an optional fuzzy name query q.
func (h *APIHandlers) ListPlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	filter := scouting.Filter{
		Position:  q.Get("position"),
		MinHeight: q.Get("minHeight"),
		MaxHeight: q.Get("maxHeight"),
	}
	var err error
	if filter.MinWeight, err = intParam(q.Get("minWeight")); err != nil {
		writeError(w, &roster.ValidationError{Field: "minWeight", Reason: err.Error()})
		return
	}
	if filter.MaxWeight, err = intParam(q.Get("maxWeight")); err != nil {
		writeError(w, &roster.ValidationError{Field: "maxWeight", Reason: err.Error()})
		return
	}

	players, err := h.store.ListPlayers()
	if err != nil {
		writeError(w, err)
		return
	}

	players, err = filter.Apply(players)
	if err != nil {
		writeError(w, &roster.ValidationError{Field: "height", Reason: err.Error()})
		return
	}
	players = scouting.Search(players, q.Get("q"))

	writeJSON(w, http.StatusOK, playerViews(players))
}

// AddPlayer adds a new player from the feet-inches form
func (h *APIHandlers) AddPlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req roster.NewPlayer
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode add player request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	player, err := h.roster.Add(req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newPlayerView(*player))
}

// PlayerStats returns the sortable stats table
func (h *APIHandlers) PlayerStats(w http.ResponseWriter, r *http.Request) {
	cfg, err := scouting.ParseSort(r.URL.Query().Get("sort"), r.URL.Query().Get("dir"))
	if err != nil {
		writeError(w, &roster.ValidationError{Field: "sort", Reason: err.Error()})
		return
	}

	players, err := h.store.ListPlayers()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sort": cfg,
		"rows": scouting.StatsTable(players, cfg),
	})
}

// ListTeams returns team rosters ordered by odds
func (h *APIHandlers) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, players, err := h.teamsAndPlayers()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scouting.Rosters(teams, players))
}

// Odds returns the odds board. The teams and players query flags hide a section when false.
func (h *APIHandlers) Odds(w http.ResponseWriter, r *http.Request) {
	showTeams, err := boolParam(r.URL.Query().Get("teams"), true)
	if err != nil {
		writeError(w, &roster.ValidationError{Field: "teams", Reason: err.Error()})
		return
	}
	showPlayers, err := boolParam(r.URL.Query().Get("players"), true)
	if err != nil {
		writeError(w, &roster.ValidationError{Field: "players", Reason: err.Error()})
		return
	}

	teams, players, err := h.teamsAndPlayers()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scouting.OddsBoard(teams, players, showTeams, showPlayers))
}

// Leaderboard returns the legacy standings
func (h *APIHandlers) Leaderboard(w http.ResponseWriter, r *http.Request) {
	standings, err := h.store.ListStandings()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

func (h *APIHandlers) teamsAndPlayers() ([]models.Team, []models.Player, error) {
	teams, err := h.store.ListTeams()
	if err != nil {
		return nil, nil, err
	}
	players, err := h.store.ListPlayers()
	if err != nil {
		return nil, nil, err
	}
	return teams, players, nil
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func boolParam(v string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP status codes
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var verr *roster.ValidationError
	switch {
	case draft.IsNotFound(err), errors.Is(err, session.ErrSessionNotFound), errors.Is(err, dal.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, draft.ErrNoSelection):
		status = http.StatusConflict
	case errors.As(err, &verr), errors.Is(err, draft.ErrNoTeams), errors.Is(err, session.ErrTooManyTeams):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
	} else {
		logger.Warn("Request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
