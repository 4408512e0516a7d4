package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/logger"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/roster"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/session"
)

type draftRequest struct {
	Session  string `json:"session"`
	PlayerID *int   `json:"playerId,omitempty"`
}

// Sessions lists draft sessions on GET and creates one on POST
func (h *APIHandlers) Sessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.sessions.List())
	case http.MethodPost:
		var req struct {
			Teams []string `json:"teams"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			logger.Warn("Failed to decode create session request", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for _, t := range req.Teams {
			if t == "" {
				writeError(w, &roster.ValidationError{Field: "teams", Reason: "team names must not be empty"})
				return
			}
		}

		snap, err := h.sessions.Create(req.Teams)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, newDraftView(snap))
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// DraftState returns the state of the session named by the session query parameter
func (h *APIHandlers) DraftState(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	if id == "" {
		writeError(w, &roster.ValidationError{Field: "session", Reason: "required"})
		return
	}

	snap, err := h.sessions.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDraftView(snap))
}

// SelectPlayer highlights a player for the team on the clock
func (h *APIHandlers) SelectPlayer(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeDraftRequest(w, r)
	if !ok {
		return
	}
	if req.PlayerID == nil {
		writeError(w, &roster.ValidationError{Field: "playerId", Reason: "required"})
		return
	}

	snap, err := h.sessions.Select(req.Session, *req.PlayerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDraftView(snap))
}

// DraftPick drafts the selected player, or playerId when given
func (h *APIHandlers) DraftPick(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeDraftRequest(w, r)
	if !ok {
		return
	}

	var (
		snap session.Snapshot
		pick models.DraftedPlayer
		err  error
	)
	if req.PlayerID != nil {
		snap, pick, err = h.sessions.Draft(req.Session, *req.PlayerID)
	} else {
		snap, pick, err = h.sessions.DraftSelected(req.Session)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pick":  pick,
		"state": newDraftView(snap),
	})
}

// AdvanceTurn passes the turn to the next team without a pick
func (h *APIHandlers) AdvanceTurn(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeDraftRequest(w, r)
	if !ok {
		return
	}

	snap, err := h.sessions.Advance(req.Session)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDraftView(snap))
}

func decodeDraftRequest(w http.ResponseWriter, r *http.Request) (draftRequest, bool) {
	var req draftRequest
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode draft request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return req, false
	}
	if req.Session == "" {
		writeError(w, &roster.ValidationError{Field: "session", Reason: "required"})
		return req, false
	}
	return req, true
}
