package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/logger"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/pubsub"
)

const keepaliveInterval = 30 * time.Second

// EventsSSE provides Server-Sent Events for realtime updates. With ?session=
// only that session's events and global events are sent. Recent history is
// replayed first unless replay=false; an event published during the replay
// may arrive twice.
func (h *APIHandlers) EventsSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}
	replay, err := boolParam(r.URL.Query().Get("replay"), true)
	if err != nil {
		http.Error(w, "Invalid replay parameter", http.StatusBadRequest)
		return
	}
	sessionID := r.URL.Query().Get("session")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	eventChan := h.pubsub.Subscribe()
	defer h.pubsub.Unsubscribe(eventChan)

	fmt.Fprintf(w, "data: {\"type\":\"connected\"}\n\n")
	if replay {
		for _, event := range h.pubsub.Recent() {
			if wanted(event, sessionID) {
				writeEvent(w, event)
			}
		}
	}
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if !wanted(event, sessionID) {
				continue
			}
			writeEvent(w, event)
			flusher.Flush()
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected")
			return
		case <-keepalive.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

func wanted(event pubsub.Event, sessionID string) bool {
	return sessionID == "" || event.Session == "" || event.Session == sessionID
}

func writeEvent(w http.ResponseWriter, event pubsub.Event) {
	data, _ := json.Marshal(event)
	fmt.Fprintf(w, "data: %s\n\n", data)
}
