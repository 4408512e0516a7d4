package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/dal"
)

const checkTimeout = 3 * time.Second

// Check reports whether a dependency is usable
type Check func(ctx context.Context) error

// Health serves the liveness, readiness and detailed health probes
type Health struct {
	store dal.LeagueDAL

	mu     sync.RWMutex
	checks map[string]Check
}

// NewHealth creates the probes. The store is always checked.
func NewHealth(store dal.LeagueDAL) *Health {
	return &Health{store: store, checks: make(map[string]Check)}
}

// AddCheck registers an optional dependency check reported by /api/health
func (h *Health) AddCheck(name string, check Check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Liveness handles Kubernetes liveness probes. It does not check dependencies.
func (h *Health) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
	})
}

// Readiness handles Kubernetes readiness probes. Only the database is critical.
func (h *Health) Readiness(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.ListTeams(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "not_ready",
			"reason":    "database_unavailable",
			"timestamp": time.Now().Unix(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}

// Status runs every check and reports each one
func (h *Health) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	status := "ok"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	record := func(name string, err error) {
		if err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks[name] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
			return
		}
		checks[name] = map[string]interface{}{"status": "healthy"}
	}

	_, err := h.store.ListTeams()
	record("database", err)

	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		record(name, h.checks[name](ctx))
	}
	h.mu.RUnlock()

	writeJSON(w, httpStatus, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	})
}
