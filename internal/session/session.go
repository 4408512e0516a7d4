// Package session keeps independent draft sessions in memory. Each session
// owns its own draft.State; operations on one session are serialized and
// never touch another.
package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/dal"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/draft"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/logger"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/metrics"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/pubsub"
)

// MaxTeams caps the draft order of one session
const MaxTeams = 32

var (
	// ErrSessionNotFound is returned for an unknown session id
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManyTeams    = fmt.Errorf("draft order longer than %d teams", MaxTeams)
)

// Snapshot is the externally visible state of a session
type Snapshot struct {
	Session     string                 `json:"session"`
	CreatedAt   time.Time              `json:"createdAt"`
	Teams       []string               `json:"teams"`
	CurrentTeam string                 `json:"currentTeam"`
	Pick        int                    `json:"pick"`
	Selected    *models.Player         `json:"selected,omitempty"`
	Pool        []models.Player        `json:"pool"`
	Drafted     []models.DraftedPlayer `json:"drafted"`
}

// Summary is a session line in a listing
type Summary struct {
	Session     string    `json:"session"`
	CreatedAt   time.Time `json:"createdAt"`
	CurrentTeam string    `json:"currentTeam"`
	Pick        int       `json:"pick"`
	Remaining   int       `json:"remaining"`
}

// PickListener is told about every completed pick
type PickListener func(session string, pick models.DraftedPlayer, number int)

type entry struct {
	mu        sync.Mutex
	id        string
	createdAt time.Time
	state     draft.State
}

func (e *entry) snapshot() Snapshot {
	seq := e.state.Sequencer()
	s := Snapshot{
		Session:     e.id,
		CreatedAt:   e.createdAt,
		Teams:       seq.Teams(),
		CurrentTeam: e.state.CurrentTeam(),
		Pick:        e.state.Pick(),
		Pool:        e.state.Pool().Players(),
		Drafted:     e.state.Drafted(),
	}
	if p, ok := e.state.Selected(); ok {
		s.Selected = &p
	}
	return s
}

// Manager creates and drives draft sessions
type Manager struct {
	store        dal.LeagueDAL
	publisher    pubsub.Publisher
	metrics      *metrics.Recorder
	defaultTeams []string

	mu        sync.RWMutex
	sessions  map[string]*entry
	listeners []PickListener
}

// NewManager creates a session manager. publisher and rec may be nil.
func NewManager(store dal.LeagueDAL, publisher pubsub.Publisher, rec *metrics.Recorder, defaultTeams []string) *Manager {
	if len(defaultTeams) == 0 {
		defaultTeams = draft.DefaultTeams
	}
	return &Manager{
		store:        store,
		publisher:    publisher,
		metrics:      rec,
		defaultTeams: defaultTeams,
		sessions:     make(map[string]*entry),
	}
}

// OnPick registers fn to be called after every pick in any session
func (m *Manager) OnPick(fn PickListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Create starts a new draft over the current player table. Empty teams uses the default order.
func (m *Manager) Create(teams []string) (Snapshot, error) {
	if len(teams) == 0 {
		teams = m.defaultTeams
	}
	if len(teams) > MaxTeams {
		return Snapshot{}, fmt.Errorf("%d teams: %w", len(teams), ErrTooManyTeams)
	}

	players, err := m.store.ListPlayers()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load players: %w", err)
	}

	state, err := draft.NewState(players, teams)
	if err != nil {
		return Snapshot{}, err
	}

	e := &entry{id: uuid.NewString(), createdAt: time.Now().UTC(), state: state}

	m.mu.Lock()
	m.sessions[e.id] = e
	count := len(m.sessions)
	m.mu.Unlock()

	m.metrics.SetActiveSessions(count)
	logger.Info("Draft session created", "session", e.id, "teams", teams, "players", len(players))

	snap := e.snapshot()
	m.publish(pubsub.EventSessionCreated, e.id, map[string]interface{}{
		"teams":   snap.Teams,
		"players": len(snap.Pool),
	})
	return snap, nil
}

// Get returns the current state of a session
func (m *Manager) Get(id string) (Snapshot, error) {
	e, err := m.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot(), nil
}

// State returns the session's draft state value
func (m *Manager) State(id string) (draft.State, error) {
	e, err := m.lookup(id)
	if err != nil {
		return draft.State{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, nil
}

// List returns all sessions, oldest first
func (m *Manager) List() []Summary {
	m.mu.RLock()
	entries := make([]*entry, 0, len(m.sessions))
	for _, e := range m.sessions {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	out := make([]Summary, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, Summary{
			Session:     e.id,
			CreatedAt:   e.createdAt,
			CurrentTeam: e.state.CurrentTeam(),
			Pick:        e.state.Pick(),
			Remaining:   e.state.Pool().Len(),
		})
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Session < out[j].Session
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Delete drops a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	if _, ok := m.sessions[id]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()

	m.metrics.SetActiveSessions(count)
	logger.Info("Draft session deleted", "session", id)
	return nil
}

// Select highlights a player in the session's pool
func (m *Manager) Select(id string, playerID int) (Snapshot, error) {
	e, err := m.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := e.state.SelectPlayer(playerID)
	if err != nil {
		return Snapshot{}, err
	}
	e.state = next

	m.metrics.RecordSelection()
	m.publish(pubsub.EventDraftSelect, id, map[string]interface{}{
		"playerId": playerID,
		"team":     next.CurrentTeam(),
	})
	return e.snapshot(), nil
}

// DraftSelected drafts the highlighted player to the team on the clock
func (m *Manager) DraftSelected(id string) (Snapshot, models.DraftedPlayer, error) {
	return m.pick(id, func(s draft.State) (draft.State, models.DraftedPlayer, error) {
		return s.DraftSelected()
	})
}

// Draft selects and drafts playerID in one step
func (m *Manager) Draft(id string, playerID int) (Snapshot, models.DraftedPlayer, error) {
	return m.pick(id, func(s draft.State) (draft.State, models.DraftedPlayer, error) {
		return s.Draft(playerID)
	})
}

// Advance passes the turn without a pick
func (m *Manager) Advance(id string) (Snapshot, error) {
	e, err := m.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	skipped := e.state.CurrentTeam()
	e.state = e.state.AdvanceTurn()

	m.metrics.RecordAdvance()
	m.publish(pubsub.EventDraftAdvance, id, map[string]interface{}{
		"skipped":     skipped,
		"currentTeam": e.state.CurrentTeam(),
	})
	return e.snapshot(), nil
}

func (m *Manager) pick(id string, op func(draft.State) (draft.State, models.DraftedPlayer, error)) (Snapshot, models.DraftedPlayer, error) {
	e, err := m.lookup(id)
	if err != nil {
		return Snapshot{}, models.DraftedPlayer{}, err
	}

	e.mu.Lock()
	slot := e.state.Sequencer().Index()
	next, pick, err := op(e.state)
	if err != nil {
		e.mu.Unlock()
		return Snapshot{}, models.DraftedPlayer{}, err
	}
	e.state = next
	number := len(next.Drafted())
	snap := e.snapshot()

	m.metrics.RecordPick(slot)
	m.publish(pubsub.EventDraftPick, id, map[string]interface{}{
		"pick":        number,
		"playerId":    pick.ID,
		"name":        pick.Name,
		"position":    pick.Position,
		"team":        pick.Team,
		"currentTeam": snap.CurrentTeam,
	})
	e.mu.Unlock()

	logger.Info("Player drafted", "session", id, "pick", number, "player", pick.Name, "team", pick.Team)

	m.mu.RLock()
	listeners := m.listeners
	m.mu.RUnlock()
	for _, fn := range listeners {
		fn(id, pick, number)
	}

	return snap, pick, nil
}

func (m *Manager) lookup(id string) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	return e, nil
}

// publish runs under the session lock so events for one session keep their order
func (m *Manager) publish(eventType, session string, payload map[string]interface{}) {
	if m.publisher == nil {
		return
	}
	m.publisher.Publish(pubsub.NewEvent(eventType, session, payload))
}
