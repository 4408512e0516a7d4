package dal

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
)

// MemoryDAL implements LeagueDAL using in-memory storage
type MemoryDAL struct {
	mu        sync.RWMutex
	players   []models.Player
	teams     []models.Team
	standings []models.Standing
}

// NewMemoryDAL creates a new in-memory data access layer
func NewMemoryDAL() *MemoryDAL {
	return &MemoryDAL{
		players:   getDefaultPlayers(),
		teams:     getDefaultTeams(),
		standings: getDefaultStandings(),
	}
}

func (m *MemoryDAL) ListPlayers() ([]models.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Create copies to avoid race conditions
	players := make([]models.Player, len(m.players))
	copy(players, m.players)
	sort.SliceStable(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}

func (m *MemoryDAL) GetPlayer(id int) (*models.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.players {
		if m.players[i].ID == id {
			p := m.players[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("player %d: %w", id, ErrPlayerNotFound)
}

func (m *MemoryDAL) AddPlayer(player *models.Player) (*models.Player, error) {
	if err := validatePlayer(player); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	maxID := 0
	for _, p := range m.players {
		if player.ID != 0 && p.ID == player.ID {
			return nil, fmt.Errorf("player %d already exists", player.ID)
		}
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	if player.ID == 0 {
		player.ID = maxID + 1
	}

	m.players = append(m.players, *player)
	return player, nil
}

func (m *MemoryDAL) SetPlayerStats(id int, stats models.Stats) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.players {
		if m.players[i].ID == id {
			m.players[i].Stats = stats
			p := m.players[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("player %d: %w", id, ErrPlayerNotFound)
}

func (m *MemoryDAL) ListTeams() ([]models.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	teams := make([]models.Team, len(m.teams))
	copy(teams, m.teams)
	sortTeams(teams)
	return teams, nil
}

func (m *MemoryDAL) ListStandings() ([]models.Standing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	standings := make([]models.Standing, len(m.standings))
	copy(standings, m.standings)
	sortStandings(standings)
	return standings, nil
}

func (m *MemoryDAL) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.players = getDefaultPlayers()
	m.teams = getDefaultTeams()
	m.standings = getDefaultStandings()
	return nil
}

func (m *MemoryDAL) Close() error {
	return nil
}
