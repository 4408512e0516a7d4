package dal

import (
	"errors"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
)

// ErrPlayerNotFound is returned when a player id does not exist in the store
var ErrPlayerNotFound = errors.New("player not found")

// LeagueDAL defines the interface for the league data access layer.
// Players are returned ordered by id, teams by odds ascending.
type LeagueDAL interface {
	ListPlayers() ([]models.Player, error)
	GetPlayer(id int) (*models.Player, error)
	AddPlayer(player *models.Player) (*models.Player, error)
	SetPlayerStats(id int, stats models.Stats) (*models.Player, error)
	ListTeams() ([]models.Team, error)
	ListStandings() ([]models.Standing, error)
	Reset() error
	Close() error
}
