package draft

import "github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"

// Pool is the set of undrafted players. It is a value type: every mutation
// returns a new Pool and leaves the receiver untouched.
type Pool struct {
	players []models.Player
}

// NewPool creates a pool from a copy of players
func NewPool(players []models.Player) Pool {
	p := make([]models.Player, len(players))
	copy(p, players)
	return Pool{players: p}
}

// Players returns the undrafted players in insertion order
func (p Pool) Players() []models.Player {
	out := make([]models.Player, len(p.players))
	copy(out, p.players)
	return out
}

// Len returns the number of undrafted players
func (p Pool) Len() int {
	return len(p.players)
}

// Get looks a player up by id
func (p Pool) Get(id int) (models.Player, bool) {
	for _, player := range p.players {
		if player.ID == id {
			return player, true
		}
	}
	return models.Player{}, false
}

// Contains reports whether id is still undrafted
func (p Pool) Contains(id int) bool {
	_, ok := p.Get(id)
	return ok
}

// Remove returns the pool without the given id. An absent id is a no-op.
func (p Pool) Remove(id int) Pool {
	out := make([]models.Player, 0, len(p.players))
	for _, player := range p.players {
		if player.ID != id {
			out = append(out, player)
		}
	}
	return Pool{players: out}
}
