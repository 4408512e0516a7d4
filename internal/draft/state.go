// Package draft implements a round-robin player draft as a pure reducer.
// A State is never modified in place; each operation returns the next State.
package draft

import "github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"

// State is one snapshot of a draft
type State struct {
	pool      Pool
	drafted   []models.DraftedPlayer
	sequencer Sequencer
	selected  *int
}

// NewState starts a draft with the given pool and draft order
func NewState(players []models.Player, teams []string) (State, error) {
	seq, err := NewSequencer(teams)
	if err != nil {
		return State{}, err
	}
	return State{
		pool:      NewPool(players),
		drafted:   []models.DraftedPlayer{},
		sequencer: seq,
	}, nil
}

// Pool returns the undrafted players
func (s State) Pool() Pool {
	return s.pool
}

// Drafted returns the picks made so far in pick order
func (s State) Drafted() []models.DraftedPlayer {
	out := make([]models.DraftedPlayer, len(s.drafted))
	copy(out, s.drafted)
	return out
}

// Sequencer returns the turn order state
func (s State) Sequencer() Sequencer {
	return s.sequencer
}

// CurrentTeam returns the team on the clock
func (s State) CurrentTeam() string {
	return s.sequencer.Current()
}

// Pick returns the 1-based number of the next pick
func (s State) Pick() int {
	return len(s.drafted) + 1
}

// Selected returns the highlighted player, if any
func (s State) Selected() (models.Player, bool) {
	if s.selected == nil {
		return models.Player{}, false
	}
	return s.pool.Get(*s.selected)
}

// SelectedID returns the highlighted player id, if any
func (s State) SelectedID() (int, bool) {
	if s.selected == nil {
		return 0, false
	}
	return *s.selected, true
}

// SelectPlayer highlights a player from the pool, replacing any previous selection
func (s State) SelectPlayer(id int) (State, error) {
	if !s.pool.Contains(id) {
		return s, &NotFoundError{ID: id}
	}
	s.selected = &id
	return s, nil
}

// DraftSelected assigns the highlighted player to the team on the clock,
// moves it from the pool to the drafted list and passes the turn.
func (s State) DraftSelected() (State, models.DraftedPlayer, error) {
	if s.selected == nil {
		return s, models.DraftedPlayer{}, ErrNoSelection
	}
	player, ok := s.pool.Get(*s.selected)
	if !ok {
		return s, models.DraftedPlayer{}, &NotFoundError{ID: *s.selected}
	}

	pick := models.DraftedPlayer{
		ID:       player.ID,
		Name:     player.Name,
		Position: player.Position,
		Team:     s.sequencer.Current(),
	}

	drafted := make([]models.DraftedPlayer, len(s.drafted), len(s.drafted)+1)
	copy(drafted, s.drafted)

	next := State{
		pool:      s.pool.Remove(player.ID),
		drafted:   append(drafted, pick),
		sequencer: s.sequencer.Advance(),
	}
	return next, pick, nil
}

// Draft selects and drafts id in one step
func (s State) Draft(id int) (State, models.DraftedPlayer, error) {
	selected, err := s.SelectPlayer(id)
	if err != nil {
		return s, models.DraftedPlayer{}, err
	}
	return selected.DraftSelected()
}

// AdvanceTurn clears the selection and passes the turn without drafting
func (s State) AdvanceTurn() State {
	s.selected = nil
	s.sequencer = s.sequencer.Advance()
	return s
}
