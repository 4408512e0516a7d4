package draft

// Sequencer cycles through a fixed draft order. There is no end of draft:
// after the last team the turn wraps to the first one.
type Sequencer struct {
	teams []string
	index int
}

// DefaultTeams is the draft order used when none is configured
var DefaultTeams = []string{"Team A", "Team B", "Team C", "Team D"}

// NewSequencer creates a sequencer positioned at the first team
func NewSequencer(teams []string) (Sequencer, error) {
	if len(teams) == 0 {
		return Sequencer{}, ErrNoTeams
	}
	t := make([]string, len(teams))
	copy(t, teams)
	return Sequencer{teams: t}, nil
}

// Teams returns the draft order
func (s Sequencer) Teams() []string {
	out := make([]string, len(s.teams))
	copy(out, s.teams)
	return out
}

// Index returns the current position in the draft order
func (s Sequencer) Index() int {
	return s.index
}

// Current returns the team on the clock
func (s Sequencer) Current() string {
	return s.teams[s.index]
}

// Advance moves the turn to the next team
func (s Sequencer) Advance() Sequencer {
	s.index = (s.index + 1) % len(s.teams)
	return s
}
