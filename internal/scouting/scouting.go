// Package scouting holds the read-side views over the player table: the
// scouting portal filters, the stats table, team rosters and the odds board.
package scouting

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/units"
)

// Filter narrows a player list. Zero-valued fields are ignored.
type Filter struct {
	Position  string // raw position code, exact match
	MinHeight string // feet-inches
	MaxHeight string // feet-inches
	MinWeight int
	MaxWeight int
}

// Apply returns the players matching every set field, keeping input order
func (f Filter) Apply(players []models.Player) ([]models.Player, error) {
	minCm, maxCm := 0, 0
	var err error
	if f.MinHeight != "" {
		if minCm, err = units.HeightToCm(f.MinHeight); err != nil {
			return nil, fmt.Errorf("minHeight: %w", err)
		}
	}
	if f.MaxHeight != "" {
		if maxCm, err = units.HeightToCm(f.MaxHeight); err != nil {
			return nil, fmt.Errorf("maxHeight: %w", err)
		}
	}

	out := make([]models.Player, 0, len(players))
	for _, p := range players {
		if f.Position != "" && p.Position != f.Position {
			continue
		}
		if f.MinHeight != "" && p.Height < minCm {
			continue
		}
		if f.MaxHeight != "" && p.Height > maxCm {
			continue
		}
		if f.MinWeight != 0 && p.Weight < f.MinWeight {
			continue
		}
		if f.MaxWeight != 0 && p.Weight > f.MaxWeight {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Search ranks players whose name fuzzily matches query, closest first.
// An empty query returns players unchanged.
func Search(players []models.Player, query string) []models.Player {
	query = strings.TrimSpace(query)
	if query == "" {
		return players
	}

	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(ranks)

	out := make([]models.Player, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, players[r.OriginalIndex])
	}
	return out
}

// StatKey names a sortable column of the stats table
type StatKey string

const (
	StatRecYards StatKey = "rec_yards"
	StatPassYds  StatKey = "pass_yds"
	StatRecTDs   StatKey = "rec_tds"
	StatRushYds  StatKey = "rush_yds"
	StatPassTDs  StatKey = "pass_tds"
	StatRushTDs  StatKey = "rush_tds"
	StatRec      StatKey = "rec"
)

// StatKeys lists the stats table columns in display order
var StatKeys = []StatKey{StatRecYards, StatPassYds, StatRecTDs, StatRushYds, StatPassTDs, StatRushTDs, StatRec}

// Direction is a sort direction
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortConfig is the stats table sort state
type SortConfig struct {
	Key       StatKey   `json:"key"`
	Direction Direction `json:"direction"`
}

// DefaultSort is receiving yards, highest first
var DefaultSort = SortConfig{Key: StatRecYards, Direction: Desc}

// ParseSort validates a key/direction pair, falling back to DefaultSort for empty values
func ParseSort(key, dir string) (SortConfig, error) {
	cfg := DefaultSort
	if key != "" {
		cfg.Key = StatKey(key)
		if !validKey(cfg.Key) {
			return SortConfig{}, fmt.Errorf("unknown stat %q", key)
		}
	}
	switch Direction(dir) {
	case "":
	case Asc, Desc:
		cfg.Direction = Direction(dir)
	default:
		return SortConfig{}, fmt.Errorf("unknown sort direction %q", dir)
	}
	return cfg, nil
}

// Toggle returns the sort state after clicking column key: a new column sorts
// descending, clicking the descending column again flips it to ascending.
func (c SortConfig) Toggle(key StatKey) SortConfig {
	if c.Key == key && c.Direction == Desc {
		return SortConfig{Key: key, Direction: Asc}
	}
	return SortConfig{Key: key, Direction: Desc}
}

func validKey(key StatKey) bool {
	for _, k := range StatKeys {
		if k == key {
			return true
		}
	}
	return false
}

func statValue(s models.Stats, key StatKey) *int {
	switch key {
	case StatRecYards:
		return s.RecYards
	case StatPassYds:
		return s.PassYds
	case StatRecTDs:
		return s.RecTDs
	case StatRushYds:
		return s.RushYds
	case StatPassTDs:
		return s.PassTDs
	case StatRushTDs:
		return s.RushTDs
	case StatRec:
		return s.Rec
	}
	return nil
}

// SortStats returns a sorted copy of players. Missing values always sort last.
func SortStats(players []models.Player, cfg SortConfig) []models.Player {
	out := make([]models.Player, len(players))
	copy(out, players)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := statValue(out[i].Stats, cfg.Key), statValue(out[j].Stats, cfg.Key)
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		case cfg.Direction == Asc:
			return *a < *b
		default:
			return *a > *b
		}
	})
	return out
}

// StatRow is one line of the stats table
type StatRow struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	models.Stats
}

// StatsTable sorts players and formats them for the stats view
func StatsTable(players []models.Player, cfg SortConfig) []StatRow {
	sorted := SortStats(players, cfg)
	rows := make([]StatRow, len(sorted))
	for i, p := range sorted {
		rows[i] = StatRow{
			ID:       p.ID,
			Name:     p.Name,
			Position: units.FormatStatPosition(p.Position),
			Stats:    p.Stats,
		}
	}
	return rows
}

// RosterPlayer is a player line on a team card
type RosterPlayer struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Position  string `json:"position"`
	Captain   bool   `json:"captain"`
	AnytimeTD string `json:"anytime_td"`
}

// Roster is a team card
type Roster struct {
	ID      int            `json:"id"`
	Name    string         `json:"name"`
	Odds    string         `json:"odds"`
	Players []RosterPlayer `json:"players"`
}

// Rosters groups players under their teams, teams ordered by odds ascending
func Rosters(teams []models.Team, players []models.Player) []Roster {
	sorted := sortTeamsByOdds(teams)
	out := make([]Roster, 0, len(sorted))
	for _, t := range sorted {
		r := Roster{ID: t.ID, Name: t.Name, Odds: units.FormatOdds(t.Odds), Players: []RosterPlayer{}}
		for _, p := range players {
			if p.TeamID == nil || *p.TeamID != t.ID {
				continue
			}
			td := "N/A"
			if p.AnytimeTD != nil {
				td = units.FormatOdds(*p.AnytimeTD)
			}
			r.Players = append(r.Players, RosterPlayer{
				ID:        p.ID,
				Name:      p.Name,
				Position:  units.FormatPosition(p.Position),
				Captain:   strconv.Itoa(p.ID) == t.Captain,
				AnytimeTD: td,
			})
		}
		out = append(out, r)
	}
	return out
}

// TeamOdds is a row of the team odds table
type TeamOdds struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Odds string `json:"odds"`
}

// PlayerOdds is a row of the anytime touchdown table
type PlayerOdds struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Team      string `json:"team"`
	AnytimeTD string `json:"anytime_td"`
}

// Board is the odds page
type Board struct {
	Teams   []TeamOdds   `json:"teams,omitempty"`
	Players []PlayerOdds `json:"players,omitempty"`
}

// OddsBoard builds the odds page. Players without anytime TD odds are left out.
func OddsBoard(teams []models.Team, players []models.Player, showTeams, showPlayers bool) Board {
	var b Board
	sorted := sortTeamsByOdds(teams)
	names := make(map[int]string, len(teams))
	for _, t := range sorted {
		names[t.ID] = t.Name
	}

	if showTeams {
		b.Teams = make([]TeamOdds, 0, len(sorted))
		for _, t := range sorted {
			b.Teams = append(b.Teams, TeamOdds{ID: t.ID, Name: t.Name, Odds: units.FormatOdds(t.Odds)})
		}
	}

	if showPlayers {
		withOdds := make([]models.Player, 0, len(players))
		for _, p := range players {
			if p.AnytimeTD != nil {
				withOdds = append(withOdds, p)
			}
		}
		sort.SliceStable(withOdds, func(i, j int) bool {
			return *withOdds[i].AnytimeTD < *withOdds[j].AnytimeTD
		})
		b.Players = make([]PlayerOdds, 0, len(withOdds))
		for _, p := range withOdds {
			team := "N/A"
			if p.TeamID != nil {
				if name, ok := names[*p.TeamID]; ok {
					team = name
				}
			}
			b.Players = append(b.Players, PlayerOdds{
				ID:        p.ID,
				Name:      p.Name,
				Team:      team,
				AnytimeTD: units.FormatOdds(*p.AnytimeTD),
			})
		}
	}
	return b
}

func sortTeamsByOdds(teams []models.Team) []models.Team {
	out := make([]models.Team, len(teams))
	copy(out, teams)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Odds < out[j].Odds })
	return out
}
