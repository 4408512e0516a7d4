package models

import "encoding/json"

// Player represents a league player as stored in the players table
type Player struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Position     string `json:"position"` // raw code, e.g. "wrdb"
	Height       int    `json:"height"`   // centimeters
	Weight       int    `json:"weight"`
	Speed        int    `json:"speed"`
	RouteRunning int    `json:"route_running"`
	PassDefense  int    `json:"pass_defense"`
	Tackling     int    `json:"tackling"`
	ADP          int    `json:"adp"`

	Stats

	Overall   *int `json:"overall,omitempty"`
	TeamID    *int `json:"team_id,omitempty"`
	AnytimeTD *int `json:"anytime_td,omitempty"`
}

// Stats holds season statistic columns. Nil means no recorded value.
type Stats struct {
	RecYards *int `json:"rec_yards"`
	PassYds  *int `json:"pass_yds"`
	RecTDs   *int `json:"rec_tds"`
	RushYds  *int `json:"rush_yds"`
	PassTDs  *int `json:"pass_tds"`
	RushTDs  *int `json:"rush_tds"`
	Rec      *int `json:"rec"`
}

// UnmarshalJSON accepts pass_def as an alias of pass_defense; both spellings
// exist in the players table history.
func (p *Player) UnmarshalJSON(data []byte) error {
	type plain Player
	aux := struct {
		*plain
		PassDef *int `json:"pass_def"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.PassDef != nil && p.PassDefense == 0 {
		p.PassDefense = *aux.PassDef
	}
	return nil
}

// DraftedPlayer is the reduced view of a player recorded by a pick
type DraftedPlayer struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Team     string `json:"team"`
}

// Team represents a league team
type Team struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Captain string `json:"captain"` // player id of the captain
	Odds    int    `json:"odds"`
}

// Standing is one row of the legacy leaderboard
type Standing struct {
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}
