package handlers

import (
	"time"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/session"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/units"
)

// playerView is a player as the API shows it: height in feet-inches and a
// readable position label next to the raw code.
type playerView struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Position      string `json:"position"`
	PositionLabel string `json:"position_label"`
	Height        string `json:"height"`
	HeightCm      int    `json:"height_cm"`
	Weight        int    `json:"weight"`
	Speed         int    `json:"speed"`
	RouteRunning  int    `json:"route_running"`
	PassDefense   int    `json:"pass_defense"`
	Tackling      int    `json:"tackling"`
	ADP           int    `json:"adp"`
	models.Stats
	Overall   *int `json:"overall,omitempty"`
	TeamID    *int `json:"team_id,omitempty"`
	AnytimeTD *int `json:"anytime_td,omitempty"`
}

func newPlayerView(p models.Player) playerView {
	return playerView{
		ID:            p.ID,
		Name:          p.Name,
		Position:      p.Position,
		PositionLabel: units.FormatPosition(p.Position),
		Height:        units.CmToHeight(p.Height),
		HeightCm:      p.Height,
		Weight:        p.Weight,
		Speed:         p.Speed,
		RouteRunning:  p.RouteRunning,
		PassDefense:   p.PassDefense,
		Tackling:      p.Tackling,
		ADP:           p.ADP,
		Stats:         p.Stats,
		Overall:       p.Overall,
		TeamID:        p.TeamID,
		AnytimeTD:     p.AnytimeTD,
	}
}

func playerViews(players []models.Player) []playerView {
	out := make([]playerView, len(players))
	for i, p := range players {
		out[i] = newPlayerView(p)
	}
	return out
}

// draftView is the draft page state
type draftView struct {
	Session     string                 `json:"session"`
	CreatedAt   time.Time              `json:"createdAt"`
	Teams       []string               `json:"teams"`
	CurrentTeam string                 `json:"currentTeam"`
	Pick        int                    `json:"pick"`
	Selected    *playerView            `json:"selected,omitempty"`
	Pool        []playerView           `json:"pool"`
	Drafted     []models.DraftedPlayer `json:"drafted"`
}

func newDraftView(s session.Snapshot) draftView {
	v := draftView{
		Session:     s.Session,
		CreatedAt:   s.CreatedAt,
		Teams:       s.Teams,
		CurrentTeam: s.CurrentTeam,
		Pick:        s.Pick,
		Pool:        playerViews(s.Pool),
		Drafted:     s.Drafted,
	}
	if s.Selected != nil {
		sel := newPlayerView(*s.Selected)
		v.Selected = &sel
	}
	return v
}
