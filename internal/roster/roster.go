// Package roster manages the player table: adding players and applying
// synced season stats.
package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/dal"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/logger"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/pubsub"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/units"
)

// ValidationError reports a rejected input field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewPlayer is the add-player form. Height is feet-inches.
type NewPlayer struct {
	ID           *int   `json:"id,omitempty"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	Height       string `json:"height"`
	Weight       int    `json:"weight"`
	Speed        int    `json:"speed"`
	RouteRunning int    `json:"route_running"`
	PassDefense  int    `json:"pass_defense"`
	Tackling     int    `json:"tackling"`
	ADP          int    `json:"adp"`
	TeamID       *int   `json:"team_id,omitempty"`
	AnytimeTD    *int   `json:"anytime_td,omitempty"`
}

// Service writes to the player table and announces changes
type Service struct {
	store     dal.LeagueDAL
	publisher pubsub.Publisher
}

// NewService creates a roster service. publisher may be nil.
func NewService(store dal.LeagueDAL, publisher pubsub.Publisher) *Service {
	return &Service{store: store, publisher: publisher}
}

// Validate converts the form into a player, checking every field
func (n NewPlayer) Validate() (*models.Player, error) {
	name := strings.TrimSpace(n.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	position := strings.ToLower(strings.TrimSpace(n.Position))
	if position == "" {
		return nil, &ValidationError{Field: "position", Reason: "required"}
	}
	height, err := units.HeightToCm(n.Height)
	if err != nil {
		return nil, &ValidationError{Field: "height", Reason: err.Error()}
	}
	if n.Weight <= 0 {
		return nil, &ValidationError{Field: "weight", Reason: "must be positive"}
	}
	if n.ADP < 0 {
		return nil, &ValidationError{Field: "adp", Reason: "must not be negative"}
	}

	ratings := []struct {
		field string
		value int
	}{
		{"speed", n.Speed},
		{"route_running", n.RouteRunning},
		{"pass_defense", n.PassDefense},
		{"tackling", n.Tackling},
	}
	for _, r := range ratings {
		if r.value < 0 || r.value > 100 {
			return nil, &ValidationError{Field: r.field, Reason: "must be between 0 and 100"}
		}
	}

	p := &models.Player{
		Name:         name,
		Position:     position,
		Height:       height,
		Weight:       n.Weight,
		Speed:        n.Speed,
		RouteRunning: n.RouteRunning,
		PassDefense:  n.PassDefense,
		Tackling:     n.Tackling,
		ADP:          n.ADP,
		TeamID:       n.TeamID,
		AnytimeTD:    n.AnytimeTD,
	}
	if n.ID != nil {
		if *n.ID <= 0 {
			return nil, &ValidationError{Field: "id", Reason: "must be positive"}
		}
		p.ID = *n.ID
	}
	return p, nil
}

// Add validates and stores a new player. New drafts see it; running drafts do not.
func (s *Service) Add(n NewPlayer) (*models.Player, error) {
	p, err := n.Validate()
	if err != nil {
		return nil, err
	}

	if p.ID != 0 {
		if _, err := s.store.GetPlayer(p.ID); err == nil {
			return nil, &ValidationError{Field: "id", Reason: fmt.Sprintf("player %d already exists", p.ID)}
		}
	}

	created, err := s.store.AddPlayer(p)
	if err != nil {
		return nil, fmt.Errorf("failed to add player: %w", err)
	}

	logger.Info("Player added", "id", created.ID, "name", created.Name, "position", created.Position)
	s.publish(pubsub.EventPlayersAdd, map[string]interface{}{
		"id":       created.ID,
		"name":     created.Name,
		"position": created.Position,
	})
	return created, nil
}

// ApplyStats overwrites stats for the given players. Unknown ids are skipped
// and counted in the second return value.
func (s *Service) ApplyStats(stats map[int]models.Stats) (updated, skipped int, err error) {
	for id, st := range stats {
		if _, err := s.store.SetPlayerStats(id, st); err != nil {
			if errors.Is(err, dal.ErrPlayerNotFound) {
				skipped++
				continue
			}
			return updated, skipped, fmt.Errorf("failed to update stats for player %d: %w", id, err)
		}
		updated++
	}
	return updated, skipped, nil
}

func (s *Service) publish(eventType string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(pubsub.NewEvent(eventType, "", payload))
}
