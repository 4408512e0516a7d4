package roster

import (
	"errors"
	"testing"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/dal"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/pubsub"
)

func validForm() NewPlayer {
	return NewPlayer{
		Name:         "Tom Turkey",
		Position:     "WRDB",
		Height:       "6-2",
		Weight:       190,
		Speed:        80,
		RouteRunning: 75,
		PassDefense:  70,
		Tackling:     65,
		ADP:          20,
	}
}

func TestAddConvertsHeight(t *testing.T) {
	ps := pubsub.New()
	ch := ps.Subscribe()
	svc := NewService(dal.NewMemoryDAL(), ps)

	p, err := svc.Add(validForm())
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if p.ID != 17 || p.Height != 188 || p.Position != "wrdb" {
		t.Errorf("unexpected player: %+v", p)
	}

	ev := <-ch
	if ev.Type != pubsub.EventPlayersAdd || ev.Payload["id"] != 17 {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestValidateRejectsOutOfRangeHeight(t *testing.T) {
	store := dal.NewMemoryDAL()
	before, _ := store.ListPlayers()

	for _, h := range []string{"999999999999999999-0", "10-0", "6-12"} {
		form := validForm()
		form.Height = h
		if p, err := form.Validate(); err == nil {
			t.Errorf("Validate() accepted height %q as %d cm", h, p.Height)
		}
		if _, err := NewService(store, nil).Add(form); err == nil {
			t.Errorf("Add() stored height %q", h)
		}
	}

	after, _ := store.ListPlayers()
	if len(after) != len(before) {
		t.Errorf("rejected players should not be stored: %d -> %d", len(before), len(after))
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		field string
		edit  func(*NewPlayer)
	}{
		{"name", func(n *NewPlayer) { n.Name = "  " }},
		{"position", func(n *NewPlayer) { n.Position = "" }},
		{"height", func(n *NewPlayer) { n.Height = "tall" }},
		{"height", func(n *NewPlayer) { n.Height = "999999999999999999-0" }},
		{"height", func(n *NewPlayer) { n.Height = "6-40" }},
		{"weight", func(n *NewPlayer) { n.Weight = 0 }},
		{"speed", func(n *NewPlayer) { n.Speed = 101 }},
		{"tackling", func(n *NewPlayer) { n.Tackling = -1 }},
		{"adp", func(n *NewPlayer) { n.ADP = -3 }},
		{"id", func(n *NewPlayer) { n.ID = models.IntPtr(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			svc := NewService(dal.NewMemoryDAL(), nil)
			form := validForm()
			tt.edit(&form)

			_, err := svc.Add(form)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, verr.Field)
			}
		})
	}
}

func TestApplyStats(t *testing.T) {
	store := dal.NewMemoryDAL()
	svc := NewService(store, nil)

	updated, skipped, err := svc.ApplyStats(map[int]models.Stats{
		3:   {RecYards: models.IntPtr(90)},
		999: {RecYards: models.IntPtr(1)},
	})
	if err != nil {
		t.Fatalf("ApplyStats() failed: %v", err)
	}
	if updated != 1 || skipped != 1 {
		t.Errorf("expected 1 updated and 1 skipped, got %d and %d", updated, skipped)
	}

	p, _ := store.GetPlayer(3)
	if p.RecYards == nil || *p.RecYards != 90 {
		t.Errorf("stats not applied: %+v", p.Stats)
	}
}
