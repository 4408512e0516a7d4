package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/dal"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/draft"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/metrics"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/pubsub"
)

func newTestManager(t *testing.T) (*Manager, *pubsub.PubSub) {
	t.Helper()
	ps := pubsub.New()
	return NewManager(dal.NewMemoryDAL(), ps, metrics.NewRecorder(), []string{"Gobblers", "Pilgrims"}), ps
}

func TestCreateUsesDefaultTeams(t *testing.T) {
	m, _ := newTestManager(t)

	snap, err := m.Create(nil)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if snap.Session == "" {
		t.Error("session id should be set")
	}
	if len(snap.Teams) != 2 || snap.CurrentTeam != "Gobblers" {
		t.Errorf("unexpected teams: %v on the clock %s", snap.Teams, snap.CurrentTeam)
	}
	if len(snap.Pool) != 16 || len(snap.Drafted) != 0 || snap.Pick != 1 {
		t.Errorf("unexpected initial state: pool=%d drafted=%d pick=%d", len(snap.Pool), len(snap.Drafted), snap.Pick)
	}
	if snap.Selected != nil {
		t.Error("new session should have no selection")
	}
}

func TestCreateWithoutAnyTeams(t *testing.T) {
	m := NewManager(dal.NewMemoryDAL(), nil, nil, nil)
	snap, err := m.Create(nil)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if len(snap.Teams) != len(draft.DefaultTeams) {
		t.Errorf("expected fallback teams, got %v", snap.Teams)
	}
}

func TestCreateRejectsTooManyTeams(t *testing.T) {
	m, _ := newTestManager(t)
	teams := make([]string, MaxTeams+1)
	for i := range teams {
		teams[i] = fmt.Sprintf("Team %d", i)
	}
	if _, err := m.Create(teams); !errors.Is(err, ErrTooManyTeams) {
		t.Fatalf("expected ErrTooManyTeams, got %v", err)
	}
	if _, err := m.Create(teams[:MaxTeams]); err != nil {
		t.Errorf("Create() with %d teams failed: %v", MaxTeams, err)
	}
}

func TestPicksCountedByDraftSlot(t *testing.T) {
	rec := metrics.NewRecorder()
	m := NewManager(dal.NewMemoryDAL(), nil, rec, nil)
	snap, _ := m.Create([]string{"user_supplied_*1", "user_supplied_*2"})
	id := snap.Session

	m.Draft(id, 1) // slot 1
	m.Advance(id)  // slot 2 skipped
	m.Draft(id, 2) // slot 1
	m.Draft(id, 3) // slot 2

	want := `
# HELP draft_picks_total Players drafted, by 1-based slot of the drafting team in the draft order.
# TYPE draft_picks_total counter
draft_picks_total{slot="1"} 2
draft_picks_total{slot="2"} 1
`
	if err := testutil.GatherAndCompare(rec.Registry(), strings.NewReader(want), "draft_picks_total"); err != nil {
		t.Error(err)
	}
}

func TestSelectAndDraft(t *testing.T) {
	m, _ := newTestManager(t)
	snap, _ := m.Create([]string{"A", "B"})
	id := snap.Session

	snap, err := m.Select(id, 7)
	if err != nil {
		t.Fatalf("Select() failed: %v", err)
	}
	if snap.Selected == nil || snap.Selected.ID != 7 {
		t.Fatalf("expected player 7 selected, got %+v", snap.Selected)
	}

	snap, pick, err := m.DraftSelected(id)
	if err != nil {
		t.Fatalf("DraftSelected() failed: %v", err)
	}
	if pick.ID != 7 || pick.Team != "A" {
		t.Errorf("unexpected pick: %+v", pick)
	}
	if snap.CurrentTeam != "B" || snap.Pick != 2 || len(snap.Pool) != 15 {
		t.Errorf("unexpected state after pick: %+v", snap)
	}

	snap, pick, err = m.Draft(id, 1)
	if err != nil {
		t.Fatalf("Draft() failed: %v", err)
	}
	if pick.Team != "B" || snap.CurrentTeam != "A" || len(snap.Drafted) != 2 {
		t.Errorf("unexpected state after second pick: %+v", snap)
	}
}

func TestErrors(t *testing.T) {
	m, _ := newTestManager(t)
	snap, _ := m.Create(nil)

	if _, err := m.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if _, _, err := m.DraftSelected(snap.Session); !errors.Is(err, draft.ErrNoSelection) {
		t.Errorf("expected ErrNoSelection, got %v", err)
	}
	if _, err := m.Select(snap.Session, 999); !draft.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}

	m.Draft(snap.Session, 3)
	if _, _, err := m.Draft(snap.Session, 3); !draft.IsNotFound(err) {
		t.Errorf("drafting twice should be NotFound, got %v", err)
	}

	after, _ := m.Get(snap.Session)
	if len(after.Drafted) != 1 {
		t.Errorf("failed operations must not change state, drafted=%d", len(after.Drafted))
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	m, _ := newTestManager(t)
	a, _ := m.Create(nil)
	b, _ := m.Create(nil)

	if _, _, err := m.Draft(a.Session, 1); err != nil {
		t.Fatalf("Draft() failed: %v", err)
	}

	got, _ := m.Get(b.Session)
	if len(got.Pool) != 16 || got.CurrentTeam != "Gobblers" {
		t.Errorf("session b should be untouched: %+v", got)
	}
	if len(m.List()) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(m.List()))
	}

	if err := m.Delete(a.Session); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if err := m.Delete(a.Session); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if list := m.List(); len(list) != 1 || list[0].Session != b.Session {
		t.Errorf("unexpected list after delete: %+v", list)
	}
}

func TestAdvancePublishesEvent(t *testing.T) {
	m, ps := newTestManager(t)
	snap, _ := m.Create(nil)
	ch := ps.Subscribe()

	snap, err := m.Advance(snap.Session)
	if err != nil {
		t.Fatalf("Advance() failed: %v", err)
	}
	if snap.CurrentTeam != "Pilgrims" {
		t.Errorf("expected Pilgrims on the clock, got %s", snap.CurrentTeam)
	}

	ev := <-ch
	if ev.Type != pubsub.EventDraftAdvance || ev.Session != snap.Session {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.Payload["skipped"] != "Gobblers" {
		t.Errorf("unexpected payload: %+v", ev.Payload)
	}
}

func TestPickEventsAndListeners(t *testing.T) {
	m, ps := newTestManager(t)
	snap, _ := m.Create(nil)

	var got []int
	m.OnPick(func(session string, pick models.DraftedPlayer, number int) {
		if session != snap.Session {
			t.Errorf("listener got session %s", session)
		}
		got = append(got, number)
	})

	ch := ps.Subscribe()
	m.Select(snap.Session, 2)
	m.DraftSelected(snap.Session)
	m.Draft(snap.Session, 5)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("unexpected pick numbers: %v", got)
	}

	want := []string{pubsub.EventDraftSelect, pubsub.EventDraftPick, pubsub.EventDraftPick}
	for i, w := range want {
		ev := <-ch
		if ev.Type != w {
			t.Errorf("event %d: got %s, want %s", i, ev.Type, w)
		}
	}
}

func TestConcurrentPicksDraftEachPlayerOnce(t *testing.T) {
	m, _ := newTestManager(t)
	snap, _ := m.Create(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Draft(snap.Session, 4)
		}()
	}
	wg.Wait()

	got, _ := m.Get(snap.Session)
	if len(got.Drafted) != 1 || len(got.Pool) != 15 {
		t.Errorf("player 4 should be drafted exactly once: drafted=%d pool=%d", len(got.Drafted), len(got.Pool))
	}
}
