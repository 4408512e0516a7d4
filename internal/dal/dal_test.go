package dal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
)

// testStores returns every driver that can run without external services.
// Postgres joins when TEST_DATABASE_URL is set.
func testStores(t *testing.T) map[string]LeagueDAL {
	t.Helper()

	stores := map[string]LeagueDAL{"memory": NewMemoryDAL()}

	sqliteDAL, err := NewSQLiteDAL(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("NewSQLiteDAL() failed: %v", err)
	}
	stores["sqlite"] = sqliteDAL

	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		pg, err := NewPostgresDAL(url)
		if err != nil {
			t.Fatalf("NewPostgresDAL() failed: %v", err)
		}
		if err := pg.Reset(); err != nil {
			t.Fatalf("Reset() failed: %v", err)
		}
		stores["postgres"] = pg
	}

	for _, s := range stores {
		s := s
		t.Cleanup(func() { s.Close() })
	}
	return stores
}

func TestSeedData(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			players, err := store.ListPlayers()
			if err != nil {
				t.Fatalf("ListPlayers() failed: %v", err)
			}
			if len(players) != 16 {
				t.Fatalf("expected 16 seeded players, got %d", len(players))
			}
			for i, p := range players {
				if p.ID != i+1 {
					t.Errorf("players should be ordered by id, index %d has id %d", i, p.ID)
				}
			}
			if players[0].Name != "JJ Johnson" || players[0].Height != 188 {
				t.Errorf("unexpected first player: %+v", players[0])
			}
			if players[4].Position != "dete" || players[4].Height != 193 {
				t.Errorf("unexpected Nick Fridel: %+v", players[4])
			}
			if players[2].RecYards != nil {
				t.Errorf("Rob Byers should have no receiving yards, got %d", *players[2].RecYards)
			}
			if players[1].RecYards == nil || *players[1].RecYards != 538 {
				t.Errorf("unexpected stats for Cameron Norfleet: %+v", players[1].Stats)
			}

			teams, err := store.ListTeams()
			if err != nil {
				t.Fatalf("ListTeams() failed: %v", err)
			}
			if len(teams) != 4 {
				t.Fatalf("expected 4 teams, got %d", len(teams))
			}
			for i := 1; i < len(teams); i++ {
				if teams[i-1].Odds > teams[i].Odds {
					t.Errorf("teams should be ordered by odds: %+v", teams)
				}
			}

			standings, err := store.ListStandings()
			if err != nil {
				t.Fatalf("ListStandings() failed: %v", err)
			}
			if len(standings) != 3 || standings[0].Name != "John Doe" || standings[0].Wins != 5 {
				t.Errorf("unexpected standings: %+v", standings)
			}
		})
	}
}

func TestAddAndGetPlayer(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			added, err := store.AddPlayer(&models.Player{
				Name: "Sam Turkey", Position: "wrdb", Height: 180, Weight: 190,
				Speed: 80, RouteRunning: 75, PassDefense: 70, Tackling: 65, ADP: 20,
				AnytimeTD: models.IntPtr(400),
			})
			if err != nil {
				t.Fatalf("AddPlayer() failed: %v", err)
			}
			if added.ID != 17 {
				t.Errorf("expected id 17, got %d", added.ID)
			}

			got, err := store.GetPlayer(added.ID)
			if err != nil {
				t.Fatalf("GetPlayer() failed: %v", err)
			}
			if got.Name != "Sam Turkey" || got.AnytimeTD == nil || *got.AnytimeTD != 400 || got.TeamID != nil {
				t.Errorf("unexpected player: %+v", got)
			}

			if _, err := store.AddPlayer(&models.Player{Position: "wrdb"}); err == nil {
				t.Error("expected error for player without name")
			}
		})
	}
}

func TestGetPlayerNotFound(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.GetPlayer(999); !errors.Is(err, ErrPlayerNotFound) {
				t.Errorf("expected ErrPlayerNotFound, got %v", err)
			}
			if _, err := store.SetPlayerStats(999, models.Stats{}); !errors.Is(err, ErrPlayerNotFound) {
				t.Errorf("expected ErrPlayerNotFound, got %v", err)
			}
		})
	}
}

func TestSetPlayerStats(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			updated, err := store.SetPlayerStats(3, models.Stats{RecYards: models.IntPtr(75), Rec: models.IntPtr(6)})
			if err != nil {
				t.Fatalf("SetPlayerStats() failed: %v", err)
			}
			if updated.RecYards == nil || *updated.RecYards != 75 || updated.PassYds != nil {
				t.Errorf("unexpected stats: %+v", updated.Stats)
			}
			if updated.Name != "Rob Byers" {
				t.Errorf("other fields should be untouched, got %+v", updated)
			}
		})
	}
}

func TestReset(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.AddPlayer(&models.Player{Name: "Extra", Position: "wrdb"}); err != nil {
				t.Fatalf("AddPlayer() failed: %v", err)
			}
			if err := store.Reset(); err != nil {
				t.Fatalf("Reset() failed: %v", err)
			}
			players, err := store.ListPlayers()
			if err != nil {
				t.Fatalf("ListPlayers() failed: %v", err)
			}
			if len(players) != 16 {
				t.Errorf("expected 16 players after reset, got %d", len(players))
			}
		})
	}
}

func TestLoadPlayersFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.json")
	data := `[
		{"id": 1, "name": "JJ Johnson", "position": "wrdb"},
		{"id": 40, "name": "Drumstick Dan", "position": "qblb", "height": 183, "weight": 200, "pass_def": 77},
		{"name": "Gravy Boat", "position": "dete"}
	]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewMemoryDAL()
	added, err := LoadPlayersFromFile(store, path)
	if err != nil {
		t.Fatalf("LoadPlayersFromFile() failed: %v", err)
	}
	if added != 2 {
		t.Errorf("expected 2 players added, got %d", added)
	}

	dan, err := store.GetPlayer(40)
	if err != nil {
		t.Fatalf("GetPlayer(40) failed: %v", err)
	}
	if dan.PassDefense != 77 {
		t.Errorf("pass_def alias should populate PassDefense, got %d", dan.PassDefense)
	}

	gravy, err := store.GetPlayer(41)
	if err != nil || gravy.Name != "Gravy Boat" {
		t.Errorf("expected Gravy Boat with id 41, got %+v, %v", gravy, err)
	}

	if _, err := LoadPlayersFromFile(store, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMemoryStandingsMatchSQLOrder(t *testing.T) {
	m := NewMemoryDAL()
	m.standings = []models.Standing{
		{Name: "Bob Johnson", Wins: 3, Losses: 3},
		{Name: "Zed Turkey", Wins: 5, Losses: 1},
		{Name: "Jane Smith", Wins: 4, Losses: 2},
		{Name: "Al Gravy", Wins: 5, Losses: 1},
	}

	got, err := m.ListStandings()
	if err != nil {
		t.Fatalf("ListStandings() failed: %v", err)
	}
	want := []string{"Al Gravy", "Zed Turkey", "Jane Smith", "Bob Johnson"}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("position %d: got %s, want %s (%+v)", i, got[i].Name, name, got)
		}
	}
	if m.standings[0].Name != "Bob Johnson" {
		t.Error("ListStandings() should not reorder the stored rows")
	}
}
