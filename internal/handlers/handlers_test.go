package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/auth"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/dal"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/metrics"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/pubsub"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/roster"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/session"
)

type testEnv struct {
	srv    *httptest.Server
	ps     *pubsub.PubSub
	health *Health
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := dal.NewMemoryDAL()
	ps := pubsub.New()
	rec := metrics.NewRecorder()
	api := NewAPIHandlers(store, session.NewManager(store, ps, rec, nil), roster.NewService(store, ps), ps)
	health := NewHealth(store)

	srv := httptest.NewServer(Routes(api, health, auth.NewMockAuth(), rec))
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, ps: ps, health: health}
}

func (e *testEnv) do(t *testing.T, method, path, body string, out interface{}) int {
	t.Helper()
	return e.doWithCookie(t, method, path, body, nil, out)
}

func (e *testEnv) doWithCookie(t *testing.T, method, path, body string, cookie *http.Cookie, out interface{}) int {
	t.Helper()
	req, err := http.NewRequest(method, e.srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest() failed: %v", err)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Get(e.srv.URL + "/auth/login")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	resp.Body.Close()
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			return c
		}
	}
	t.Fatal("login did not set a cookie")
	return nil
}

func TestListPlayersFilters(t *testing.T) {
	env := newTestEnv(t)

	var players []playerView
	if code := env.do(t, http.MethodGet, "/api/players?position=dete", "", &players); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(players) != 1 || players[0].Name != "Nick Fridel" {
		t.Fatalf("unexpected players: %+v", players)
	}
	if players[0].Height != "6-4" || players[0].HeightCm != 193 || players[0].PositionLabel != "DE/TE" {
		t.Errorf("unexpected view: %+v", players[0])
	}

	env.do(t, http.MethodGet, "/api/players?minHeight=6-2&maxWeight=200", "", &players)
	for _, p := range players {
		if p.HeightCm < 188 || p.Weight > 200 {
			t.Errorf("player %s escaped the filter", p.Name)
		}
	}
	if len(players) != 3 {
		t.Errorf("expected 3 players 6-2 and up at most 200lb, got %d", len(players))
	}

	env.do(t, http.MethodGet, "/api/players?q=alatasi", "", &players)
	if len(players) != 2 {
		t.Errorf("expected both Alatasis, got %d", len(players))
	}

	if code := env.do(t, http.MethodGet, "/api/players?minHeight=tall", "", nil); code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad height, got %d", code)
	}
	if code := env.do(t, http.MethodGet, "/api/players?minWeight=heavy", "", nil); code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad weight, got %d", code)
	}
}

func TestAddPlayerRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	body := `{"name":"Tom Turkey","position":"wrdb","height":"6-2","weight":190,"speed":80}`

	if code := env.do(t, http.MethodPost, "/api/players/add", body, nil); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without login, got %d", code)
	}

	cookie := env.login(t)
	var created playerView
	if code := env.doWithCookie(t, http.MethodPost, "/api/players/add", body, cookie, &created); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if created.ID != 17 || created.HeightCm != 188 || created.Height != "6-2" {
		t.Errorf("unexpected player: %+v", created)
	}

	bad := `{"name":"Tom Turkey","position":"wrdb","height":"6-2","weight":190,"speed":150}`
	if code := env.doWithCookie(t, http.MethodPost, "/api/players/add", bad, cookie, nil); code != http.StatusBadRequest {
		t.Errorf("expected 400 for out-of-range rating, got %d", code)
	}
}

func TestStatsTeamsOddsLeaderboard(t *testing.T) {
	env := newTestEnv(t)

	var stats struct {
		Rows []struct {
			ID       int    `json:"id"`
			Position string `json:"position"`
		} `json:"rows"`
	}
	env.do(t, http.MethodGet, "/api/players/stats?sort=pass_yds&dir=desc", "", &stats)
	if len(stats.Rows) != 16 || stats.Rows[0].ID != 7 || stats.Rows[1].Position != "FLEX" {
		t.Errorf("unexpected stats rows: %+v", stats.Rows[:2])
	}
	if code := env.do(t, http.MethodGet, "/api/players/stats?sort=height", "", nil); code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown sort key, got %d", code)
	}

	var teams []struct {
		Name    string `json:"name"`
		Odds    string `json:"odds"`
		Players []struct {
			Captain bool `json:"captain"`
		} `json:"players"`
	}
	env.do(t, http.MethodGet, "/api/teams", "", &teams)
	if len(teams) != 4 || teams[0].Name != "Team A" || teams[0].Odds != "-150" || teams[3].Odds != "+350" {
		t.Errorf("unexpected teams: %+v", teams)
	}

	var board struct {
		Teams   []interface{} `json:"teams"`
		Players []interface{} `json:"players"`
	}
	env.do(t, http.MethodGet, "/api/odds?teams=false", "", &board)
	if board.Teams != nil || len(board.Players) != 6 {
		t.Errorf("unexpected board: %d teams, %d players", len(board.Teams), len(board.Players))
	}

	var standings []map[string]interface{}
	env.do(t, http.MethodGet, "/api/leaderboard", "", &standings)
	if len(standings) != 3 {
		t.Errorf("expected 3 standings, got %d", len(standings))
	}
}

func TestDraftFlow(t *testing.T) {
	env := newTestEnv(t)

	var state draftView
	if code := env.do(t, http.MethodPost, "/api/draft/sessions", `{"teams":["Gobblers","Pilgrims"]}`, &state); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	id := state.Session
	if state.CurrentTeam != "Gobblers" || len(state.Pool) != 16 {
		t.Fatalf("unexpected new session: %+v", state)
	}

	if code := env.do(t, http.MethodPost, "/api/draft/pick", `{"session":"`+id+`"}`, nil); code != http.StatusConflict {
		t.Errorf("expected 409 without selection, got %d", code)
	}
	if code := env.do(t, http.MethodPost, "/api/draft/select", `{"session":"`+id+`","playerId":99}`, nil); code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown player, got %d", code)
	}

	env.do(t, http.MethodPost, "/api/draft/select", `{"session":"`+id+`","playerId":2}`, &state)
	if state.Selected == nil || state.Selected.ID != 2 {
		t.Fatalf("expected player 2 selected, got %+v", state.Selected)
	}

	var picked struct {
		Pick struct {
			ID   int
			Team string
		} `json:"pick"`
		State draftView `json:"state"`
	}
	env.do(t, http.MethodPost, "/api/draft/pick", `{"session":"`+id+`"}`, &picked)
	if picked.Pick.ID != 2 || picked.Pick.Team != "Gobblers" || picked.State.CurrentTeam != "Pilgrims" {
		t.Errorf("unexpected pick: %+v", picked)
	}

	env.do(t, http.MethodPost, "/api/draft/advance", `{"session":"`+id+`"}`, &state)
	if state.CurrentTeam != "Gobblers" {
		t.Errorf("expected Gobblers after advance, got %s", state.CurrentTeam)
	}

	env.do(t, http.MethodPost, "/api/draft/pick", `{"session":"`+id+`","playerId":5}`, &picked)
	if picked.Pick.Team != "Gobblers" || len(picked.State.Drafted) != 2 {
		t.Errorf("unexpected direct pick: %+v", picked)
	}

	env.do(t, http.MethodGet, "/api/draft/state?session="+id, "", &state)
	if len(state.Pool) != 14 || state.Pick != 3 {
		t.Errorf("unexpected state: pool=%d pick=%d", len(state.Pool), state.Pick)
	}

	var sessions []session.Summary
	env.do(t, http.MethodGet, "/api/draft/sessions", "", &sessions)
	if len(sessions) != 1 || sessions[0].Remaining != 14 {
		t.Errorf("unexpected sessions: %+v", sessions)
	}
}

func TestDraftErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown session", http.MethodGet, "/api/draft/state?session=nope", "", http.StatusNotFound},
		{"missing session", http.MethodGet, "/api/draft/state", "", http.StatusBadRequest},
		{"advance unknown", http.MethodPost, "/api/draft/advance", `{"session":"nope"}`, http.StatusNotFound},
		{"select without player", http.MethodPost, "/api/draft/select", `{"session":"nope"}`, http.StatusBadRequest},
		{"bad json", http.MethodPost, "/api/draft/pick", `{`, http.StatusBadRequest},
		{"wrong method", http.MethodGet, "/api/draft/pick", "", http.StatusMethodNotAllowed},
		{"blank team", http.MethodPost, "/api/draft/sessions", `{"teams":["A",""]}`, http.StatusBadRequest},
		{"too many teams", http.MethodPost, "/api/draft/sessions", `{"teams":[` + strings.Repeat(`"T",`, session.MaxTeams) + `"T"]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := env.do(t, tt.method, tt.path, tt.body, nil); code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, code)
			}
		})
	}
}

func TestEventsSSE(t *testing.T) {
	env := newTestEnv(t)

	var state draftView
	env.do(t, http.MethodPost, "/api/draft/sessions", "", &state)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, env.srv.URL+"/api/events?session="+state.Session, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("unexpected content type %s", ct)
	}

	lines := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if strings.HasPrefix(scanner.Text(), "data: ") {
				lines <- strings.TrimPrefix(scanner.Text(), "data: ")
			}
		}
		close(lines)
	}()

	next := func() pubsub.Event {
		select {
		case line := <-lines:
			var ev pubsub.Event
			json.Unmarshal([]byte(line), &ev)
			return ev
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event")
		}
		return pubsub.Event{}
	}

	if ev := next(); ev.Type != "connected" {
		t.Errorf("expected connected, got %s", ev.Type)
	}
	if ev := next(); ev.Type != pubsub.EventSessionCreated {
		t.Errorf("expected replayed session event, got %s", ev.Type)
	}

	env.ps.Publish(pubsub.NewEvent(pubsub.EventDraftAdvance, "other-session", nil))
	env.do(t, http.MethodPost, "/api/draft/advance", `{"session":"`+state.Session+`"}`, nil)

	if ev := next(); ev.Type != pubsub.EventDraftAdvance || ev.Session != state.Session {
		t.Errorf("expected this session's advance, got %+v", ev)
	}
}

func TestHealthProbes(t *testing.T) {
	env := newTestEnv(t)

	if code := env.do(t, http.MethodGet, "/healthz", "", nil); code != http.StatusOK {
		t.Errorf("liveness: expected 200, got %d", code)
	}
	if code := env.do(t, http.MethodGet, "/readyz", "", nil); code != http.StatusOK {
		t.Errorf("readiness: expected 200, got %d", code)
	}

	var status struct {
		Status string                 `json:"status"`
		Checks map[string]interface{} `json:"checks"`
	}
	env.do(t, http.MethodGet, "/api/health", "", &status)
	if status.Status != "ok" || status.Checks["database"] == nil {
		t.Errorf("unexpected health: %+v", status)
	}

	env.health.AddCheck("clickhouse", func(context.Context) error { return errors.New("down") })
	if code := env.do(t, http.MethodGet, "/api/health", "", nil); code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 with a failing check, got %d", code)
	}
}
