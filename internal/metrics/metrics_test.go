package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCountsDraftActivity(t *testing.T) {
	rec := NewRecorder()
	rec.RecordPick(0)
	rec.RecordPick(0)
	rec.RecordPick(1)
	rec.RecordSelection()
	rec.RecordAdvance()
	rec.SetActiveSessions(3)

	if got := testutil.ToFloat64(rec.picks.WithLabelValues("1")); got != 2 {
		t.Fatalf("expected 2 picks for slot 1, got %v", got)
	}
	if got := testutil.CollectAndCount(rec.picks); got != 2 {
		t.Fatalf("expected 2 slot series, got %d", got)
	}
	if got := testutil.ToFloat64(rec.selections); got != 1 {
		t.Fatalf("expected 1 selection, got %v", got)
	}
	if got := testutil.ToFloat64(rec.advances); got != 1 {
		t.Fatalf("expected 1 advance, got %v", got)
	}
	if got := testutil.ToFloat64(rec.sessions); got != 3 {
		t.Fatalf("expected 3 sessions, got %v", got)
	}
}

func TestRecorderCountsSyncResults(t *testing.T) {
	rec := NewRecorder()
	rec.RecordSync(time.Second, nil)
	rec.RecordSync(time.Second, errors.New("clickhouse down"))
	rec.RecordSync(time.Second, errors.New("clickhouse down"))

	if got := testutil.ToFloat64(rec.syncRuns.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected 1 ok run, got %v", got)
	}
	if got := testutil.ToFloat64(rec.syncRuns.WithLabelValues("error")); got != 2 {
		t.Fatalf("expected 2 failed runs, got %v", got)
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var rec *Recorder
	rec.RecordPick("Team A")
	rec.RecordSelection()
	rec.RecordSync(0, nil)

	called := false
	h := rec.Middleware("/x", func(w http.ResponseWriter, r *http.Request) { called = true })
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	if !called {
		t.Fatal("middleware should pass through")
	}
}

func TestMiddlewareAndHandler(t *testing.T) {
	rec := NewRecorder()
	h := rec.Middleware("/api/teams", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/teams", nil))

	if got := testutil.ToFloat64(rec.requests.WithLabelValues("/api/teams", "418")); got != 1 {
		t.Fatalf("expected 1 request with status 418, got %v", got)
	}

	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `http_requests_total{code="418",route="/api/teams"} 1`) {
		t.Errorf("exposition missing request counter:\n%s", w.Body.String())
	}
}
