// Package metrics exposes Prometheus instruments for draft activity, stats sync
// runs and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry so tests and multiple servers never collide
// on the global one. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	picks        *prometheus.CounterVec
	selections   prometheus.Counter
	advances     prometheus.Counter
	sessions     prometheus.Gauge
	syncRuns     *prometheus.CounterVec
	syncDuration prometheus.Histogram
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		picks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "draft_picks_total",
			Help: "Players drafted, by 1-based slot of the drafting team in the draft order.",
		}, []string{"slot"}),
		selections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "draft_selections_total",
			Help: "Player selections made before a pick.",
		}),
		advances: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "draft_turn_advances_total",
			Help: "Turns advanced without a pick.",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "draft_sessions_active",
			Help: "Draft sessions currently held in memory.",
		}),
		syncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stats_sync_runs_total",
			Help: "Season stats sync runs, by result.",
		}, []string{"result"}),
		syncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stats_sync_duration_seconds",
			Help:    "Season stats sync duration.",
			Buckets: prometheus.DefBuckets,
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests, by route and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency, by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.picks, r.selections, r.advances, r.sessions,
		r.syncRuns, r.syncDuration, r.requests, r.latency,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// RecordPick counts a pick by the team at index slot of the draft order
func (r *Recorder) RecordPick(slot int) {
	if r == nil {
		return
	}
	r.picks.WithLabelValues(strconv.Itoa(slot + 1)).Inc()
}

func (r *Recorder) RecordSelection() {
	if r == nil {
		return
	}
	r.selections.Inc()
}

func (r *Recorder) RecordAdvance() {
	if r == nil {
		return
	}
	r.advances.Inc()
}

// SetActiveSessions reports the current number of sessions
func (r *Recorder) SetActiveSessions(n int) {
	if r == nil {
		return
	}
	r.sessions.Set(float64(n))
}

// RecordSync records one stats sync run
func (r *Recorder) RecordSync(duration time.Duration, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.syncRuns.WithLabelValues(result).Inc()
	r.syncDuration.Observe(duration.Seconds())
}

// Middleware counts requests and their latency under the given route label
func (r *Recorder) Middleware(route string, next http.HandlerFunc) http.HandlerFunc {
	if r == nil {
		return next
	}
	return func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, req)
		r.requests.WithLabelValues(route, strconv.Itoa(sw.status)).Inc()
		r.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE streaming working through the wrapper
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
