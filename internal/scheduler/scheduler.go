// Package scheduler runs the periodic season stats sync.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/clickhouse"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/logger"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/metrics"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/pubsub"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/roster"
)

const syncTimeout = 30 * time.Second

type Scheduler struct {
	s         gocron.Scheduler
	source    clickhouse.StatsSource
	roster    *roster.Service
	publisher pubsub.Publisher
	metrics   *metrics.Recorder
	interval  time.Duration
}

func NewScheduler(source clickhouse.StatsSource, rs *roster.Service, publisher pubsub.Publisher, rec *metrics.Recorder, interval time.Duration) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sync interval must be positive, got %s", interval)
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:         s,
		source:    source,
		roster:    rs,
		publisher: publisher,
		metrics:   rec,
		interval:  interval,
	}, nil
}

// Start runs a sync now and then every interval
func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.syncStats),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create stats sync job: %w", err)
	}

	s.s.Start()
	logger.Info("Stats sync scheduled", "interval", s.interval.String())
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

// SyncOnce pulls season stats and writes them to the player table. On error
// the previous stats stay in place.
func (s *Scheduler) SyncOnce(ctx context.Context) error {
	start := time.Now()

	stats, err := s.source.SeasonStats(ctx)
	if err != nil {
		s.metrics.RecordSync(time.Since(start), err)
		return fmt.Errorf("failed to fetch season stats: %w", err)
	}

	updated, skipped, err := s.roster.ApplyStats(stats)
	s.metrics.RecordSync(time.Since(start), err)
	if err != nil {
		return err
	}

	logger.Info("Season stats synced", "updated", updated, "skipped", skipped, "duration", time.Since(start).String())
	if s.publisher != nil {
		s.publisher.Publish(pubsub.NewEvent(pubsub.EventStatsSynced, "", map[string]interface{}{
			"updated": updated,
			"skipped": skipped,
		}))
	}
	return nil
}

func (s *Scheduler) syncStats() {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	if err := s.SyncOnce(ctx); err != nil {
		logger.Error("Stats sync failed", "error", err)
	}
}
