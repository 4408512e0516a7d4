// Package clickhouse aggregates Turkey Bowl season statistics from the
// play-by-play table in ClickHouse.
package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
)

// StatsSource returns per-player season stats keyed by player id
type StatsSource interface {
	SeasonStats(ctx context.Context) (map[int]models.Stats, error)
	Close() error
}

// seasonStatsQuery sums one row per play. play_type is one of pass, reception, rush.
const seasonStatsQuery = `
	SELECT
		player_id,
		toInt64(sumIf(yards, play_type = 'reception')) AS rec_yards,
		toInt64(sumIf(yards, play_type = 'pass'))      AS pass_yds,
		toInt64(countIf(play_type = 'reception' AND touchdown = 1)) AS rec_tds,
		toInt64(sumIf(yards, play_type = 'rush'))      AS rush_yds,
		toInt64(countIf(play_type = 'pass' AND touchdown = 1))      AS pass_tds,
		toInt64(countIf(play_type = 'rush' AND touchdown = 1))      AS rush_tds,
		toInt64(countIf(play_type = 'reception'))      AS rec,
		toInt64(countIf(play_type = 'pass'))           AS pass_plays,
		toInt64(countIf(play_type = 'rush'))           AS rush_plays
	FROM turkey_bowl_plays
	WHERE season = toYear(now())
	GROUP BY player_id
`

// Client reads season stats from ClickHouse
type Client struct {
	conn driver.Conn
}

// NewClient creates a new ClickHouse client
func NewClient(addr, database, username, password string) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &Client{conn: conn}, nil
}

// seasonRow is one aggregated row of seasonStatsQuery
type seasonRow struct {
	PlayerID  int64
	RecYards  int64
	PassYds   int64
	RecTDs    int64
	RushYds   int64
	PassTDs   int64
	RushTDs   int64
	Rec       int64
	PassPlays int64
	RushPlays int64
}

// stats maps a row onto player stats. Categories the player never touched stay nil
// so they sort last in the stats table.
func (r seasonRow) stats() models.Stats {
	var s models.Stats
	if r.Rec > 0 {
		s.RecYards = models.IntPtr(int(r.RecYards))
		s.RecTDs = models.IntPtr(int(r.RecTDs))
		s.Rec = models.IntPtr(int(r.Rec))
	}
	if r.PassPlays > 0 {
		s.PassYds = models.IntPtr(int(r.PassYds))
		s.PassTDs = models.IntPtr(int(r.PassTDs))
	}
	if r.RushPlays > 0 {
		s.RushYds = models.IntPtr(int(r.RushYds))
		s.RushTDs = models.IntPtr(int(r.RushTDs))
	}
	return s
}

// SeasonStats aggregates this season's plays per player
func (c *Client) SeasonStats(ctx context.Context) (map[int]models.Stats, error) {
	rows, err := c.conn.Query(ctx, seasonStatsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query season stats: %w", err)
	}
	defer rows.Close()

	out := make(map[int]models.Stats)
	for rows.Next() {
		var r seasonRow
		if err := rows.Scan(&r.PlayerID, &r.RecYards, &r.PassYds, &r.RecTDs, &r.RushYds,
			&r.PassTDs, &r.RushTDs, &r.Rec, &r.PassPlays, &r.RushPlays); err != nil {
			return nil, err
		}
		out[int(r.PlayerID)] = r.stats()
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Ping checks the connection, for readiness probes
func (c *Client) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}
