package clickhouse

import (
	"context"
	"os"
	"testing"
)

func TestSeasonRowLeavesUnusedCategoriesNil(t *testing.T) {
	s := seasonRow{PlayerID: 4, PassYds: 300, PassTDs: 2, PassPlays: 20}.stats()
	if s.PassYds == nil || *s.PassYds != 300 || *s.PassTDs != 2 {
		t.Errorf("unexpected passing stats: %+v", s)
	}
	if s.RecYards != nil || s.Rec != nil || s.RushYds != nil {
		t.Errorf("categories without plays should be nil: %+v", s)
	}

	s = seasonRow{Rec: 3, RecYards: 0}.stats()
	if s.RecYards == nil || *s.RecYards != 0 || *s.Rec != 3 {
		t.Errorf("zero yards on catches should still be reported: %+v", s)
	}
}

func TestDevSourceJitter(t *testing.T) {
	src := NewDevSource(1)
	stats, err := src.SeasonStats(context.Background())
	if err != nil {
		t.Fatalf("SeasonStats() failed: %v", err)
	}
	if len(stats) != len(src.base) {
		t.Fatalf("expected %d players, got %d", len(src.base), len(stats))
	}

	got := *stats[2].RecYards
	if got < 538-54 || got > 538+54 {
		t.Errorf("rec yards %d outside 10%% of 538", got)
	}
	if *stats[2].RecTDs != 7 {
		t.Errorf("touchdowns should not jitter, got %d", *stats[2].RecTDs)
	}
	if stats[8].RecYards != nil {
		t.Error("missing stats should stay nil")
	}

	again, _ := NewDevSource(1).SeasonStats(context.Background())
	if *again[2].RecYards != got {
		t.Error("same seed should give the same stats")
	}
}

func TestClientSeasonStats(t *testing.T) {
	addr := os.Getenv("TEST_CLICKHOUSE_ADDR")
	if addr == "" {
		t.Skip("TEST_CLICKHOUSE_ADDR not set")
	}

	c, err := NewClient(addr, "default", "default", "")
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	defer c.Close()

	if _, err := c.SeasonStats(context.Background()); err != nil {
		t.Errorf("SeasonStats() failed: %v", err)
	}
}
