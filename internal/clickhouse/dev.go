package clickhouse

import (
	"context"
	"math/rand"
	"sort"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/logger"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
)

// DevSource serves fixed season stats with a little jitter for local
// development without a ClickHouse server.
type DevSource struct {
	base map[int]models.Stats
	rnd  *rand.Rand
}

// NewDevSource creates a dev stats source. The same seed yields the same stats.
func NewDevSource(seed int64) *DevSource {
	logger.Info("Using dev stats source, ClickHouse is not configured")

	ip := models.IntPtr
	return &DevSource{
		base: map[int]models.Stats{
			1:  {RecYards: ip(412), RecTDs: ip(6), Rec: ip(27)},
			2:  {RecYards: ip(538), RecTDs: ip(7), Rec: ip(31)},
			4:  {PassYds: ip(1204), PassTDs: ip(14), RushYds: ip(96), RushTDs: ip(1)},
			5:  {RecYards: ip(187), RecTDs: ip(3), Rec: ip(12)},
			6:  {PassYds: ip(640), PassTDs: ip(6), RushYds: ip(233), RushTDs: ip(3), RecYards: ip(88), Rec: ip(6)},
			7:  {RecYards: ip(301), RecTDs: ip(4), Rec: ip(19)},
			8:  {RushYds: ip(142), RushTDs: ip(2)},
			9:  {RecYards: ip(96), Rec: ip(8)},
			11: {RecYards: ip(254), RecTDs: ip(2), Rec: ip(17)},
			13: {PassYds: ip(210), PassTDs: ip(1)},
		},
		rnd: rand.New(rand.NewSource(seed)),
	}
}

// SeasonStats returns the base stats, each value moved by up to 10%
func (d *DevSource) SeasonStats(_ context.Context) (map[int]models.Stats, error) {
	ids := make([]int, 0, len(d.base))
	for id := range d.base {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make(map[int]models.Stats, len(d.base))
	for _, id := range ids {
		s := d.base[id]
		out[id] = models.Stats{
			RecYards: d.jitter(s.RecYards),
			PassYds:  d.jitter(s.PassYds),
			RecTDs:   s.RecTDs,
			RushYds:  d.jitter(s.RushYds),
			PassTDs:  s.PassTDs,
			RushTDs:  s.RushTDs,
			Rec:      s.Rec,
		}
	}
	return out, nil
}

func (d *DevSource) jitter(v *int) *int {
	if v == nil {
		return nil
	}
	spread := *v / 5
	if spread == 0 {
		return models.IntPtr(*v)
	}
	return models.IntPtr(*v + d.rnd.Intn(spread) - spread/2)
}

// Close is a no-op
func (d *DevSource) Close() error {
	return nil
}
