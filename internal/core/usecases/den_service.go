package usecases

import (
	"context"

	"github.com/aritzberg/wildsight/internal/core/domain"
	"github.com/aritzberg/wildsight/internal/core/ports"
)

// DenService answers viewport queries for spawn points and reconstructs
// their despawn windows.
type DenService struct {
	dens ports.DenRepository
}

// NewDenService creates a new DenService.
func NewDenService(dens ports.DenRepository) *DenService {
	return &DenService{dens: dens}
}

// InView returns dens for the viewport, keyed by den id. For dens with a
// recorded clock-face fragment the absolute despawn and spawn instants are
// derived and emitted in UTC; dens without one are emitted with those fields
// absent. Scan timestamps are shifted into the UTC frame of the stored
// columns.
func (s *DenService) InView(ctx context.Context, v domain.Viewport) (map[int64]domain.Den, error) {
	rows, err := s.dens.FindInView(ctx, v)
	if err != nil {
		return nil, err
	}

	now := domain.Now()
	offset := domain.UTCOffset(now)

	out := make(map[int64]domain.Den, len(rows))
	for _, den := range rows {
		if den.LastScanned != nil {
			t := den.LastScanned.Add(-offset)
			den.LastScanned = &t
		}
		if den.LastNonScanned != nil {
			t := den.LastNonScanned.Add(-offset)
			den.LastNonScanned = &t
		}
		if den.EndMinSec != nil {
			if w, ok := domain.ResolveDespawn(*den.EndMinSec, den.SpawnDef, now); ok {
				// The window is built on the local wall clock; re-express
				// the instants in UTC rather than shifting them.
				despawn := w.Despawn.UTC()
				spawn := w.Spawn.UTC()
				den.DespawnTime = &despawn
				den.SpawnTime = &spawn
			}
			den.EndMinSec = nil
		}
		out[den.ID] = den
	}
	return out, nil
}
