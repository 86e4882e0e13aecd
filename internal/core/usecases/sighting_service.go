package usecases

import (
	"context"

	"github.com/aritzberg/wildsight/internal/core/domain"
	"github.com/aritzberg/wildsight/internal/core/ports"
)

// SightingService answers differential viewport queries for creature
// sightings.
type SightingService struct {
	sightings ports.SightingRepository
}

// NewSightingService creates a new SightingService.
func NewSightingService(sightings ports.SightingRepository) *SightingService {
	return &SightingService{sightings: sightings}
}

// Active returns unexpired sightings for the viewport, keyed by sighting id.
// When the filter requests a verified despawn, the den's clock-face fragment
// is resolved into an absolute instant; a missing or malformed fragment just
// leaves the field null.
func (s *SightingService) Active(ctx context.Context, v domain.Viewport, f domain.SightingFilter) (map[int64]domain.Sighting, error) {
	if len(f.IncludeSpecies) > 0 {
		// Include and exclude are mutually exclusive; include wins.
		f.ExcludeSpecies = nil
	}

	rows, err := s.sightings.FindActive(ctx, v, f)
	if err != nil {
		return nil, err
	}

	now := domain.Now()

	out := make(map[int64]domain.Sighting, len(rows))
	for _, sg := range rows {
		if sg.VerifiedDespawnFragment != nil {
			if w, ok := domain.ResolveDespawn(*sg.VerifiedDespawnFragment, 0, now); ok {
				t := w.Despawn.UTC()
				sg.VerifiedExpiresAt = &t
			}
			sg.VerifiedDespawnFragment = nil
		}
		out[sg.ID] = sg
	}
	return out, nil
}
