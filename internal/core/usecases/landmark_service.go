package usecases

import (
	"context"

	"github.com/aritzberg/wildsight/internal/core/domain"
	"github.com/aritzberg/wildsight/internal/core/ports"
)

// LandmarkService answers viewport queries for landmarks and shapes their
// transient sub-features.
type LandmarkService struct {
	landmarks ports.LandmarkRepository
}

// NewLandmarkService creates a new LandmarkService.
func NewLandmarkService(landmarks ports.LandmarkRepository) *LandmarkService {
	return &LandmarkService{landmarks: landmarks}
}

// InView returns landmarks for the viewport, keyed by landmark id. Each
// time-bounded sub-feature (task, incident, lure) is suppressed
// independently: a stored value is emitted as null once its own expiry has
// passed or when the caller opted out of that category.
func (s *LandmarkService) InView(ctx context.Context, v domain.Viewport, f domain.LandmarkFilter) (map[string]domain.Landmark, error) {
	rows, err := s.landmarks.FindInView(ctx, v, f)
	if err != nil {
		return nil, err
	}

	now := domain.Now().UTC()

	out := make(map[string]domain.Landmark, len(rows))
	for _, lm := range rows {
		if !f.Tasks {
			lm.Task = nil
		}
		if lm.IncidentExpiration != nil && (!lm.IncidentExpiration.After(now) || !f.Incidents) {
			lm.IncidentType = nil
			lm.IncidentStart = nil
			lm.IncidentExpiration = nil
		}
		if lm.LureExpiration != nil && (!lm.LureExpiration.After(now) || !f.Lures) {
			lm.LureModifier = nil
			lm.LureExpiration = nil
		}
		out[lm.ID] = lm
	}
	return out, nil
}
