package usecases

import (
	"context"

	"github.com/aritzberg/wildsight/internal/core/domain"
	"github.com/aritzberg/wildsight/internal/core/ports"
)

// OutpostService answers viewport queries for outposts.
type OutpostService struct {
	outposts ports.OutpostRepository
}

// NewOutpostService creates a new OutpostService.
func NewOutpostService(outposts ports.OutpostRepository) *OutpostService {
	return &OutpostService{outposts: outposts}
}

// InView returns outposts for the viewport, keyed by outpost id. Detail rows
// arrive already flattened from the repository; Event is nil unless an
// unexpired event was joined. Event presence is independent of the sync
// mode.
func (s *OutpostService) InView(ctx context.Context, v domain.Viewport, withEvents bool) (map[string]domain.Outpost, error) {
	rows, err := s.outposts.FindInView(ctx, v, withEvents)
	if err != nil {
		return nil, err
	}

	out := make(map[string]domain.Outpost, len(rows))
	for _, op := range rows {
		out[op.ID] = op
	}
	return out, nil
}
