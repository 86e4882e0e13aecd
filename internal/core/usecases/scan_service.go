package usecases

import (
	"context"

	"github.com/aritzberg/wildsight/internal/core/domain"
	"github.com/aritzberg/wildsight/internal/core/ports"
)

// ScanService answers viewport queries for scan coverage cells.
type ScanService struct {
	cells ports.ScanCellRepository
}

// NewScanService creates a new ScanService.
func NewScanService(cells ports.ScanCellRepository) *ScanService {
	return &ScanService{cells: cells}
}

// Recent returns recently scanned cells for the viewport, keyed by cell id.
// Outside incremental mode the repository applies a fixed 15-minute activity
// window in place of a liveness predicate.
func (s *ScanService) Recent(ctx context.Context, v domain.Viewport) (map[int64]domain.ScanCell, error) {
	rows, err := s.cells.FindRecent(ctx, v)
	if err != nil {
		return nil, err
	}

	out := make(map[int64]domain.ScanCell, len(rows))
	for _, c := range rows {
		out[c.CellID] = c
	}
	return out, nil
}
