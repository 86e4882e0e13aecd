package postgres

import (
	"context"
	"time"

	"github.com/aritzberg/wildsight/internal/core/domain"
)

// scanActiveWindow is how far back a scan cell still counts as recently
// covered.
const scanActiveWindow = 15 * time.Minute

// ScanCellRepo implements ports.ScanCellRepository with pgx.
type ScanCellRepo struct {
	db *DB
}

// NewScanCellRepo creates a new ScanCellRepo.
func NewScanCellRepo(db *DB) *ScanCellRepo {
	return &ScanCellRepo{db: db}
}

// FindRecent returns recently scanned cells under the viewport's sync mode.
// The 15-minute window is the kind's liveness predicate; in incremental
// mode the client's own timestamp replaces it since both constrain the same
// column.
func (r *ScanCellRepo) FindRecent(ctx context.Context, v domain.Viewport) ([]domain.ScanCell, error) {
	b := &queryBuilder{}

	applyViewport(b, v, viewportSpec{
		latCol: "latitude",
		lonCol: "longitude",
		timeCond: func(b *queryBuilder, since time.Time) string {
			return "last_modified >= " + b.bind(since)
		},
		liveCond: func(b *queryBuilder) string {
			return "last_modified >= " + b.bind(domain.Now().UTC().Add(-scanActiveWindow))
		},
	})

	rows, err := r.db.Pool.Query(ctx, `
		SELECT cell_id, latitude, longitude, last_modified
		FROM scan_cells`+b.whereClause(), b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cells []domain.ScanCell
	for rows.Next() {
		var c domain.ScanCell
		if err := rows.Scan(&c.CellID, &c.Location.Lat, &c.Location.Lon, &c.LastModified); err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, rows.Err()
}
