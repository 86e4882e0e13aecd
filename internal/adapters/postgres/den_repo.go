package postgres

import (
	"context"
	"time"

	"github.com/aritzberg/wildsight/internal/core/domain"
)

// DenRepo implements ports.DenRepository with pgx.
type DenRepo struct {
	db *DB
}

// NewDenRepo creates a new DenRepo.
func NewDenRepo(db *DB) *DenRepo {
	return &DenRepo{db: db}
}

// FindInView returns dens under the viewport's sync mode. A den counts as
// modified when either its last scan or its last unscanned detection is
// newer than the client's timestamp.
func (r *DenRepo) FindInView(ctx context.Context, v domain.Viewport) ([]domain.Den, error) {
	b := &queryBuilder{}

	applyViewport(b, v, viewportSpec{
		latCol: "latitude",
		lonCol: "longitude",
		timeCond: func(b *queryBuilder, since time.Time) string {
			ph := b.bind(since)
			return "(last_scanned > " + ph + " OR last_non_scanned > " + ph + ")"
		},
	})

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, latitude, longitude, spawn_def, end_min_sec,
		       first_detection, last_scanned, last_non_scanned
		FROM dens`+b.whereClause(), b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dens []domain.Den
	for rows.Next() {
		var d domain.Den
		if err := rows.Scan(&d.ID, &d.Location.Lat, &d.Location.Lon, &d.SpawnDef,
			&d.EndMinSec, &d.FirstDetection, &d.LastScanned, &d.LastNonScanned); err != nil {
			return nil, err
		}
		dens = append(dens, d)
	}
	return dens, rows.Err()
}
