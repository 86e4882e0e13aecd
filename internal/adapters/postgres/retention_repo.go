package postgres

import (
	"context"
	"time"

	"github.com/aritzberg/wildsight/internal/core/domain"
)

// RetentionRepo implements ports.RetentionRepository with pgx. All deletes
// are single statements so they stay atomic with respect to concurrent
// reads.
type RetentionRepo struct {
	db *DB
}

// NewRetentionRepo creates a new RetentionRepo.
func NewRetentionRepo(db *DB) *RetentionRepo {
	return &RetentionRepo{db: db}
}

// ClearExpiredLures nulls the lure state of landmarks whose lure ran out.
func (r *RetentionRepo) ClearExpiredLures(ctx context.Context) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE landmarks SET lure_expiration = NULL, lure_modifier = NULL
		WHERE lure_expiration < $1
	`, domain.Now().UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteExpiredSightings removes sightings that expired more than age ago.
func (r *RetentionRepo) DeleteExpiredSightings(ctx context.Context, age time.Duration) (int64, error) {
	return r.deleteOlder(ctx, `DELETE FROM sightings WHERE expires_at < $1`, age)
}

// DeleteStaleOutposts removes outposts not scanned for age.
func (r *RetentionRepo) DeleteStaleOutposts(ctx context.Context, age time.Duration) (int64, error) {
	return r.deleteOlder(ctx, `DELETE FROM outposts WHERE last_scanned < $1`, age)
}

// DeleteStaleOutpostDetails removes detail rows not scanned for age.
func (r *RetentionRepo) DeleteStaleOutpostDetails(ctx context.Context, age time.Duration) (int64, error) {
	return r.deleteOlder(ctx, `DELETE FROM outpost_details WHERE last_scanned < $1`, age)
}

// DeleteFinishedEvents removes events that ended more than age ago.
func (r *RetentionRepo) DeleteFinishedEvents(ctx context.Context, age time.Duration) (int64, error) {
	return r.deleteOlder(ctx, `DELETE FROM outpost_events WHERE end_at < $1`, age)
}

// DeleteStaleLandmarks removes landmarks not updated for age.
func (r *RetentionRepo) DeleteStaleLandmarks(ctx context.Context, age time.Duration) (int64, error) {
	return r.deleteOlder(ctx, `DELETE FROM landmarks WHERE last_updated < $1`, age)
}

// DeleteStaleDens removes dens with no detection of either kind within age.
func (r *RetentionRepo) DeleteStaleDens(ctx context.Context, age time.Duration) (int64, error) {
	return r.deleteOlder(ctx, `DELETE FROM dens WHERE last_scanned < $1 AND last_non_scanned < $1`, age)
}

// DeleteStaleWeather removes weather cells not refreshed within age. Weather
// only changes on the hour, so anything older than the refresh window is
// dead data.
func (r *RetentionRepo) DeleteStaleWeather(ctx context.Context, age time.Duration) (int64, error) {
	return r.deleteOlder(ctx, `DELETE FROM weather_cells WHERE last_updated < $1`, age)
}

func (r *RetentionRepo) deleteOlder(ctx context.Context, query string, age time.Duration) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, query, domain.Now().UTC().Add(-age))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
