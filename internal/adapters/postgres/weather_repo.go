package postgres

import (
	"context"

	"github.com/aritzberg/wildsight/internal/core/domain"
)

// WeatherRepo implements ports.WeatherRepository with pgx.
type WeatherRepo struct {
	db *DB
}

// NewWeatherRepo creates a new WeatherRepo.
func NewWeatherRepo(db *DB) *WeatherRepo {
	return &WeatherRepo{db: db}
}

// FindInView returns weather cells under the viewport's sync mode. The
// caller is expected to have expanded the viewport by the grid tolerance
// already; the repository applies the shared filter verbatim.
func (r *WeatherRepo) FindInView(ctx context.Context, v domain.Viewport) ([]domain.WeatherCell, error) {
	b := &queryBuilder{}

	applyViewport(b, v, viewportSpec{
		latCol:   "latitude",
		lonCol:   "longitude",
		timeCond: colAfter("last_updated"),
	})

	rows, err := r.db.Pool.Query(ctx, `
		SELECT cell_id, latitude, longitude, condition, severity, world_time, last_updated
		FROM weather_cells`+b.whereClause(), b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cells []domain.WeatherCell
	for rows.Next() {
		var w domain.WeatherCell
		if err := rows.Scan(&w.CellID, &w.Location.Lat, &w.Location.Lon,
			&w.Condition, &w.Severity, &w.WorldTime, &w.LastUpdated); err != nil {
			return nil, err
		}
		cells = append(cells, w)
	}
	return cells, rows.Err()
}
