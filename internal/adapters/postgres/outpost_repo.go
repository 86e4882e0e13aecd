package postgres

import (
	"context"
	"time"

	"github.com/aritzberg/wildsight/internal/core/domain"
)

// OutpostRepo implements ports.OutpostRepository with pgx.
type OutpostRepo struct {
	db *DB
}

// NewOutpostRepo creates a new OutpostRepo.
func NewOutpostRepo(db *DB) *OutpostRepo {
	return &OutpostRepo{db: db}
}

// FindInView returns outposts under the viewport's sync mode. Detail rows
// are flattened into the outpost record; with withEvents an unexpired event
// is joined in, independent of the sync mode. A missing detail or event row
// degrades to null fields.
func (r *OutpostRepo) FindInView(ctx context.Context, v domain.Viewport, withEvents bool) ([]domain.Outpost, error) {
	b := &queryBuilder{}

	query := `SELECT o.id, o.faction_id, o.guard_species_id, o.slots_available, o.enabled,
		o.latitude, o.longitude, o.total_power, o.in_battle,
		o.gender, o.variant, o.costume, o.weather_boost, o.shiny, o.ex_eligible,
		o.last_modified, o.last_scanned,
		d.name, d.image_url`
	if withEvents {
		query += `,
		e.outpost_id, e.level, e.spawn_at, e.start_at, e.end_at,
		e.species_id, e.power, e.move_1, e.move_2,
		e.gender, e.variant, e.costume, e.exclusive, e.last_scanned`
	}
	query += `
	FROM outposts o
	LEFT JOIN outpost_details d ON d.outpost_id = o.id`
	if withEvents {
		query += `
	LEFT JOIN outpost_events e ON e.outpost_id = o.id AND e.end_at > ` + b.bind(domain.Now().UTC())
	}

	applyViewport(b, v, viewportSpec{
		latCol:   "o.latitude",
		lonCol:   "o.longitude",
		timeCond: colAfter("o.last_scanned"),
	})

	rows, err := r.db.Pool.Query(ctx, query+b.whereClause(), b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outposts []domain.Outpost
	for rows.Next() {
		var op domain.Outpost
		dest := []any{
			&op.ID, &op.FactionID, &op.GuardSpeciesID, &op.SlotsAvailable, &op.Enabled,
			&op.Location.Lat, &op.Location.Lon, &op.TotalPower, &op.InBattle,
			&op.Gender, &op.Variant, &op.Costume, &op.WeatherBoost, &op.Shiny, &op.ExEligible,
			&op.LastModified, &op.LastScanned,
			&op.Name, &op.ImageURL,
		}
		var (
			evID                     *string
			evLevel                  *int
			evSpawn, evStart, evEnd  *time.Time
			evSpecies, evPower       *int
			evMove1, evMove2         *int
			evGender, evVariant      *int
			evCostume                *int
			evExclusive              *bool
			evLastScanned            *time.Time
		)
		if withEvents {
			dest = append(dest,
				&evID, &evLevel, &evSpawn, &evStart, &evEnd,
				&evSpecies, &evPower, &evMove1, &evMove2,
				&evGender, &evVariant, &evCostume, &evExclusive, &evLastScanned,
			)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if evID != nil {
			op.Event = &domain.OutpostEvent{
				OutpostID:   *evID,
				Level:       deref(evLevel),
				SpawnAt:     deref(evSpawn),
				StartAt:     deref(evStart),
				EndAt:       deref(evEnd),
				SpeciesID:   evSpecies,
				Power:       evPower,
				Move1:       evMove1,
				Move2:       evMove2,
				Gender:      evGender,
				Variant:     evVariant,
				Costume:     evCostume,
				Exclusive:   evExclusive,
				LastScanned: deref(evLastScanned),
			}
		}
		outposts = append(outposts, op)
	}
	return outposts, rows.Err()
}
