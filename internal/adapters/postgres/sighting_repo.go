package postgres

import (
	"context"
	"time"

	"github.com/aritzberg/wildsight/internal/core/domain"
)

// SightingRepo implements ports.SightingRepository with pgx.
type SightingRepo struct {
	db *DB
}

// NewSightingRepo creates a new SightingRepo.
func NewSightingRepo(db *DB) *SightingRepo {
	return &SightingRepo{db: db}
}

const sightingColumns = `s.id, s.den_id, s.species_id, s.latitude, s.longitude, s.expires_at,
	s.attack_iv, s.defense_iv, s.stamina_iv, s.move_1, s.move_2,
	s.power, s.power_scalar, s.weight, s.height,
	s.gender, s.variant, s.costume, s.weather_boost, s.last_modified`

// FindActive returns unexpired sightings under the viewport's sync mode.
func (r *SightingRepo) FindActive(ctx context.Context, v domain.Viewport, f domain.SightingFilter) ([]domain.Sighting, error) {
	b := &queryBuilder{}
	now := domain.Now().UTC()

	if len(f.IncludeSpecies) > 0 {
		b.where("s.species_id = ANY(" + b.bind(f.IncludeSpecies) + ")")
	} else if len(f.ExcludeSpecies) > 0 {
		b.where("NOT s.species_id = ANY(" + b.bind(f.ExcludeSpecies) + ")")
	}

	applyViewport(b, v, viewportSpec{
		latCol:   "s.latitude",
		lonCol:   "s.longitude",
		timeCond: colAfter("s.last_modified"),
		liveCond: func(b *queryBuilder) string {
			return "s.expires_at > " + b.bind(now)
		},
		liveInIncremental: true,
	})

	query := "SELECT " + sightingColumns
	if f.VerifiedDespawn {
		query += ", d.end_min_sec"
	}
	query += " FROM sightings s"
	if f.VerifiedDespawn {
		query += " LEFT JOIN dens d ON s.den_id = d.id"
	}
	query += b.whereClause()

	rows, err := r.db.Pool.Query(ctx, query, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sightings []domain.Sighting
	for rows.Next() {
		var s domain.Sighting
		dest := []any{
			&s.ID, &s.DenID, &s.SpeciesID, &s.Location.Lat, &s.Location.Lon, &s.ExpiresAt,
			&s.AttackIV, &s.DefenseIV, &s.StaminaIV, &s.Move1, &s.Move2,
			&s.Power, &s.PowerScalar, &s.Weight, &s.Height,
			&s.Gender, &s.Variant, &s.Costume, &s.WeatherBoost, &s.LastModified,
		}
		if f.VerifiedDespawn {
			dest = append(dest, &s.VerifiedDespawnFragment)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		sightings = append(sightings, s)
	}
	return sightings, rows.Err()
}

// CountBySpecies groups sightings per species over a trailing window.
func (r *SightingRepo) CountBySpecies(ctx context.Context, window time.Duration) (*domain.SpeciesCounts, error) {
	b := &queryBuilder{}
	if window > 0 {
		b.where("expires_at > " + b.bind(domain.Now().UTC().Add(-window)))
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT species_id, count(*) FROM sightings`+b.whereClause()+`
		GROUP BY species_id
	`, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := &domain.SpeciesCounts{}
	for rows.Next() {
		var c domain.SpeciesCount
		if err := rows.Scan(&c.SpeciesID, &c.Count); err != nil {
			return nil, err
		}
		counts.Species = append(counts.Species, c)
		counts.Total += c.Count
	}
	return counts, rows.Err()
}

// SeenSince groups sightings per (species, variant) over a trailing window.
func (r *SightingRepo) SeenSince(ctx context.Context, window time.Duration) (*domain.SeenSummary, error) {
	b := &queryBuilder{}
	if window > 0 {
		b.where("expires_at > " + b.bind(domain.Now().UTC().Add(-window)))
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT species_id, COALESCE(variant, 0), count(*), max(expires_at)
		FROM sightings`+b.whereClause()+`
		GROUP BY species_id, COALESCE(variant, 0)
	`, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := &domain.SeenSummary{}
	for rows.Next() {
		var e domain.SeenEntry
		if err := rows.Scan(&e.SpeciesID, &e.Variant, &e.Count, &e.LastExpiry); err != nil {
			return nil, err
		}
		seen.Entries = append(seen.Entries, e)
		seen.Total += e.Count
	}
	return seen, rows.Err()
}

// Appearances aggregates sightings of one species per den.
func (r *SightingRepo) Appearances(ctx context.Context, speciesID int, variant *int, window time.Duration) ([]domain.Appearance, error) {
	b := &queryBuilder{}
	b.where("species_id = " + b.bind(speciesID))
	if variant != nil {
		b.where("COALESCE(variant, 0) = " + b.bind(*variant))
	}
	if window > 0 {
		b.where("expires_at > " + b.bind(domain.Now().UTC().Add(-window)))
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT latitude, longitude, species_id, COALESCE(variant, 0), den_id, count(*)
		FROM sightings`+b.whereClause()+`
		GROUP BY latitude, longitude, species_id, COALESCE(variant, 0), den_id
	`, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Appearance
	for rows.Next() {
		var a domain.Appearance
		if err := rows.Scan(&a.Location.Lat, &a.Location.Lon, &a.SpeciesID, &a.Variant, &a.DenID, &a.Count); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// AppearanceTimes lists expiry instants of one species at one den, ascending.
func (r *SightingRepo) AppearanceTimes(ctx context.Context, speciesID int, denID int64, variant *int, window time.Duration) ([]time.Time, error) {
	b := &queryBuilder{}
	b.where("species_id = " + b.bind(speciesID))
	b.where("den_id = " + b.bind(denID))
	if variant != nil {
		b.where("COALESCE(variant, 0) = " + b.bind(*variant))
	}
	if window > 0 {
		b.where("expires_at > " + b.bind(domain.Now().UTC().Add(-window)))
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT expires_at FROM sightings`+b.whereClause()+`
		ORDER BY expires_at
	`, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}
