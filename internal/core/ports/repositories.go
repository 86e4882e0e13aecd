package ports

import (
	"context"
	"time"

	"github.com/aritzberg/wildsight/internal/core/domain"
)

// SightingRepository reads creature sightings.
type SightingRepository interface {
	// FindActive returns unexpired sightings matching the viewport's sync
	// mode and the filter.
	FindActive(ctx context.Context, v domain.Viewport, f domain.SightingFilter) ([]domain.Sighting, error)
	// CountBySpecies groups sightings per species over a trailing window.
	// A zero window counts everything.
	CountBySpecies(ctx context.Context, window time.Duration) (*domain.SpeciesCounts, error)
	// SeenSince groups sightings per (species, variant) over a trailing
	// window, with the latest expiry per group.
	SeenSince(ctx context.Context, window time.Duration) (*domain.SeenSummary, error)
	// Appearances aggregates sightings of one species per den.
	Appearances(ctx context.Context, speciesID int, variant *int, window time.Duration) ([]domain.Appearance, error)
	// AppearanceTimes lists expiry instants of one species at one den,
	// ascending.
	AppearanceTimes(ctx context.Context, speciesID int, denID int64, variant *int, window time.Duration) ([]time.Time, error)
}

// LandmarkRepository reads landmarks with their attached transient state.
type LandmarkRepository interface {
	FindInView(ctx context.Context, v domain.Viewport, f domain.LandmarkFilter) ([]domain.Landmark, error)
}

// OutpostRepository reads outposts, their details, and active events.
type OutpostRepository interface {
	FindInView(ctx context.Context, v domain.Viewport, withEvents bool) ([]domain.Outpost, error)
}

// WeatherRepository reads weather grid cells.
type WeatherRepository interface {
	FindInView(ctx context.Context, v domain.Viewport) ([]domain.WeatherCell, error)
}

// DenRepository reads spawn points.
type DenRepository interface {
	FindInView(ctx context.Context, v domain.Viewport) ([]domain.Den, error)
}

// ScanCellRepository reads scan coverage cells.
type ScanCellRepository interface {
	FindRecent(ctx context.Context, v domain.Viewport) ([]domain.ScanCell, error)
}

// RetentionRepository deletes aged-out rows. Every method returns the number
// of rows removed.
type RetentionRepository interface {
	ClearExpiredLures(ctx context.Context) (int64, error)
	DeleteExpiredSightings(ctx context.Context, age time.Duration) (int64, error)
	DeleteStaleOutposts(ctx context.Context, age time.Duration) (int64, error)
	DeleteStaleOutpostDetails(ctx context.Context, age time.Duration) (int64, error)
	DeleteFinishedEvents(ctx context.Context, age time.Duration) (int64, error)
	DeleteStaleLandmarks(ctx context.Context, age time.Duration) (int64, error)
	DeleteStaleDens(ctx context.Context, age time.Duration) (int64, error)
	DeleteStaleWeather(ctx context.Context, age time.Duration) (int64, error)
}
