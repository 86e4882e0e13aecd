package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/aritzberg/wildsight/internal/adapters/http"
	"github.com/aritzberg/wildsight/internal/core/domain"
	"github.com/aritzberg/wildsight/internal/core/usecases"
)

// ---- Mock repositories ----

type mockSightingRepo struct {
	findActiveFn func(ctx context.Context, v domain.Viewport, f domain.SightingFilter) ([]domain.Sighting, error)
	countFn      func(ctx context.Context, window time.Duration) (*domain.SpeciesCounts, error)
}

func (m *mockSightingRepo) FindActive(ctx context.Context, v domain.Viewport, f domain.SightingFilter) ([]domain.Sighting, error) {
	if m.findActiveFn != nil {
		return m.findActiveFn(ctx, v, f)
	}
	return nil, nil
}
func (m *mockSightingRepo) CountBySpecies(ctx context.Context, window time.Duration) (*domain.SpeciesCounts, error) {
	if m.countFn != nil {
		return m.countFn(ctx, window)
	}
	return &domain.SpeciesCounts{}, nil
}
func (m *mockSightingRepo) SeenSince(ctx context.Context, window time.Duration) (*domain.SeenSummary, error) {
	return &domain.SeenSummary{}, nil
}
func (m *mockSightingRepo) Appearances(ctx context.Context, speciesID int, variant *int, window time.Duration) ([]domain.Appearance, error) {
	return nil, nil
}
func (m *mockSightingRepo) AppearanceTimes(ctx context.Context, speciesID int, denID int64, variant *int, window time.Duration) ([]time.Time, error) {
	return nil, nil
}

type mockLandmarkRepo struct {
	findInViewFn func(ctx context.Context, v domain.Viewport, f domain.LandmarkFilter) ([]domain.Landmark, error)
}

func (m *mockLandmarkRepo) FindInView(ctx context.Context, v domain.Viewport, f domain.LandmarkFilter) ([]domain.Landmark, error) {
	if m.findInViewFn != nil {
		return m.findInViewFn(ctx, v, f)
	}
	return nil, nil
}

type mockOutpostRepo struct {
	findInViewFn func(ctx context.Context, v domain.Viewport, withEvents bool) ([]domain.Outpost, error)
}

func (m *mockOutpostRepo) FindInView(ctx context.Context, v domain.Viewport, withEvents bool) ([]domain.Outpost, error) {
	if m.findInViewFn != nil {
		return m.findInViewFn(ctx, v, withEvents)
	}
	return nil, nil
}

type mockWeatherRepo struct{}

func (m *mockWeatherRepo) FindInView(ctx context.Context, v domain.Viewport) ([]domain.WeatherCell, error) {
	return nil, nil
}

type mockDenRepo struct{}

func (m *mockDenRepo) FindInView(ctx context.Context, v domain.Viewport) ([]domain.Den, error) {
	return nil, nil
}

type mockScanRepo struct{}

func (m *mockScanRepo) FindRecent(ctx context.Context, v domain.Viewport) ([]domain.ScanCell, error) {
	return nil, nil
}

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	d := &handler.Dependencies{
		Sightings: usecases.NewSightingService(&mockSightingRepo{}),
		Landmarks: usecases.NewLandmarkService(&mockLandmarkRepo{}),
		Outposts:  usecases.NewOutpostService(&mockOutpostRepo{}),
		Weather:   usecases.NewWeatherService(&mockWeatherRepo{}),
		Dens:      usecases.NewDenService(&mockDenRepo{}),
		Scans:     usecases.NewScanService(&mockScanRepo{}),
		Stats:     usecases.NewStatsService(&mockSightingRepo{}, nil),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// ---- Map handler tests ----

func TestMapSightings_FullViewport(t *testing.T) {
	var seen domain.Viewport
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Sightings = usecases.NewSightingService(&mockSightingRepo{
			findActiveFn: func(ctx context.Context, v domain.Viewport, f domain.SightingFilter) ([]domain.Sighting, error) {
				seen = v
				return []domain.Sighting{{ID: 1, SpeciesID: 25}}, nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/map/sightings?swLat=10&swLon=20&neLat=11&neLon=21", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if seen.Mode() != domain.ModeFull {
		t.Errorf("expected full mode, got %v", seen.Mode())
	}
	if seen.Bounds == nil || seen.Bounds.MinLat != 10 || seen.Bounds.MaxLon != 21 {
		t.Errorf("unexpected bounds: %+v", seen.Bounds)
	}

	var result struct {
		Sightings map[string]domain.Sighting `json:"sightings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if len(result.Sightings) != 1 {
		t.Errorf("expected 1 sighting, got %d", len(result.Sightings))
	}
}

func TestMapSightings_IncrementalBeatsPanned(t *testing.T) {
	var seen domain.Viewport
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Sightings = usecases.NewSightingService(&mockSightingRepo{
			findActiveFn: func(ctx context.Context, v domain.Viewport, f domain.SightingFilter) ([]domain.Sighting, error) {
				seen = v
				return nil, nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET",
		"/v1/map/sightings?swLat=10&swLon=20&neLat=11&neLon=21"+
			"&oSwLat=10&oSwLon=20.5&oNeLat=11&oNeLon=21.5&since=1717243800000", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if seen.Mode() != domain.ModeIncremental {
		t.Errorf("expected incremental mode, got %v", seen.Mode())
	}
	if seen.Since != 1717243800000 {
		t.Errorf("expected since to parse, got %d", seen.Since)
	}
}

func TestMapSightings_PartialBoxRejected(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/map/sightings?swLat=10&swLon=20&neLat=11", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Errorf("expected 400 for a partial box, got %d", resp.StatusCode)
	}
}

func TestMapSightings_BadCoordinateRejected(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/map/sightings?swLat=abc&swLon=20&neLat=11&neLon=21", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Errorf("expected 400 for a bad coordinate, got %d", resp.StatusCode)
	}
}

func TestMapSightings_SpeciesFilterParsed(t *testing.T) {
	var seen domain.SightingFilter
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Sightings = usecases.NewSightingService(&mockSightingRepo{
			findActiveFn: func(ctx context.Context, v domain.Viewport, f domain.SightingFilter) ([]domain.Sighting, error) {
				seen = f
				return nil, nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/map/sightings?species=25,133&verified=true", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(seen.IncludeSpecies) != 2 || seen.IncludeSpecies[0] != 25 {
		t.Errorf("unexpected include list: %v", seen.IncludeSpecies)
	}
	if !seen.VerifiedDespawn {
		t.Error("expected verified despawn flag to pass through")
	}
}

func TestMapLandmarks_FilterFlags(t *testing.T) {
	var seen domain.LandmarkFilter
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Landmarks = usecases.NewLandmarkService(&mockLandmarkRepo{
			findInViewFn: func(ctx context.Context, v domain.Viewport, f domain.LandmarkFilter) ([]domain.Landmark, error) {
				seen = f
				return nil, nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/map/landmarks?quiet=false&tasks=false", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if seen.AllowQuiet || seen.Tasks {
		t.Errorf("expected quiet and tasks off: %+v", seen)
	}
	if !seen.Incidents || !seen.Lures {
		t.Errorf("incidents and lures default on: %+v", seen)
	}
}

func TestMapOutposts_EventsFlag(t *testing.T) {
	var seenEvents bool
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Outposts = usecases.NewOutpostService(&mockOutpostRepo{
			findInViewFn: func(ctx context.Context, v domain.Viewport, withEvents bool) ([]domain.Outpost, error) {
				seenEvents = withEvents
				return nil, nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/map/outposts?events=false", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if seenEvents {
		t.Error("events=false should disable the event join")
	}
}

// ---- Nearby ----

func TestNearbySightings_TrimsByDistance(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Sightings = usecases.NewSightingService(&mockSightingRepo{
			findActiveFn: func(ctx context.Context, v domain.Viewport, f domain.SightingFilter) ([]domain.Sighting, error) {
				return []domain.Sighting{
					{ID: 1, Location: domain.GeoPoint{Lat: 43.2630, Lon: -2.9350}}, // at center
					{ID: 2, Location: domain.GeoPoint{Lat: 43.2720, Lon: -2.9350}}, // ~1km north
				}, nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/map/sightings/nearby?lat=43.2630&lon=-2.9350&radius=500", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Count int `json:"count"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Count != 1 {
		t.Errorf("expected the corner sighting trimmed, got count %d", result.Count)
	}
}

func TestNearbySightings_MissingPointRejected(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/map/sightings/nearby?radius=500", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

// ---- Stats ----

func TestSpeciesCounts(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Stats = usecases.NewStatsService(&mockSightingRepo{
			countFn: func(ctx context.Context, window time.Duration) (*domain.SpeciesCounts, error) {
				if window != 24*time.Hour {
					t.Errorf("expected 24h window, got %v", window)
				}
				return &domain.SpeciesCounts{
					Species: []domain.SpeciesCount{{SpeciesID: 25, Count: 10}},
					Total:   10,
				}, nil
			},
		}, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/stats/species?hours=24", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var counts domain.SpeciesCounts
	json.NewDecoder(resp.Body).Decode(&counts)
	if counts.Total != 10 {
		t.Errorf("expected total 10, got %d", counts.Total)
	}
}

func TestAppearances_BadSpecies(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/stats/species/0/appearances", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

// ---- Health ----

func TestHealth(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
