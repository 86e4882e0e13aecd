package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aritzberg/wildsight/internal/core/domain"
	"github.com/aritzberg/wildsight/internal/pkg/geospatial"
	"github.com/aritzberg/wildsight/internal/pkg/metrics"
)

// MapSightingsHandler returns active sightings for the client's viewport.
// Query: viewport params plus species/exclude (comma-separated IDs) and
// verified=true to resolve despawn windows from den timing data.
func MapSightingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := parseViewport(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		include, err := parseIDList(c.Query("species"))
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		exclude, err := parseIDList(c.Query("exclude"))
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		f := domain.SightingFilter{
			IncludeSpecies:  include,
			ExcludeSpecies:  exclude,
			VerifiedDespawn: c.QueryBool("verified", false),
		}

		start := time.Now()
		sightings, err := deps.Sightings.Active(c.Context(), v, f)
		if err != nil {
			return errInternal(c, err.Error())
		}
		metrics.ObserveMapQuery("sighting", v.Mode().String(), time.Since(start), len(sightings))

		return c.JSON(fiber.Map{"sightings": sightings})
	}
}

// MapLandmarksHandler returns landmarks for the viewport. quiet=true keeps
// landmarks with nothing active; tasks/incidents/lures toggle which attached
// state is included.
func MapLandmarksHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := parseViewport(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		f := domain.LandmarkFilter{
			AllowQuiet: c.QueryBool("quiet", true),
			Tasks:      c.QueryBool("tasks", true),
			Incidents:  c.QueryBool("incidents", true),
			Lures:      c.QueryBool("lures", true),
		}

		start := time.Now()
		landmarks, err := deps.Landmarks.InView(c.Context(), v, f)
		if err != nil {
			return errInternal(c, err.Error())
		}
		metrics.ObserveMapQuery("landmark", v.Mode().String(), time.Since(start), len(landmarks))

		return c.JSON(fiber.Map{"landmarks": landmarks})
	}
}

// MapOutpostsHandler returns outposts for the viewport. events=true joins in
// each outpost's unexpired event.
func MapOutpostsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := parseViewport(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		start := time.Now()
		outposts, err := deps.Outposts.InView(c.Context(), v, c.QueryBool("events", true))
		if err != nil {
			return errInternal(c, err.Error())
		}
		metrics.ObserveMapQuery("outpost", v.Mode().String(), time.Since(start), len(outposts))

		return c.JSON(fiber.Map{"outposts": outposts})
	}
}

// MapWeatherHandler returns weather cells overlapping the viewport.
func MapWeatherHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := parseViewport(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		start := time.Now()
		cells, err := deps.Weather.InView(c.Context(), v)
		if err != nil {
			return errInternal(c, err.Error())
		}
		metrics.ObserveMapQuery("weather", v.Mode().String(), time.Since(start), len(cells))

		return c.JSON(fiber.Map{"weather": cells})
	}
}

// MapDensHandler returns dens for the viewport with despawn timing resolved
// where the den's observations allow it.
func MapDensHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := parseViewport(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		start := time.Now()
		dens, err := deps.Dens.InView(c.Context(), v)
		if err != nil {
			return errInternal(c, err.Error())
		}
		metrics.ObserveMapQuery("den", v.Mode().String(), time.Since(start), len(dens))

		return c.JSON(fiber.Map{"dens": dens})
	}
}

// MapScansHandler returns recently scanned coverage cells for the viewport.
func MapScansHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := parseViewport(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		start := time.Now()
		cells, err := deps.Scans.Recent(c.Context(), v)
		if err != nil {
			return errInternal(c, err.Error())
		}
		metrics.ObserveMapQuery("scan", v.Mode().String(), time.Since(start), len(cells))

		return c.JSON(fiber.Map{"scans": cells})
	}
}

// NearbySightingsHandler returns active sightings within a radius of a
// point. The radius is turned into a bounding box for the query, then
// trimmed by great-circle distance.
func NearbySightingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius", 1000)

		if lat == 0 || lon == 0 {
			return errBadRequest(c, "lat and lon are required")
		}
		if radius <= 0 || radius > 50000 {
			return errBadRequest(c, "radius must be between 1 and 50000 meters")
		}

		minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(lat, lon, radius)
		v := domain.Viewport{Bounds: &domain.Bounds{
			MinLat: minLat, MinLon: minLon,
			MaxLat: maxLat, MaxLon: maxLon,
		}}

		sightings, err := deps.Sightings.Active(c.Context(), v, domain.SightingFilter{})
		if err != nil {
			return errInternal(c, err.Error())
		}

		type nearbySighting struct {
			domain.Sighting
			Distance float64 `json:"distance"`
		}

		var out []nearbySighting
		for _, s := range sightings {
			d := geospatial.Haversine(lat, lon, s.Location.Lat, s.Location.Lon)
			if d <= radius {
				out = append(out, nearbySighting{Sighting: s, Distance: d})
			}
		}

		return c.JSON(fiber.Map{"sightings": out, "count": len(out)})
	}
}

// SpeciesCountsHandler returns per-species sighting totals over a trailing
// window of hours (0 = all time).
func SpeciesCountsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hours := c.QueryInt("hours", 0)
		if hours < 0 {
			return errBadRequest(c, "hours must be non-negative")
		}

		counts, err := deps.Stats.SpeciesCounts(c.Context(), hours)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(counts)
	}
}

// SeenHandler returns per-(species, variant) sighting summaries with the
// most recent expiry in each group.
func SeenHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hours := c.QueryInt("hours", 0)
		if hours < 0 {
			return errBadRequest(c, "hours must be non-negative")
		}

		summary, err := deps.Stats.Seen(c.Context(), hours)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(summary)
	}
}

// AppearancesHandler returns per-den appearance aggregates for one species.
func AppearancesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		speciesID, err := c.ParamsInt("species")
		if err != nil || speciesID <= 0 {
			return errBadRequest(c, "species id must be a positive integer")
		}

		var variant *int
		if raw := c.Query("variant"); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				return errBadRequest(c, "invalid variant: "+raw)
			}
			variant = &id
		}

		hours := c.QueryInt("hours", 0)
		appearances, err := deps.Stats.Appearances(c.Context(), speciesID, variant, hours)
		if err != nil {
			return errInternal(c, err.Error())
		}

		return c.JSON(fiber.Map{"appearances": appearances})
	}
}

// AppearanceTimesHandler returns the expiry instants of one species at one
// den, oldest first.
func AppearanceTimesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		speciesID, err := c.ParamsInt("species")
		if err != nil || speciesID <= 0 {
			return errBadRequest(c, "species id must be a positive integer")
		}
		denID, err := strconv.ParseInt(c.Params("den"), 10, 64)
		if err != nil {
			return errBadRequest(c, "den id must be an integer")
		}

		var variant *int
		if raw := c.Query("variant"); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				return errBadRequest(c, "invalid variant: "+raw)
			}
			variant = &id
		}

		hours := c.QueryInt("hours", 0)
		times, err := deps.Stats.AppearanceTimes(c.Context(), speciesID, denID, variant, hours)
		if err != nil {
			return errInternal(c, err.Error())
		}

		return c.JSON(fiber.Map{"times": times})
	}
}

// StorageStatsHandler returns row counts from the map tables.
func StorageStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB == nil {
			return errInternal(c, "database not available")
		}

		var stats struct {
			Sightings int `json:"sightings"`
			Landmarks int `json:"landmarks"`
			Outposts  int `json:"outposts"`
			Dens      int `json:"dens"`
			Weather   int `json:"weather_cells"`
			ScanCells int `json:"scan_cells"`
		}

		row := deps.DB.Pool.QueryRow(c.Context(), `
			SELECT
				(SELECT count(*) FROM sightings),
				(SELECT count(*) FROM landmarks),
				(SELECT count(*) FROM outposts),
				(SELECT count(*) FROM dens),
				(SELECT count(*) FROM weather_cells),
				(SELECT count(*) FROM scan_cells)
		`)
		if err := row.Scan(&stats.Sightings, &stats.Landmarks, &stats.Outposts,
			&stats.Dens, &stats.Weather, &stats.ScanCells); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}
