package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/aritzberg/wildsight/internal/core/domain"
)

// parseViewport reads the differential-sync query parameters shared by every
// map endpoint. The current box is swLat/swLon/neLat/neLon, the previously
// synced box oSwLat/oSwLon/oNeLat/oNeLon, and since the client's last sync
// in epoch milliseconds. All three groups are optional; the combination
// picks the sync mode.
func parseViewport(c *fiber.Ctx) (domain.Viewport, error) {
	var v domain.Viewport
	if raw := c.Query("since"); raw != "" {
		since, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || since < 0 {
			return v, fiber.NewError(fiber.StatusBadRequest, "since must be a non-negative epoch-millisecond timestamp")
		}
		v.Since = since
	}

	b, ok, err := parseBox(c, "swLat", "swLon", "neLat", "neLon")
	if err != nil {
		return v, err
	}
	if ok {
		v.Bounds = b
	}

	p, ok, err := parseBox(c, "oSwLat", "oSwLon", "oNeLat", "oNeLon")
	if err != nil {
		return v, err
	}
	if ok {
		v.Prev = p
	}

	return v, nil
}

// parseBox reads one corner pair. Supplying some but not all four corners is
// a client error; supplying none is simply "no box".
func parseBox(c *fiber.Ctx, swLat, swLon, neLat, neLon string) (*domain.Bounds, bool, error) {
	raw := [4]string{c.Query(swLat), c.Query(swLon), c.Query(neLat), c.Query(neLon)}

	present := 0
	for _, r := range raw {
		if r != "" {
			present++
		}
	}
	if present == 0 {
		return nil, false, nil
	}
	if present != 4 {
		return nil, false, fiber.NewError(fiber.StatusBadRequest,
			"all four corners are required: "+swLat+", "+swLon+", "+neLat+", "+neLon)
	}

	var vals [4]float64
	for i, r := range raw {
		f, err := strconv.ParseFloat(r, 64)
		if err != nil {
			return nil, false, fiber.NewError(fiber.StatusBadRequest, "invalid coordinate: "+r)
		}
		vals[i] = f
	}

	return &domain.Bounds{
		MinLat: vals[0], MinLon: vals[1],
		MaxLat: vals[2], MaxLon: vals[3],
	}, true, nil
}

// parseIDList splits a comma-separated list of integer IDs.
func parseIDList(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id: "+part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
