package usecases

import (
	"context"

	"github.com/aritzberg/wildsight/internal/core/domain"
	"github.com/aritzberg/wildsight/internal/core/ports"
)

// Tolerance applied to every weather viewport before containment tests.
// Cells are reported by a sparse grid and a cell whose center sits just
// outside the pixel-visible viewport can still cover part of it.
const (
	weatherLatDelta = 0.15
	weatherLonDelta = 0.4
)

// WeatherService answers viewport queries for weather cells.
type WeatherService struct {
	weather ports.WeatherRepository
}

// NewWeatherService creates a new WeatherService.
func NewWeatherService(weather ports.WeatherRepository) *WeatherService {
	return &WeatherService{weather: weather}
}

// InView returns weather cells for the viewport, keyed by cell id. Both the
// current and the previous box are expanded by the grid tolerance before any
// mode's containment test.
func (s *WeatherService) InView(ctx context.Context, v domain.Viewport) (map[string]domain.WeatherCell, error) {
	rows, err := s.weather.FindInView(ctx, v.Expanded(weatherLatDelta, weatherLonDelta))
	if err != nil {
		return nil, err
	}

	out := make(map[string]domain.WeatherCell, len(rows))
	for _, w := range rows {
		out[w.CellID] = w
	}
	return out, nil
}
