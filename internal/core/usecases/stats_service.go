package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aritzberg/wildsight/internal/core/domain"
	"github.com/aritzberg/wildsight/internal/core/ports"
)

// StatsService serves aggregate sighting statistics with read-through
// caching. Stats queries scan whole tables, so even a short TTL takes real
// load off the datastore.
type StatsService struct {
	sightings ports.SightingRepository
	cache     ports.CacheService
}

// NewStatsService creates a new StatsService.
func NewStatsService(sightings ports.SightingRepository, cache ports.CacheService) *StatsService {
	return &StatsService{sightings: sightings, cache: cache}
}

// SpeciesCounts returns per-species sighting counts over the last hours.
// Zero hours counts everything.
func (s *StatsService) SpeciesCounts(ctx context.Context, hours int) (*domain.SpeciesCounts, error) {
	if hours < 0 {
		hours = 0
	}

	cacheKey := fmt.Sprintf("stats:counts:%d", hours)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var counts domain.SpeciesCounts
			if err := json.Unmarshal(data, &counts); err == nil {
				return &counts, nil
			}
		}
	}

	counts, err := s.sightings.CountBySpecies(ctx, time.Duration(hours)*time.Hour)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(counts); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}
	return counts, nil
}

// Seen returns per-(species, variant) counts with the latest expiry over the
// last hours. Zero hours covers everything.
func (s *StatsService) Seen(ctx context.Context, hours int) (*domain.SeenSummary, error) {
	if hours < 0 {
		hours = 0
	}

	cacheKey := fmt.Sprintf("stats:seen:%d", hours)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var seen domain.SeenSummary
			if err := json.Unmarshal(data, &seen); err == nil {
				return &seen, nil
			}
		}
	}

	seen, err := s.sightings.SeenSince(ctx, time.Duration(hours)*time.Hour)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(seen); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}
	return seen, nil
}

// Appearances returns per-den aggregates for one species. Variant is
// optional.
func (s *StatsService) Appearances(ctx context.Context, speciesID int, variant *int, hours int) ([]domain.Appearance, error) {
	if speciesID <= 0 {
		return nil, fmt.Errorf("species id must be positive")
	}
	if hours < 0 {
		hours = 0
	}
	return s.sightings.Appearances(ctx, speciesID, variant, time.Duration(hours)*time.Hour)
}

// AppearanceTimes returns the expiry instants of one species at one den,
// ascending.
func (s *StatsService) AppearanceTimes(ctx context.Context, speciesID int, denID int64, variant *int, hours int) ([]time.Time, error) {
	if speciesID <= 0 {
		return nil, fmt.Errorf("species id must be positive")
	}
	return s.sightings.AppearanceTimes(ctx, speciesID, denID, variant, time.Duration(hours)*time.Hour)
}
