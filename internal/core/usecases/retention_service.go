package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/aritzberg/wildsight/internal/core/domain"
	"github.com/aritzberg/wildsight/internal/core/ports"
)

// RetentionPolicy holds the age thresholds for the full retention pass. A
// zero age disables that delete.
type RetentionPolicy struct {
	SightingAge time.Duration
	FortAge     time.Duration // outposts, details, events, landmarks
	DenAge      time.Duration
	WeatherAge  time.Duration
}

// RetentionService removes aged-out rows from the datastore. It runs outside
// the query path and shares no state with it beyond the datastore itself;
// queries tolerate rows disappearing between steps.
type RetentionService struct {
	repo ports.RetentionRepository
	pub  ports.EventPublisher
	pol  RetentionPolicy
}

// NewRetentionService creates a new RetentionService. pub may be nil; the
// purge summary is then simply not published.
func NewRetentionService(repo ports.RetentionRepository, pub ports.EventPublisher, pol RetentionPolicy) *RetentionService {
	return &RetentionService{repo: repo, pub: pub, pol: pol}
}

// RegularPass clears the lure state of landmarks whose lure has expired.
func (s *RetentionService) RegularPass(ctx context.Context) error {
	start := time.Now()
	rows, err := s.repo.ClearExpiredLures(ctx)
	if err != nil {
		return err
	}
	slog.Debug("regular retention pass completed",
		"cleared_lures", rows, "took", time.Since(start).String())
	return nil
}

// FullPass deletes aged-out rows per the policy and publishes a purge
// summary. Individual deletes are independent; the first failure aborts the
// pass and propagates.
func (s *RetentionService) FullPass(ctx context.Context) (*domain.PurgeSummary, error) {
	summary := &domain.PurgeSummary{Deleted: make(map[string]int64)}

	steps := []struct {
		table string
		age   time.Duration
		fn    func(context.Context, time.Duration) (int64, error)
	}{
		{"sightings", s.pol.SightingAge, s.repo.DeleteExpiredSightings},
		{"outposts", s.pol.FortAge, s.repo.DeleteStaleOutposts},
		{"outpost_details", s.pol.FortAge, s.repo.DeleteStaleOutpostDetails},
		{"outpost_events", s.pol.FortAge, s.repo.DeleteFinishedEvents},
		{"landmarks", s.pol.FortAge, s.repo.DeleteStaleLandmarks},
		{"dens", s.pol.DenAge, s.repo.DeleteStaleDens},
		{"weather_cells", s.pol.WeatherAge, s.repo.DeleteStaleWeather},
	}

	for _, step := range steps {
		if step.age <= 0 {
			continue
		}
		rows, err := step.fn(ctx, step.age)
		if err != nil {
			return nil, err
		}
		summary.Deleted[step.table] = rows
		slog.Debug("retention delete completed", "table", step.table, "rows", rows)
	}

	summary.CompletedAt = domain.Now().UTC()

	if s.pub != nil {
		if err := s.pub.PublishPurgeSummary(ctx, summary); err != nil {
			slog.Warn("purge summary publish failed", "error", err)
		}
	}
	return summary, nil
}
