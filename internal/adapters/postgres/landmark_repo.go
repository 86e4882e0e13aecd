package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/aritzberg/wildsight/internal/core/domain"
)

// LandmarkRepo implements ports.LandmarkRepository with pgx.
type LandmarkRepo struct {
	db *DB
}

// NewLandmarkRepo creates a new LandmarkRepo.
func NewLandmarkRepo(db *DB) *LandmarkRepo {
	return &LandmarkRepo{db: db}
}

// FindInView returns landmarks under the viewport's sync mode, with today's
// field task joined in when the filter asks for tasks. The join and the
// "only interesting" suppression are expressed in one read so a concurrent
// retention delete can at worst null a field, never break the query.
func (r *LandmarkRepo) FindInView(ctx context.Context, v domain.Viewport, f domain.LandmarkFilter) ([]domain.Landmark, error) {
	b := &queryBuilder{}
	now := domain.Now()

	query := `SELECT l.id, l.name, l.image_url, l.latitude, l.longitude, l.last_updated,
		l.lure_expiration, l.lure_modifier,
		l.incident_start, l.incident_expiration, l.incident_type`
	if f.Tasks {
		query += `,
		t.landmark_id, t.task_timestamp, t.text, t.type, t.reward_type,
		t.item_id, t.item_amount, t.species_id, t.variant_id, t.costume_id, t.dust`
	}
	query += " FROM landmarks l"
	if f.Tasks {
		// Tasks reset at local midnight; older rows are yesterday's tasks.
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		query += " LEFT JOIN landmark_tasks t ON l.id = t.landmark_id AND t.task_timestamp >= " + b.bind(midnight.Unix())
	}

	if !f.AllowQuiet {
		var terms []string
		if f.Tasks {
			terms = append(terms, "t.landmark_id IS NOT NULL")
		}
		if f.Incidents {
			terms = append(terms, "l.incident_expiration > "+b.bind(now.UTC()))
		}
		if f.Lures {
			terms = append(terms, "l.lure_expiration > "+b.bind(now.UTC()))
		}
		if len(terms) > 0 {
			b.where("(" + strings.Join(terms, " OR ") + ")")
		}
	}

	applyViewport(b, v, viewportSpec{
		latCol:   "l.latitude",
		lonCol:   "l.longitude",
		timeCond: colAfter("l.last_updated"),
	})

	rows, err := r.db.Pool.Query(ctx, query+b.whereClause(), b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var landmarks []domain.Landmark
	for rows.Next() {
		var lm domain.Landmark
		dest := []any{
			&lm.ID, &lm.Name, &lm.ImageURL, &lm.Location.Lat, &lm.Location.Lon, &lm.LastUpdated,
			&lm.LureExpiration, &lm.LureModifier,
			&lm.IncidentStart, &lm.IncidentExpiration, &lm.IncidentType,
		}
		var (
			taskID        *string
			taskTimestamp *int64
			taskText      *string
			taskType      *int
			rewardType    *int
			itemID        *int
			itemAmount    *int
			speciesID     *int
			variantID     *int
			costumeID     *int
			dust          *int
		)
		if f.Tasks {
			dest = append(dest,
				&taskID, &taskTimestamp, &taskText, &taskType, &rewardType,
				&itemID, &itemAmount, &speciesID, &variantID, &costumeID, &dust,
			)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if taskID != nil {
			lm.Task = &domain.LandmarkTask{
				LandmarkID: *taskID,
				Timestamp:  *taskTimestamp,
				Text:       deref(taskText),
				Type:       deref(taskType),
				RewardType: deref(rewardType),
				ItemID:     deref(itemID),
				ItemAmount: deref(itemAmount),
				SpeciesID:  deref(speciesID),
				VariantID:  deref(variantID),
				CostumeID:  deref(costumeID),
				Dust:       deref(dust),
			}
		}
		landmarks = append(landmarks, lm)
	}
	return landmarks, rows.Err()
}

// deref returns the pointed-to value or the zero value for nil.
func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
