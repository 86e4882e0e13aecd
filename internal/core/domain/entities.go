package domain

import (
	"time"
)

// Sighting is a live creature observation tied to a den. Rows are written by
// the scanner ingest pipeline and expire on their own; the query path only
// ever reads them.
type Sighting struct {
	ID           int64     `json:"id"`
	DenID        int64     `json:"den_id"`
	SpeciesID    int       `json:"species_id"`
	Location     GeoPoint  `json:"location"`
	ExpiresAt    time.Time `json:"expires_at"`
	AttackIV     *int      `json:"attack_iv"`
	DefenseIV    *int      `json:"defense_iv"`
	StaminaIV    *int      `json:"stamina_iv"`
	Move1        *int      `json:"move_1"`
	Move2        *int      `json:"move_2"`
	Power        *int      `json:"power"`
	PowerScalar  *float64  `json:"power_scalar"`
	Weight       *float64  `json:"weight"`
	Height       *float64  `json:"height"`
	Gender       *int      `json:"gender"`
	Variant      *int      `json:"variant"`
	Costume      *int      `json:"costume"`
	WeatherBoost *int      `json:"weather_boost"`
	LastModified *time.Time `json:"last_modified"`

	// endMinSec fragment joined in from the den subsystem; resolved into
	// VerifiedExpiresAt during projection and never emitted raw.
	VerifiedDespawnFragment *string    `json:"-"`
	VerifiedExpiresAt       *time.Time `json:"verified_expires_at,omitempty"` // computed
}

// Landmark is a fixed point of interest. Its attached state (field task,
// incident, lure) is transient and independently time-bounded.
type Landmark struct {
	ID                 string        `json:"id"`
	Name               *string       `json:"name"`
	ImageURL           *string       `json:"image_url"`
	Location           GeoPoint      `json:"location"`
	LastUpdated        *time.Time    `json:"last_updated"`
	LureExpiration     *time.Time    `json:"lure_expiration"`
	LureModifier       *int          `json:"lure_modifier"`
	IncidentStart      *time.Time    `json:"incident_start"`
	IncidentExpiration *time.Time    `json:"incident_expiration"`
	IncidentType       *int          `json:"incident_type"`
	Task               *LandmarkTask `json:"task"` // today's task, nil when none
}

// LandmarkTask is the daily field task attached to a landmark.
type LandmarkTask struct {
	LandmarkID string `json:"landmark_id"`
	Timestamp  int64  `json:"timestamp"`
	Text       string `json:"text"`
	Type       int    `json:"type"`
	RewardType int    `json:"reward_type"`
	ItemID     int    `json:"item_id"`
	ItemAmount int    `json:"item_amount"`
	SpeciesID  int    `json:"species_id"`
	VariantID  int    `json:"variant_id"`
	CostumeID  int    `json:"costume_id"`
	Dust       int    `json:"dust"`
}

// Outpost is a contested structure. Detail rows (name, image) live in a side
// table and are flattened into this struct; an unexpired event may be joined
// in.
type Outpost struct {
	ID             string     `json:"id"`
	FactionID      int        `json:"faction_id"`
	GuardSpeciesID int        `json:"guard_species_id"`
	SlotsAvailable int        `json:"slots_available"`
	Enabled        bool       `json:"enabled"`
	Location       GeoPoint   `json:"location"`
	TotalPower     int        `json:"total_power"`
	InBattle       bool       `json:"in_battle"`
	Gender         *int       `json:"gender"`
	Variant        *int       `json:"variant"`
	Costume        *int       `json:"costume"`
	WeatherBoost   *int       `json:"weather_boost"`
	Shiny          *bool      `json:"shiny"`
	ExEligible     bool       `json:"ex_eligible"`
	LastModified   time.Time  `json:"last_modified"`
	LastScanned    time.Time  `json:"last_scanned"`
	Name           *string    `json:"name"`      // flattened from details
	ImageURL       *string    `json:"image_url"` // flattened from details
	Event          *OutpostEvent `json:"event"`  // nil when none active
}

// OutpostEvent is a timed event hosted at an outpost.
type OutpostEvent struct {
	OutpostID   string     `json:"outpost_id"`
	Level       int        `json:"level"`
	SpawnAt     time.Time  `json:"spawn_at"`
	StartAt     time.Time  `json:"start_at"`
	EndAt       time.Time  `json:"end_at"`
	SpeciesID   *int       `json:"species_id"`
	Power       *int       `json:"power"`
	Move1       *int       `json:"move_1"`
	Move2       *int       `json:"move_2"`
	Gender      *int       `json:"gender"`
	Variant     *int       `json:"variant"`
	Costume     *int       `json:"costume"`
	Exclusive   *bool      `json:"exclusive"`
	LastScanned time.Time  `json:"last_scanned"`
}

// WeatherCell is one cell of the sparse weather grid. The stored point is
// the cell center, which may fall outside a viewport the cell still covers.
type WeatherCell struct {
	CellID      string     `json:"cell_id"`
	Location    GeoPoint   `json:"location"`
	Condition   *int       `json:"condition"`
	Severity    *int       `json:"severity"`
	WorldTime   *int       `json:"world_time"`
	LastUpdated *time.Time `json:"last_updated"`
}

// Den is a physical spawn point. EndMinSec is the lossy clock-face fragment
// ("MM:SS") recorded for the next occupant's disappearance; SpawnTime and
// DespawnTime are reconstructed from it during projection.
type Den struct {
	ID             int64      `json:"den_id"`
	Location       GeoPoint   `json:"location"`
	SpawnDef       int        `json:"spawn_def"`
	FirstDetection time.Time  `json:"first_detection"`
	LastScanned    *time.Time `json:"last_scanned"`
	LastNonScanned *time.Time `json:"last_non_scanned"`

	EndMinSec   *string    `json:"-"`
	SpawnTime   *time.Time `json:"spawn_time,omitempty"`   // computed
	DespawnTime *time.Time `json:"despawn_time,omitempty"` // computed
}

// ScanCell records when an area was last covered by a scanner.
type ScanCell struct {
	CellID       int64      `json:"cell_id"`
	Location     GeoPoint   `json:"location"`
	LastModified *time.Time `json:"last_modified"`
}

// SpeciesCount is one entry of the grouped sighting counts.
type SpeciesCount struct {
	SpeciesID int   `json:"species_id"`
	Count     int64 `json:"count"`
}

// SpeciesCounts is the spawn-count summary over a trailing window.
type SpeciesCounts struct {
	Species []SpeciesCount `json:"species"`
	Total   int64          `json:"total"`
}

// SeenEntry is one (species, variant) row of the seen summary.
type SeenEntry struct {
	SpeciesID  int       `json:"species_id"`
	Variant    int       `json:"variant"`
	Count      int64     `json:"count"`
	LastExpiry time.Time `json:"last_expiry"`
}

// SeenSummary groups sightings by species and variant.
type SeenSummary struct {
	Entries []SeenEntry `json:"entries"`
	Total   int64       `json:"total"`
}

// Appearance aggregates sightings of one species at one den.
type Appearance struct {
	Location  GeoPoint `json:"location"`
	SpeciesID int      `json:"species_id"`
	Variant   int      `json:"variant"`
	DenID     int64    `json:"den_id"`
	Count     int64    `json:"count"`
}

// PurgeSummary is published after a full retention pass so downstream
// consumers (cache invalidators, dashboards) can react.
type PurgeSummary struct {
	CompletedAt time.Time        `json:"completed_at"`
	Deleted     map[string]int64 `json:"deleted"`
}
