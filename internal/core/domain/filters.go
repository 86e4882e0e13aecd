package domain

// SightingFilter narrows an active-sighting query. Include and Exclude are
// mutually exclusive; when both are supplied Include wins.
type SightingFilter struct {
	IncludeSpecies  []int
	ExcludeSpecies  []int
	VerifiedDespawn bool // join the den fragment for a verified despawn time
}

// LandmarkFilter controls which landmark sub-features the caller wants and
// whether landmarks with no currently-interesting state are returned at all.
type LandmarkFilter struct {
	AllowQuiet bool // include landmarks with no task, incident, or lure
	Tasks      bool
	Incidents  bool
	Lures      bool
}
