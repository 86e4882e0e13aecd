package domain

import "time"

// SyncMode is the client's sync intent, derived from which viewport inputs
// were supplied. Exactly one mode applies to any request.
type SyncMode int

const (
	// ModeGlobal: no viewport at all. Only the kind's liveness predicate
	// applies; geography is ignored (used for global counts and stats).
	ModeGlobal SyncMode = iota
	// ModeIncremental: steady-state delta poll. The client has full coverage
	// of Bounds as of Since and wants only rows modified after it.
	ModeIncremental
	// ModePanned: the viewport moved. The client already holds everything in
	// Prev, so only the newly exposed area is scanned. No time filter: the
	// uncovered area was never synced.
	ModePanned
	// ModeFull: first sync of a fresh viewport.
	ModeFull
)

// String names the mode for logs and metric labels.
func (m SyncMode) String() string {
	switch m {
	case ModeGlobal:
		return "global"
	case ModeIncremental:
		return "incremental"
	case ModePanned:
		return "panned"
	default:
		return "full"
	}
}

// Viewport carries the current box, the client's previous box, and the
// client's last-sync timestamp in epoch milliseconds. It is built per
// request and never persisted.
type Viewport struct {
	Bounds *Bounds
	Prev   *Bounds
	Since  int64
}

// Mode selects the sync mode. The priority order is fixed: a missing box
// always means global, a positive Since always beats a previous box.
func (v Viewport) Mode() SyncMode {
	switch {
	case v.Bounds == nil:
		return ModeGlobal
	case v.Since > 0:
		return ModeIncremental
	case v.Prev != nil:
		return ModePanned
	default:
		return ModeFull
	}
}

// SinceTime converts the epoch-millisecond Since to a UTC time.
func (v Viewport) SinceTime() time.Time {
	return time.UnixMilli(v.Since).UTC()
}

// Matches is the reference predicate for the four sync modes, operating on a
// single candidate row. The postgres adapter renders the same semantics as
// SQL; this form backs the live relay filter and the property tests.
// modifiedAt is the row's last-modification instant and live the result of
// the kind's liveness predicate.
func (v Viewport) Matches(p GeoPoint, modifiedAt time.Time, live bool) bool {
	switch v.Mode() {
	case ModeGlobal:
		return live
	case ModeIncremental:
		return live && v.Bounds.Contains(p) && modifiedAt.After(v.SinceTime())
	case ModePanned:
		return live && v.Bounds.Contains(p) && !v.Prev.Contains(p)
	default:
		return live && v.Bounds.Contains(p)
	}
}

// Expanded returns a copy with Bounds and Prev both grown by the given
// deltas. Nil boxes stay nil.
func (v Viewport) Expanded(latDelta, lonDelta float64) Viewport {
	out := Viewport{Since: v.Since}
	if v.Bounds != nil {
		b := v.Bounds.Expanded(latDelta, lonDelta)
		out.Bounds = &b
	}
	if v.Prev != nil {
		p := v.Prev.Expanded(latDelta, lonDelta)
		out.Prev = &p
	}
	return out
}
