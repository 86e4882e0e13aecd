package domain

import (
	"strconv"
	"strings"
	"time"
)

// SpawnClassFullHour is the den classifier for occupants that hold the spot
// for a full hour. Every other class despawns 30 minutes after appearing.
const SpawnClassFullHour = 15

// DespawnWindow is a reconstructed absolute (spawn, despawn) pair.
type DespawnWindow struct {
	Spawn   time.Time
	Despawn time.Time
}

// ResolveDespawn reconstructs the absolute despawn window from a clock-face
// fragment. Scanners only observe the minute and second of the hour at which
// a den's occupant disappears ("MM:SS", no date or hour), so the instant has
// to be rebuilt from the current wall clock: the fragment always refers to
// the nearest future occurrence, never the past. The spawn instant follows
// from the den's spawn class.
//
// Returns false for an empty or malformed fragment; that is the only failure
// mode and callers respond by omitting the derived fields.
func ResolveDespawn(endMinSec string, spawnDef int, now time.Time) (DespawnWindow, bool) {
	mm, ss, ok := parseMinSec(endMinSec)
	if !ok {
		return DespawnWindow{}, false
	}

	despawn := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), mm, ss, 0, now.Location())
	if !despawn.After(now) {
		// The fragment refers to the next hour boundary.
		despawn = despawn.Add(time.Hour)
	}

	w := DespawnWindow{Despawn: despawn}
	if spawnDef == SpawnClassFullHour {
		w.Spawn = despawn.Add(-time.Hour)
	} else {
		w.Spawn = despawn.Add(-30 * time.Minute)
	}
	return w, true
}

// parseMinSec parses a "MM:SS" fragment. Out-of-range components count as
// malformed.
func parseMinSec(s string) (mm, ss int, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	mm, errM := strconv.Atoi(parts[0])
	ss, errS := strconv.Atoi(parts[1])
	if errM != nil || errS != nil || mm < 0 || mm > 59 || ss < 0 || ss > 59 {
		return 0, 0, false
	}
	return mm, ss, true
}

// UTCOffset returns the wall clock's offset from UTC at t. Derived times are
// shifted by this amount so every emitted timestamp shares the UTC reference
// frame of the stored columns.
func UTCOffset(t time.Time) time.Duration {
	_, secs := t.Zone()
	return time.Duration(secs) * time.Second
}
