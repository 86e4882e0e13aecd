package postgres

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aritzberg/wildsight/internal/core/domain"
)

// queryBuilder accumulates WHERE conditions with positional arguments.
type queryBuilder struct {
	conds []string
	args  []any
}

// bind appends v to the argument list and returns its placeholder.
func (b *queryBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// where appends a condition; all conditions are ANDed.
func (b *queryBuilder) where(cond string) {
	b.conds = append(b.conds, cond)
}

// whereClause renders the accumulated conditions, or "" when there are none.
func (b *queryBuilder) whereClause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// viewportSpec tells applyViewport how one entity kind maps onto the shared
// diff-filter: which columns carry the position, how "modified after" is
// expressed, and the kind's liveness predicate.
type viewportSpec struct {
	latCol, lonCol string
	// timeCond renders the modified-after condition for incremental mode.
	timeCond func(b *queryBuilder, since time.Time) string
	// liveCond renders the liveness predicate, or returns "" for kinds
	// without one.
	liveCond func(b *queryBuilder) string
	// liveInIncremental keeps the liveness predicate in incremental mode.
	// Kinds whose liveness and modification column coincide (scan cells)
	// drop it there: the client timestamp replaces the window.
	liveInIncremental bool
}

// colAfter is the common timeCond: a single column strictly after since.
func colAfter(col string) func(*queryBuilder, time.Time) string {
	return func(b *queryBuilder, since time.Time) string {
		return col + " > " + b.bind(since)
	}
}

// applyViewport renders the four-mode differential viewport filter into b.
// The semantics mirror domain.Viewport.Matches: mode selection is a total
// function of (box, previous box, since) with since taking priority over the
// previous box.
func applyViewport(b *queryBuilder, v domain.Viewport, spec viewportSpec) {
	mode := v.Mode()

	if spec.liveCond != nil && (mode != domain.ModeIncremental || spec.liveInIncremental) {
		if cond := spec.liveCond(b); cond != "" {
			b.where(cond)
		}
	}

	switch mode {
	case domain.ModeGlobal:
		// Liveness only; geography ignored.
	case domain.ModeIncremental:
		b.where(spec.timeCond(b, v.SinceTime()))
		applyBox(b, *v.Bounds, spec, false)
	case domain.ModePanned:
		applyBox(b, *v.Bounds, spec, false)
		applyBox(b, *v.Prev, spec, true)
	default:
		applyBox(b, *v.Bounds, spec, false)
	}
}

// applyBox renders the inclusive containment test for one box. With negate
// it renders the exclusion of the previously covered area instead.
func applyBox(b *queryBuilder, bounds domain.Bounds, spec viewportSpec, negate bool) {
	cond := fmt.Sprintf("%s >= %s AND %s >= %s AND %s <= %s AND %s <= %s",
		spec.latCol, b.bind(bounds.MinLat),
		spec.lonCol, b.bind(bounds.MinLon),
		spec.latCol, b.bind(bounds.MaxLat),
		spec.lonCol, b.bind(bounds.MaxLon),
	)
	if negate {
		b.where("NOT (" + cond + ")")
	} else {
		b.where("(" + cond + ")")
	}
}
