package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/aritzberg/wildsight/internal/core/domain"
)

func testSpec() viewportSpec {
	return viewportSpec{
		latCol:   "latitude",
		lonCol:   "longitude",
		timeCond: colAfter("last_modified"),
		liveCond: func(b *queryBuilder) string {
			return "expires_at > " + b.bind(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
		},
		liveInIncremental: true,
	}
}

func box() *domain.Bounds {
	return &domain.Bounds{MinLat: 10, MinLon: 20, MaxLat: 11, MaxLon: 21}
}

func TestApplyViewport_Global(t *testing.T) {
	b := &queryBuilder{}
	applyViewport(b, domain.Viewport{}, testSpec())

	sql := b.whereClause()
	if !strings.Contains(sql, "expires_at > $1") {
		t.Errorf("global mode must keep liveness: %q", sql)
	}
	if strings.Contains(sql, "latitude") {
		t.Errorf("global mode must ignore geography: %q", sql)
	}
	if len(b.args) != 1 {
		t.Errorf("expected 1 arg, got %d", len(b.args))
	}
}

func TestApplyViewport_Full(t *testing.T) {
	b := &queryBuilder{}
	applyViewport(b, domain.Viewport{Bounds: box()}, testSpec())

	sql := b.whereClause()
	if !strings.Contains(sql, "(latitude >= $2 AND longitude >= $3 AND latitude <= $4 AND longitude <= $5)") {
		t.Errorf("full mode must render the box: %q", sql)
	}
	if strings.Contains(sql, "last_modified") {
		t.Errorf("full mode has no time filter: %q", sql)
	}
	want := []any{time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), 10.0, 20.0, 11.0, 21.0}
	if len(b.args) != len(want) {
		t.Fatalf("expected %d args, got %d", len(want), len(b.args))
	}
	for i := 1; i < len(want); i++ {
		if b.args[i] != want[i] {
			t.Errorf("arg %d: expected %v, got %v", i, want[i], b.args[i])
		}
	}
}

func TestApplyViewport_Incremental(t *testing.T) {
	since := time.Date(2024, 6, 1, 11, 30, 0, 0, time.UTC)
	b := &queryBuilder{}
	applyViewport(b, domain.Viewport{Bounds: box(), Since: since.UnixMilli()}, testSpec())

	sql := b.whereClause()
	if !strings.Contains(sql, "last_modified > $2") {
		t.Errorf("incremental mode must filter on the client timestamp: %q", sql)
	}
	if !strings.Contains(sql, "latitude >= $3") {
		t.Errorf("incremental mode still constrains the box: %q", sql)
	}
	if got := b.args[1].(time.Time); !got.Equal(since) {
		t.Errorf("since arg: expected %v, got %v", since, got)
	}
}

func TestApplyViewport_Incremental_DropsRedundantLiveness(t *testing.T) {
	spec := testSpec()
	spec.liveInIncremental = false

	b := &queryBuilder{}
	applyViewport(b, domain.Viewport{Bounds: box(), Since: 1717243800000}, spec)

	sql := b.whereClause()
	if strings.Contains(sql, "expires_at") {
		t.Errorf("liveness should be dropped when the client timestamp subsumes it: %q", sql)
	}
}

func TestApplyViewport_Panned(t *testing.T) {
	prev := &domain.Bounds{MinLat: 10, MinLon: 20.5, MaxLat: 11, MaxLon: 21.5}
	b := &queryBuilder{}
	applyViewport(b, domain.Viewport{Bounds: box(), Prev: prev}, testSpec())

	sql := b.whereClause()
	if !strings.Contains(sql, "NOT (latitude >= $6 AND longitude >= $7 AND latitude <= $8 AND longitude <= $9)") {
		t.Errorf("panned mode must exclude the previous box: %q", sql)
	}
	if strings.Contains(sql, "last_modified") {
		t.Errorf("panned mode has no time filter: %q", sql)
	}
	if len(b.args) != 9 {
		t.Errorf("expected 9 args, got %d", len(b.args))
	}
}

func TestApplyViewport_SinceBeatsPrev(t *testing.T) {
	prev := &domain.Bounds{MinLat: 10, MinLon: 20.5, MaxLat: 11, MaxLon: 21.5}
	b := &queryBuilder{}
	applyViewport(b, domain.Viewport{Bounds: box(), Prev: prev, Since: 1717243800000}, testSpec())

	sql := b.whereClause()
	if strings.Contains(sql, "NOT (") {
		t.Errorf("since must take priority over the previous box: %q", sql)
	}
	if !strings.Contains(sql, "last_modified > ") {
		t.Errorf("expected incremental rendering: %q", sql)
	}
}

func TestQueryBuilder_EmptyWhereClause(t *testing.T) {
	b := &queryBuilder{}
	if b.whereClause() != "" {
		t.Errorf("no conditions should render no clause, got %q", b.whereClause())
	}
}

func TestQueryBuilder_BindNumbersSequentially(t *testing.T) {
	b := &queryBuilder{}
	if p := b.bind(1); p != "$1" {
		t.Errorf("expected $1, got %s", p)
	}
	if p := b.bind("x"); p != "$2" {
		t.Errorf("expected $2, got %s", p)
	}
}
