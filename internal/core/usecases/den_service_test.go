package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/aritzberg/wildsight/internal/core/domain"
	"github.com/aritzberg/wildsight/internal/core/usecases"
)

// --- Mock DenRepository ---

type mockDenRepo struct {
	findInViewFn func(ctx context.Context, v domain.Viewport) ([]domain.Den, error)
}

func (m *mockDenRepo) FindInView(ctx context.Context, v domain.Viewport) ([]domain.Den, error) {
	if m.findInViewFn != nil {
		return m.findInViewFn(ctx, v)
	}
	return nil, nil
}

// --- Tests ---

func TestDenService_InView_ResolvesDespawnWindow(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 14, 10, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	frag := "05:30"
	repo := &mockDenRepo{
		findInViewFn: func(ctx context.Context, v domain.Viewport) ([]domain.Den, error) {
			return []domain.Den{{ID: 7, SpawnDef: 240, EndMinSec: &frag}}, nil
		},
	}

	svc := usecases.NewDenService(repo)
	out, err := svc.InView(context.Background(), domain.Viewport{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	den := out[7]
	if den.DespawnTime == nil || den.SpawnTime == nil {
		t.Fatal("expected despawn window to be resolved")
	}
	wantDespawn := time.Date(2024, 6, 1, 15, 5, 30, 0, time.UTC)
	if !den.DespawnTime.Equal(wantDespawn) {
		t.Errorf("despawn: expected %v, got %v", wantDespawn, den.DespawnTime)
	}
	wantSpawn := wantDespawn.Add(-30 * time.Minute)
	if !den.SpawnTime.Equal(wantSpawn) {
		t.Errorf("spawn: expected %v, got %v", wantSpawn, den.SpawnTime)
	}
	if den.EndMinSec != nil {
		t.Error("raw fragment must not leak out of the service")
	}
}

func TestDenService_InView_FullHourClass(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 14, 2, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	frag := "05:30"
	repo := &mockDenRepo{
		findInViewFn: func(ctx context.Context, v domain.Viewport) ([]domain.Den, error) {
			return []domain.Den{{ID: 7, SpawnDef: domain.SpawnClassFullHour, EndMinSec: &frag}}, nil
		},
	}

	svc := usecases.NewDenService(repo)
	out, err := svc.InView(context.Background(), domain.Viewport{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	den := out[7]
	wantSpawn := time.Date(2024, 6, 1, 13, 5, 30, 0, time.UTC)
	if den.SpawnTime == nil || !den.SpawnTime.Equal(wantSpawn) {
		t.Errorf("expected spawn %v, got %v", wantSpawn, den.SpawnTime)
	}
}

func TestDenService_InView_ShiftsIntoUTCFrame(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	now := time.Date(2024, 6, 1, 14, 2, 0, 0, loc)
	domain.SetClock(clockwork.NewFakeClockAt(now))
	defer domain.SetClock(nil)

	frag := "05:30"
	scanned := time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC)
	repo := &mockDenRepo{
		findInViewFn: func(ctx context.Context, v domain.Viewport) ([]domain.Den, error) {
			return []domain.Den{{ID: 7, EndMinSec: &frag, LastScanned: &scanned}}, nil
		},
	}

	svc := usecases.NewDenService(repo)
	out, err := svc.InView(context.Background(), domain.Viewport{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	den := out[7]
	// Wall-clock despawn is 14:05:30+02:00; stored columns are UTC, so the
	// emitted instant is two hours earlier.
	wantDespawn := time.Date(2024, 6, 1, 12, 5, 30, 0, time.UTC)
	if den.DespawnTime == nil || !den.DespawnTime.Equal(wantDespawn) {
		t.Errorf("expected despawn %v, got %v", wantDespawn, den.DespawnTime)
	}
	wantScanned := scanned.Add(-2 * time.Hour)
	if den.LastScanned == nil || !den.LastScanned.Equal(wantScanned) {
		t.Errorf("expected last scanned %v, got %v", wantScanned, den.LastScanned)
	}
}

func TestDenService_InView_NoFragmentOmitsWindow(t *testing.T) {
	repo := &mockDenRepo{
		findInViewFn: func(ctx context.Context, v domain.Viewport) ([]domain.Den, error) {
			return []domain.Den{{ID: 9}}, nil
		},
	}

	svc := usecases.NewDenService(repo)
	out, err := svc.InView(context.Background(), domain.Viewport{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	den := out[9]
	if den.SpawnTime != nil || den.DespawnTime != nil {
		t.Error("den without a fragment should have no derived window")
	}
}
