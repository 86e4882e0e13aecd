package usecases_test

import (
	"context"
	"testing"

	"github.com/aritzberg/wildsight/internal/core/domain"
	"github.com/aritzberg/wildsight/internal/core/usecases"
)

// --- Mock ScanCellRepository ---

type mockScanRepo struct {
	findRecentFn func(ctx context.Context, v domain.Viewport) ([]domain.ScanCell, error)
}

func (m *mockScanRepo) FindRecent(ctx context.Context, v domain.Viewport) ([]domain.ScanCell, error) {
	if m.findRecentFn != nil {
		return m.findRecentFn(ctx, v)
	}
	return nil, nil
}

// --- Tests ---

func TestScanService_Recent_KeyedByCell(t *testing.T) {
	repo := &mockScanRepo{
		findRecentFn: func(ctx context.Context, v domain.Viewport) ([]domain.ScanCell, error) {
			return []domain.ScanCell{{CellID: 9432}, {CellID: 9433}}, nil
		},
	}

	svc := usecases.NewScanService(repo)
	out, err := svc.Recent(context.Background(), domain.Viewport{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(out))
	}
	if _, ok := out[9432]; !ok {
		t.Error("cells should be keyed by cell id")
	}
}

func TestScanService_Recent_ViewportPassesThrough(t *testing.T) {
	var seen domain.Viewport
	repo := &mockScanRepo{
		findRecentFn: func(ctx context.Context, v domain.Viewport) ([]domain.ScanCell, error) {
			seen = v
			return nil, nil
		},
	}

	svc := usecases.NewScanService(repo)
	in := domain.Viewport{Bounds: &domain.Bounds{MinLat: 1, MinLon: 2, MaxLat: 3, MaxLon: 4}, Since: 99}
	if _, err := svc.Recent(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen.Bounds == nil || seen.Bounds.MaxLon != 4 || seen.Since != 99 {
		t.Errorf("viewport should reach the repository unchanged, got %+v", seen)
	}
}
