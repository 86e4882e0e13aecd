package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aritzberg/wildsight/internal/core/domain"
	"github.com/aritzberg/wildsight/internal/core/usecases"
)

// --- Mock OutpostRepository ---

type mockOutpostRepo struct {
	findInViewFn func(ctx context.Context, v domain.Viewport, withEvents bool) ([]domain.Outpost, error)
}

func (m *mockOutpostRepo) FindInView(ctx context.Context, v domain.Viewport, withEvents bool) ([]domain.Outpost, error) {
	if m.findInViewFn != nil {
		return m.findInViewFn(ctx, v, withEvents)
	}
	return nil, nil
}

// --- Tests ---

func TestOutpostService_InView_KeyedByID(t *testing.T) {
	repo := &mockOutpostRepo{
		findInViewFn: func(ctx context.Context, v domain.Viewport, withEvents bool) ([]domain.Outpost, error) {
			return []domain.Outpost{{ID: "op-1"}, {ID: "op-2"}}, nil
		},
	}

	svc := usecases.NewOutpostService(repo)
	out, err := svc.InView(context.Background(), domain.Viewport{}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 outposts, got %d", len(out))
	}
	if _, ok := out["op-1"]; !ok {
		t.Error("outposts should be keyed by id")
	}
}

func TestOutpostService_InView_EventsFlagPassesThrough(t *testing.T) {
	var seen bool
	repo := &mockOutpostRepo{
		findInViewFn: func(ctx context.Context, v domain.Viewport, withEvents bool) ([]domain.Outpost, error) {
			seen = withEvents
			return nil, nil
		},
	}

	svc := usecases.NewOutpostService(repo)
	if _, err := svc.InView(context.Background(), domain.Viewport{}, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !seen {
		t.Error("withEvents should reach the repository unchanged")
	}
}

func TestOutpostService_InView_RepoError(t *testing.T) {
	repo := &mockOutpostRepo{
		findInViewFn: func(ctx context.Context, v domain.Viewport, withEvents bool) ([]domain.Outpost, error) {
			return nil, errors.New("connection refused")
		},
	}

	svc := usecases.NewOutpostService(repo)
	if _, err := svc.InView(context.Background(), domain.Viewport{}, false); err == nil {
		t.Error("expected repository error to propagate")
	}
}
