package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/store/mock"
	"go.uber.org/mock/gomock"
)

func newUser(id string, earned int64) *engine.UserEconomy {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return &engine.UserEconomy{
		UserID:           id,
		Username:         "user" + id,
		Level:            1,
		Energy:           100,
		TotalEarned:      earned,
		Currency:         earned,
		LastEnergyUpdate: now,
		LastClaim:        now,
		CreatedAt:        now,
	}
}

func TestMemory_StoreVersions(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Load(ctx, "1"); !errors.Is(err, engine.ErrNotFound) {
		t.Fatalf("Load() error = %v, want ErrNotFound", err)
	}

	u := newUser("1", 10)
	if err := m.Store(ctx, u); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if u.Version != 1 {
		t.Errorf("Store() version = %d, want 1", u.Version)
	}

	stale := newUser("1", 20)
	if err := m.Store(ctx, stale); !errors.Is(err, engine.ErrVersionConflict) {
		t.Errorf("Store() stale error = %v, want ErrVersionConflict", err)
	}

	got, err := m.Load(ctx, "1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Currency != 10 || got.Version != 1 {
		t.Errorf("Load() = %+v, want currency 10 version 1", got)
	}

	got.Currency = 999
	again, _ := m.Load(ctx, "1")
	if again.Currency != 10 {
		t.Errorf("Load() shares state with caller")
	}
}

func TestMemory_Top(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for _, u := range []*engine.UserEconomy{newUser("a", 5), newUser("b", 50), newUser("c", 50), newUser("d", 1)} {
		if err := m.Store(ctx, u); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "Limited", limit: 2, want: []string{"b", "c"}},
		{name: "All", limit: 0, want: []string{"b", "c", "a", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Top(ctx, tt.limit)
			if err != nil {
				t.Fatalf("Top() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Top() len = %d, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].UserID != id {
					t.Errorf("Top()[%d] = %s, want %s", i, got[i].UserID, id)
				}
			}
		})
	}
}

func TestCached_LoadHitsOnce(t *testing.T) {
	ctx := context.Background()
	repo := mock.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().
		Load(gomock.Any(), "1").
		Return(newUser("1", 10), nil).
		Times(1)

	c, err := NewCached(repo, 8)
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		u, err := c.Load(ctx, "1")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if u.Currency != 10 {
			t.Errorf("Load() currency = %d, want 10", u.Currency)
		}
		u.Currency = 0
	}
}

func TestCached_ConflictEvicts(t *testing.T) {
	ctx := context.Background()
	repo := mock.NewMockRepository(gomock.NewController(t))
	u := newUser("1", 10)
	gomock.InOrder(
		repo.EXPECT().Store(gomock.Any(), u).Return(nil),
		repo.EXPECT().Store(gomock.Any(), u).Return(engine.ErrVersionConflict),
		repo.EXPECT().Load(gomock.Any(), "1").Return(newUser("1", 99), nil),
	)

	c, err := NewCached(repo, 8)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Store(ctx, u); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if err := c.Store(ctx, u); !IsConflict(err) {
		t.Fatalf("Store() error = %v, want conflict", err)
	}
	got, err := c.Load(ctx, "1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Currency != 99 {
		t.Errorf("Load() after conflict currency = %d, want 99", got.Currency)
	}
}
