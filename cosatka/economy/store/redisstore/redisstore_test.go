package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, "kosatka")
}

func newUser(id string, earned int64) *engine.UserEconomy {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return &engine.UserEconomy{
		UserID:           id,
		Username:         "user" + id,
		Level:            2,
		Energy:           40,
		Currency:         earned,
		TotalEarned:      earned,
		Producers:        3,
		LastEnergyUpdate: now,
		LastClaim:        now,
		CreatedAt:        now,
		UpgradeLevels:    map[engine.UpgradeKind]int{engine.UpgradeProducerSpeed: 4},
		Inventory:        map[string]int{"ball": 2},
		Achievements:     map[string]time.Time{"first_splash": now},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.Load(ctx, "1"); !errors.Is(err, engine.ErrNotFound) {
		t.Fatalf("Load() error = %v, want ErrNotFound", err)
	}

	u := newUser("1", 120)
	if err := s.Store(ctx, u); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if u.Version != 1 {
		t.Errorf("Store() version = %d, want 1", u.Version)
	}

	got, err := s.Load(ctx, "1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Currency != 120 || got.Producers != 3 || got.Version != 1 {
		t.Errorf("Load() = %+v", got)
	}
	if got.UpgradeLevel(engine.UpgradeProducerSpeed) != 4 || got.UpgradeLevel(engine.UpgradeClickPower) != 1 {
		t.Errorf("Load() upgrade levels = %v", got.UpgradeLevels)
	}
	if got.Inventory["ball"] != 2 || !got.HasAchievement("first_splash") {
		t.Errorf("Load() inventory/achievements = %v %v", got.Inventory, got.Achievements)
	}
}

func TestStore_VersionConflict(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := newUser("1", 10)
	if err := s.Store(ctx, u); err != nil {
		t.Fatal(err)
	}

	stale := newUser("1", 50)
	if err := s.Store(ctx, stale); !errors.Is(err, engine.ErrVersionConflict) {
		t.Errorf("Store() stale error = %v, want ErrVersionConflict", err)
	}

	u.Currency = 20
	if err := s.Store(ctx, u); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if u.Version != 2 {
		t.Errorf("Store() version = %d, want 2", u.Version)
	}
}

func TestStore_Top(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for _, u := range []*engine.UserEconomy{newUser("a", 5), newUser("b", 500), newUser("c", 50)} {
		if err := s.Store(ctx, u); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Top(ctx, 2)
	if err != nil {
		t.Fatalf("Top() error = %v", err)
	}
	if len(got) != 2 || got[0].UserID != "b" || got[1].UserID != "c" {
		t.Errorf("Top() = %v", got)
	}
}
