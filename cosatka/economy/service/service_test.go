package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/clock"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/catalog"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/store"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/store/mock"
	"go.uber.org/mock/gomock"
)

var start = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	// Rewards always roll their minimum.
	e, err := engine.New(catalog.Kosatka(), engine.WithRandom(func(int64) int64 { return 0 }))
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func storedUser(e *engine.Engine) *engine.UserEconomy {
	u := e.NewUser("42", "orca", start)
	u.Version = 3
	return u
}

func TestService_Act(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	svc := New(e, store.NewMemory(), clock.NewManual(start))

	out, err := svc.Act(ctx, "42", "orca", "hunt")
	if err != nil {
		t.Fatalf("Act() error = %v", err)
	}
	if out.Result.Reward != 5 || out.User.Currency != 5 || out.User.Energy != 90 {
		t.Errorf("Act() = %+v, want reward 5 energy 90", out.Result)
	}
	if out.User.Version != 1 {
		t.Errorf("Act() version = %d, want 1", out.User.Version)
	}
	if len(out.Unlocked) != 1 || out.Unlocked[0].ID != "first_splash" {
		t.Errorf("Act() unlocked = %v, want first_splash", out.Unlocked)
	}

	out, err = svc.Act(ctx, "42", "orca", "hunt")
	if err != nil {
		t.Fatalf("second Act() error = %v", err)
	}
	if len(out.Unlocked) != 0 {
		t.Errorf("second Act() unlocked = %v, want none", out.Unlocked)
	}
}

func TestService_Errors(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	broken := errors.New("connection reset")

	tests := []struct {
		name      string
		setup     func(repo *mock.MockRepository)
		call      func(svc *Service) error
		wantErr   error
		retryable bool
	}{
		{
			name: "Load failure",
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().Load(gomock.Any(), "42").Return(nil, broken)
			},
			call: func(svc *Service) error {
				_, err := svc.Act(ctx, "42", "orca", "hunt")
				return err
			},
			wantErr:   engine.ErrPersistence,
			retryable: true,
		},
		{
			name: "Store failure",
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().Load(gomock.Any(), "42").Return(storedUser(e), nil)
				repo.EXPECT().Store(gomock.Any(), gomock.Any()).Return(broken)
			},
			call: func(svc *Service) error {
				_, err := svc.Claim(ctx, "42", "orca")
				return err
			},
			wantErr:   engine.ErrPersistence,
			retryable: true,
		},
		{
			name: "Domain error never stores",
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().Load(gomock.Any(), "42").Return(storedUser(e), nil)
			},
			call: func(svc *Service) error {
				_, err := svc.BuyItem(ctx, "42", "orca", "crown")
				return err
			},
			wantErr: engine.ErrInsufficientFunds,
		},
		{
			name: "Unknown upgrade",
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().Load(gomock.Any(), "42").Return(storedUser(e), nil)
			},
			call: func(svc *Service) error {
				_, err := svc.BuyUpgrade(ctx, "42", "orca", engine.UpgradeKind("luck"))
				return err
			},
			wantErr: engine.ErrUnknownAction,
		},
		{
			name: "Profile of unknown user",
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().Load(gomock.Any(), "42").Return(nil, engine.ErrNotFound)
			},
			call: func(svc *Service) error {
				_, err := svc.Profile(ctx, "42")
				return err
			},
			wantErr: engine.ErrNotFound,
		},
		{
			name: "Unlock for unknown user",
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().Load(gomock.Any(), "42").Return(nil, engine.ErrNotFound)
			},
			call: func(svc *Service) error {
				_, err := svc.UnlockAchievement(ctx, "42", "first_splash")
				return err
			},
			wantErr: engine.ErrNotFound,
		},
		{
			name: "Conflicts exhaust attempts",
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().Load(gomock.Any(), "42").DoAndReturn(func(context.Context, string) (*engine.UserEconomy, error) {
					return storedUser(e), nil
				}).Times(2)
				repo.EXPECT().Store(gomock.Any(), gomock.Any()).Return(engine.ErrVersionConflict).Times(2)
			},
			call: func(svc *Service) error {
				_, err := svc.Act(ctx, "42", "orca", "play")
				return err
			},
			wantErr:   engine.ErrVersionConflict,
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock.NewMockRepository(gomock.NewController(t))
			tt.setup(repo)
			svc := New(e, repo, clock.NewManual(start), WithMaxAttempts(2))

			err := tt.call(svc)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got := engine.IsRetryable(err); got != tt.retryable {
				t.Errorf("IsRetryable(%v) = %v, want %v", err, got, tt.retryable)
			}
		})
	}
}

func TestService_RetriesConflict(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	repo := mock.NewMockRepository(gomock.NewController(t))

	fresh := storedUser(e)
	fresh.Version = 4
	fresh.Energy = 50
	gomock.InOrder(
		repo.EXPECT().Load(gomock.Any(), "42").Return(storedUser(e), nil),
		repo.EXPECT().Store(gomock.Any(), gomock.Any()).Return(engine.ErrVersionConflict),
		repo.EXPECT().Load(gomock.Any(), "42").Return(fresh, nil),
		repo.EXPECT().Store(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *engine.UserEconomy) error {
			if u.Version != 4 {
				t.Errorf("Store() version = %d, want 4", u.Version)
			}
			u.Version++
			return nil
		}),
	)

	svc := New(e, repo, clock.NewManual(start))
	out, err := svc.Act(ctx, "42", "orca", "hunt")
	if err != nil {
		t.Fatalf("Act() error = %v", err)
	}
	if out.User.Energy != 40 {
		t.Errorf("Act() energy = %d, want 40 from the fresh load", out.User.Energy)
	}
}

func TestService_ClaimAndProfile(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	clk := clock.NewManual(start)
	mem := store.NewMemory()
	svc := New(e, mem, clk)

	u := e.NewUser("42", "orca", start)
	u.Producers = 2
	if err := mem.Store(ctx, u); err != nil {
		t.Fatal(err)
	}

	clk.Advance(600 * time.Second)
	p, err := svc.Profile(ctx, "42")
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if p.PendingOffline != 30 {
		t.Errorf("Profile() pending = %d, want 30", p.PendingOffline)
	}

	out, err := svc.Claim(ctx, "42", "orca")
	if err != nil {
		t.Fatalf("Claim() error = %v", err)
	}
	if out.Earned != 30 || out.Elapsed != 600*time.Second {
		t.Errorf("Claim() = %d over %v, want 30 over 10m", out.Earned, out.Elapsed)
	}

	out, err = svc.Claim(ctx, "42", "orca")
	if err != nil {
		t.Fatalf("second Claim() error = %v", err)
	}
	if out.Earned != 0 {
		t.Errorf("second Claim() = %d, want 0", out.Earned)
	}
}

func TestService_UnlockAchievement(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	mem := store.NewMemory()
	svc := New(e, mem, clock.NewManual(start))

	u := e.NewUser("42", "orca", start)
	if err := mem.Store(ctx, u); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		id      string
		want    bool
		wantErr error
	}{
		{name: "New unlock", id: "collector", want: true},
		{name: "Repeat unlock", id: "collector", want: false},
		{name: "Unknown id", id: "nope", wantErr: engine.ErrUnknownAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.UnlockAchievement(ctx, "42", tt.id)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UnlockAchievement() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("UnlockAchievement() = %v, want %v", got, tt.want)
			}
		})
	}

	stored, err := mem.Load(ctx, "42")
	if err != nil {
		t.Fatal(err)
	}
	if !stored.HasAchievement("collector") || stored.Version != 2 {
		t.Errorf("stored = %+v, want collector unlocked once", stored)
	}
}

func TestService_ConcurrentActs(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	svc := New(e, store.NewMemory(), clock.NewManual(start))

	const clicks = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range clicks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Act(ctx, "42", "orca", "hunt")
			switch {
			case err == nil:
				mu.Lock()
				successes++
				mu.Unlock()
			case !errors.Is(err, engine.ErrInsufficientEnergy):
				t.Errorf("Act() error = %v", err)
			}
		}()
	}
	wg.Wait()

	// hunt costs 10 of a 100 energy bar and the clock never moves.
	if successes != 10 {
		t.Errorf("successes = %d, want 10", successes)
	}
	p, err := svc.Profile(ctx, "42")
	if err != nil {
		t.Fatal(err)
	}
	if p.User.Energy != 0 || p.User.Currency != 50 {
		t.Errorf("energy/currency = %d/%d, want 0/50", p.User.Energy, p.User.Currency)
	}
	if n := svc.locks.len(); n != 0 {
		t.Errorf("locks left = %d, want 0", n)
	}
}

func TestService_ConcurrentProcesses(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	shared := store.NewMemory()
	clk := clock.NewManual(start)
	// Two services over one store stand in for two processes.
	services := []*Service{
		New(e, shared, clk, WithMaxAttempts(100)),
		New(e, shared, clk, WithMaxAttempts(100)),
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := range 30 {
		wg.Add(1)
		go func(svc *Service) {
			defer wg.Done()
			_, err := svc.Act(ctx, "42", "orca", "hunt")
			switch {
			case err == nil:
				mu.Lock()
				successes++
				mu.Unlock()
			case errors.Is(err, engine.ErrInsufficientEnergy), errors.Is(err, engine.ErrPersistence):
			default:
				t.Errorf("Act() error = %v", err)
			}
		}(services[i%2])
	}
	wg.Wait()

	u, err := shared.Load(ctx, "42")
	if err != nil {
		t.Fatal(err)
	}
	if successes > 10 {
		t.Errorf("successes = %d, want at most 10", successes)
	}
	if u.Energy != 100-10*successes || u.Currency != int64(5*successes) {
		t.Errorf("energy/currency = %d/%d after %d successes", u.Energy, u.Currency, successes)
	}
}

func TestKeyedMutex_ContextCanceled(t *testing.T) {
	k := newKeyedMutex()
	unlock, err := k.Lock(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := k.Lock(ctx, "a")
		done <- err
	}()
	cancel()
	unlock()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Lock() error = %v, want context.Canceled", err)
	}
	if k.len() != 0 {
		t.Errorf("len() = %d, want 0", k.len())
	}
}
