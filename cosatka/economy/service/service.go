// Package service runs engine operations against a store: one load, one
// engine transition and one conditional write per operation, serialized per
// user and retried on version conflicts.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/clock"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/store"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const DefaultMaxAttempts = 5

// Recorder receives operation telemetry. The metrics package implements it.
type Recorder interface {
	ObserveOperation(game, op, outcome string, d time.Duration)
	AddEarnings(game, source string, amount int64)
	AchievementUnlocked(game, id string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, string, string, time.Duration) {}
func (nopRecorder) AddEarnings(string, string, int64)                      {}
func (nopRecorder) AchievementUnlocked(string, string)                     {}

type Option func(*Service)

// WithMaxAttempts bounds how often an operation is re-run after a version conflict.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

type Service struct {
	engine   *engine.Engine
	repo     store.Repository
	clock    clock.Clock
	locks    *keyedMutex
	profiles singleflight.Group

	maxAttempts int
	recorder    Recorder
}

func New(eng *engine.Engine, repo store.Repository, clk clock.Clock, opts ...Option) *Service {
	s := &Service{
		engine:      eng,
		repo:        repo,
		clock:       clk,
		locks:       newKeyedMutex(),
		maxAttempts: DefaultMaxAttempts,
		recorder:    nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Engine() *engine.Engine {
	return s.engine
}

func (s *Service) Game() string {
	return s.engine.Game()
}

// Outcome is what every mutating operation hands back to the transport.
type Outcome struct {
	User     *engine.UserEconomy
	Unlocked []engine.AchievementSpec
}

type ActionOutcome struct {
	Outcome
	Result engine.ActionResult
}

type PurchaseOutcome struct {
	Outcome
	Result engine.PurchaseResult
}

type ClaimOutcome struct {
	Outcome
	Earned  int64
	Elapsed time.Duration
}

func (s *Service) Act(ctx context.Context, userID, username, actionID string) (ActionOutcome, error) {
	var out ActionOutcome
	o, err := s.mutate(ctx, "act", userID, username, true, func(u *engine.UserEconomy, now time.Time) error {
		res, err := s.engine.PerformAction(u, actionID, now)
		out.Result = res
		return err
	})
	out.Outcome = o
	if err == nil {
		s.recorder.AddEarnings(s.Game(), "action", out.Result.Reward)
	}
	return out, err
}

func (s *Service) Claim(ctx context.Context, userID, username string) (ClaimOutcome, error) {
	var out ClaimOutcome
	o, err := s.mutate(ctx, "claim", userID, username, true, func(u *engine.UserEconomy, now time.Time) error {
		out.Elapsed = now.Sub(u.LastClaim)
		out.Earned = s.engine.ClaimOfflineEarnings(u, now)
		return nil
	})
	out.Outcome = o
	if err == nil {
		s.recorder.AddEarnings(s.Game(), "offline", out.Earned)
	}
	return out, err
}

func (s *Service) BuyItem(ctx context.Context, userID, username, itemID string) (PurchaseOutcome, error) {
	var out PurchaseOutcome
	o, err := s.mutate(ctx, "buy", userID, username, true, func(u *engine.UserEconomy, now time.Time) error {
		res, err := s.engine.PurchaseItem(u, itemID, now)
		out.Result = res
		return err
	})
	out.Outcome = o
	if err == nil {
		s.recorder.AddEarnings(s.Game(), "offline", out.Result.Settled)
	}
	return out, err
}

func (s *Service) BuyUpgrade(ctx context.Context, userID, username string, kind engine.UpgradeKind) (PurchaseOutcome, error) {
	var out PurchaseOutcome
	o, err := s.mutate(ctx, "upgrade", userID, username, true, func(u *engine.UserEconomy, now time.Time) error {
		res, err := s.engine.PurchaseUpgrade(u, kind, now)
		out.Result = res
		return err
	})
	out.Outcome = o
	if err == nil {
		s.recorder.AddEarnings(s.Game(), "offline", out.Result.Settled)
	}
	return out, err
}

// UnlockAchievement unlocks id for an existing user. It reports whether the
// unlock was new and returns engine.ErrNotFound for unknown users.
func (s *Service) UnlockAchievement(ctx context.Context, userID, id string) (bool, error) {
	var unlocked bool
	_, err := s.mutate(ctx, "unlock", userID, "", false, func(u *engine.UserEconomy, now time.Time) error {
		ok, err := s.engine.UnlockAchievement(u, id, now)
		unlocked = ok
		if err == nil && !ok {
			return errUnchanged
		}
		return err
	})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	if err == nil && unlocked {
		s.recorder.AchievementUnlocked(s.Game(), id)
	}
	return unlocked, err
}

// Profile is a read-only view. Concurrent reads of one user share a load.
func (s *Service) Profile(ctx context.Context, userID string) (engine.Profile, error) {
	start := time.Now()
	v, err, _ := s.profiles.Do(userID, func() (interface{}, error) {
		u, err := s.repo.Load(ctx, userID)
		if err != nil {
			if errors.Is(err, engine.ErrNotFound) {
				return nil, err
			}
			return nil, &engine.PersistenceError{Op: "load", Err: err}
		}
		return u, nil
	})
	s.recorder.ObserveOperation(s.Game(), "profile", outcomeOf(err), time.Since(start))
	if err != nil {
		return engine.Profile{}, err
	}
	return s.engine.Profile(v.(*engine.UserEconomy), s.clock.Now()), nil
}

func (s *Service) Top(ctx context.Context, limit int) ([]*engine.UserEconomy, error) {
	users, err := s.repo.Top(ctx, limit)
	if err != nil {
		return nil, &engine.PersistenceError{Op: "rank", Err: err}
	}
	return users, nil
}

// errUnchanged aborts a mutation that succeeded without changing anything.
var errUnchanged = errors.New("nothing to store")

// mutate loads userID, applies fn and stores the result. fn runs on a fresh
// load each attempt; an fn error aborts without writing. When create is set a
// missing user starts from the engine defaults.
func (s *Service) mutate(ctx context.Context, op, userID, username string, create bool, fn func(u *engine.UserEconomy, now time.Time) error) (out Outcome, err error) {
	opID := uuid.NewString()
	start := time.Now()
	defer func() {
		s.recorder.ObserveOperation(s.Game(), op, outcomeOf(err), time.Since(start))
		s.logOperation(opID, op, userID, start, err)
	}()

	unlock, err := s.locks.Lock(ctx, userID)
	if err != nil {
		return Outcome{}, err
	}
	defer unlock()

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		now := s.clock.Now()

		u, err := s.repo.Load(ctx, userID)
		switch {
		case errors.Is(err, engine.ErrNotFound) && create:
			u = s.engine.NewUser(userID, username, now)
		case err != nil && errors.Is(err, engine.ErrNotFound):
			return Outcome{}, err
		case err != nil:
			return Outcome{}, &engine.PersistenceError{Op: "load", Err: err}
		}
		if username != "" {
			u.Username = username
		}

		if err := fn(u, now); err != nil {
			return Outcome{}, err
		}
		unlocked := s.observe(u, now)

		err = s.repo.Store(ctx, u)
		if err == nil {
			for _, a := range unlocked {
				s.recorder.AchievementUnlocked(s.Game(), a.ID)
			}
			return Outcome{User: u, Unlocked: unlocked}, nil
		}
		if !errors.Is(err, engine.ErrVersionConflict) {
			return Outcome{}, &engine.PersistenceError{Op: "store", Err: err}
		}
		slog.Debug("Version conflict, retrying",
			slog.String("type", "eco"),
			slog.String("op_id", opID),
			slog.String("game", s.Game()),
			slog.String("user_id", userID),
			slog.Int("attempt", attempt))
	}
	return Outcome{}, &engine.PersistenceError{Op: "store", Err: engine.ErrVersionConflict}
}

func (s *Service) logOperation(opID, op, userID string, start time.Time, err error) {
	attrs := []any{
		slog.String("type", "eco"),
		slog.String("op_id", opID),
		slog.String("game", s.Game()),
		slog.String("name", op),
		slog.String("user_id", userID),
		slog.Duration("duration", time.Since(start)),
	}
	switch {
	case err == nil || errors.Is(err, errUnchanged):
		slog.Info("Economy operation completed", attrs...)
	case engine.IsRetryable(err):
		slog.Error("Economy operation failed", append(attrs, slog.Any("error", err))...)
	default:
		slog.Debug("Economy operation rejected", append(attrs, slog.String("reason", err.Error()))...)
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil, errors.Is(err, errUnchanged):
		return "ok"
	case errors.Is(err, engine.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, engine.ErrInsufficientEnergy):
		return "insufficient_energy"
	case errors.Is(err, engine.ErrUnknownAction):
		return "unknown"
	case errors.Is(err, engine.ErrMaxLevel):
		return "max_level"
	case errors.Is(err, engine.ErrNotFound):
		return "not_found"
	case errors.Is(err, engine.ErrPersistence):
		return "persistence"
	}
	return "error"
}
