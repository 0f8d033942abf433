// Package engine holds the idle-progression rules: energy regeneration, offline
// accrual, click actions, purchases, leveling and achievement bookkeeping.
//
// Every operation is a pure transition over one *UserEconomy and a wall-clock
// reading. Operations either fully apply or leave the record untouched.
// Persistence, locking and clocks belong to the caller.
package engine

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Engine applies one game's catalog to user records. It holds no per-user
// state and is safe for concurrent use.
type Engine struct {
	catalog    *Catalog
	randInt64N func(n int64) int64
}

type Option func(*Engine)

// WithRandom replaces the reward roll source. fn must return a value in [0, n).
func WithRandom(fn func(n int64) int64) Option {
	return func(e *Engine) {
		e.randInt64N = fn
	}
}

func New(catalog *Catalog, opts ...Option) (*Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		catalog:    catalog,
		randInt64N: rand.Int64N,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

func (e *Engine) Game() string {
	return e.catalog.Game
}

// NewUser returns the default record for a user seen for the first time.
func (e *Engine) NewUser(userID, username string, now time.Time) *UserEconomy {
	levels := make(map[UpgradeKind]int, len(UpgradeKinds))
	for _, kind := range UpgradeKinds {
		levels[kind] = 1
	}
	return &UserEconomy{
		UserID:           userID,
		Username:         username,
		Level:            1,
		Energy:           e.catalog.EnergyCap,
		LastEnergyUpdate: now,
		LastClaim:        now,
		UpgradeLevels:    levels,
		Inventory:        make(map[string]int),
		Achievements:     make(map[string]time.Time),
		CreatedAt:        now,
	}
}

type ActionResult struct {
	Action            ActionSpec
	Reward            int64
	Experience        int64
	LevelsGained      int
	LeveledUp         bool
	Level             int
	Energy            int
	EnergyRegenerated int
}

// PerformAction spends the action's energy and grants its reward and experience.
func (e *Engine) PerformAction(u *UserEconomy, actionID string, now time.Time) (ActionResult, error) {
	spec, ok := e.catalog.Action(actionID)
	if !ok {
		return ActionResult{}, &UnknownActionError{Kind: "action", ID: actionID}
	}

	next := u.Clone()
	regenerated := e.ReconcileEnergy(next, now)
	if next.Energy < spec.EnergyCost {
		return ActionResult{Action: spec, Energy: next.Energy}, &InsufficientEnergyError{
			Required:  spec.EnergyCost,
			Available: next.Energy,
		}
	}

	e.changeEnergy(next, -spec.EnergyCost, now)
	reward := e.rollReward(spec) * int64(next.UpgradeLevel(UpgradeClickPower))
	next.credit(reward)
	levels := e.GainExperience(next, spec.Experience)

	*u = *next
	return ActionResult{
		Action:            spec,
		Reward:            reward,
		Experience:        spec.Experience,
		LevelsGained:      levels,
		LeveledUp:         levels > 0,
		Level:             u.Level,
		Energy:            u.Energy,
		EnergyRegenerated: regenerated,
	}, nil
}

func (e *Engine) rollReward(spec ActionSpec) int64 {
	span := spec.RewardMax - spec.RewardMin
	if span <= 0 {
		return spec.RewardMin
	}
	return spec.RewardMin + e.randInt64N(span+1)
}
