package engine

import (
	"maps"
	"time"
)

type UpgradeKind string

const (
	UpgradeClickPower        UpgradeKind = "click_power"
	UpgradeProducerSpeed     UpgradeKind = "producer_speed"
	UpgradeOfflineMultiplier UpgradeKind = "offline_multiplier"
)

// UpgradeKinds is the closed set of upgrade kinds, in display order.
var UpgradeKinds = []UpgradeKind{
	UpgradeClickPower,
	UpgradeProducerSpeed,
	UpgradeOfflineMultiplier,
}

func (k UpgradeKind) Valid() bool {
	switch k {
	case UpgradeClickPower, UpgradeProducerSpeed, UpgradeOfflineMultiplier:
		return true
	}
	return false
}

// UserEconomy is one user's progression state within one game.
type UserEconomy struct {
	UserID   string
	Username string

	Currency    int64
	TotalEarned int64
	Level       int
	Experience  int64
	Energy      int
	Producers   int

	LastEnergyUpdate time.Time
	LastClaim        time.Time

	UpgradeLevels map[UpgradeKind]int
	Inventory     map[string]int
	Achievements  map[string]time.Time

	CreatedAt time.Time
	// Version is bumped by the store on every successful write. Zero means never stored.
	Version int64
}

// UpgradeLevel returns the level of kind, treating a missing entry as level 1.
func (u *UserEconomy) UpgradeLevel(kind UpgradeKind) int {
	if lvl, ok := u.UpgradeLevels[kind]; ok && lvl > 0 {
		return lvl
	}
	return 1
}

func (u *UserEconomy) HasAchievement(id string) bool {
	_, ok := u.Achievements[id]
	return ok
}

// ItemsOwned counts every unit in the inventory.
func (u *UserEconomy) ItemsOwned() int {
	total := 0
	for _, n := range u.Inventory {
		total += n
	}
	return total
}

// Clone returns a deep copy so callers can mutate without touching the original.
func (u *UserEconomy) Clone() *UserEconomy {
	if u == nil {
		return nil
	}
	c := *u
	c.UpgradeLevels = maps.Clone(u.UpgradeLevels)
	c.Inventory = maps.Clone(u.Inventory)
	c.Achievements = maps.Clone(u.Achievements)
	if c.UpgradeLevels == nil {
		c.UpgradeLevels = make(map[UpgradeKind]int, len(UpgradeKinds))
	}
	if c.Inventory == nil {
		c.Inventory = make(map[string]int)
	}
	if c.Achievements == nil {
		c.Achievements = make(map[string]time.Time)
	}
	return &c
}

func (u *UserEconomy) credit(amount int64) {
	if amount <= 0 {
		return
	}
	u.Currency += amount
	u.TotalEarned += amount
}

func (u *UserEconomy) setEnergy(value, energyCap int) {
	u.Energy = max(0, min(value, energyCap))
}
