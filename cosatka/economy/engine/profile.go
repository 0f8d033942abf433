package engine

import "time"

// Profile is a read-only view of a user at a point in time. Building it never
// mutates the stored record.
type Profile struct {
	User           *UserEconomy
	ExpToNextLevel int64
	NextEnergyAt   time.Time
	PendingOffline int64
	RatePerMinute  float64
	ItemCosts      map[string]int64
	UpgradeCosts   map[UpgradeKind]int64
}

func (e *Engine) Profile(u *UserEconomy, now time.Time) Profile {
	view := u.Clone()
	e.ReconcileEnergy(view, now)

	p := Profile{
		User:           view,
		ExpToNextLevel: e.ExpToNextLevel(view.Level),
		NextEnergyAt:   e.NextEnergyAt(view),
		PendingOffline: e.PendingOfflineEarnings(view, now),
		RatePerMinute:  e.OfflineRatePerMinute(view),
		ItemCosts:      make(map[string]int64, len(e.catalog.Items)),
		UpgradeCosts:   make(map[UpgradeKind]int64, len(e.catalog.Upgrades)),
	}
	for _, it := range e.catalog.Items {
		p.ItemCosts[it.ID] = e.ItemCost(view, it)
	}
	for _, up := range e.catalog.Upgrades {
		p.UpgradeCosts[up.Kind] = e.UpgradeCost(view, up)
	}
	return p
}
