package engine

import (
	"log/slog"
	"time"
)

// ReconcileEnergy credits the whole regeneration intervals elapsed since the
// last reconciliation and returns the energy gained.
//
// When no whole interval has elapsed the reconciliation point stays put, so
// repeated calls are no-ops and partial progress carries over. When the gain
// stops short of the cap the point advances by exactly the consumed intervals.
// When the cap is reached the point moves to now.
func (e *Engine) ReconcileEnergy(u *UserEconomy, now time.Time) int {
	energyCap := e.catalog.EnergyCap
	if u.Energy > energyCap || u.Energy < 0 {
		u.setEnergy(u.Energy, energyCap)
	}

	elapsed := now.Sub(u.LastEnergyUpdate)
	if elapsed < 0 {
		slog.Warn("Clock skew during energy reconciliation",
			slog.String("type", "eco"),
			slog.String("game", e.catalog.Game),
			slog.String("user_id", u.UserID),
			slog.Duration("skew", -elapsed))
		return 0
	}

	room := energyCap - u.Energy
	if room <= 0 {
		return 0
	}

	interval := e.catalog.EnergyRegenInterval()
	ticks := int64(elapsed / interval)
	if ticks <= 0 {
		return 0
	}

	if ticks >= int64(room) {
		u.Energy = energyCap
		u.LastEnergyUpdate = now
		return room
	}

	u.Energy += int(ticks)
	u.LastEnergyUpdate = u.LastEnergyUpdate.Add(time.Duration(ticks) * interval)
	return int(ticks)
}

// NextEnergyAt returns when the next energy unit regenerates, or the zero time at cap.
func (e *Engine) NextEnergyAt(u *UserEconomy) time.Time {
	if u.Energy >= e.catalog.EnergyCap {
		return time.Time{}
	}
	return u.LastEnergyUpdate.Add(e.catalog.EnergyRegenInterval())
}

// changeEnergy applies delta clamped to [0, cap]. Leaving a full bar starts the
// regeneration clock at now, since no regeneration accrues while full.
func (e *Engine) changeEnergy(u *UserEconomy, delta int, now time.Time) {
	energyCap := e.catalog.EnergyCap
	if delta < 0 && u.Energy >= energyCap {
		u.LastEnergyUpdate = now
	}
	u.setEnergy(u.Energy+delta, energyCap)
}
