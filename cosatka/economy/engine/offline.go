package engine

import (
	"log/slog"
	"math"
	"time"
)

// floorEpsilon absorbs float representation error right below whole numbers.
const floorEpsilon = 1e-9

// ClaimOfflineEarnings credits producer output accrued since the last claim,
// capped at the catalog's offline window. Zero earnings is a valid outcome.
func (e *Engine) ClaimOfflineEarnings(u *UserEconomy, now time.Time) int64 {
	elapsed := now.Sub(u.LastClaim)
	if elapsed <= 0 {
		if elapsed < 0 {
			slog.Warn("Clock skew during offline claim",
				slog.String("type", "eco"),
				slog.String("game", e.catalog.Game),
				slog.String("user_id", u.UserID),
				slog.Duration("skew", -elapsed))
		}
		return 0
	}

	earnings := e.offlineEarnings(u, elapsed)
	u.credit(earnings)
	u.LastClaim = now
	return earnings
}

// PendingOfflineEarnings quotes what ClaimOfflineEarnings would pay at now.
func (e *Engine) PendingOfflineEarnings(u *UserEconomy, now time.Time) int64 {
	elapsed := now.Sub(u.LastClaim)
	if elapsed <= 0 {
		return 0
	}
	return e.offlineEarnings(u, elapsed)
}

// OfflineRatePerMinute is the current producer output per minute before flooring.
func (e *Engine) OfflineRatePerMinute(u *UserEconomy) float64 {
	return float64(u.Producers) * e.offlineMultiplier(u) * e.speedFactor(u)
}

func (e *Engine) offlineEarnings(u *UserEconomy, elapsed time.Duration) int64 {
	if u.Producers <= 0 {
		return 0
	}
	elapsed = min(elapsed, e.catalog.OfflineCap())
	minutes := elapsed.Seconds() / 60
	base := float64(u.Producers) * minutes
	return int64(math.Floor(base*e.offlineMultiplier(u)*e.speedFactor(u) + floorEpsilon))
}

func (e *Engine) offlineMultiplier(u *UserEconomy) float64 {
	return 1 + float64(u.UpgradeLevel(UpgradeOfflineMultiplier))*e.catalog.OfflineBonusPerLevel
}

func (e *Engine) speedFactor(u *UserEconomy) float64 {
	return float64(u.UpgradeLevel(UpgradeProducerSpeed))
}
