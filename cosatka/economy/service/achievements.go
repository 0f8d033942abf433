package service

import (
	"time"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"
)

// qualifies reports whether u meets the achievement's rule right now.
// first_action holds after any successful mutation.
func qualifies(u *engine.UserEconomy, a engine.AchievementSpec) bool {
	switch a.Rule {
	case engine.RuleFirstAction:
		return true
	case engine.RuleCurrencyAtLeast:
		return u.Currency >= a.Threshold
	case engine.RuleEarnedAtLeast:
		return u.TotalEarned >= a.Threshold
	case engine.RuleLevelAtLeast:
		return int64(u.Level) >= a.Threshold
	case engine.RuleProducersAtLeast:
		return int64(u.Producers) >= a.Threshold
	case engine.RuleItemsAtLeast:
		return int64(u.ItemsOwned()) >= a.Threshold
	}
	return false
}

// observe unlocks every catalog achievement u newly qualifies for.
func (s *Service) observe(u *engine.UserEconomy, now time.Time) []engine.AchievementSpec {
	var unlocked []engine.AchievementSpec
	for _, a := range s.engine.Catalog().Achievements {
		if u.HasAchievement(a.ID) || !qualifies(u, a) {
			continue
		}
		if ok, err := s.engine.UnlockAchievement(u, a.ID, now); err == nil && ok {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}
