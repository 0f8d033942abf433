package engine

import "time"

// UnlockAchievement records id as unlocked. It reports whether the unlock is
// new; unlocking twice is not an error.
func (e *Engine) UnlockAchievement(u *UserEconomy, id string, now time.Time) (bool, error) {
	if _, ok := e.catalog.Achievement(id); !ok {
		return false, &UnknownActionError{Kind: "achievement", ID: id}
	}
	if u.HasAchievement(id) {
		return false, nil
	}
	if u.Achievements == nil {
		u.Achievements = make(map[string]time.Time)
	}
	u.Achievements[id] = now
	return true, nil
}
