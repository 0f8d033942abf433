package engine

// ExpToNextLevel is the experience needed to leave level.
func (e *Engine) ExpToNextLevel(level int) int64 {
	if e.catalog.LevelCurve == CurveLinear {
		return int64(level) * e.catalog.ExpPerLevel
	}
	return e.catalog.ExpPerLevel
}

// GainExperience adds amount and runs the leveling pass, returning levels gained.
func (e *Engine) GainExperience(u *UserEconomy, amount int64) int {
	if amount > 0 {
		u.Experience += amount
	}
	return e.levelUp(u)
}

// levelUp repeats until experience is below the current threshold, so one
// large gain can cross several levels.
func (e *Engine) levelUp(u *UserEconomy) int {
	if u.Level < 1 {
		u.Level = 1
	}
	gained := 0
	for {
		threshold := e.ExpToNextLevel(u.Level)
		if u.Experience < threshold {
			return gained
		}
		u.Experience -= threshold
		u.Level++
		gained++
	}
}
