package progress

import "math"

const (
	XPTaskComplete    = 100
	XPAudacityAttempt = 200
	XPAudacitySuccess = 100
	XPPerLevel        = 500

	StreakBonusStartDay = 3
	StreakMultiplier    = 0.10
	StreakBonusCap      = 0.50
)

// XPWithStreak applies the streak multiplier to a base XP amount. The bonus
// starts at a 3-day streak (10%) and grows 10% per additional day, capped
// at 50%.
func XPWithStreak(baseXP, streak int) int {
	if streak < StreakBonusStartDay {
		return baseXP
	}
	bonusDays := streak - StreakBonusStartDay + 1
	multiplier := math.Min(float64(bonusDays)*StreakMultiplier, StreakBonusCap)
	return int(math.Round(float64(baseXP) * (1 + multiplier)))
}

// LevelForXP converts a total XP amount into a level (500 XP per level,
// starting at level 1).
func LevelForXP(xpTotal int) int {
	return xpTotal/XPPerLevel + 1
}

// BaseXPForTask returns the pre-streak XP for a task type and outcome.
// Audacity attempts pay out for the attempt itself, with a success bonus.
func BaseXPForTask(taskType, outcome string) int {
	if taskType == "audacity" {
		base := XPAudacityAttempt
		if outcome == "success" {
			base += XPAudacitySuccess
		}
		return base
	}
	return XPTaskComplete
}
