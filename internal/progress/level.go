package progress

import "math"

// LevelForXP maps total XP to a level: floor(sqrt(xp/100)), never below 1.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	return max(1, int(math.Floor(math.Sqrt(float64(xp)/100))))
}

// XPForLevel is the total XP at which level begins.
func XPForLevel(level int) int {
	return level * level * 100
}

// LevelProgress returns how far xp has advanced through its current level,
// clamped to [0, 1].
func LevelProgress(xp int) float64 {
	level := LevelForXP(xp)
	needed := XPForLevel(level+1) - XPForLevel(level)
	if needed <= 0 {
		return 1
	}
	frac := float64(xp-XPForLevel(level)) / float64(needed)
	return math.Min(1, math.Max(0, frac))
}

// XPToNextLevel is the XP still missing before the next level.
func XPToNextLevel(xp int) int {
	return XPForLevel(LevelForXP(xp)+1) - xp
}
