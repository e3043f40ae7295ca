package progression

import "math"

const (
	// SkillPointsPerLevel is granted for every level gained.
	SkillPointsPerLevel = 2

	// baseRequirement is the experience needed to go from level 1 to 2.
	baseRequirement = 120
	// Each subsequent requirement grows by growthFactor, but never by less
	// than minIncrement. Changing either breaks saved experience values.
	growthFactor = 1.35
	minIncrement = 30
)

// nextRequirement returns the experience requirement that follows r.
func nextRequirement(r int64) int64 {
	grown := int64(math.Round(float64(r) * growthFactor))
	return max(grown, r+minIncrement)
}

// LevelForExperience walks the requirement curve against total experience:
// level starts at 1 and increments for every threshold fully consumed.
func LevelForExperience(exp int64) int {
	if exp < 0 {
		exp = 0
	}
	level := 1
	req := int64(baseRequirement)
	remaining := exp
	for remaining >= req {
		remaining -= req
		level++
		req = nextRequirement(req)
	}
	return level
}

// ExperienceForLevel returns the minimum total experience for the given
// level. Level 1 and below costs nothing.
func ExperienceForLevel(level int) int64 {
	var total int64
	req := int64(baseRequirement)
	for l := 1; l < level; l++ {
		total += req
		req = nextRequirement(req)
	}
	return total
}
