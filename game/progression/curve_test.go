package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForExperience_Thresholds(t *testing.T) {
	// First requirement is 120, second round(120*1.35)=162, third
	// round(162*1.35)=219. Cumulative: 120, 282, 501.
	cases := []struct {
		exp  int64
		want int
	}{
		{0, 1},
		{119, 1},
		{120, 2},
		{281, 2},
		{282, 3},
		{500, 3},
		{501, 4},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LevelForExperience(tc.exp), "exp=%d", tc.exp)
	}
}

func TestLevelForExperience_NegativeClampsToLevelOne(t *testing.T) {
	assert.Equal(t, 1, LevelForExperience(-50))
}

func TestExperienceForLevel_InverseOfLevelFor(t *testing.T) {
	assert.Equal(t, int64(0), ExperienceForLevel(1))
	assert.Equal(t, int64(0), ExperienceForLevel(0))
	assert.Equal(t, int64(120), ExperienceForLevel(2))
	assert.Equal(t, int64(282), ExperienceForLevel(3))

	for level := 2; level <= 20; level++ {
		floor := ExperienceForLevel(level)
		assert.Equal(t, level, LevelForExperience(floor), "at floor of level %d", level)
		assert.Equal(t, level-1, LevelForExperience(floor-1), "just below floor of level %d", level)
	}
}

func TestNextRequirement_MinIncrementFloor(t *testing.T) {
	// Small requirements grow by at least minIncrement, not by the factor.
	assert.Equal(t, int64(50), nextRequirement(20))
	// Large ones follow the factor.
	assert.Equal(t, int64(1350), nextRequirement(1000))
}
