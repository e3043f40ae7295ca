package model

import "time"

// MissionStatus is the lifecycle state of a mission for one character.
type MissionStatus string

const (
	MissionDeactivated MissionStatus = "DEACTIVATED"
	MissionActive      MissionStatus = "ACTIVE"
	MissionDone        MissionStatus = "DONE"
	// MissionFailed is modeled as a terminal state but no current event
	// produces it.
	MissionFailed MissionStatus = "FAILED"
)

// MissionState is a character's progress on one mission.
type MissionState struct {
	Status    MissionStatus `json:"status"`
	Progress  int           `json:"progress"`
	Target    int           `json:"target"`
	Notes     string        `json:"notes,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// HighScore is the best recorded result for one (game, difficulty) pair.
// Whether "best" means higher score or lower elapsed time is decided by the
// comparator the mini-game supplies when recording.
type HighScore struct {
	Score      int       `json:"score"`
	ElapsedMs  int64     `json:"elapsed_ms"`
	Difficulty string    `json:"difficulty"`
	AchievedAt time.Time `json:"achieved_at"`
}

// Character is the aggregate player record. The game engines treat it as an
// immutable snapshot: every operation takes a value and returns a new value,
// with map fields deep-copied before mutation (see Clone).
type Character struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID int64  `gorm:"uniqueIndex;not null" json:"account_id"`
	Name      string `gorm:"uniqueIndex;size:32;not null" json:"name"`

	Level      int   `gorm:"default:1" json:"level"`
	Experience int64 `gorm:"default:0" json:"experience"`

	Attributes Attributes  `gorm:"embedded;embeddedPrefix:attr_" json:"attributes"`
	Ledger     SkillLedger `gorm:"embedded;embeddedPrefix:ledger_" json:"skill_ledger"`

	Victories    int `gorm:"default:0" json:"victories"`
	Defeats      int `gorm:"default:0" json:"defeats"`
	SkillPoints  int `gorm:"default:0" json:"skill_points"`
	StatusPoints int `gorm:"default:0" json:"status_points"`

	// HighScores maps game id → difficulty → best entry.
	HighScores map[string]map[string]HighScore `gorm:"serializer:json" json:"high_scores"`
	// Missions maps mission id → per-character mission state.
	Missions map[string]MissionState `gorm:"serializer:json" json:"missions"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the character, including its map fields.
// Engines call this before mutating so the caller's snapshot stays intact.
func (c Character) Clone() Character {
	if c.HighScores != nil {
		scores := make(map[string]map[string]HighScore, len(c.HighScores))
		for game, byDiff := range c.HighScores {
			inner := make(map[string]HighScore, len(byDiff))
			for diff, hs := range byDiff {
				inner[diff] = hs
			}
			scores[game] = inner
		}
		c.HighScores = scores
	}
	if c.Missions != nil {
		missions := make(map[string]MissionState, len(c.Missions))
		for id, st := range c.Missions {
			missions[id] = st
		}
		c.Missions = missions
	}
	return c
}
