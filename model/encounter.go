package model

import "time"

// EncounterSource tags which observation path produced an encounter profile.
type EncounterSource string

const (
	SourceWifi        EncounterSource = "wifi"
	SourceBluetooth   EncounterSource = "bluetooth"
	SourceNPC         EncounterSource = "npc"
	SourcePlayerCache EncounterSource = "player-cache"
)

// Encounter is a synthesized or cached combatant derived from a scanned
// radio device. Fingerprint is the permanent merge key: at most one row
// exists per fingerprint.
type Encounter struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Fingerprint string `gorm:"uniqueIndex;size:64;not null" json:"fingerprint"`

	DisplayName string `gorm:"size:64" json:"display_name"`
	Title       string `gorm:"size:64" json:"title"`
	IsPlayer    bool   `gorm:"default:false" json:"is_player"`

	Attributes Attributes `gorm:"embedded;embeddedPrefix:attr_" json:"attributes"`

	// PowerScore includes the signal boost and may sit below the raw
	// combat rating; see AdjustedPower.
	PowerScore int             `gorm:"default:0" json:"power_score"`
	Source     EncounterSource `gorm:"size:16" json:"source"`
	Archetype  string          `gorm:"size:32" json:"archetype"`

	IsChallenged bool      `gorm:"default:false" json:"is_challenged"`
	LastSeenAt   time.Time `json:"last_seen_at"`
}

// AdjustedPower is the effective strength used for matchmaking displays.
func (e Encounter) AdjustedPower() int {
	return max(e.PowerScore, e.Attributes.CombatRating())
}
