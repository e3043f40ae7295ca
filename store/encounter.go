package store

import (
	"context"
	"time"

	"github.com/kuraoka/signalquest/model"
	"gorm.io/gorm"
)

// EncounterStore persists the shared encounter collection, keyed by device
// fingerprint (at most one row per fingerprint).
type EncounterStore struct {
	db *gorm.DB
}

// NewEncounterStore creates an EncounterStore.
func NewEncounterStore(db *gorm.DB) *EncounterStore {
	return &EncounterStore{db: db}
}

// LoadAll returns every persisted encounter, strongest first.
func (s *EncounterStore) LoadAll(ctx context.Context) ([]model.Encounter, error) {
	var out []model.Encounter
	err := s.db.WithContext(ctx).Order("power_score DESC").Find(&out).Error
	return out, err
}

// ReplaceAll swaps the whole persisted collection for the given one.
func (s *EncounterStore) ReplaceAll(ctx context.Context, encounters []model.Encounter) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Encounter{}).Error; err != nil {
			return err
		}
		if len(encounters) == 0 {
			return nil
		}
		rows := make([]model.Encounter, len(encounters))
		copy(rows, encounters)
		for i := range rows {
			rows[i].ID = 0 // fresh autoincrement ids; fingerprint is the key
		}
		return tx.Create(&rows).Error
	})
}

// SetChallenged flips the challenge flag on one profile. Returns false if
// no profile with the fingerprint exists.
func (s *EncounterStore) SetChallenged(ctx context.Context, fingerprint string, challenged bool) (bool, error) {
	res := s.db.WithContext(ctx).Model(&model.Encounter{}).
		Where("fingerprint = ?", fingerprint).
		Update("is_challenged", challenged)
	return res.RowsAffected > 0, res.Error
}

// PruneStale deletes non-NPC encounters last seen before the cutoff.
// Returns the number of rows removed.
func (s *EncounterStore) PruneStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("last_seen_at < ? AND source <> ?", cutoff, model.SourceNPC).
		Delete(&model.Encounter{})
	return res.RowsAffected, res.Error
}

// SeedNPCs inserts default opponents for fingerprints not yet present.
func (s *EncounterStore) SeedNPCs(ctx context.Context, npcs []model.Encounter) error {
	for _, npc := range npcs {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Encounter{}).
			Where("fingerprint = ?", npc.Fingerprint).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := s.db.WithContext(ctx).Create(&npc).Error; err != nil {
			return err
		}
	}
	return nil
}
