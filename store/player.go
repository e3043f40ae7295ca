// Package store is the persistence boundary for the game engines: load a
// state snapshot, run pure transformations, write the new snapshot back.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/kuraoka/signalquest/model"
	"gorm.io/gorm"
)

// ErrNoCharacter is returned when an account has not finished onboarding.
var ErrNoCharacter = errors.New("store: account has no character")

// PlayerStore persists one character record per account. Update serializes
// read-modify-write cycles per account, because the engines transform full
// prior-state snapshots and are not designed to merge divergent writes.
type PlayerStore struct {
	db    *gorm.DB
	locks sync.Map // accountID → *sync.Mutex
}

// NewPlayerStore creates a PlayerStore.
func NewPlayerStore(db *gorm.DB) *PlayerStore {
	return &PlayerStore{db: db}
}

func (s *PlayerStore) lock(accountID int64) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(accountID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Load returns the account's character, or (nil, nil) if none exists.
func (s *PlayerStore) Load(ctx context.Context, accountID int64) (*model.Character, error) {
	var c model.Character
	err := s.db.WithContext(ctx).Where("account_id = ?", accountID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new character record.
func (s *PlayerStore) Create(ctx context.Context, c *model.Character) error {
	return s.db.WithContext(ctx).Create(c).Error
}

// Save writes the full character record.
func (s *PlayerStore) Save(ctx context.Context, c *model.Character) error {
	return s.db.WithContext(ctx).Save(c).Error
}

// Delete removes the account's character record (explicit reset).
func (s *PlayerStore) Delete(ctx context.Context, accountID int64) error {
	return s.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&model.Character{}).Error
}

// Update runs one serialized read-modify-write cycle: load the snapshot,
// apply fn, persist the result. Returns ErrNoCharacter if the account has
// no record. fn receives the snapshot by value; returning an error aborts
// without writing.
func (s *PlayerStore) Update(ctx context.Context, accountID int64, fn func(model.Character) (model.Character, error)) (*model.Character, error) {
	mu := s.lock(accountID)
	mu.Lock()
	defer mu.Unlock()

	current, err := s.Load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNoCharacter
	}
	updated, err := fn(*current)
	if err != nil {
		return nil, err
	}
	if err := s.Save(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
