package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/kuraoka/signalquest/game/encounter"
	"github.com/kuraoka/signalquest/model"
	"github.com/kuraoka/signalquest/scan"
	"github.com/kuraoka/signalquest/store"
	"github.com/kuraoka/signalquest/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncounterStore_ReplaceAllAndLoadAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.NewEncounterStore(db)
	ctx := context.Background()
	now := time.Now()

	first := encounter.Reconcile(scan.Snapshot{
		WifiDevices: []scan.WifiDevice{
			{SSID: "A", BSSID: "00:00:00:00:00:01", SignalLevel: -40},
			{SSID: "B", BSSID: "00:00:00:00:00:02", SignalLevel: -80},
		},
	}, nil, now)
	require.NoError(t, s.ReplaceAll(ctx, first))

	loaded, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.GreaterOrEqual(t, loaded[0].PowerScore, loaded[1].PowerScore, "strongest first")

	// A second replace swaps the collection wholesale.
	require.NoError(t, s.ReplaceAll(ctx, first[:1]))
	loaded, err = s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestEncounterStore_ReplaceAllEmptyClears(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.NewEncounterStore(db)
	ctx := context.Background()

	require.NoError(t, s.SeedNPCs(ctx, encounter.DefaultNPCs(time.Now())))
	require.NoError(t, s.ReplaceAll(ctx, nil))

	loaded, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestEncounterStore_SetChallenged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.NewEncounterStore(db)
	ctx := context.Background()

	npcs := encounter.DefaultNPCs(time.Now())
	require.NoError(t, s.SeedNPCs(ctx, npcs))

	found, err := s.SetChallenged(ctx, npcs[0].Fingerprint, true)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.SetChallenged(ctx, "no:such:fingerprint", true)
	require.NoError(t, err)
	assert.False(t, found)

	loaded, err := s.LoadAll(ctx)
	require.NoError(t, err)
	for _, e := range loaded {
		if e.Fingerprint == npcs[0].Fingerprint {
			assert.True(t, e.IsChallenged)
		}
	}
}

func TestEncounterStore_PruneStaleSparesNPCs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.NewEncounterStore(db)
	ctx := context.Background()

	stale := time.Now().Add(-48 * time.Hour)
	npc := encounter.NPC("npc:roadside-beggar", "Roadside Beggar", "Beggar", stale)
	scanned := encounter.FromWifi(scan.WifiDevice{SSID: "Old", BSSID: "00:00:00:00:00:09", SignalLevel: -50}, stale)
	fresh := encounter.FromWifi(scan.WifiDevice{SSID: "New", BSSID: "00:00:00:00:00:0a", SignalLevel: -50}, time.Now())

	require.NoError(t, s.ReplaceAll(ctx, []model.Encounter{npc, scanned, fresh}))

	removed, err := s.PruneStale(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	loaded, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	fingerprints := map[string]bool{}
	for _, e := range loaded {
		fingerprints[e.Fingerprint] = true
	}
	assert.True(t, fingerprints[npc.Fingerprint], "NPCs are never pruned")
	assert.True(t, fingerprints[fresh.Fingerprint])
}

func TestEncounterStore_SeedNPCsIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.NewEncounterStore(db)
	ctx := context.Background()

	npcs := encounter.DefaultNPCs(time.Now())
	require.NoError(t, s.SeedNPCs(ctx, npcs))
	require.NoError(t, s.SeedNPCs(ctx, npcs))

	loaded, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, len(npcs))
}
