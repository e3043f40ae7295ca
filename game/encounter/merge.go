package encounter

import (
	"sort"
	"time"

	"github.com/kuraoka/signalquest/model"
	"github.com/kuraoka/signalquest/scan"
)

// Merge folds a fresh observation (secondary) into an existing record
// (primary). With no primary the secondary becomes the record as-is.
// Otherwise attributes and power score become the running maximum so a
// previously observed best stat never regresses, while the source tag
// reflects the most recent observation.
func Merge(primary *model.Encounter, secondary model.Encounter, now time.Time) model.Encounter {
	if primary == nil {
		secondary.LastSeenAt = now
		return secondary
	}
	merged := *primary
	merged.Attributes = merged.Attributes.Merge(secondary.Attributes)
	merged.PowerScore = max(merged.PowerScore, secondary.PowerScore)
	merged.Source = secondary.Source
	merged.LastSeenAt = now
	return merged
}

// Reconcile synthesizes every device in the snapshot and merges each against
// the in-batch duplicate or persisted record with the same fingerprint.
// Records not seen in this snapshot are carried through unchanged (pruning
// stale ones is a scheduler concern). The result is ordered by descending
// power score; ties keep their relative order.
func Reconcile(snapshot scan.Snapshot, existing []model.Encounter, now time.Time) []model.Encounter {
	byFingerprint := make(map[string]model.Encounter, len(existing))
	order := make([]string, 0, len(existing))
	for _, e := range existing {
		if _, ok := byFingerprint[e.Fingerprint]; ok {
			continue // persisted collection should already be unique
		}
		byFingerprint[e.Fingerprint] = e
		order = append(order, e.Fingerprint)
	}

	fold := func(profile model.Encounter) {
		if prior, ok := byFingerprint[profile.Fingerprint]; ok {
			byFingerprint[profile.Fingerprint] = Merge(&prior, profile, now)
			return
		}
		byFingerprint[profile.Fingerprint] = Merge(nil, profile, now)
		order = append(order, profile.Fingerprint)
	}

	for _, d := range snapshot.WifiDevices {
		fold(FromWifi(d, now))
	}
	for _, d := range snapshot.BluetoothDevices {
		fold(FromBluetooth(d, now))
	}

	out := make([]model.Encounter, 0, len(order))
	for _, fp := range order {
		out = append(out, byFingerprint[fp])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PowerScore > out[j].PowerScore
	})
	return out
}
