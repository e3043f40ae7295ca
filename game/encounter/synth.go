// Package encounter deterministically transforms scanned radio devices into
// stable pseudo-combatants. A SHA-256 digest of the device fingerprint is the
// sole entropy source: the same hardware address always yields the same
// profile, across restarts and reinstalls. That determinism is what makes
// encounters mergeable and testable, so the byte-index mapping below must
// not change once saves exist.
package encounter

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/kuraoka/signalquest/model"
	"github.com/kuraoka/signalquest/scan"
)

// Signal boost divisors. Wi-Fi and Bluetooth report signal strength on
// different raw scales, so each source gets its own divisor.
const (
	wifiSignalDivisor      = 4
	bluetoothSignalDivisor = 5
)

var adjectives = [10]string{
	"Silent", "Crimson", "Iron", "Swift", "Grim",
	"Radiant", "Feral", "Frozen", "Ancient", "Sly",
}

var nouns = [10]string{
	"Falcon", "Warden", "Drifter", "Golem", "Raven",
	"Knight", "Specter", "Badger", "Oracle", "Corsair",
}

var titles = [10]string{
	"Beggar", "Knight", "Paladin", "Scout", "Merchant",
	"Thief", "Monk", "Ranger", "Sorcerer", "Bard",
}

var archetypes = [4]string{"brute", "trickster", "sage", "wanderer"}

// Fingerprint normalizes a hardware address into the permanent merge key.
func Fingerprint(address string) string {
	return strings.ToLower(address)
}

// digestOf hashes the fingerprint's UTF-8 bytes.
func digestOf(fingerprint string) [sha256.Size]byte {
	return sha256.Sum256([]byte(fingerprint))
}

// rotate left-rotates all digest bytes by one position. The Bluetooth path
// derives from the rotated digest so a device sharing low-order hash bytes
// with a Wi-Fi profile does not collide in generated stats.
func rotate(d [sha256.Size]byte) [sha256.Size]byte {
	var r [sha256.Size]byte
	for i := range d {
		r[i] = d[(i+1)%len(d)]
	}
	return r
}

// attributesFrom maps four fixed digest bytes to attribute values using
// base + (byte mod range), with distinct pairs per attribute.
func attributesFrom(d [sha256.Size]byte) model.Attributes {
	return model.Attributes{
		Power:     20 + int(d[0])%40,
		Agility:   15 + int(d[1])%35,
		Endurance: 15 + int(d[2])%35,
		Focus:     10 + int(d[3])%30,
	}
}

// codenameFrom builds the "Adjective Noun" display name used when the
// scanned device carries no human-readable name.
func codenameFrom(d [sha256.Size]byte) string {
	return fmt.Sprintf("%s %s", adjectives[int(d[4])%len(adjectives)], nouns[int(d[5])%len(nouns)])
}

func titleFrom(d [sha256.Size]byte) string {
	return titles[int(d[6])%len(titles)]
}

func archetypeFrom(d [sha256.Size]byte) string {
	return archetypes[int(d[7])%len(archetypes)]
}

// signalBoost shifts a dBm reading into a non-negative range and scales it
// by the source divisor.
func signalBoost(signal, divisor int) int {
	return max(0, signal+100) / divisor
}

// FromWifi synthesizes an encounter profile from a Wi-Fi scan result.
func FromWifi(d scan.WifiDevice, now time.Time) model.Encounter {
	fp := Fingerprint(d.BSSID)
	digest := digestOf(fp)
	attrs := attributesFrom(digest)

	name := d.SSID
	if name == "" {
		name = codenameFrom(digest)
	}
	return model.Encounter{
		Fingerprint: fp,
		DisplayName: name,
		Title:       titleFrom(digest),
		Archetype:   archetypeFrom(digest),
		Attributes:  attrs,
		PowerScore:  attrs.CombatRating() + signalBoost(d.SignalLevel, wifiSignalDivisor),
		Source:      model.SourceWifi,
		LastSeenAt:  now,
	}
}

// FromBluetooth synthesizes an encounter profile from a Bluetooth scan
// result. Attributes come from the rotated digest; the codename does too,
// which keeps the whole profile internally consistent.
func FromBluetooth(d scan.BluetoothDevice, now time.Time) model.Encounter {
	fp := Fingerprint(d.Address)
	rotated := rotate(digestOf(fp))
	attrs := attributesFrom(rotated)

	name := d.Name
	if name == "" {
		name = codenameFrom(rotated)
	}
	return model.Encounter{
		Fingerprint: fp,
		DisplayName: name,
		Title:       titleFrom(rotated),
		Archetype:   archetypeFrom(rotated),
		Attributes:  attrs,
		PowerScore:  attrs.CombatRating() + signalBoost(d.RSSI, bluetoothSignalDivisor),
		Source:      model.SourceBluetooth,
		LastSeenAt:  now,
	}
}

// NPC synthesizes a code-defined opponent from a stable seed string. NPCs
// give fresh installs something to fight before any scan has run.
func NPC(seed, name, title string, now time.Time) model.Encounter {
	fp := Fingerprint(seed)
	digest := digestOf(fp)
	attrs := attributesFrom(digest)
	return model.Encounter{
		Fingerprint: fp,
		DisplayName: name,
		Title:       title,
		Archetype:   archetypeFrom(digest),
		Attributes:  attrs,
		PowerScore:  attrs.CombatRating(),
		Source:      model.SourceNPC,
		LastSeenAt:  now,
	}
}

// DefaultNPCs is the built-in opponent roster seeded on first start.
func DefaultNPCs(now time.Time) []model.Encounter {
	return []model.Encounter{
		NPC("npc:roadside-beggar", "Roadside Beggar", "Beggar", now),
		NPC("npc:gatehouse-knight", "Gatehouse Knight", "Knight", now),
		NPC("npc:wandering-paladin", "Wandering Paladin", "Paladin", now),
		NPC("npc:mountain-dragon", "Mountain Dragon", "Dragon", now),
	}
}
