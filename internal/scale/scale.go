// Package scale provides the static per-tier constants for the seven-level
// world ladder. Every other system reads its bounds from here — no model
// hardcodes a population range.
package scale

import "fmt"

// Tier is one level of the scale ladder, ordered largest to smallest.
type Tier uint8

const (
	TierGalaxy Tier = iota
	TierSector
	TierSystem
	TierPlanet
	TierGigasegment
	TierMegasegment
	TierTile

	tierCount
)

var tierNames = [tierCount]string{
	"galaxy",
	"sector",
	"system",
	"planet",
	"gigasegment",
	"megasegment",
	"tile",
}

// String returns the canonical lowercase tier label.
func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
	return tierNames[t]
}

// Valid reports whether t is one of the seven defined tiers.
func (t Tier) Valid() bool {
	return t < tierCount
}

// Child returns the next smaller tier, or false at the bottom of the ladder.
func (t Tier) Child() (Tier, bool) {
	if !t.Valid() || t == TierTile {
		return 0, false
	}
	return t + 1, true
}

// ParseTier maps a label back to its Tier.
func ParseTier(s string) (Tier, error) {
	for i, name := range tierNames {
		if name == s {
			return Tier(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tier %q", s)
}

// Row holds the documented constants for one tier.
type Row struct {
	Name     string
	AreaKm2  float64 // Representative surface / disc area.
	PopMin   float64 // Lower population bound; also the self-healing floor.
	PopMax   float64
	ChildMin int // Expected child count range for procedural generation.
	ChildMax int
}

var table = [tierCount]Row{
	TierGalaxy:      {Name: "galaxy", AreaKm2: 7.0e41, PopMin: 1e11, PopMax: 5e12, ChildMin: 4, ChildMax: 8},
	TierSector:      {Name: "sector", AreaKm2: 2.2e38, PopMin: 1e10, PopMax: 1e12, ChildMin: 6, ChildMax: 12},
	TierSystem:      {Name: "system", AreaKm2: 2.8e19, PopMin: 1e9, PopMax: 1e11, ChildMin: 1, ChildMax: 6},
	TierPlanet:      {Name: "planet", AreaKm2: 5.1e8, PopMin: 5e8, PopMax: 2e10, ChildMin: 2, ChildMax: 6},
	TierGigasegment: {Name: "gigasegment", AreaKm2: 5.0e7, PopMin: 1e8, PopMax: 5e9, ChildMin: 2, ChildMax: 8},
	TierMegasegment: {Name: "megasegment", AreaKm2: 5.0e6, PopMin: 1e8, PopMax: 1e9, ChildMin: 4, ChildMax: 12},
	TierTile:        {Name: "tile", AreaKm2: 1.0e4, PopMin: 1e4, PopMax: 1e7, ChildMin: 0, ChildMax: 0},
}

// For returns the constants row for a tier.
func For(t Tier) Row {
	if !t.Valid() {
		return table[TierTile]
	}
	return table[t]
}

// Tiers returns all seven tiers in ladder order.
func Tiers() []Tier {
	out := make([]Tier, tierCount)
	for i := range out {
		out[i] = Tier(i)
	}
	return out
}
