// Package resource defines the fixed resource enumeration and the ordered
// keyed table used for every sparse numeric map in the simulation
// (production, stockpiles, scientist pools, diplomatic stances).
package resource

import "fmt"

// Type is one of the fixed tradeable resource categories.
type Type uint8

const (
	Food Type = iota
	Materials
	Energy
	Alloys
	Goods
	Exotics

	typeCount
)

var typeNames = [typeCount]string{
	"food",
	"materials",
	"energy",
	"alloys",
	"goods",
	"exotics",
}

// String returns the canonical lowercase resource label.
func (t Type) String() string {
	if t >= typeCount {
		return fmt.Sprintf("resource(%d)", uint8(t))
	}
	return typeNames[t]
}

// ParseType maps a label back to its Type.
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown resource %q", s)
}

// Types returns all resource types in their fixed order.
func Types() []Type {
	out := make([]Type, typeCount)
	for i := range out {
		out[i] = Type(i)
	}
	return out
}

// Per-capita base rates, units per person per sim-tick. Production sits a
// little above consumption so healthy regions accumulate stock slowly.
var baseProduction = [typeCount]float64{
	Food:      0.0020,
	Materials: 0.0015,
	Energy:    0.0018,
	Alloys:    0.0008,
	Goods:     0.0010,
	Exotics:   0.0001,
}

var baseConsumption = [typeCount]float64{
	Food:      0.0018,
	Materials: 0.0010,
	Energy:    0.0015,
	Alloys:    0.0005,
	Goods:     0.0008,
	Exotics:   0.00005,
}

// BaseProduction returns the fixed per-capita production rate for t.
func BaseProduction(t Type) float64 {
	if t >= typeCount {
		return 0
	}
	return baseProduction[t]
}

// BaseConsumption returns the fixed per-capita consumption rate for t.
func BaseConsumption(t Type) float64 {
	if t >= typeCount {
		return 0
	}
	return baseConsumption[t]
}
