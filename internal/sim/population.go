// Logistic population growth with happiness feedback and capacity drift.
package sim

import (
	"github.com/talgya/macroverse/internal/numeric"
	"github.com/talgya/macroverse/internal/scale"
)

const (
	// Intrinsic growth rate at full happiness, per sim-tick.
	baseGrowthRate = 0.001

	// Capacity eases toward its pressure-derived target at this fraction
	// per sim-tick.
	capacityDrift = 0.001
)

// stepPopulation advances the logistic model by dt. Non-finite results heal
// to the tier's minimum population bound instead of propagating.
func (n *Node) stepPopulation(dt float64) {
	row := scale.For(n.Tier)
	p := &n.Population

	// A dead or corrupted capacity would divide the pressure term by zero;
	// restore the documented floor before any use.
	if !numeric.Finite(p.Capacity) || p.Capacity < row.PopMin {
		p.Capacity = n.guard.Heal(n.ID, "capacity", row.PopMin)
	}

	rate := baseGrowthRate * (n.Stability.Happiness / 100)
	pressure := 1 - p.Total/p.Capacity
	p.Growth = rate * p.Total * pressure

	next := p.Total + p.Growth*dt
	if !numeric.Finite(next) {
		next = n.guard.Heal(n.ID, "population", row.PopMin)
		p.Growth = 0
	}
	if next < 0 {
		next = 0
	}
	p.Total = next
	n.redistribute()

	// Capacity drifts slowly toward a stability-scaled share of the tier's
	// upper bound, floored at the documented minimum.
	target := row.PopMax * (0.5 + 0.5*n.Stability.Overall/100)
	p.Capacity += (target - p.Capacity) * capacityDrift * dt
	if !numeric.Finite(p.Capacity) || p.Capacity < row.PopMin {
		p.Capacity = n.guard.Heal(n.ID, "capacity", row.PopMin)
	}
}
