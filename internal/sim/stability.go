// Composite stability scoring: four independent scores and a weighted
// overall, every value clamped to [0, 100].
package sim

import (
	"github.com/talgya/macroverse/internal/numeric"
	"github.com/talgya/macroverse/internal/resource"
)

// Infrastructure drifts toward techLevel × 5 at this fraction per sim-tick.
const infraDrift = 0.01

// stepStability recomputes the five scores. Non-finite scores heal to the
// neutral value 50.
func (n *Node) stepStability(dt float64) {
	s := &n.Stability

	// Economic: average days-of-stock across resources, 50 days = full score.
	var econSum float64
	var econCount int
	n.Economy.Stockpile.Walk(func(key string, stock float64) {
		cons := n.Economy.Consumption.Get(key)
		days := 100.0
		if cons > 0 {
			days = stock / cons
		}
		score := 2 * days
		if score > 100 {
			score = 100
		}
		econSum += score
		econCount++
	})
	if econCount > 0 {
		s.Economic = econSum / float64(econCount)
	}

	// Social: crowding pressure against carrying capacity.
	crowding := 0.0
	if n.Population.Capacity > 0 {
		crowding = 50 * (n.Population.Total / n.Population.Capacity)
	}
	if crowding > 50 {
		crowding = 50
	}
	s.Social = 100 - crowding

	s.Infrastructure += (float64(n.Tech.Level)*5 - s.Infrastructure) * infraDrift * dt

	s.Happiness = (s.Economic + s.Social) / 2
	s.Overall = overallStability(*s) + n.eventStabilityBias*dt

	for _, f := range []*float64{&s.Economic, &s.Social, &s.Infrastructure, &s.Happiness, &s.Overall} {
		if !numeric.Finite(*f) {
			*f = n.guard.Heal(n.ID, "stability", 50)
		}
		*f = numeric.ClampScore(*f)
	}
}

func overallStability(s Stability) float64 {
	return 0.4*s.Economic + 0.3*s.Social + 0.2*s.Infrastructure + 0.1*s.Happiness
}

// daysOfStock returns how many ticks of consumption remain for one resource.
func (n *Node) daysOfStock(rt resource.Type) float64 {
	cons := n.Economy.Consumption.Get(rt.String())
	if cons <= 0 {
		return 100
	}
	return n.Economy.Stockpile.Get(rt.String()) / cons
}
