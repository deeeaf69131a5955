// Per-resource production/consumption/stockpile integration.
package sim

import (
	"github.com/talgya/macroverse/internal/numeric"
	"github.com/talgya/macroverse/internal/resource"
)

// stepEconomy integrates each resource's stockpile by dt. Base rates are
// fixed per-capita constants scaled by population; output is further scaled
// by tech efficiency, infrastructure stability, and any active event
// multipliers. A non-finite stockpile heals to a 100-tick production buffer.
func (n *Node) stepEconomy(dt float64) {
	for _, rt := range resource.Types() {
		key := rt.String()

		prod := n.Population.Total * resource.BaseProduction(rt)
		cons := n.Population.Total * resource.BaseConsumption(rt)
		if mult, ok := n.eventProdMult[key]; ok {
			prod *= mult
		}
		n.Economy.Production.Set(key, prod)
		n.Economy.Consumption.Set(key, cons)

		produced := prod * n.Tech.Efficiency * (n.Stability.Infrastructure / 100)
		next := n.Economy.Stockpile.Get(key) + (produced-cons)*dt
		if !numeric.Finite(next) {
			next = n.guard.Heal(n.ID, "stockpile."+key, 100*prod)
		}
		if next < 0 {
			next = 0
		}
		n.Economy.Stockpile.Set(key, next)
	}
}
