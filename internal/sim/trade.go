// Trade auto-stabilizer: a pairwise sibling scan that opens one-way routes
// to correct local surpluses and deficits, plus route settlement.
package sim

import (
	"fmt"

	"github.com/talgya/macroverse/internal/resource"
)

const (
	// A child is a surplus source when its stock exceeds 50× its own
	// consumption, and a deficit sink below 5×.
	surplusStockFactor = 50.0
	deficitStockFactor = 5.0

	// Nominal units moved per sim-tick on an auto route.
	tradeNominalAmount = 100.0
)

// TradeRoute is a directed resource transfer between two direct children of
// the same parent.
type TradeRoute struct {
	ID         string  `json:"id"`
	FromID     string  `json:"from_id"`
	ToID       string  `json:"to_id"`
	Resource   string  `json:"resource"`
	Amount     float64 `json:"amount"` // nominal units per sim-tick
	Efficiency float64 `json:"efficiency"`
}

// autoRouteID is deterministic so repeated detection of the same imbalance
// is idempotent.
func autoRouteID(fromID, toID, res string) string {
	return fmt.Sprintf("auto_%s_%s_%s", fromID, toID, res)
}

// autoStabilize scans every unordered pair of direct children for every
// resource and opens (or confirms) one-way routes from surplus to deficit.
// It runs before the children update, so it observes each child's economy
// as of the end of the previous tick.
func (n *Node) autoStabilize() {
	if len(n.Children) < 2 {
		return
	}
	for i := 0; i < len(n.Children); i++ {
		for j := i + 1; j < len(n.Children); j++ {
			a, b := n.Children[i], n.Children[j]
			for _, rt := range resource.Types() {
				n.considerRoute(a, b, rt)
				n.considerRoute(b, a, rt)
			}
		}
	}
}

// considerRoute opens from→to for one resource when from holds a surplus
// and to runs a deficit.
func (n *Node) considerRoute(from, to *Node, rt resource.Type) {
	key := rt.String()
	fromStock := from.Economy.Stockpile.Get(key)
	fromCons := from.Economy.Consumption.Get(key)
	toStock := to.Economy.Stockpile.Get(key)
	toCons := to.Economy.Consumption.Get(key)

	if fromStock <= surplusStockFactor*fromCons || toStock >= deficitStockFactor*toCons {
		return
	}

	id := autoRouteID(from.ID, to.ID, key)
	for _, r := range n.TradeRoutes {
		if r.ID == id {
			return
		}
	}
	n.TradeRoutes = append(n.TradeRoutes, &TradeRoute{
		ID:         id,
		FromID:     from.ID,
		ToID:       to.ID,
		Resource:   key,
		Amount:     tradeNominalAmount,
		Efficiency: n.rng.Range(0.8, 1.0),
	})
}

// settleRoutes moves stock along every route. Only semi-active and active
// parents settle; abstract mode keeps the route list as intent without
// deducting anything. Routes whose endpoints left the child list are
// dropped.
func (n *Node) settleRoutes(dt float64) {
	kept := n.TradeRoutes[:0]
	for _, r := range n.TradeRoutes {
		from, okFrom := n.Child(r.FromID)
		to, okTo := n.Child(r.ToID)
		if !okFrom || !okTo {
			continue
		}
		kept = append(kept, r)

		amount := r.Amount * dt
		if avail := from.Economy.Stockpile.Get(r.Resource); amount > avail {
			amount = avail
		}
		if amount <= 0 {
			continue
		}
		from.Economy.Stockpile.Add(r.Resource, -amount)
		to.Economy.Stockpile.Add(r.Resource, amount*r.Efficiency)
		from.Economy.TradeBalance += amount
		to.Economy.TradeBalance -= amount * r.Efficiency
	}
	n.TradeRoutes = kept
}
