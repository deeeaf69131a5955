// Megasegment tier: regional political entities, diplomatic stances, and
// empire merges under very high social stability.
package sim

import (
	"log/slog"

	"github.com/talgya/macroverse/internal/entropy"
	"github.com/talgya/macroverse/internal/resource"
	"github.com/talgya/macroverse/internal/scale"
)

// PoliticalEntity is one regional polity. Stances maps other polity IDs to
// a -100..100 disposition.
type PoliticalEntity struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Government string          `json:"government"`
	PopShare   float64         `json:"pop_share"` // 0..1 of the segment
	Stances    *resource.Table `json:"stances"`
}

// MegasegmentDetail is the structural block for megasegment nodes.
type MegasegmentDetail struct {
	Polities []*PoliticalEntity `json:"polities,omitempty"`
	Merges   int                `json:"merges"` // lifetime merge count
}

func (*MegasegmentDetail) detailTier() scale.Tier { return scale.TierMegasegment }

var governments = []string{"republic", "technocracy", "directorate", "syndicate", "commune"}

var polityNames = []string{
	"Northreach", "Cindral", "Vantara", "Oskelion", "Duskfall", "Arcadia", "Lowmark", "Hesperin",
}

// Social stability above this threshold makes neighboring polities start
// merging.
const mergeStabilityThreshold = 90.0

type megasegmentBehavior struct{}

func (megasegmentBehavior) Generate(n *Node) {
	d := &MegasegmentDetail{}

	count := n.rng.Between(2, 5)
	used := make(map[string]bool)
	for i := 0; i < count; i++ {
		name := entropy.Pick(n.rng, polityNames)
		if used[name] {
			continue
		}
		used[name] = true
		d.Polities = append(d.Polities, &PoliticalEntity{
			ID:         n.rng.ID("pol"),
			Name:       name,
			Government: entropy.Pick(n.rng, governments),
			PopShare:   n.rng.Float(),
			Stances:    resource.NewTable(),
		})
	}

	// Normalize shares and seed pairwise stances.
	var total float64
	for _, p := range d.Polities {
		total += p.PopShare
	}
	for _, p := range d.Polities {
		if total > 0 {
			p.PopShare /= total
		}
		for _, other := range d.Polities {
			if other.ID != p.ID {
				p.Stances.Set(other.ID, n.rng.Range(-50, 80))
			}
		}
	}

	n.Detail = d
}

func (megasegmentBehavior) Extend(n *Node, dt float64) {
	d, ok := n.Detail.(*MegasegmentDetail)
	if !ok || len(d.Polities) < 2 {
		return
	}

	if n.Stability.Social <= mergeStabilityThreshold {
		return
	}
	if n.rng.Float() >= 0.001*dt {
		return
	}

	// The two friendliest polities merge; the larger absorbs the smaller.
	a, b := friendliestPair(d.Polities)
	if a == nil || b == nil {
		return
	}
	if b.PopShare > a.PopShare {
		a, b = b, a
	}
	a.PopShare += b.PopShare
	kept := d.Polities[:0]
	for _, p := range d.Polities {
		if p.ID == b.ID {
			continue
		}
		// Stances toward the absorbed polity are no longer meaningful.
		if p.Stances.Has(b.ID) {
			p.Stances.Set(b.ID, 0)
		}
		kept = append(kept, p)
	}
	d.Polities = kept
	d.Merges++
	slog.Info("polities merged",
		"node", n.ID, "absorbed", b.Name, "into", a.Name, "merges", d.Merges)
}

// friendliestPair returns the polity pair with the highest mutual stance.
func friendliestPair(polities []*PoliticalEntity) (*PoliticalEntity, *PoliticalEntity) {
	var bestA, bestB *PoliticalEntity
	best := -1e9
	for i := 0; i < len(polities); i++ {
		for j := i + 1; j < len(polities); j++ {
			a, b := polities[i], polities[j]
			mutual := a.Stances.Get(b.ID) + b.Stances.Get(a.ID)
			if mutual > best {
				best = mutual
				bestA, bestB = a, b
			}
		}
	}
	return bestA, bestB
}
