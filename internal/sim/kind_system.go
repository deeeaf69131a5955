// System tier: stellar spectral class and the habitable zone derived from
// luminosity.
package sim

import (
	"math"

	"github.com/talgya/macroverse/internal/resource"
	"github.com/talgya/macroverse/internal/scale"
)

// SystemDetail is the structural block for star-system nodes.
type SystemDetail struct {
	SpectralClass string  `json:"spectral_class"`
	Luminosity    float64 `json:"luminosity"` // solar luminosities
	HabitableIn   float64 `json:"habitable_inner_au"`
	HabitableOut  float64 `json:"habitable_outer_au"`
	AsteroidBelts int     `json:"asteroid_belts"`
}

func (*SystemDetail) detailTier() scale.Tier { return scale.TierSystem }

// Spectral classes weighted toward the dim end of the main sequence, with
// a luminosity band per class.
var spectralClasses = []struct {
	class  string
	weight float64
	lumLo  float64
	lumHi  float64
}{
	{"M", 0.45, 0.01, 0.08},
	{"K", 0.20, 0.08, 0.6},
	{"G", 0.15, 0.6, 1.5},
	{"F", 0.10, 1.5, 5},
	{"A", 0.06, 5, 25},
	{"B", 0.03, 25, 3e4},
	{"O", 0.01, 3e4, 1e6},
}

type systemBehavior struct{}

func (systemBehavior) Generate(n *Node) {
	roll := n.rng.Float()
	chosen := spectralClasses[len(spectralClasses)-1]
	acc := 0.0
	for _, sc := range spectralClasses {
		acc += sc.weight
		if roll < acc {
			chosen = sc
			break
		}
	}

	lum := n.rng.Range(chosen.lumLo, chosen.lumHi)
	n.Detail = &SystemDetail{
		SpectralClass: chosen.class,
		Luminosity:    lum,
		// Conservative liquid-water band from stellar flux.
		HabitableIn:   math.Sqrt(lum / 1.1),
		HabitableOut:  math.Sqrt(lum / 0.53),
		AsteroidBelts: n.rng.Between(0, 3),
	}
}

func (systemBehavior) Extend(n *Node, dt float64) {
	d, ok := n.Detail.(*SystemDetail)
	if !ok {
		return
	}

	// Belt mining: systems with belts and mid-ladder tech occasionally
	// strike a rich vein when material stocks run thin.
	if d.AsteroidBelts == 0 || n.Tech.Level < 6 {
		return
	}
	if n.daysOfStock(resource.Materials) < 10 && !n.HasEvent(EventResourceDiscovery) {
		if n.rng.Float() < 0.002*dt*float64(d.AsteroidBelts) {
			n.TriggerEvent(EventResourceDiscovery)
		}
	}
}
