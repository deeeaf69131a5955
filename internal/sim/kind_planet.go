// Planet tier: planetary class, noise-derived mineral abundance, luxury
// exports, and drifting cultures.
package sim

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/macroverse/internal/entropy"
	"github.com/talgya/macroverse/internal/numeric"
	"github.com/talgya/macroverse/internal/resource"
	"github.com/talgya/macroverse/internal/scale"
)

// Culture is one cultural bloc on a planet. Influence shares drift each
// tick; openness shapes how renaissance-prone the planet is.
type Culture struct {
	Name      string  `json:"name"`
	Influence float64 `json:"influence"` // 0..1 share
	Openness  float64 `json:"openness"`  // 0..1
}

// PlanetDetail is the structural block for planet nodes.
type PlanetDetail struct {
	Class         string          `json:"class"`
	Gravity       float64         `json:"gravity"` // g
	Atmosphere    string          `json:"atmosphere"`
	Minerals      *resource.Table `json:"minerals"`       // abundance 0..2
	LuxuryExports *resource.Table `json:"luxury_exports"` // export volume by label
	Cultures      []Culture       `json:"cultures,omitempty"`
}

func (*PlanetDetail) detailTier() scale.Tier { return scale.TierPlanet }

var planetClasses = []string{"terrestrial", "ocean", "desert", "ice", "volcanic", "gas_dwarf"}
var atmospheres = []string{"breathable", "thin", "toxic", "none", "dense"}

var cultureNames = []string{
	"Meridian", "Halcyon", "Vesper", "Aurelian", "Borean", "Ecliptic", "Tidal", "Umbral",
}

var luxuryLabels = []string{"spice", "gemstones", "artworks", "relics", "silks"}

type planetBehavior struct{}

func (planetBehavior) Generate(n *Node) {
	noise := opensimplex.NewNormalized(n.rng.Seed + 1)
	px := n.rng.Range(0, 100)
	py := n.rng.Range(0, 100)

	minerals := resource.NewTable()
	for i, rt := range resource.Types() {
		off := float64(i+1) * 13.0
		minerals.Set(rt.String(), 2*noise.Eval2(px*0.3+off, py*0.3+off))
	}

	luxuries := resource.NewTable()
	for count := n.rng.Between(1, 3); count > 0; count-- {
		label := entropy.Pick(n.rng, luxuryLabels)
		luxuries.Set(label, n.rng.Range(10, 500))
	}

	d := &PlanetDetail{
		Class:         entropy.Pick(n.rng, planetClasses),
		Gravity:       n.rng.Range(0.3, 2.5),
		Atmosphere:    entropy.Pick(n.rng, atmospheres),
		Minerals:      minerals,
		LuxuryExports: luxuries,
	}

	used := make(map[string]bool)
	for count := n.rng.Between(1, 4); count > 0; count-- {
		name := entropy.Pick(n.rng, cultureNames)
		if used[name] {
			continue
		}
		used[name] = true
		d.Cultures = append(d.Cultures, Culture{
			Name:      name,
			Influence: n.rng.Float(),
			Openness:  n.rng.Float(),
		})
	}
	// Normalize influence to a proper share.
	var total float64
	for _, c := range d.Cultures {
		total += c.Influence
	}
	if total > 0 {
		for i := range d.Cultures {
			d.Cultures[i].Influence /= total
		}
	}

	n.Detail = d
}

func (planetBehavior) Extend(n *Node, dt float64) {
	d, ok := n.Detail.(*PlanetDetail)
	if !ok || len(d.Cultures) == 0 {
		return
	}

	// Influence random-walks a little each tick, renormalized so shares
	// keep summing to one.
	var total float64
	for i := range d.Cultures {
		c := &d.Cultures[i]
		c.Influence += n.rng.Range(-0.001, 0.001) * dt
		c.Influence = numeric.Clamp(c.Influence, 0.01, 1)
		total += c.Influence
	}
	for i := range d.Cultures {
		d.Cultures[i].Influence /= total
	}

	// Open, happy planets occasionally flower.
	if n.Stability.Happiness > 85 && !n.HasEvent(EventCulturalRenaissance) {
		var openness float64
		for _, c := range d.Cultures {
			openness += c.Openness * c.Influence
		}
		if n.rng.Float() < 0.0005*dt*openness {
			n.TriggerEvent(EventCulturalRenaissance)
		}
	}
}
