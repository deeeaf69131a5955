// Galaxy tier: morphology, the central black hole, galactic civilizations
// with megastructures, and council formation.
package sim

import (
	"log/slog"

	"github.com/talgya/macroverse/internal/entropy"
	"github.com/talgya/macroverse/internal/scale"
)

// BlackHole is the galaxy's central supermassive object.
type BlackHole struct {
	MassSolar float64 `json:"mass_solar"`
	Activity  float64 `json:"activity"` // 0 quiescent .. 1 active nucleus
}

// Megastructure is a civilization-scale construction project. Progress runs
// 0→1 and then flips Operational exactly once.
type Megastructure struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Progress    float64 `json:"progress"`
	Operational bool    `json:"operational"`
}

// Civilization is a galaxy-spanning polity.
type Civilization struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Type           string           `json:"type"`
	KardashevLevel float64          `json:"kardashev_level"`
	Megastructures []*Megastructure `json:"megastructures,omitempty"`
}

// GalaxyDetail is the structural block for galaxy nodes.
type GalaxyDetail struct {
	Morphology       string          `json:"morphology"`
	CentralBlackHole BlackHole       `json:"central_black_hole"`
	Civilizations    []*Civilization `json:"civilizations,omitempty"`
	CouncilFormed    bool            `json:"council_formed"`
}

func (*GalaxyDetail) detailTier() scale.Tier { return scale.TierGalaxy }

var galaxyMorphologies = []string{"spiral", "barred_spiral", "elliptical", "lenticular", "irregular"}

// civTypes pair each civilization type with its Kardashev band.
var civTypes = []struct {
	name   string
	lo, hi float64
}{
	{"kardashev_ii", 2.0, 2.5},
	{"kardashev_iii", 2.5, 3.0},
	{"transcendent", 3.0, 3.5},
	{"ai_collective", 3.0, 3.5},
	{"hive_overmind", 3.0, 3.5},
}

var megastructureKinds = []string{"dyson_swarm", "ringworld", "matrioshka_brain", "stellar_engine"}

var civNamePrefixes = []string{"Vel", "Ash", "Kor", "Thal", "Nym", "Ser", "Oro", "Zan"}
var civNameSuffixes = []string{"ari Concord", "un Dominion", "eth Collective", "ir Ascendancy", "os Compact"}

// Megastructure build rate per tech level, progress per sim-tick.
const megastructureRate = 0.0001

type galaxyBehavior struct{}

func (galaxyBehavior) Generate(n *Node) {
	d := &GalaxyDetail{
		Morphology: entropy.Pick(n.rng, galaxyMorphologies),
		CentralBlackHole: BlackHole{
			MassSolar: n.rng.Range(1e6, 1e10),
			Activity:  n.rng.Float(),
		},
	}

	civCount := n.rng.Between(0, 5)
	if n.Tech.Level >= 8 && civCount == 0 {
		// A galaxy this advanced always hosts at least one civilization.
		civCount = 1
	}
	for i := 0; i < civCount; i++ {
		ct := civTypes[n.rng.IntN(len(civTypes))]
		civ := &Civilization{
			ID:             n.rng.ID("civ"),
			Name:           entropy.Pick(n.rng, civNamePrefixes) + entropy.Pick(n.rng, civNameSuffixes),
			Type:           ct.name,
			KardashevLevel: n.rng.Range(ct.lo, ct.hi),
		}
		for m := n.rng.Between(0, 3); m > 0; m-- {
			progress := n.rng.Range(0, 1.2)
			ms := &Megastructure{
				ID:       n.rng.ID("ms"),
				Kind:     entropy.Pick(n.rng, megastructureKinds),
				Progress: progress,
			}
			if ms.Progress >= 1 {
				ms.Progress = 1
				ms.Operational = true
			}
			civ.Megastructures = append(civ.Megastructures, ms)
		}
		d.Civilizations = append(d.Civilizations, civ)
	}

	n.Detail = d
}

func (galaxyBehavior) Extend(n *Node, dt float64) {
	d, ok := n.Detail.(*GalaxyDetail)
	if !ok {
		return
	}

	rate := megastructureRate * float64(n.Tech.Level)
	for _, civ := range d.Civilizations {
		for _, ms := range civ.Megastructures {
			if ms.Operational {
				continue
			}
			ms.Progress += rate * dt
			if ms.Progress >= 1 {
				ms.Progress = 1
				ms.Operational = true
				slog.Info("megastructure operational",
					"galaxy", n.ID, "civilization", civ.Name, "kind", ms.Kind)
			}
		}
	}

	if !d.CouncilFormed && n.Tech.Level >= techLevelMax && len(d.Civilizations) >= 3 {
		d.CouncilFormed = true
		n.TriggerEvent(EventCulturalRenaissance)
		slog.Info("galactic council formed", "galaxy", n.ID, "civilizations", len(d.Civilizations))
	}
}
