// Gigasegment tier: continental-scale biome and transport infrastructure.
package sim

import (
	"log/slog"

	"github.com/talgya/macroverse/internal/entropy"
	"github.com/talgya/macroverse/internal/scale"
)

// GigasegmentDetail is the structural block for gigasegment nodes.
type GigasegmentDetail struct {
	Biome          string  `json:"biome"`
	Urbanization   float64 `json:"urbanization"`    // 0..1
	TransportGrade int     `json:"transport_grade"` // 0..5
}

func (*GigasegmentDetail) detailTier() scale.Tier { return scale.TierGigasegment }

var biomes = []string{
	"temperate", "arid", "tundra", "tropical", "oceanic", "subterranean", "orbital",
}

var hubKinds = []string{"orbital_elevator", "mass_driver", "maglev_nexus", "skyport"}

const maxTransportGrade = 5

type gigasegmentBehavior struct{}

func (gigasegmentBehavior) Generate(n *Node) {
	n.Detail = &GigasegmentDetail{
		Biome:          entropy.Pick(n.rng, biomes),
		Urbanization:   n.rng.Range(0.1, 0.9),
		TransportGrade: n.rng.Between(0, 2),
	}
}

func (gigasegmentBehavior) Extend(n *Node, dt float64) {
	d, ok := n.Detail.(*GigasegmentDetail)
	if !ok {
		return
	}

	// Urbanization tracks crowding.
	if n.Population.Capacity > 0 {
		target := n.Population.Total / n.Population.Capacity
		d.Urbanization += (target - d.Urbanization) * 0.001 * dt
	}

	// High infrastructure stability grows the transport network; each
	// grade gained commissions a hub record on the node.
	if d.TransportGrade >= maxTransportGrade || n.Stability.Infrastructure < 80 {
		return
	}
	if n.rng.Float() < 0.001*dt {
		d.TransportGrade++
		hub := TransportHub{
			ID:       n.rng.ID("hub"),
			Kind:     entropy.Pick(n.rng, hubKinds),
			Capacity: n.rng.Range(1e5, 1e7) * float64(d.TransportGrade),
		}
		n.TransportHubs = append(n.TransportHubs, hub)
		slog.Info("transport hub commissioned",
			"node", n.ID, "kind", hub.Kind, "grade", d.TransportGrade)
	}
}
