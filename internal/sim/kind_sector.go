// Sector tier: galactic coordinates, spiral-arm assignment, noise-derived
// star density and resource abundance, and the wormhole-gate network.
package sim

import (
	"log/slog"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/macroverse/internal/resource"
	"github.com/talgya/macroverse/internal/scale"
)

// WormholeGate links a sector into the galactic transit network.
type WormholeGate struct {
	ID          string  `json:"id"`
	Destination string  `json:"destination"` // sector-scale coordinate label
	Stability   float64 `json:"stability"`   // 0..1
	Operational bool    `json:"operational"`
}

// SectorDetail is the structural block for sector nodes.
type SectorDetail struct {
	CoordX      float64         `json:"coord_x"` // kpc from galactic center
	CoordY      float64         `json:"coord_y"`
	SpiralArm   int             `json:"spiral_arm"`
	StarDensity float64         `json:"star_density"` // relative 0..1
	Abundance   *resource.Table `json:"abundance"`    // resource richness 0..2
	Wormholes   []*WormholeGate `json:"wormholes,omitempty"`
}

func (*SectorDetail) detailTier() scale.Tier { return scale.TierSector }

const (
	// Tech level required before a sector can grow its wormhole network.
	wormholeTechThreshold = 7

	// Chance per sim-tick of opening a new gate once eligible.
	wormholeExpansionRate = 0.0005

	maxWormholes = 6
)

type sectorBehavior struct{}

func (sectorBehavior) Generate(n *Node) {
	x := n.rng.Range(-15, 15)
	y := n.rng.Range(-15, 15)

	// Layered simplex fields keyed off the run seed give neighboring
	// sectors correlated density and richness.
	noise := opensimplex.NewNormalized(n.rng.Seed)
	density := 0.6*noise.Eval2(x*0.1, y*0.1) + 0.3*noise.Eval2(x*0.4, y*0.4) + 0.1*noise.Eval2(x*1.6, y*1.6)

	abundance := resource.NewTable()
	for i, rt := range resource.Types() {
		// Offset each resource into its own noise plane.
		off := float64(i+1) * 37.0
		abundance.Set(rt.String(), 2*noise.Eval2(x*0.2+off, y*0.2+off))
	}

	n.Detail = &SectorDetail{
		CoordX:      x,
		CoordY:      y,
		SpiralArm:   n.rng.Between(0, 3),
		StarDensity: density,
		Abundance:   abundance,
	}
}

func (sectorBehavior) Extend(n *Node, dt float64) {
	d, ok := n.Detail.(*SectorDetail)
	if !ok {
		return
	}

	// Gates under construction firm up with infrastructure stability.
	for _, g := range d.Wormholes {
		if g.Operational {
			continue
		}
		g.Stability += 0.001 * dt * (n.Stability.Infrastructure / 100)
		if g.Stability >= 1 {
			g.Stability = 1
			g.Operational = true
			slog.Info("wormhole gate stabilized", "sector", n.ID, "gate", g.ID)
		}
	}

	if n.Tech.Level < wormholeTechThreshold || len(d.Wormholes) >= maxWormholes {
		return
	}
	if n.rng.Float() < wormholeExpansionRate*dt {
		g := &WormholeGate{
			ID:          n.rng.ID("gate"),
			Destination: n.rng.ID("sector"),
			Stability:   n.rng.Range(0.3, 0.8),
		}
		d.Wormholes = append(d.Wormholes, g)
		slog.Info("wormhole gate opened", "sector", n.ID, "gate", g.ID, "count", len(d.Wormholes))
	}
}
