// Tier specializations are a tag plus a small variant set: every node
// carries a scale.Tier and composes the matching Behavior value, dispatched
// through this registry rather than through inheritance.
package sim

import (
	"encoding/json"
	"fmt"

	"github.com/talgya/macroverse/internal/scale"
)

// Behavior is the per-tier extension point. Generate runs once at
// construction and fills the node's Detail; Extend runs at the end of every
// tick with the node's scaled delta.
type Behavior interface {
	Generate(n *Node)
	Extend(n *Node, dt float64)
}

// Detail is the tier-specific structural data block. Concrete types are
// GalaxyDetail, SectorDetail, SystemDetail, PlanetDetail, GigasegmentDetail,
// and MegasegmentDetail; tile nodes carry none.
type Detail interface {
	detailTier() scale.Tier
}

var behaviors = map[scale.Tier]Behavior{
	scale.TierGalaxy:      galaxyBehavior{},
	scale.TierSector:      sectorBehavior{},
	scale.TierSystem:      systemBehavior{},
	scale.TierPlanet:      planetBehavior{},
	scale.TierGigasegment: gigasegmentBehavior{},
	scale.TierMegasegment: megasegmentBehavior{},
	scale.TierTile:        tileBehavior{},
}

func behaviorFor(t scale.Tier) Behavior {
	if b, ok := behaviors[t]; ok {
		return b
	}
	return tileBehavior{}
}

// tileBehavior is the generic no-extension behavior for the bottom tier.
type tileBehavior struct{}

func (tileBehavior) Generate(*Node)        {}
func (tileBehavior) Extend(*Node, float64) {}

// decodeDetail rebuilds the concrete Detail for a tier from raw JSON. An
// empty document yields no detail only for tile nodes; every other tier
// must carry one.
func decodeDetail(tier scale.Tier, raw json.RawMessage) (Detail, error) {
	if len(raw) == 0 || string(raw) == "null" {
		if tier == scale.TierTile {
			return nil, nil
		}
		return nil, fmt.Errorf("%s node missing detail block", tier)
	}
	var (
		d   Detail
		err error
	)
	switch tier {
	case scale.TierGalaxy:
		v := &GalaxyDetail{}
		err = json.Unmarshal(raw, v)
		d = v
	case scale.TierSector:
		v := &SectorDetail{}
		err = json.Unmarshal(raw, v)
		d = v
	case scale.TierSystem:
		v := &SystemDetail{}
		err = json.Unmarshal(raw, v)
		d = v
	case scale.TierPlanet:
		v := &PlanetDetail{}
		err = json.Unmarshal(raw, v)
		d = v
	case scale.TierGigasegment:
		v := &GigasegmentDetail{}
		err = json.Unmarshal(raw, v)
		d = v
	case scale.TierMegasegment:
		v := &MegasegmentDetail{}
		err = json.Unmarshal(raw, v)
		d = v
	case scale.TierTile:
		return nil, nil
	default:
		return nil, fmt.Errorf("no detail type for tier %s", tier)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s detail: %w", tier, err)
	}
	return d, nil
}
