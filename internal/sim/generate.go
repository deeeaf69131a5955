// Procedural universe construction: a recursive build from the scale
// table's fan-out ranges, deterministic from the seed.
package sim

import (
	"fmt"
	"log/slog"

	"github.com/talgya/macroverse/internal/entropy"
	"github.com/talgya/macroverse/internal/scale"
)

// GenConfig holds universe generation parameters.
type GenConfig struct {
	Seed     int64      // 0 = draw from the clock
	RootTier scale.Tier // tier of the generated root
	RootName string
	Depth    int     // levels generated below the root
	FanOut   float64 // multiplier on the scale table's child counts, (0, 1]
}

// DefaultGenConfig returns a configuration sized for interactive runs:
// a galaxy with sectors and systems, a few hundred nodes.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		RootTier: scale.TierGalaxy,
		RootName: "Perseus Reach",
		Depth:    2,
		FanOut:   0.5,
	}
}

// BuildUniverse generates a complete tree from cfg. The same seed always
// yields the same tree, byte for byte.
func BuildUniverse(cfg GenConfig) *Node {
	rng := entropy.NewSource(cfg.Seed)
	if cfg.FanOut <= 0 || cfg.FanOut > 1 {
		cfg.FanOut = 1
	}

	rootAddr := addressForRoot(cfg.RootTier)
	root := New(rng.ID(cfg.RootTier.String()), cfg.RootName, cfg.RootTier, rootAddr, rng)
	buildChildren(root, cfg.Depth, cfg.FanOut, rng)

	slog.Info("universe generated",
		"seed", rng.Seed,
		"root", root.Name,
		"tier", root.Tier.String(),
		"nodes", root.Count(),
	)
	return root
}

func buildChildren(parent *Node, depth int, fanOut float64, rng *entropy.Source) {
	if depth <= 0 {
		return
	}
	childTier, ok := parent.Tier.Child()
	if !ok {
		return
	}
	row := scale.For(childTier)

	count := int(float64(rng.Between(row.ChildMin, row.ChildMax)) * fanOut)
	if count < 1 && row.ChildMax > 0 {
		count = 1
	}
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("%s-%d", parent.ID, i)
		name := fmt.Sprintf("%s %d", childLabel(childTier), i+1)
		addr := childAddress(parent.Addr, childTier, i)
		child := New(id, name, childTier, addr, rng)
		if err := parent.AddChild(child); err != nil {
			// Generated addresses are always complete; a failure here is a
			// programming error worth surfacing immediately.
			panic(fmt.Sprintf("generated invalid child: %v", err))
		}
		buildChildren(child, depth-1, fanOut, rng)
	}
}

func childLabel(t scale.Tier) string {
	switch t {
	case scale.TierSector:
		return "Sector"
	case scale.TierSystem:
		return "System"
	case scale.TierPlanet:
		return "Planet"
	case scale.TierGigasegment:
		return "Gigasegment"
	case scale.TierMegasegment:
		return "Megasegment"
	default:
		return "Tile"
	}
}

// addressForRoot fills every level at or above tier with zero coordinates.
func addressForRoot(tier scale.Tier) Address {
	var addr Address
	for lvl := scale.TierGalaxy; lvl <= tier; lvl++ {
		setAddressLevel(&addr, lvl, 0)
	}
	return addr
}

// childAddress extends the parent's address with the child's own level.
func childAddress(parent Address, childTier scale.Tier, index int) Address {
	addr := parent
	setAddressLevel(&addr, childTier, index)
	return addr
}

func setAddressLevel(addr *Address, tier scale.Tier, index int) {
	pair := [2]int{index % 8, index / 8}
	switch tier {
	case scale.TierGalaxy:
		v := index
		addr.Galaxy = &v
	case scale.TierSector:
		addr.Sector = &pair
	case scale.TierSystem:
		v := index
		addr.System = &v
	case scale.TierPlanet:
		v := index
		addr.Planet = &v
	case scale.TierGigasegment:
		addr.Gigasegment = &pair
	case scale.TierMegasegment:
		addr.Megasegment = &pair
	case scale.TierTile:
		addr.Tile = &pair
	}
}
