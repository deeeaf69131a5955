// Snapshot serialization. Every keyed numeric table flattens to an ordered
// array of (key, value) pairs in the output record; loading rebuilds the
// same tables. Internal numeric corruption self-heals, but an
// externally-supplied document that fails validation is rejected loudly —
// two different policies on purpose.
package sim

import (
	"encoding/json"
	"fmt"

	"github.com/talgya/macroverse/internal/entropy"
	"github.com/talgya/macroverse/internal/numeric"
	"github.com/talgya/macroverse/internal/resource"
	"github.com/talgya/macroverse/internal/scale"
)

// Snapshot is the plain nested record form of a node subtree, the wire
// format consumed by external viewers.
type Snapshot struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Tier      string  `json:"tier"`
	Address   Address `json:"address"`
	Mode      string  `json:"mode"`
	Tick      float64 `json:"tick"`
	TimeScale float64 `json:"time_scale"`

	Population Population `json:"population"`

	Production   []resource.Pair `json:"production"`
	Consumption  []resource.Pair `json:"consumption"`
	Stockpile    []resource.Pair `json:"stockpile"`
	TradeBalance float64         `json:"trade_balance"`

	Stability Stability `json:"stability"`
	Tech      Tech      `json:"tech"`

	Universities   int             `json:"universities"`
	Guilds         []resource.Pair `json:"guilds"`
	InProgress     []string        `json:"research_in_progress,omitempty"`
	ScientistTiers []resource.Pair `json:"scientist_tiers"`

	ActiveEvents  []*Event        `json:"active_events,omitempty"`
	TradeRoutes   []*TradeRoute   `json:"trade_routes,omitempty"`
	TransportHubs []TransportHub  `json:"transport_hubs,omitempty"`
	Detail        json.RawMessage `json:"detail,omitempty"`

	Children []*Snapshot `json:"children,omitempty"`
}

// Serialize flattens the subtree rooted at n into its wire record. Calling
// it twice without an intervening Update yields identical output.
func (n *Node) Serialize() *Snapshot {
	s := &Snapshot{
		ID:        n.ID,
		Name:      n.Name,
		Tier:      n.Tier.String(),
		Address:   n.Addr,
		Mode:      n.Mode.String(),
		Tick:      n.Tick,
		TimeScale: n.TimeScale,

		Population: n.Population,

		Production:   n.Economy.Production.Pairs(),
		Consumption:  n.Economy.Consumption.Pairs(),
		Stockpile:    n.Economy.Stockpile.Pairs(),
		TradeBalance: n.Economy.TradeBalance,

		Stability: n.Stability,
		Tech:      n.Tech,

		Universities:   n.Research.Universities,
		Guilds:         n.Research.Guilds.Pairs(),
		InProgress:     append([]string(nil), n.Research.InProgress...),
		ScientistTiers: n.Research.ScientistTiers.Pairs(),

		ActiveEvents:  append([]*Event(nil), n.ActiveEvents...),
		TradeRoutes:   append([]*TradeRoute(nil), n.TradeRoutes...),
		TransportHubs: append([]TransportHub(nil), n.TransportHubs...),
	}

	if n.Detail != nil {
		if raw, err := json.Marshal(n.Detail); err == nil {
			s.Detail = raw
		}
	}

	for _, c := range n.Children {
		s.Children = append(s.Children, c.Serialize())
	}
	return s
}

// MarshalIndent renders the snapshot as indented JSON.
func (s *Snapshot) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// LoadSnapshot validates an externally-supplied document and rebuilds the
// node tree it describes. Unlike the in-tick numeric guard, malformed data
// here fails with a descriptive error rather than being coerced.
func LoadSnapshot(data []byte, rng *entropy.Source) (*Node, error) {
	if err := validateDocument(data); err != nil {
		return nil, fmt.Errorf("snapshot rejected: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if rng == nil {
		rng = entropy.NewSource(0)
	}
	return rebuild(&snap, rng)
}

func rebuild(s *Snapshot, rng *entropy.Source) (*Node, error) {
	tier, err := scale.ParseTier(s.Tier)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", s.ID, err)
	}
	mode, err := ParseMode(s.Mode)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", s.ID, err)
	}
	if err := s.Address.Complete(tier); err != nil {
		return nil, fmt.Errorf("node %s: %w", s.ID, err)
	}
	if !numeric.Finite(s.Population.Total) || s.Population.Total < 0 {
		return nil, fmt.Errorf("node %s: population total %v out of range", s.ID, s.Population.Total)
	}
	if !numeric.Finite(s.Population.Capacity) || s.Population.Capacity <= 0 {
		return nil, fmt.Errorf("node %s: carrying capacity %v out of range", s.ID, s.Population.Capacity)
	}

	production, err := resource.FromPairs(s.Production)
	if err != nil {
		return nil, fmt.Errorf("node %s production: %w", s.ID, err)
	}
	consumption, err := resource.FromPairs(s.Consumption)
	if err != nil {
		return nil, fmt.Errorf("node %s consumption: %w", s.ID, err)
	}
	stockpile, err := resource.FromPairs(s.Stockpile)
	if err != nil {
		return nil, fmt.Errorf("node %s stockpile: %w", s.ID, err)
	}
	guilds, err := resource.FromPairs(s.Guilds)
	if err != nil {
		return nil, fmt.Errorf("node %s guilds: %w", s.ID, err)
	}
	tiers, err := resource.FromPairs(s.ScientistTiers)
	if err != nil {
		return nil, fmt.Errorf("node %s scientist tiers: %w", s.ID, err)
	}

	detail, err := decodeDetail(tier, s.Detail)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", s.ID, err)
	}

	n := &Node{
		ID:        s.ID,
		Name:      s.Name,
		Tier:      tier,
		Addr:      s.Address,
		Mode:      mode,
		Tick:      s.Tick,
		TimeScale: s.TimeScale,

		Population: s.Population,
		Economy: Economy{
			Production:   production,
			Consumption:  consumption,
			Stockpile:    stockpile,
			TradeBalance: s.TradeBalance,
		},
		Stability: s.Stability,
		Tech:      s.Tech,
		Research: Research{
			Universities:   s.Universities,
			Guilds:         guilds,
			InProgress:     append([]string(nil), s.InProgress...),
			ScientistTiers: tiers,
		},

		ActiveEvents:  append([]*Event(nil), s.ActiveEvents...),
		TradeRoutes:   append([]*TradeRoute(nil), s.TradeRoutes...),
		TransportHubs: append([]TransportHub(nil), s.TransportHubs...),
		Detail:        detail,

		rng:      rng,
		guard:    &numeric.Guard{},
		behavior: behaviorFor(tier),
	}

	wantChild, hasChild := tier.Child()
	for _, cs := range s.Children {
		if !hasChild {
			return nil, fmt.Errorf("node %s: %s nodes cannot own children", s.ID, tier)
		}
		child, err := rebuild(cs, rng)
		if err != nil {
			return nil, err
		}
		if child.Tier != wantChild {
			return nil, fmt.Errorf("node %s: child %s has tier %s, want %s",
				s.ID, child.ID, child.Tier, wantChild)
		}
		child.attached = true
		n.Children = append(n.Children, child)
	}
	return n, nil
}
