// Package sim implements the hierarchical abstraction tree: a recursive
// structure of world-scale nodes carrying statistical population, economic,
// stability, and research state, advanced by a single synchronous Update
// walk. A node updates its own models first, then its children in list
// order; data flows bottom-up only through explicit aggregation calls.
package sim

import (
	"fmt"

	"github.com/talgya/macroverse/internal/entropy"
	"github.com/talgya/macroverse/internal/numeric"
	"github.com/talgya/macroverse/internal/resource"
	"github.com/talgya/macroverse/internal/scale"
)

// Address is a partial hierarchical coordinate. Only the levels at or above
// a node's own tier carry values; deeper levels stay nil. Completeness is
// checked at tree-insertion time, not at construction.
type Address struct {
	Galaxy      *int    `json:"galaxy,omitempty"`
	Sector      *[2]int `json:"sector,omitempty"`
	System      *int    `json:"system,omitempty"`
	Planet      *int    `json:"planet,omitempty"`
	Gigasegment *[2]int `json:"gigasegment,omitempty"`
	Megasegment *[2]int `json:"megasegment,omitempty"`
	Tile        *[2]int `json:"tile,omitempty"`
}

// Complete verifies that every level at or above tier is populated.
func (a Address) Complete(tier scale.Tier) error {
	present := [...]bool{
		a.Galaxy != nil,
		a.Sector != nil,
		a.System != nil,
		a.Planet != nil,
		a.Gigasegment != nil,
		a.Megasegment != nil,
		a.Tile != nil,
	}
	for lvl := scale.TierGalaxy; lvl <= tier; lvl++ {
		if !present[lvl] {
			return fmt.Errorf("address missing %s level for %s node", lvl, tier)
		}
	}
	return nil
}

// Population is the statistical population state of one node. The five-way
// distribution is recomputed from the total every tick as fixed fractions.
type Population struct {
	Total    float64 `json:"total"`
	Growth   float64 `json:"growth"`
	Capacity float64 `json:"capacity"`

	Workers     float64 `json:"workers"`
	Military    float64 `json:"military"`
	Researchers float64 `json:"researchers"`
	Children    float64 `json:"children"`
	Elderly     float64 `json:"elderly"`
}

// Economy holds the three keyed resource tables plus the trade balance.
// Production and consumption are absolute rates per sim-tick, recomputed
// from population each step.
type Economy struct {
	Production   *resource.Table
	Consumption  *resource.Table
	Stockpile    *resource.Table
	TradeBalance float64
}

// Stability holds the five bounded scores, each always in [0, 100].
type Stability struct {
	Economic       float64 `json:"economic"`
	Social         float64 `json:"social"`
	Infrastructure float64 `json:"infrastructure"`
	Happiness      float64 `json:"happiness"`
	Overall        float64 `json:"overall"`
}

// Tech tracks the 0–10 technology ladder and its derived efficiency.
type Tech struct {
	Level      int     `json:"level"`
	Progress   float64 `json:"progress"` // 0–100 toward the next level
	Efficiency float64 `json:"efficiency"`
}

// Research holds the research infrastructure generated once at construction.
type Research struct {
	Universities   int
	Guilds         *resource.Table // field name → guild count
	InProgress     []string        // in-flight research item IDs
	ScientistTiers *resource.Table // tier number ("1".."10") → population
}

// TransportHub is an infrastructure record attached by tier behaviors.
type TransportHub struct {
	ID       string  `json:"id"`
	Kind     string  `json:"kind"`
	Capacity float64 `json:"capacity"`
}

// Node is one entity of the abstraction tree.
type Node struct {
	ID   string
	Name string
	Tier scale.Tier
	Addr Address

	Mode      Mode
	Tick      float64 // accumulated simulated time
	TimeScale float64

	Population Population
	Economy    Economy
	Stability  Stability
	Tech       Tech
	Research   Research

	ActiveEvents  []*Event
	TradeRoutes   []*TradeRoute
	TransportHubs []TransportHub

	Children []*Node

	// Detail carries the tier-specific structural data generated once at
	// construction; its concrete type depends on Tier.
	Detail Detail

	rng      *entropy.Source
	guard    *numeric.Guard
	behavior Behavior
	attached bool

	// Transient per-tick event aggregates, rebuilt by stepEvents.
	eventStabilityBias float64
	eventProdMult      map[string]float64
}

// Option tweaks a node between its random initialization and the tier
// behavior's structural generation.
type Option func(*Node)

// WithTechLevel pins the starting tech level instead of the random 0–5 roll.
func WithTechLevel(level int) Option {
	return func(n *Node) {
		if level < 0 {
			level = 0
		}
		if level > techLevelMax {
			level = techLevelMax
		}
		n.Tech.Level = level
		n.Tech.Efficiency = techEfficiency(level)
	}
}

// WithPopulation pins the starting population total.
func WithPopulation(total float64) Option {
	return func(n *Node) {
		n.Population.Total = total
	}
}

// New constructs a node and procedurally derives all initial state from the
// scale table plus randomized parameters drawn from rng.
func New(id, name string, tier scale.Tier, addr Address, rng *entropy.Source, opts ...Option) *Node {
	if rng == nil {
		rng = entropy.NewSource(0)
	}
	row := scale.For(tier)

	n := &Node{
		ID:        id,
		Name:      name,
		Tier:      tier,
		Addr:      addr,
		Mode:      ModeAbstract,
		TimeScale: timeScaleAbstract,
		rng:       rng,
		guard:     &numeric.Guard{},
	}

	n.Population.Total = rng.Range(row.PopMin, row.PopMax)
	n.Population.Capacity = n.Population.Total * rng.Range(1.2, 2.0)
	n.redistribute()

	n.Tech.Level = rng.Between(0, 5)
	n.Tech.Efficiency = techEfficiency(n.Tech.Level)

	n.Stability.Economic = rng.Range(70, 100)
	n.Stability.Social = rng.Range(70, 100)
	n.Stability.Infrastructure = rng.Range(70, 100)
	n.Stability.Happiness = (n.Stability.Economic + n.Stability.Social) / 2
	n.Stability.Overall = overallStability(n.Stability)

	n.Economy.Production = resource.NewTable()
	n.Economy.Consumption = resource.NewTable()
	n.Economy.Stockpile = resource.NewTable()
	for _, rt := range resource.Types() {
		prod := n.Population.Total * resource.BaseProduction(rt)
		cons := n.Population.Total * resource.BaseConsumption(rt)
		n.Economy.Production.Set(rt.String(), prod)
		n.Economy.Consumption.Set(rt.String(), cons)
		n.Economy.Stockpile.Set(rt.String(), cons*rng.Range(20, 80))
	}

	for _, opt := range opts {
		opt(n)
	}

	n.generateResearch()

	n.behavior = behaviorFor(tier)
	n.behavior.Generate(n)
	return n
}

// Update advances the node by deltaTime: events, the four numeric models,
// the trade auto-stabilizer, the tier behavior extension, then every child.
// The stabilizer runs before children update, so it always sees each child's
// economy as of the end of the previous tick. That one-tick staleness is a
// documented consistency property.
func (n *Node) Update(deltaTime float64) {
	dt := deltaTime * n.TimeScale
	n.Tick += dt

	n.stepEvents(dt)
	n.stepPopulation(dt)
	n.stepEconomy(dt)
	n.stepStability(dt)
	n.stepResearch(dt)

	n.autoStabilize()
	if n.Mode != ModeAbstract {
		n.settleRoutes(dt)
	}

	n.behavior.Extend(n, dt)

	for _, c := range n.Children {
		c.Update(deltaTime)
	}
}

// AddChild attaches child to n. The child's tier must be exactly one level
// below n's, its address must be complete for its tier, and it must not
// already belong to a parent. Ownership is exclusive for the child's
// lifetime.
func (n *Node) AddChild(child *Node) error {
	want, ok := n.Tier.Child()
	if !ok {
		return fmt.Errorf("%s node %s cannot own children", n.Tier, n.ID)
	}
	if child.Tier != want {
		return fmt.Errorf("child %s has tier %s, want %s", child.ID, child.Tier, want)
	}
	if child.attached {
		return fmt.Errorf("child %s already belongs to a parent", child.ID)
	}
	if err := child.Addr.Complete(child.Tier); err != nil {
		return err
	}
	child.attached = true
	n.Children = append(n.Children, child)
	return nil
}

// RemoveChild detaches and discards the child with the given id.
func (n *Node) RemoveChild(id string) bool {
	for i, c := range n.Children {
		if c.ID == id {
			c.attached = false
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return true
		}
	}
	return false
}

// Child returns the direct child with the given id.
func (n *Node) Child(id string) (*Node, bool) {
	for _, c := range n.Children {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Descendants returns every node below n as a flat list, depth-first.
func (n *Node) Descendants() []*Node {
	var out []*Node
	for _, c := range n.Children {
		out = append(out, c)
		out = append(out, c.Descendants()...)
	}
	return out
}

// Find returns the node with the given id in n's subtree, including n.
func (n *Node) Find(id string) (*Node, bool) {
	if n.ID == id {
		return n, true
	}
	for _, c := range n.Children {
		if found, ok := c.Find(id); ok {
			return found, true
		}
	}
	return nil, false
}

// TotalPopulation returns n's own total plus the recursive sum of all
// children.
func (n *Node) TotalPopulation() float64 {
	total := n.Population.Total
	for _, c := range n.Children {
		total += c.TotalPopulation()
	}
	return total
}

// Count returns the number of nodes in n's subtree, including n.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// GuardResets returns how many times this node's numeric guard has engaged.
func (n *Node) GuardResets() uint64 {
	return n.guard.Resets()
}

// redistribute recomputes the fixed five-way population split.
func (n *Node) redistribute() {
	t := n.Population.Total
	n.Population.Workers = t * 0.60
	n.Population.Military = t * 0.05
	n.Population.Researchers = t * 0.10
	n.Population.Children = t * 0.15
	n.Population.Elderly = t * 0.10
}
