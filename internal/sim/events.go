// Timed event engine. Each event counts its duration down every tick and
// applies its effect while active; war and migration only ever arrive
// through an explicit trigger, never spontaneously.
package sim

import "github.com/talgya/macroverse/internal/numeric"

// EventCategory is one of the typed event kinds.
type EventCategory string

const (
	EventTechBreakthrough      EventCategory = "tech_breakthrough"
	EventResourceDiscovery     EventCategory = "resource_discovery"
	EventCulturalRenaissance   EventCategory = "cultural_renaissance"
	EventTradeBoom             EventCategory = "trade_boom"
	EventPopulationBoom        EventCategory = "population_boom"
	EventNaturalDisaster       EventCategory = "natural_disaster"
	EventResourceShortage      EventCategory = "resource_shortage"
	EventCivilUnrest           EventCategory = "civil_unrest"
	EventInfrastructureFailure EventCategory = "infrastructure_failure"
	EventPandemic              EventCategory = "pandemic"

	// Explicit-trigger-only categories.
	EventWar       EventCategory = "war"
	EventMigration EventCategory = "migration"
)

// autoCategories are the kinds a node may generate spontaneously, drawn
// uniformly.
var autoCategories = []EventCategory{
	EventTechBreakthrough,
	EventResourceDiscovery,
	EventCulturalRenaissance,
	EventTradeBoom,
	EventPopulationBoom,
	EventNaturalDisaster,
	EventResourceShortage,
	EventCivilUnrest,
	EventInfrastructureFailure,
	EventPandemic,
}

// Spontaneous event probability per sim-tick.
const spontaneousEventRate = 0.001

// EventEffect is applied every tick while the event is active.
type EventEffect struct {
	// StabilityDelta shifts the overall score, points per sim-tick.
	StabilityDelta float64 `json:"stability_delta,omitempty"`
	// PopulationDelta is a fractional change to the total, per sim-tick.
	PopulationDelta float64 `json:"population_delta,omitempty"`
	// ProductionMult scales named resources' production while active.
	ProductionMult map[string]float64 `json:"production_mult,omitempty"`
	// TechLevelDelta applies once when the event starts; the only
	// sanctioned way tech level can fall.
	TechLevelDelta int `json:"tech_level_delta,omitempty"`
}

// Event is one active, timed occurrence on a node.
type Event struct {
	ID       string        `json:"id"`
	Category EventCategory `json:"category"`
	Name     string        `json:"name"`
	Duration float64       `json:"duration"` // remaining sim-time
	Effect   EventEffect   `json:"effect"`
}

// AddEvent attaches an event to the node and applies any one-shot effects.
func (n *Node) AddEvent(ev *Event) {
	if ev.Effect.TechLevelDelta != 0 {
		n.Tech.Level += ev.Effect.TechLevelDelta
		if n.Tech.Level < 0 {
			n.Tech.Level = 0
		}
		if n.Tech.Level > techLevelMax {
			n.Tech.Level = techLevelMax
		}
		n.Tech.Efficiency = techEfficiency(n.Tech.Level)
	}
	n.ActiveEvents = append(n.ActiveEvents, ev)
}

// TriggerEvent injects an event of the given category with its standard
// effect template and returns it. This is the deterministic/scripted path;
// it accepts the explicit-only categories too.
func (n *Node) TriggerEvent(cat EventCategory) *Event {
	ev := n.newEvent(cat)
	n.AddEvent(ev)
	return ev
}

// HasEvent reports whether an event of the given category is active.
func (n *Node) HasEvent(cat EventCategory) bool {
	for _, ev := range n.ActiveEvents {
		if ev.Category == cat {
			return true
		}
	}
	return false
}

// stepEvents rolls for spontaneous events, applies active effects, counts
// durations down, and drops expired events. Per-tick effect aggregates are
// rebuilt here and consumed by the economy and stability steps.
func (n *Node) stepEvents(dt float64) {
	if n.rng.Float() < spontaneousEventRate*dt {
		cat := autoCategories[n.rng.IntN(len(autoCategories))]
		n.AddEvent(n.newEvent(cat))
	}

	n.eventStabilityBias = 0
	n.eventProdMult = nil

	kept := n.ActiveEvents[:0]
	for _, ev := range n.ActiveEvents {
		n.eventStabilityBias += ev.Effect.StabilityDelta
		if ev.Effect.PopulationDelta != 0 {
			next := n.Population.Total * (1 + ev.Effect.PopulationDelta*dt)
			if numeric.Finite(next) && next >= 0 {
				n.Population.Total = next
			}
		}
		for key, mult := range ev.Effect.ProductionMult {
			if n.eventProdMult == nil {
				n.eventProdMult = make(map[string]float64)
			}
			if existing, ok := n.eventProdMult[key]; ok {
				n.eventProdMult[key] = existing * mult
			} else {
				n.eventProdMult[key] = mult
			}
		}

		ev.Duration -= dt
		if ev.Duration > 0 {
			kept = append(kept, ev)
		}
	}
	n.ActiveEvents = kept
}

// newEvent builds an event of the given category from its effect template.
func (n *Node) newEvent(cat EventCategory) *Event {
	ev := &Event{
		ID:       n.rng.ID("ev"),
		Category: cat,
	}
	switch cat {
	case EventTechBreakthrough:
		ev.Name = "Technological breakthrough"
		ev.Duration = 10
		ev.Effect = EventEffect{StabilityDelta: 0.5}
	case EventResourceDiscovery:
		ev.Name = "Resource discovery"
		ev.Duration = 50
		ev.Effect = EventEffect{ProductionMult: map[string]float64{
			"materials": 1.5, "exotics": 1.3,
		}}
	case EventCulturalRenaissance:
		ev.Name = "Cultural renaissance"
		ev.Duration = 30
		ev.Effect = EventEffect{StabilityDelta: 0.6}
	case EventTradeBoom:
		ev.Name = "Trade boom"
		ev.Duration = 40
		ev.Effect = EventEffect{ProductionMult: map[string]float64{
			"goods": 1.4, "alloys": 1.2,
		}}
	case EventPopulationBoom:
		ev.Name = "Population boom"
		ev.Duration = 20
		ev.Effect = EventEffect{PopulationDelta: 0.0005}
	case EventNaturalDisaster:
		ev.Name = "Natural disaster"
		ev.Duration = 15
		ev.Effect = EventEffect{
			StabilityDelta:  -1.0,
			PopulationDelta: -0.001,
			ProductionMult:  map[string]float64{"food": 0.7, "energy": 0.8},
		}
	case EventResourceShortage:
		ev.Name = "Resource shortage"
		ev.Duration = 25
		ev.Effect = EventEffect{ProductionMult: map[string]float64{"food": 0.6}}
	case EventCivilUnrest:
		ev.Name = "Civil unrest"
		ev.Duration = 20
		ev.Effect = EventEffect{StabilityDelta: -0.8}
	case EventInfrastructureFailure:
		ev.Name = "Infrastructure failure"
		ev.Duration = 10
		ev.Effect = EventEffect{
			StabilityDelta: -0.5,
			ProductionMult: map[string]float64{"energy": 0.5},
		}
	case EventPandemic:
		ev.Name = "Pandemic"
		ev.Duration = 30
		ev.Effect = EventEffect{PopulationDelta: -0.002, StabilityDelta: -0.4}
	case EventWar:
		ev.Name = "War"
		ev.Duration = 60
		ev.Effect = EventEffect{
			StabilityDelta:  -1.5,
			PopulationDelta: -0.003,
			ProductionMult:  map[string]float64{"goods": 0.5, "food": 0.8},
		}
	case EventMigration:
		ev.Name = "Mass migration"
		ev.Duration = 30
		ev.Effect = EventEffect{PopulationDelta: 0.001}
	default:
		ev.Name = string(cat)
		ev.Duration = 10
	}
	return ev
}
