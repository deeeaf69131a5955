// Research-point accumulation, tech-level gating, and the hard-step
// scientist ladder.
package sim

import (
	"math"
	"strconv"

	"github.com/talgya/macroverse/internal/entropy"
	"github.com/talgya/macroverse/internal/resource"
)

const (
	techLevelMax = 10

	// Research points per researcher per sim-tick.
	researchRate = 0.01

	// Hard-step gate: each scientist tier holds at most 1/100th of the
	// tier below it.
	hardStepDivisor = 100
)

func techEfficiency(level int) float64 {
	return 1 + float64(level)*0.15
}

// stepResearch accumulates progress and handles at most one breakthrough
// per tick. Tech level only ever rises here; catastrophic events are the
// single sanctioned way down.
func (n *Node) stepResearch(dt float64) {
	n.Tech.Progress += n.Population.Researchers * researchRate * dt

	if n.Tech.Progress >= 100 {
		if n.Tech.Level < techLevelMax {
			n.Tech.Level++
			n.Tech.Progress = 0
			n.Tech.Efficiency = techEfficiency(n.Tech.Level)
			n.AddEvent(&Event{
				ID:       n.rng.ID("ev"),
				Category: EventTechBreakthrough,
				Name:     "Technological breakthrough",
				Duration: 10,
				Effect:   EventEffect{StabilityDelta: 0.5},
			})
		} else {
			n.Tech.Progress = 100
		}
	}
}

var guildFields = []string{
	"physics",
	"genetics",
	"computation",
	"materials_science",
	"xenobiology",
	"astroengineering",
	"sociology",
	"energy_systems",
}

// generateResearch builds the research infrastructure once at construction:
// universities scaled by population and tech level, 2–5 random guild fields,
// and the scientist-tier ladder climbed bottom-up under the hard-step gate.
func (n *Node) generateResearch() {
	pop := n.Population.Total
	if pop < 10 {
		pop = 10
	}
	n.Research.Universities = int(math.Log10(pop) * float64(n.Tech.Level+1))

	n.Research.Guilds = resource.NewTable()
	fieldCount := n.rng.Between(2, 5)
	picked := make(map[string]bool, fieldCount)
	for len(picked) < fieldCount {
		f := guildFields[n.rng.IntN(len(guildFields))]
		if picked[f] {
			continue
		}
		picked[f] = true
		n.Research.Guilds.Set(f, float64(n.rng.Between(1, 20)))
	}

	projects := n.rng.Between(0, 3)
	for i := 0; i < projects; i++ {
		n.Research.InProgress = append(n.Research.InProgress, n.rng.ID("proj"))
	}

	n.Research.ScientistTiers = buildScientistLadder(n.rng, n.Population.Researchers, n.Population.Total)
}

// buildScientistLadder climbs the tier ladder from the researcher pool. Each
// tier's theoretical maximum is ⌊prev/100⌋; the realized count is an
// emergence-rate draw of 0–10% of that maximum, boosted for very large
// populations, and always re-capped so the gate holds after boosting. The
// climb stops at the first empty tier — the ladder is never skipped.
func buildScientistLadder(rng *entropy.Source, researchers, total float64) *resource.Table {
	ladder := resource.NewTable()
	prev := researchers
	for tier := 1; tier <= techLevelMax; tier++ {
		max := math.Floor(prev / hardStepDivisor)
		if max < 1 {
			break
		}
		boost := 1.0
		if total >= 1e10 && tier >= 8 {
			boost = 1.5
		}
		if total >= 1e11 && tier >= 9 {
			boost = 2.0
		}
		count := math.Floor(max * rng.Range(0, 0.10) * boost)
		if count > max {
			count = max
		}
		if count < 1 {
			break
		}
		ladder.Set(strconv.Itoa(tier), count)
		prev = count
	}
	return ladder
}
