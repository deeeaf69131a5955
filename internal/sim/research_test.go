package sim

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/macroverse/internal/entropy"
	"github.com/talgya/macroverse/internal/scale"
)

func TestBreakthroughGainsExactlyOneLevel(t *testing.T) {
	n := newTestNode(t, "m1", scale.TierMegasegment, 5, WithTechLevel(3))
	n.Tech.Progress = 99.9

	before := n.Tech.Level
	n.stepResearch(1)

	assert.Equal(t, before+1, n.Tech.Level)
	assert.Zero(t, n.Tech.Progress)
	assert.InDelta(t, techEfficiency(before+1), n.Tech.Efficiency, 1e-9)
	assert.True(t, n.HasEvent(EventTechBreakthrough))
}

// Even an enormous researcher pool crossing the threshold by orders of
// magnitude yields a single level per tick.
func TestBreakthroughNeverSkipsLevels(t *testing.T) {
	n := newTestNode(t, "m1", scale.TierMegasegment, 5, WithTechLevel(3))
	n.Population.Researchers = 1e12
	n.Tech.Progress = 99.9

	n.stepResearch(1)
	assert.Equal(t, 4, n.Tech.Level)
	assert.Zero(t, n.Tech.Progress)
}

func TestProgressSaturatesAtMaxLevel(t *testing.T) {
	n := newTestNode(t, "m1", scale.TierMegasegment, 5, WithTechLevel(10))
	n.Tech.Progress = 99.9
	n.Population.Researchers = 1e9

	n.stepResearch(1)
	assert.Equal(t, 10, n.Tech.Level)
	assert.InDelta(t, 100.0, n.Tech.Progress, 1e-9)
	assert.False(t, n.HasEvent(EventTechBreakthrough))
}

func TestProgressAccrualRate(t *testing.T) {
	n := newTestNode(t, "m1", scale.TierMegasegment, 5)
	n.Tech.Progress = 0
	n.Population.Researchers = 500

	n.stepResearch(2)
	assert.InDelta(t, 500*0.01*2, n.Tech.Progress, 1e-9)
}

func TestScientistLadderHonorsHardStep(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		rng := entropy.NewSource(seed)
		ladder := buildScientistLadder(rng, 1e9, 1e10)

		prev := 1e9
		for tier := 1; tier <= 10; tier++ {
			key := strconv.Itoa(tier)
			if !ladder.Has(key) {
				// The climb stops at the first empty tier; nothing above it
				// may be populated.
				for rest := tier + 1; rest <= 10; rest++ {
					assert.False(t, ladder.Has(strconv.Itoa(rest)),
						"seed %d: tier %d populated above a gap", seed, rest)
				}
				break
			}
			count := ladder.Get(key)
			limit := math.Floor(prev / 100)
			require.LessOrEqual(t, count, limit,
				"seed %d tier %d: %v exceeds hard-step limit %v", seed, tier, count, limit)
			require.GreaterOrEqual(t, count, 1.0)
			prev = count
		}
	}
}

func TestScientistLadderBoostStaysCapped(t *testing.T) {
	// Large totals unlock the emergence boost; the gate must still hold.
	for seed := int64(1); seed <= 25; seed++ {
		rng := entropy.NewSource(seed)
		ladder := buildScientistLadder(rng, 1e11, 1e12)

		prev := 1e11
		ladder.Walk(func(key string, count float64) {
			limit := math.Floor(prev / 100)
			assert.LessOrEqual(t, count, limit, "seed %d tier %s", seed, key)
			prev = count
		})
	}
}

func TestGenerateResearchInfrastructure(t *testing.T) {
	n := newTestNode(t, "m1", scale.TierMegasegment, 17)

	assert.Greater(t, n.Research.Universities, 0)
	assert.GreaterOrEqual(t, n.Research.Guilds.Len(), 2)
	assert.LessOrEqual(t, n.Research.Guilds.Len(), 5)
	n.Research.Guilds.Walk(func(field string, count float64) {
		assert.Contains(t, guildFields, field)
		assert.GreaterOrEqual(t, count, 1.0)
		assert.LessOrEqual(t, count, 20.0)
	})
	assert.LessOrEqual(t, len(n.Research.InProgress), 3)
	assert.NotNil(t, n.Research.ScientistTiers)
}
