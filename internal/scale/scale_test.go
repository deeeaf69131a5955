package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLadderOrder(t *testing.T) {
	tiers := Tiers()
	require.Len(t, tiers, 7)
	assert.Equal(t, TierGalaxy, tiers[0])
	assert.Equal(t, TierTile, tiers[6])

	// Walking Child() from the top visits every tier exactly once.
	seen := 1
	cur := TierGalaxy
	for {
		next, ok := cur.Child()
		if !ok {
			break
		}
		seen++
		cur = next
	}
	assert.Equal(t, 7, seen)
	assert.Equal(t, TierTile, cur)
}

func TestRowsSane(t *testing.T) {
	for _, tier := range Tiers() {
		row := For(tier)
		assert.Greater(t, row.PopMin, 0.0, tier.String())
		assert.Greater(t, row.PopMax, row.PopMin, tier.String())
		assert.Greater(t, row.AreaKm2, 0.0, tier.String())
		assert.GreaterOrEqual(t, row.ChildMax, row.ChildMin, tier.String())
	}
}

func TestMegasegmentRange(t *testing.T) {
	row := For(TierMegasegment)
	assert.Equal(t, 1e8, row.PopMin)
	assert.Equal(t, 1e9, row.PopMax)
}

func TestParseTier(t *testing.T) {
	for _, tier := range Tiers() {
		parsed, err := ParseTier(tier.String())
		require.NoError(t, err)
		assert.Equal(t, tier, parsed)
	}
	_, err := ParseTier("universe")
	assert.Error(t, err)
}

func TestTileHasNoChild(t *testing.T) {
	_, ok := TierTile.Child()
	assert.False(t, ok)
}
