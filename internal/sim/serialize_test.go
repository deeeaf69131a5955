package sim

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/macroverse/internal/entropy"
	"github.com/talgya/macroverse/internal/scale"
)

func snapshotBytes(t *testing.T, n *Node) []byte {
	t.Helper()
	data, err := n.Serialize().MarshalIndent()
	require.NoError(t, err)
	return data
}

func TestSerializeIsIdempotent(t *testing.T) {
	root := BuildUniverse(GenConfig{
		Seed: 41, RootTier: scale.TierGalaxy, RootName: "Twice", Depth: 1, FanOut: 0.3,
	})
	root.Update(5)

	first := snapshotBytes(t, root)
	second := snapshotBytes(t, root)
	assert.Equal(t, first, second)
}

func TestSameSeedSameSnapshot(t *testing.T) {
	cfg := GenConfig{
		Seed: 77, RootTier: scale.TierGalaxy, RootName: "Mirror", Depth: 2, FanOut: 0.3,
	}
	a := BuildUniverse(cfg)
	b := BuildUniverse(cfg)

	for i := 0; i < 10; i++ {
		a.Update(1)
		b.Update(1)
	}
	assert.Equal(t, snapshotBytes(t, a), snapshotBytes(t, b))
}

func TestRoundTripPreservesState(t *testing.T) {
	root := BuildUniverse(GenConfig{
		Seed: 53, RootTier: scale.TierSystem, RootName: "Round Trip", Depth: 2, FanOut: 0.4,
	})
	root.Update(3)
	root.TriggerEvent(EventWar)
	data := snapshotBytes(t, root)

	loaded, err := LoadSnapshot(data, entropy.NewSource(53))
	require.NoError(t, err)

	assert.Equal(t, data, snapshotBytes(t, loaded))
	assert.Equal(t, root.Count(), loaded.Count())
	assert.InDelta(t, root.TotalPopulation(), loaded.TotalPopulation(), root.TotalPopulation()*1e-12)
	assert.True(t, loaded.HasEvent(EventWar))
}

func TestLoadedTreeKeepsSimulating(t *testing.T) {
	root := BuildUniverse(GenConfig{
		Seed: 53, RootTier: scale.TierPlanet, RootName: "Rehydrated", Depth: 1, FanOut: 0.4,
	})
	data := snapshotBytes(t, root)

	loaded, err := LoadSnapshot(data, entropy.NewSource(1))
	require.NoError(t, err)

	loaded.Update(10)
	checkInvariants(t, loaded)
	for _, n := range loaded.Descendants() {
		checkInvariants(t, n)
	}
}

func TestLoadRejectsUnknownTier(t *testing.T) {
	n := newTestNode(t, "m1", scale.TierMegasegment, 61)
	s := n.Serialize()
	s.Tier = "continent"
	data, err := json.Marshal(s)
	require.NoError(t, err)

	_, err = LoadSnapshot(data, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot rejected")
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	n := newTestNode(t, "m1", scale.TierMegasegment, 61)
	s := n.Serialize()
	s.Mode = "dormant"
	data, err := json.Marshal(s)
	require.NoError(t, err)

	_, err = LoadSnapshot(data, nil)
	require.Error(t, err)
}

func TestLoadRejectsDuplicateTableKeys(t *testing.T) {
	n := newTestNode(t, "m1", scale.TierMegasegment, 61)
	s := n.Serialize()
	s.Stockpile = append(s.Stockpile, s.Stockpile[0])
	data, err := json.Marshal(s)
	require.NoError(t, err)

	_, err = LoadSnapshot(data, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadRejectsIncompleteAddress(t *testing.T) {
	n := newTestNode(t, "m1", scale.TierMegasegment, 61)
	s := n.Serialize()
	s.Address.Planet = nil
	data, err := json.Marshal(s)
	require.NoError(t, err)

	_, err = LoadSnapshot(data, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address missing")
}

func TestLoadRejectsNonFinitePopulation(t *testing.T) {
	n := newTestNode(t, "m1", scale.TierMegasegment, 61)
	s := n.Serialize()
	s.Population.Total = -5
	data, err := json.Marshal(s)
	require.NoError(t, err)

	_, err = LoadSnapshot(data, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "population")
}

func TestLoadRejectsChildTierMismatch(t *testing.T) {
	rng := entropy.NewSource(61)
	parent := New("p", "Parent", scale.TierSystem, addressForRoot(scale.TierSystem), rng)
	child := New("c", "Child", scale.TierPlanet, addressForRoot(scale.TierPlanet), rng)
	require.NoError(t, parent.AddChild(child))

	s := parent.Serialize()
	s.Children[0].Tier = scale.TierMegasegment.String()
	data, err := json.Marshal(s)
	require.NoError(t, err)

	_, err = LoadSnapshot(data, nil)
	require.Error(t, err)
}

func TestLoadRejectsMissingDetail(t *testing.T) {
	n := newTestNode(t, "m1", scale.TierMegasegment, 61)
	s := n.Serialize()
	s.Detail = nil
	data, err := json.Marshal(s)
	require.NoError(t, err)

	_, err = LoadSnapshot(data, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "detail")
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	_, err := LoadSnapshot([]byte(`{"id": "x"`), nil)
	require.Error(t, err)
}
