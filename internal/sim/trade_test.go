package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/macroverse/internal/entropy"
	"github.com/talgya/macroverse/internal/resource"
	"github.com/talgya/macroverse/internal/scale"
)

// tradeFixture builds a planet with two gigasegment children whose material
// stockpiles are pinned to a clear surplus on x and a clear deficit on y.
// Every other resource sits in the neutral band so no extra routes open.
func tradeFixture(t *testing.T) (parent, x, y *Node) {
	t.Helper()
	rng := entropy.NewSource(13)
	parent = New("p", "Parent", scale.TierPlanet, addressForRoot(scale.TierPlanet), rng)
	x = New("x", "Surplus", scale.TierGigasegment, addressForRoot(scale.TierGigasegment), rng)
	y = New("y", "Deficit", scale.TierGigasegment, addressForRoot(scale.TierGigasegment), rng)
	require.NoError(t, parent.AddChild(x))
	require.NoError(t, parent.AddChild(y))

	for _, rt := range resource.Types() {
		key := rt.String()
		x.Economy.Stockpile.Set(key, 10*x.Economy.Consumption.Get(key))
		y.Economy.Stockpile.Set(key, 10*y.Economy.Consumption.Get(key))
	}
	x.Economy.Stockpile.Set("materials", 100*x.Economy.Consumption.Get("materials"))
	y.Economy.Stockpile.Set("materials", 1*y.Economy.Consumption.Get("materials"))
	return parent, x, y
}

func TestAutoStabilizeOpensRoute(t *testing.T) {
	parent, _, _ := tradeFixture(t)

	parent.Update(1)

	require.Len(t, parent.TradeRoutes, 1)
	r := parent.TradeRoutes[0]
	assert.Equal(t, "auto_x_y_materials", r.ID)
	assert.Equal(t, "x", r.FromID)
	assert.Equal(t, "y", r.ToID)
	assert.Equal(t, "materials", r.Resource)
	assert.InDelta(t, 100.0, r.Amount, 1e-9)
	assert.GreaterOrEqual(t, r.Efficiency, 0.8)
	assert.LessOrEqual(t, r.Efficiency, 1.0)
}

func TestAutoStabilizeIsIdempotent(t *testing.T) {
	parent, x, y := tradeFixture(t)

	parent.autoStabilize()
	require.Len(t, parent.TradeRoutes, 1)

	// The same imbalance detected again must confirm the route, not stack a
	// duplicate.
	x.Economy.Stockpile.Set("materials", 100*x.Economy.Consumption.Get("materials"))
	y.Economy.Stockpile.Set("materials", 1*y.Economy.Consumption.Get("materials"))
	parent.autoStabilize()
	assert.Len(t, parent.TradeRoutes, 1)
}

func TestNeutralStockOpensNothing(t *testing.T) {
	parent, _, _ := tradeFixture(t)
	for _, c := range parent.Children {
		for _, rt := range resource.Types() {
			key := rt.String()
			c.Economy.Stockpile.Set(key, 10*c.Economy.Consumption.Get(key))
		}
	}
	parent.autoStabilize()
	assert.Empty(t, parent.TradeRoutes)
}

func TestSettlementConservesAdjustedForEfficiency(t *testing.T) {
	parent, x, y := tradeFixture(t)
	parent.autoStabilize()
	require.Len(t, parent.TradeRoutes, 1)
	r := parent.TradeRoutes[0]

	fromBefore := x.Economy.Stockpile.Get("materials")
	toBefore := y.Economy.Stockpile.Get("materials")

	parent.Activate()
	parent.settleRoutes(1)

	assert.InDelta(t, fromBefore-r.Amount, x.Economy.Stockpile.Get("materials"), 1e-6)
	assert.InDelta(t, toBefore+r.Amount*r.Efficiency, y.Economy.Stockpile.Get("materials"), 1e-6)
	assert.InDelta(t, r.Amount, x.Economy.TradeBalance, 1e-9)
	assert.InDelta(t, -r.Amount*r.Efficiency, y.Economy.TradeBalance, 1e-9)
}

func TestAbstractParentDoesNotSettle(t *testing.T) {
	parent, x, y := tradeFixture(t)

	parent.Update(1)
	require.NotEmpty(t, parent.TradeRoutes)
	parent.Update(1)

	// Route intent accumulates, but no stock moved while abstract.
	assert.Zero(t, x.Economy.TradeBalance)
	assert.Zero(t, y.Economy.TradeBalance)
}

func TestSettlementCapsAtAvailableStock(t *testing.T) {
	parent, x, y := tradeFixture(t)
	parent.autoStabilize()
	require.Len(t, parent.TradeRoutes, 1)
	r := parent.TradeRoutes[0]

	x.Economy.Stockpile.Set("materials", 40)
	toBefore := y.Economy.Stockpile.Get("materials")

	parent.Activate()
	parent.settleRoutes(1)

	assert.InDelta(t, 0.0, x.Economy.Stockpile.Get("materials"), 1e-9)
	assert.InDelta(t, toBefore+40*r.Efficiency, y.Economy.Stockpile.Get("materials"), 1e-6)
	assert.False(t, math.Signbit(x.Economy.Stockpile.Get("materials")))
}

func TestDanglingRouteDropped(t *testing.T) {
	parent, _, _ := tradeFixture(t)
	parent.autoStabilize()
	require.Len(t, parent.TradeRoutes, 1)

	require.True(t, parent.RemoveChild("y"))
	parent.Activate()
	parent.settleRoutes(1)

	assert.Empty(t, parent.TradeRoutes)
}
