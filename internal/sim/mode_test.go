package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/macroverse/internal/scale"
)

func TestModeLadder(t *testing.T) {
	n := newTestNode(t, "m1", scale.TierMegasegment, 1)

	assert.Equal(t, ModeAbstract, n.Mode)
	assert.InDelta(t, 0.1, n.TimeScale, 1e-9)

	n.Activate()
	assert.Equal(t, ModeSemiActive, n.Mode)
	assert.InDelta(t, 1.0, n.TimeScale, 1e-9)

	n.Activate()
	assert.Equal(t, ModeActive, n.Mode)
	assert.InDelta(t, 1.0, n.TimeScale, 1e-9)

	// Already at the top: no-op.
	n.Activate()
	assert.Equal(t, ModeActive, n.Mode)

	// The backward ladder passes through 0.5, not 1.0.
	n.Deactivate()
	assert.Equal(t, ModeSemiActive, n.Mode)
	assert.InDelta(t, 0.5, n.TimeScale, 1e-9)

	n.Deactivate()
	assert.Equal(t, ModeAbstract, n.Mode)
	assert.InDelta(t, 0.1, n.TimeScale, 1e-9)

	// Already at the bottom: no-op.
	n.Deactivate()
	assert.Equal(t, ModeAbstract, n.Mode)
	assert.InDelta(t, 0.1, n.TimeScale, 1e-9)
}

func TestModeScalesSimulatedTime(t *testing.T) {
	a := newTestNode(t, "m1", scale.TierMegasegment, 1)
	b := newTestNode(t, "m2", scale.TierMegasegment, 1)
	b.Activate()

	a.Update(10)
	b.Update(10)

	assert.InDelta(t, 1.0, a.Tick, 1e-9, "abstract node accrues a tenth of wall delta")
	assert.InDelta(t, 10.0, b.Tick, 1e-9)
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeAbstract, ModeSemiActive, ModeActive} {
		got, err := ParseMode(m.String())
		assert.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("hibernating")
	assert.Error(t, err)
}
