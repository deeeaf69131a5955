package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/macroverse/internal/scale"
	"github.com/talgya/macroverse/internal/sim"
)

func testRoot() *sim.Node {
	return sim.BuildUniverse(sim.GenConfig{
		Seed:     19,
		RootTier: scale.TierPlanet,
		RootName: "Engine Test",
		Depth:    1,
		FanOut:   0.3,
	})
}

func TestStepAdvancesTree(t *testing.T) {
	e := NewEngine(testRoot())
	before := e.Root.Tick

	e.Step()
	e.Step()

	assert.Equal(t, uint64(2), e.Tick)
	assert.Greater(t, e.Root.Tick, before)
}

func TestCallbacks(t *testing.T) {
	e := NewEngine(testRoot())
	e.ReportEvery = 3

	var ticks []uint64
	var reports []uint64
	e.OnTick = func(tick uint64) { ticks = append(ticks, tick) }
	e.OnReport = func(tick uint64) { reports = append(reports, tick) }

	for i := 0; i < 7; i++ {
		e.Step()
	}

	assert.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7}, ticks)
	assert.Equal(t, []uint64{3, 6}, reports)
}

func TestRunStops(t *testing.T) {
	e := NewEngine(testRoot())
	e.Interval = time.Millisecond

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	// Let a few ticks land, then stop.
	deadline := time.After(2 * time.Second)
	for {
		var tick uint64
		e.WithLock(func() { tick = e.Tick })
		if tick >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("engine never ticked")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	e.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop")
	}
	require.GreaterOrEqual(t, e.Tick, uint64(2))
}

func TestWithLockSeesConsistentTree(t *testing.T) {
	e := NewEngine(testRoot())
	e.Step()

	var count int
	e.WithLock(func() { count = e.Root.Count() })
	assert.Greater(t, count, 1)
}
