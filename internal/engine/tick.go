// Package engine drives the simulation tree forward on a real-time tick
// loop. The tree itself is a pure step function; the engine owns pacing,
// speed control, and the periodic report/snapshot cadence.
package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/macroverse/internal/sim"
)

// Engine advances the root node at a fixed interval.
type Engine struct {
	Root      *sim.Node
	Tick      uint64        // real tick counter, monotonic
	Speed     float64       // multiplier: 1.0 = real-time, 0 = paused
	Interval  time.Duration // base tick interval
	DeltaTime float64       // sim-time handed to Update each tick
	Running   bool

	// Callbacks, populated during setup.
	OnTick   func(tick uint64) // every tick, under the state lock
	OnReport func(tick uint64) // every ReportEvery ticks, under the state lock

	ReportEvery uint64

	// mu guards the tree while API readers are active.
	mu sync.Mutex
}

// NewEngine creates an engine with default pacing around a root.
func NewEngine(root *sim.Node) *Engine {
	return &Engine{
		Root:        root,
		Speed:       1.0,
		Interval:    time.Second,
		DeltaTime:   1.0,
		ReportEvery: 60,
	}
}

// Run starts the loop. Blocks until Stop is called.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("simulation engine started",
		"nodes", e.Root.Count(),
		"interval", e.Interval,
		"delta_time", e.DeltaTime,
	)

	for e.Running {
		if e.Speed <= 0 {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()
		e.Step()

		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Tick)
}

// Stop halts the loop after the current tick.
func (e *Engine) Stop() {
	e.Running = false
}

// Step advances the tree by one tick. Exposed so hosts and tests can drive
// the engine without the real-time loop.
func (e *Engine) Step() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Tick++
	e.Root.Update(e.DeltaTime)

	if e.OnTick != nil {
		e.OnTick(e.Tick)
	}
	if e.ReportEvery > 0 && e.Tick%e.ReportEvery == 0 {
		e.report()
		if e.OnReport != nil {
			e.OnReport(e.Tick)
		}
	}
}

// WithLock runs fn while the tree is quiescent, for readers that race the
// loop.
func (e *Engine) WithLock(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

func (e *Engine) report() {
	pop := e.Root.TotalPopulation()
	slog.Info("simulation report",
		"tick", e.Tick,
		"sim_time", humanize.CommafWithDigits(e.Root.Tick, 1),
		"nodes", e.Root.Count(),
		"population", humanize.SIWithDigits(pop, 2, ""),
		"tech_level", e.Root.Tech.Level,
		"stability", humanize.CommafWithDigits(e.Root.Stability.Overall, 1),
		"active_events", len(e.Root.ActiveEvents),
		"guard_resets", e.Root.GuardResets(),
	)
}
