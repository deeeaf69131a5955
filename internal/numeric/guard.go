// Package numeric provides the shared finite-value guard. Simulation models
// never throw on numeric corruption — they reset to a safe baseline — but
// every reset is counted and logged so tests and operators can see the guard
// engaging.
package numeric

import (
	"log/slog"
	"math"
	"sync/atomic"
)

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampScore bounds a stability-style score to [0, 100].
func ClampScore(v float64) float64 {
	return Clamp(v, 0, 100)
}

// Guard counts self-healing resets for one node.
type Guard struct {
	resets atomic.Uint64
}

// Heal records a reset of field on node to the given baseline and returns
// the baseline so callers can assign in one expression.
func (g *Guard) Heal(node, field string, to float64) float64 {
	g.resets.Add(1)
	slog.Warn("numeric guard engaged", "node", node, "field", field, "reset_to", to)
	return to
}

// Resets returns how many times the guard has engaged.
func (g *Guard) Resets() uint64 {
	return g.resets.Load()
}
