package sim

import "fmt"

// Mode is a node's level-of-detail state. Transitions are adjacent-only:
// abstract ↔ semi-active ↔ active.
type Mode uint8

const (
	ModeAbstract Mode = iota
	ModeSemiActive
	ModeActive
)

// Time scales per transition. The forward ladder sets 1.0 twice while the
// backward ladder steps through 0.5 — this asymmetry matches the observed
// behavior of the controller and is deliberately left as-is.
const (
	timeScaleAbstract     = 0.1
	timeScaleForwardSemi  = 1.0
	timeScaleActive       = 1.0
	timeScaleBackwardSemi = 0.5
)

var modeNames = [...]string{"abstract", "semi_active", "active"}

// String returns the canonical mode label.
func (m Mode) String() string {
	if int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
	return modeNames[m]
}

// ParseMode maps a label back to its Mode.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Activate raises the node one fidelity level. Calling it from active mode
// is a no-op.
func (n *Node) Activate() {
	switch n.Mode {
	case ModeAbstract:
		n.Mode = ModeSemiActive
		n.TimeScale = timeScaleForwardSemi
	case ModeSemiActive:
		n.Mode = ModeActive
		n.TimeScale = timeScaleActive
	}
}

// Deactivate lowers the node one fidelity level. Calling it from abstract
// mode is a no-op.
func (n *Node) Deactivate() {
	switch n.Mode {
	case ModeActive:
		n.Mode = ModeSemiActive
		n.TimeScale = timeScaleBackwardSemi
	case ModeSemiActive:
		n.Mode = ModeAbstract
		n.TimeScale = timeScaleAbstract
	}
}
