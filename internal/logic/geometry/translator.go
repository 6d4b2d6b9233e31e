package geometry

import (
	"time"

	"github.com/cjeanneret/rocketeer/internal/hw/launcher"
	"github.com/cjeanneret/rocketeer/internal/position"
)

// Calibration is the motion time per coordinate unit, both axes.
const Calibration = 50 * time.Millisecond

// Recalibration pulses: long enough to hit the bottom-left end stops from
// anywhere in the travel range.
const (
	ZeroDown = 2000 * time.Millisecond
	ZeroLeft = 8000 * time.Millisecond
)

// Move is one planned directional pulse.
type Move struct {
	Dir      launcher.Code
	Duration time.Duration
}

// ZeroMoves returns the fixed recovery sequence that parks the launcher at
// the physical origin. It ignores the logical position entirely.
func ZeroMoves() []Move {
	return []Move{
		{Dir: launcher.Down, Duration: ZeroDown},
		{Dir: launcher.Left, Duration: ZeroLeft},
	}
}

// MoveTo plans the pulses taking the launcher from current to target: at
// most one horizontal move followed by at most one vertical move.
//
// In the returned position only axes that actually moved take the target
// value; an axis with no delta keeps current's value.
func MoveTo(target, current position.Position) ([]Move, position.Position) {
	var moves []Move
	next := current

	if m, ok := axisMove(current.X-target.X, launcher.Right, launcher.Left); ok {
		moves = append(moves, m)
		next.X = target.X
	}
	if m, ok := axisMove(current.Y-target.Y, launcher.Up, launcher.Down); ok {
		moves = append(moves, m)
		next.Y = target.Y
	}
	return moves, next
}

// axisMove turns a current-minus-target delta into a pulse: negative goes
// toward inc, positive toward dec.
func axisMove(delta int, inc, dec launcher.Code) (Move, bool) {
	switch {
	case delta < 0:
		return Move{Dir: inc, Duration: time.Duration(-delta) * Calibration}, true
	case delta > 0:
		return Move{Dir: dec, Duration: time.Duration(delta) * Calibration}, true
	default:
		return Move{}, false
	}
}
