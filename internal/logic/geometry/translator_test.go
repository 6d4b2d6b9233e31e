package geometry

import (
	"testing"
	"time"

	"github.com/cjeanneret/rocketeer/internal/hw/launcher"
	"github.com/cjeanneret/rocketeer/internal/position"
)

func pos(x, y int) position.Position { return position.Position{X: x, Y: y} }

func TestMoveTo_Directions(t *testing.T) {
	cases := []struct {
		name      string
		current   position.Position
		target    position.Position
		wantMoves []Move
		wantPos   position.Position
	}{
		{
			"right_and_up",
			pos(0, 0), pos(85, 10),
			[]Move{{launcher.Right, 85 * Calibration}, {launcher.Up, 10 * Calibration}},
			pos(85, 10),
		},
		{
			"left_and_down",
			pos(90, 15), pos(22, 9),
			[]Move{{launcher.Left, 68 * Calibration}, {launcher.Down, 6 * Calibration}},
			pos(22, 9),
		},
		{
			"vertical_only",
			pos(85, 10), pos(85, 15),
			[]Move{{launcher.Up, 5 * Calibration}},
			pos(85, 15),
		},
		{
			"horizontal_only",
			pos(85, 15), pos(90, 15),
			[]Move{{launcher.Right, 5 * Calibration}},
			pos(90, 15),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			moves, next := MoveTo(tc.target, tc.current)
			if len(moves) != len(tc.wantMoves) {
				t.Fatalf("moves = %v, want %v", moves, tc.wantMoves)
			}
			for i := range moves {
				if moves[i] != tc.wantMoves[i] {
					t.Errorf("move %d = %+v, want %+v", i, moves[i], tc.wantMoves[i])
				}
			}
			if next != tc.wantPos {
				t.Errorf("position = %v, want %v", next, tc.wantPos)
			}
		})
	}
}

func TestMoveTo_Identity(t *testing.T) {
	for _, p := range []position.Position{pos(0, 0), pos(40, 5), pos(-2, 7)} {
		moves, next := MoveTo(p, p)
		if len(moves) != 0 {
			t.Errorf("MoveTo(%v, %v) issued %v, want none", p, p, moves)
		}
		if next != p {
			t.Errorf("MoveTo(%v, %v) position = %v", p, p, next)
		}
	}
}

func TestMoveTo_CalibrationIs50ms(t *testing.T) {
	moves, _ := MoveTo(pos(1, 0), pos(0, 0))
	if len(moves) != 1 || moves[0].Duration != 50*time.Millisecond {
		t.Errorf("one unit = %v, want a single 50ms pulse", moves)
	}
}

func TestMoveTo_FullRangeStaysPositive(t *testing.T) {
	top, bottom := position.MaxCoordinate, -position.MaxCoordinate
	cases := []struct {
		name            string
		target, current position.Position
	}{
		{"right_up", pos(top, top), pos(bottom, bottom)},
		{"left_down", pos(bottom, bottom), pos(top, top)},
	}
	want := time.Duration(2*position.MaxCoordinate) * Calibration
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			moves, _ := MoveTo(tc.target, tc.current)
			if len(moves) != 2 {
				t.Fatalf("moves = %v, want 2", moves)
			}
			for _, m := range moves {
				if m.Duration != want {
					t.Errorf("%s pulse = %v, want %v", m.Dir, m.Duration, want)
				}
			}
		})
	}
}

// Every pair in a small grid: at most one pulse per axis, horizontal first,
// and an axis without delta keeps the current value.
func TestMoveTo_Properties(t *testing.T) {
	horizontal := func(c launcher.Code) bool { return c == launcher.Left || c == launcher.Right }

	for cx := -2; cx <= 2; cx++ {
		for cy := -2; cy <= 2; cy++ {
			for tx := -2; tx <= 2; tx++ {
				for ty := -2; ty <= 2; ty++ {
					current, target := pos(cx, cy), pos(tx, ty)
					moves, next := MoveTo(target, current)

					var h, v int
					for i, m := range moves {
						if horizontal(m.Dir) {
							h++
							if i != 0 {
								t.Errorf("%v->%v: horizontal move not first: %v", current, target, moves)
							}
						} else {
							v++
						}
					}
					if h > 1 || v > 1 {
						t.Errorf("%v->%v: %d horizontal, %d vertical pulses", current, target, h, v)
					}
					if (cx == tx) != (h == 0) || (cy == ty) != (v == 0) {
						t.Errorf("%v->%v: pulses %v do not match deltas", current, target, moves)
					}
					if next != target {
						t.Errorf("%v->%v: position %v, want target", current, target, next)
					}
				}
			}
		}
	}
}

func TestZeroMoves(t *testing.T) {
	want := []Move{
		{launcher.Down, 2000 * time.Millisecond},
		{launcher.Left, 8000 * time.Millisecond},
	}
	got := ZeroMoves()
	if len(got) != len(want) {
		t.Fatalf("ZeroMoves() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("move %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
