package sequence

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/cjeanneret/rocketeer/internal/command"
	"github.com/cjeanneret/rocketeer/internal/debug"
	"github.com/cjeanneret/rocketeer/internal/errcode"
	"github.com/cjeanneret/rocketeer/internal/hw/launcher"
	"github.com/cjeanneret/rocketeer/internal/logic/geometry"
	"github.com/cjeanneret/rocketeer/internal/logic/motion"
	"github.com/cjeanneret/rocketeer/internal/position"
)

// Sequencer plays command steps one after another on a single launcher and
// owns the logical position between them.
type Sequencer struct {
	motion *motion.Controller
	store  position.Store
	pos    position.Position
}

// NewSequencer starts from start, usually what the store loaded at startup.
func NewSequencer(m *motion.Controller, store position.Store, start position.Position) *Sequencer {
	return &Sequencer{
		motion: m,
		store:  store,
		pos:    start,
	}
}

// Position returns the current logical position.
func (s *Sequencer) Position() position.Position {
	return s.pos
}

// RunMacro runs every step of m.
func (s *Sequencer) RunMacro(m command.Macro) error {
	debug.Section("Macro " + m.Name)
	return s.Run(m.Steps)
}

// Run executes steps in order, each one blocking until its physical effect
// is over. A failing step is logged and skipped; the rest still run. All
// step failures come back combined, each as a *StepError.
func (s *Sequencer) Run(steps []command.Step) error {
	var errs error
	for i, step := range steps {
		debug.Step(i+1, len(steps), step.String())
		if err := s.Execute(step); err != nil {
			name := step.Name
			if name == "" {
				name = step.Kind.String()
			}
			stepErr := &StepError{Index: i, Name: name, Err: err}
			debug.Error(stepErr)
			errs = multierr.Append(errs, stepErr)
		}
	}
	return errs
}

// Execute dispatches a single step.
func (s *Sequencer) Execute(step command.Step) error {
	switch step.Kind {
	case command.KindUp:
		return s.motion.MoveDirection(launcher.Up, step.Duration)
	case command.KindDown:
		return s.motion.MoveDirection(launcher.Down, step.Duration)
	case command.KindLeft:
		return s.motion.MoveDirection(launcher.Left, step.Duration)
	case command.KindRight:
		return s.motion.MoveDirection(launcher.Right, step.Duration)
	case command.KindFire:
		return s.motion.Fire(step.Count)
	case command.KindPause:
		s.motion.Pause(step.Duration)
		return nil
	case command.KindLED:
		return s.motion.SetLED(step.On)
	case command.KindCoordinates:
		return s.moveTo(position.Position{X: step.X, Y: step.Y})
	case command.KindZero:
		return s.zero()
	default:
		return errors.Wrapf(errcode.UnknownCommand, "%q", step.Name)
	}
}

// moveTo issues the planned pulses and persists the new position. An axis
// is only committed once its pulse was sent without error.
func (s *Sequencer) moveTo(target position.Position) error {
	debug.Live("Moving to coordinates %s", target)
	moves, planned := geometry.MoveTo(target, s.pos)
	debug.Verbose("From %s: %d pulse(s)", s.pos, len(moves))

	var errs error
	next := s.pos
	for _, m := range moves {
		if err := s.motion.MoveDirection(m.Dir, m.Duration); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		switch m.Dir {
		case launcher.Left, launcher.Right:
			next.X = planned.X
		case launcher.Up, launcher.Down:
			next.Y = planned.Y
		}
	}
	return multierr.Append(errs, s.commit(next))
}

// zero parks at the physical origin and resets the logical position to it
// no matter what the pulses reported.
func (s *Sequencer) zero() error {
	debug.Live("Moving to %s - resetting coordinates", position.Origin)

	var errs error
	for _, m := range geometry.ZeroMoves() {
		errs = multierr.Append(errs, s.motion.MoveDirection(m.Dir, m.Duration))
	}
	return multierr.Append(errs, s.commit(position.Origin))
}

// commit updates the in-memory position and writes it through. A failed
// write leaves the in-memory value updated since the move already happened.
func (s *Sequencer) commit(p position.Position) error {
	s.pos = p
	if err := s.store.Save(p); err != nil {
		return errors.Wrap(err, "persist position")
	}
	return nil
}
