package motion

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/cjeanneret/rocketeer/internal/debug"
	"github.com/cjeanneret/rocketeer/internal/errcode"
	"github.com/cjeanneret/rocketeer/internal/hw/launcher"
)

// Firing timings.
const (
	StabilizeDelay = 500 * time.Millisecond  // before the first shot
	ReloadDelay    = 4500 * time.Millisecond // after every shot

	MinShots = 1
	MaxShots = 4
)

// Controller issues timed primitives on a launcher. It's the layer between
// the sequencer/translator and the device: every wait here blocks the caller
// for the full physical duration.
type Controller struct {
	dev   launcher.Launcher
	sleep func(time.Duration)
}

// Option configures a Controller.
type Option func(*Controller)

// WithSleep replaces time.Sleep, e.g. to record waits in tests.
func WithSleep(fn func(time.Duration)) Option {
	return func(c *Controller) { c.sleep = fn }
}

func NewController(dev launcher.Launcher, opts ...Option) *Controller {
	c := &Controller{
		dev:   dev,
		sleep: time.Sleep,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// MoveDirection runs the motor in dir for d, then stops it. Stop is sent
// even when starting the move failed.
func (c *Controller) MoveDirection(dir launcher.Code, d time.Duration) error {
	switch dir {
	case launcher.Up, launcher.Down, launcher.Left, launcher.Right:
	default:
		return errors.Errorf("not a direction: %s", dir)
	}

	debug.Pulse(dir.String(), d)
	err := c.dev.Send(dir)
	if err == nil {
		c.sleep(d)
	} else {
		err = errors.Wrapf(err, "start %s", dir)
	}
	if stopErr := c.dev.Send(launcher.Stop); stopErr != nil {
		err = multierr.Append(err, errors.Wrap(stopErr, "stop"))
	}
	return err
}

// Fire shoots count missiles. A count outside [MinShots, MaxShots] falls
// back to a single shot.
func (c *Controller) Fire(count int) error {
	shots := ClampShots(count)
	if shots != count {
		debug.Verbose("Fire count %d out of range, firing %d", count, shots)
	}

	c.sleep(StabilizeDelay)
	for i := 0; i < shots; i++ {
		if err := c.dev.Send(launcher.Fire); err != nil {
			return errors.Wrapf(err, "fire shot %d/%d", i+1, shots)
		}
		debug.Shot(i+1, shots)
		c.sleep(ReloadDelay)
	}
	return nil
}

// ClampShots applies the fire count rule.
func ClampShots(count int) int {
	if count < MinShots || count > MaxShots {
		return MinShots
	}
	return count
}

// Pause blocks for d without touching the device.
func (c *Controller) Pause(d time.Duration) {
	debug.Live("Pause %v", d)
	c.sleep(d)
}

// SetLED switches the launcher LED. Missing LED hardware is reported and
// otherwise ignored.
func (c *Controller) SetLED(on bool) error {
	err := c.dev.SetLED(on)
	if errors.Is(err, errcode.NoLED) {
		debug.Info("There is no LED on this device (%s)", c.dev.Variant())
		return nil
	}
	return err
}
