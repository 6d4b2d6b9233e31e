package launcher

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/cjeanneret/rocketeer/internal/debug"
	"github.com/cjeanneret/rocketeer/internal/errcode"
	"github.com/cjeanneret/rocketeer/internal/hw/gpio"
)

// RelayConfig maps launcher lines to GPIO pins (BCM numbering).
// LEDPin 0 means no LED is wired.
type RelayConfig struct {
	UpPin    int
	DownPin  int
	LeftPin  int
	RightPin int
	FirePin  int
	LEDPin   int

	FirePulse time.Duration // how long the fire relay is held closed

	// Sleep waits out the fire pulse; nil means time.Sleep.
	Sleep func(time.Duration)
}

// Relay is a Launcher for a turret whose motor and trigger lines are
// switched by relays on GPIO outputs. A HIGH output closes the relay.
//
// Sequence for a directional pulse:
// 1. Send(Up) raises the up line only
// 2. the caller waits
// 3. Send(Stop) drops every motion line
//
// Fire holds the fire line HIGH for FirePulse and releases it.
type Relay struct {
	gpio gpio.Driver
	cfg  RelayConfig
	line map[Code]int
}

// NewRelay configures every wired pin as an output, released.
func NewRelay(g gpio.Driver, cfg RelayConfig) (*Relay, error) {
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	r := &Relay{
		gpio: g,
		cfg:  cfg,
		line: map[Code]int{
			Up:    cfg.UpPin,
			Down:  cfg.DownPin,
			Left:  cfg.LeftPin,
			Right: cfg.RightPin,
			Fire:  cfg.FirePin,
		},
	}

	pins := []int{cfg.UpPin, cfg.DownPin, cfg.LeftPin, cfg.RightPin, cfg.FirePin}
	if cfg.LEDPin > 0 {
		pins = append(pins, cfg.LEDPin)
	}
	for _, pin := range pins {
		if err := g.SetupPin(pin, gpio.Output); err != nil {
			return nil, errors.Wrapf(err, "setup pin %d", pin)
		}
		if err := g.WritePin(pin, gpio.Low); err != nil {
			return nil, errors.Wrapf(err, "release pin %d", pin)
		}
	}
	return r, nil
}

// Send drives the relay lines for one primitive.
func (r *Relay) Send(code Code) error {
	switch code {
	case Stop:
		return r.releaseMotion()
	case Fire:
		return r.fire()
	case Up, Down, Left, Right:
		// only one motion line may be closed at a time
		if err := r.releaseMotion(); err != nil {
			return err
		}
		debug.Verbose("Relay: closing %s (pin %d)", code, r.line[code])
		return r.gpio.WritePin(r.line[code], gpio.High)
	default:
		return errors.Errorf("relay launcher: unsupported code 0x%02x", byte(code))
	}
}

func (r *Relay) releaseMotion() error {
	var err error
	for _, c := range []Code{Up, Down, Left, Right} {
		err = multierr.Append(err, r.gpio.WritePin(r.line[c], gpio.Low))
	}
	return err
}

func (r *Relay) fire() error {
	debug.Verbose("Relay: closing FIRE (pin %d) for %v", r.cfg.FirePin, r.cfg.FirePulse)
	if err := r.gpio.WritePin(r.cfg.FirePin, gpio.High); err != nil {
		return err
	}
	r.cfg.Sleep(r.cfg.FirePulse)
	return r.gpio.WritePin(r.cfg.FirePin, gpio.Low)
}

// SetLED drives the LED line, if one is wired.
func (r *Relay) SetLED(on bool) error {
	if r.cfg.LEDPin <= 0 {
		return errors.Wrap(errcode.NoLED, "relay launcher has no led_pin")
	}
	return r.gpio.WritePin(r.cfg.LEDPin, gpio.Level(on))
}

// Variant always reports VariantRelay.
func (r *Relay) Variant() Variant { return VariantRelay }

// Close releases every line. The GPIO driver itself is owned by the caller.
func (r *Relay) Close() error {
	err := r.releaseMotion()
	err = multierr.Append(err, r.gpio.WritePin(r.cfg.FirePin, gpio.Low))
	if r.cfg.LEDPin > 0 {
		err = multierr.Append(err, r.gpio.WritePin(r.cfg.LEDPin, gpio.Low))
	}
	return err
}
