package launcher

import (
	"github.com/google/gousb"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/cjeanneret/rocketeer/internal/debug"
	"github.com/cjeanneret/rocketeer/internal/errcode"
)

// HID class request carrying every command: host-to-device, class,
// interface recipient, SET_REPORT.
const (
	requestType = uint8(gousb.ControlOut | gousb.ControlClass | gousb.ControlInterface)
	setReport   = 0x09
)

type model struct {
	vid, pid gousb.ID
	variant  Variant
}

// Probed in order; the first one found wins.
var models = []model{
	{vid: 0x2123, pid: 0x1010, variant: VariantThunder},
	{vid: 0x0a81, pid: 0x0701, variant: VariantOriginal},
}

// controller is the part of *gousb.Device the launcher uses.
type controller interface {
	Control(rType, request uint8, val, idx uint16, data []byte) (int, error)
}

// USB drives a Dream Cheeky style launcher through HID control transfers.
type USB struct {
	ctrl    controller
	variant Variant
	closers []func() error
}

// OpenUSB finds the first supported launcher, detaches the kernel HID driver
// where needed and claims interface 0. It fails with errcode.DeviceNotFound
// when neither model is attached.
func OpenUSB() (*USB, error) {
	ctx := gousb.NewContext()

	for _, m := range models {
		dev, err := ctx.OpenDeviceWithVIDPID(m.vid, m.pid)
		if err != nil {
			_ = ctx.Close()
			return nil, errors.Wrapf(err, "open %s launcher %s:%s", m.variant, m.vid, m.pid)
		}
		if dev == nil {
			debug.Verbose("No %s launcher (%s:%s)", m.variant, m.vid, m.pid)
			continue
		}
		debug.Info("Found %s launcher (%s:%s)", m.variant, m.vid, m.pid)

		u, err := claim(dev, m.variant)
		if err != nil {
			_ = multierr.Combine(dev.Close(), ctx.Close())
			return nil, err
		}
		u.closers = append(u.closers, ctx.Close)
		return u, nil
	}

	_ = ctx.Close()
	return nil, errors.Wrap(errcode.DeviceNotFound, "no Thunder (2123:1010) or Original (0a81:0701) launcher attached")
}

func claim(dev *gousb.Device, variant Variant) (*USB, error) {
	// Linux binds usbhid to the launcher; anywhere else this is a no-op
	// or unsupported, which is fine.
	if err := dev.SetAutoDetach(true); err != nil {
		debug.Trace("auto-detach not available: %v", err)
	}

	cfg, err := dev.Config(1)
	if err != nil {
		return nil, errors.Wrap(err, "set configuration 1")
	}
	intf, err := cfg.Interface(0, 0)
	if err != nil {
		_ = cfg.Close()
		return nil, errors.Wrap(err, "claim interface 0")
	}

	return &USB{
		ctrl:    dev,
		variant: variant,
		closers: []func() error{
			func() error { intf.Close(); return nil },
			cfg.Close,
			dev.Close,
		},
	}, nil
}

// Send issues one primitive as a HID SET_REPORT control transfer.
func (u *USB) Send(code Code) error {
	value, payload := commandPacket(u.variant, code)
	debug.Packet(u.variant.String(), value, payload)
	if _, err := u.ctrl.Control(requestType, setReport, value, 0, payload); err != nil {
		return errors.Wrapf(err, "send %s", code)
	}
	return nil
}

// SetLED switches the LED. Only the Thunder has one.
func (u *USB) SetLED(on bool) error {
	value, payload, err := ledPacket(u.variant, on)
	if err != nil {
		return err
	}
	debug.Packet(u.variant.String(), value, payload)
	if _, err := u.ctrl.Control(requestType, setReport, value, 0, payload); err != nil {
		return errors.Wrapf(err, "set led %v", on)
	}
	return nil
}

// Variant returns the model found by OpenUSB.
func (u *USB) Variant() Variant { return u.variant }

// Close releases the interface, configuration, device and libusb context
// in that order.
func (u *USB) Close() error {
	var err error
	for _, c := range u.closers {
		err = multierr.Append(err, c())
	}
	u.closers = nil
	return err
}

// commandPacket frames a primitive for the given variant: the Thunder takes
// an 8-byte report prefixed with 0x02, the Original a single byte sent with
// wValue 0x0200.
func commandPacket(v Variant, code Code) (uint16, []byte) {
	if v == VariantOriginal {
		return 0x0200, []byte{byte(code)}
	}
	return 0, []byte{0x02, byte(code), 0, 0, 0, 0, 0, 0}
}

func ledPacket(v Variant, on bool) (uint16, []byte, error) {
	if v != VariantThunder {
		return 0, nil, errors.Wrapf(errcode.NoLED, "%s launcher", v)
	}
	var b byte
	if on {
		b = 0x01
	}
	return 0, []byte{0x03, b, 0, 0, 0, 0, 0, 0}, nil
}
