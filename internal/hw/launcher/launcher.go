package launcher

// Code is a primitive command byte understood by the launcher.
type Code byte

// Protocol command bytes.
const (
	Down  Code = 0x01
	Up    Code = 0x02
	Left  Code = 0x04
	Right Code = 0x08
	Fire  Code = 0x10
	Stop  Code = 0x20
)

func (c Code) String() string {
	switch c {
	case Down:
		return "DOWN"
	case Up:
		return "UP"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	case Fire:
		return "FIRE"
	case Stop:
		return "STOP"
	default:
		return "UNKNOWN"
	}
}

// Variant is the resolved hardware model. It only changes packet framing
// and whether an LED is present.
type Variant int

const (
	VariantUnknown Variant = iota
	VariantThunder
	VariantOriginal
	VariantRelay
)

func (v Variant) String() string {
	switch v {
	case VariantThunder:
		return "Thunder"
	case VariantOriginal:
		return "Original"
	case VariantRelay:
		return "Relay"
	default:
		return "Unknown"
	}
}

// Launcher is the high-level interface used by the rest of the application.
// It represents one exclusively owned actuator, regardless of how it is
// wired (USB HID, GPIO relays, etc.). Sends are fire-and-forget: nothing is
// read back from the device.
type Launcher interface {
	// Send issues one primitive command.
	Send(code Code) error
	// SetLED switches the LED. Variants without one return errcode.NoLED.
	SetLED(on bool) error
	Variant() Variant
	Close() error
}
