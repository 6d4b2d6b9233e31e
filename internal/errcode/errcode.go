package errcode

// Code is a stable error kind shared by the device, storage and sequencer
// layers. It is a comparable string newtype implementing error, so callers
// match it with errors.Is through any amount of wrapping.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes.
const (
	DeviceNotFound     Code = "device not found"
	StorageUnavailable Code = "storage unavailable"
	UnknownCommand     Code = "unknown command"
	InvalidValue       Code = "invalid value"
	NoLED              Code = "no led on this device"

	Error Code = "error" // generic fallback
)

// Of extracts the Code carried by err, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return ""
	}
	for err != nil {
		if c, ok := err.(Code); ok {
			return c
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return Error
}
