package command

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/cjeanneret/rocketeer/internal/errcode"
	"github.com/cjeanneret/rocketeer/internal/position"
)

// MaxDurationMs is the longest pulse or pause, in milliseconds, that still
// fits a time.Duration.
const MaxDurationMs = math.MaxInt64 / int64(time.Millisecond)

// Kind tags a Step.
type Kind int

const (
	KindUnknown Kind = iota
	KindUp
	KindDown
	KindLeft
	KindRight
	KindFire
	KindPause
	KindLED
	KindCoordinates
	KindZero
)

func (k Kind) String() string {
	switch k {
	case KindUp:
		return "up"
	case KindDown:
		return "down"
	case KindLeft:
		return "left"
	case KindRight:
		return "right"
	case KindFire:
		return "fire"
	case KindPause:
		return "pause"
	case KindLED:
		return "led"
	case KindCoordinates:
		return "coordinates"
	case KindZero:
		return "zero"
	default:
		return "unknown"
	}
}

// IsDirection reports whether k is one of the four movement kinds.
func (k Kind) IsDirection() bool {
	return k == KindUp || k == KindDown || k == KindLeft || k == KindRight
}

var kindsByName = map[string]Kind{
	"up":          KindUp,
	"down":        KindDown,
	"left":        KindLeft,
	"right":       KindRight,
	"fire":        KindFire,
	"shoot":       KindFire,
	"pause":       KindPause,
	"sleep":       KindPause,
	"led":         KindLED,
	"coordinates": KindCoordinates,
	"zero":        KindZero,
	"park":        KindZero,
	"reset":       KindZero,
}

// Lookup resolves a command name (case-insensitive, aliases included).
func Lookup(name string) (Kind, bool) {
	k, ok := kindsByName[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// Step is one validated command. Only the fields relevant to Kind are set.
type Step struct {
	Kind Kind
	Name string // name as written, kept for reporting

	Duration time.Duration // up/down/left/right/pause
	Count    int           // fire, unclamped
	On       bool          // led
	X, Y     int           // coordinates
}

func (s Step) String() string {
	switch {
	case s.Kind.IsDirection(), s.Kind == KindPause:
		return s.Kind.String() + " " + s.Duration.String()
	case s.Kind == KindFire:
		return "fire " + strconv.Itoa(s.Count)
	case s.Kind == KindLED:
		if s.On {
			return "led on"
		}
		return "led off"
	case s.Kind == KindCoordinates:
		return "coordinates " + strconv.Itoa(s.X) + "," + strconv.Itoa(s.Y)
	case s.Kind == KindZero:
		return "zero"
	default:
		return s.Name
	}
}

// Macro is a named, fixed sequence of steps.
type Macro struct {
	Name  string
	Steps []Step
}

// Parse builds a Step from a command name and its raw value. A value of the
// form "a,b" carries two sub-values; anything else is a single value with an
// implicit second value of 0. An empty value counts as a single 0.
//
// Unrecognised names are not an error here: they produce a KindUnknown step
// that the sequencer reports when it reaches it.
func Parse(name, value string) (Step, error) {
	kind, ok := Lookup(name)
	if !ok {
		return Step{Kind: KindUnknown, Name: name}, nil
	}
	if kind == KindZero {
		return Step{Kind: kind, Name: name}, nil
	}

	parts := strings.Split(value, ",")
	if len(parts) > 2 {
		return Step{}, errors.Wrapf(errcode.InvalidValue, "%s: too many values in %q", name, value)
	}
	vals := make([]int, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" && len(parts) == 1 {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Step{}, errors.Wrapf(errcode.InvalidValue, "%s: %q is not an integer", name, p)
		}
		vals[i] = n
	}
	return build(kind, name, vals)
}

// FromArgs builds a Step from command-line style arguments: a name followed
// by zero, one or two values.
func FromArgs(name string, args []string) (Step, error) {
	if len(args) > 2 {
		return Step{}, errors.Wrapf(errcode.InvalidValue, "%s: expected at most 2 values, got %d", name, len(args))
	}
	return Parse(name, strings.Join(args, ","))
}

func build(kind Kind, name string, vals []int) (Step, error) {
	s := Step{Kind: kind, Name: name}

	switch {
	case kind == KindCoordinates:
		for _, v := range vals {
			if !position.InRange(v) {
				return Step{}, errors.Wrapf(errcode.InvalidValue, "%s: %d outside ±%d", name, v, position.MaxCoordinate)
			}
		}
		s.X = vals[0]
		if len(vals) == 2 {
			s.Y = vals[1]
		}
		return s, nil
	case kind == KindZero:
		return s, nil
	}

	if len(vals) != 1 {
		return Step{}, errors.Wrapf(errcode.InvalidValue, "%s takes a single value", name)
	}
	v := vals[0]

	switch {
	case kind.IsDirection(), kind == KindPause:
		if v < 0 {
			return Step{}, errors.Wrapf(errcode.InvalidValue, "%s: negative duration %d", name, v)
		}
		if int64(v) > MaxDurationMs {
			return Step{}, errors.Wrapf(errcode.InvalidValue, "%s: duration %d ms too long", name, v)
		}
		s.Duration = time.Duration(v) * time.Millisecond
	case kind == KindFire:
		// range is clamped at firing time, not rejected
		s.Count = v
	case kind == KindLED:
		s.On = v != 0
	}
	return s, nil
}
