package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cjeanneret/rocketeer/internal/command"
	"github.com/cjeanneret/rocketeer/internal/debug"
)

// Device types.
const (
	DeviceUSB  = "usb"
	DeviceGPIO = "gpio"
)

// GPIOConfig wires a relay-driven turret (BCM pin numbers).
type GPIOConfig struct {
	UpPin       int `yaml:"up_pin"`
	DownPin     int `yaml:"down_pin"`
	LeftPin     int `yaml:"left_pin"`
	RightPin    int `yaml:"right_pin"`
	FirePin     int `yaml:"fire_pin"`
	LEDPin      int `yaml:"led_pin"`       // 0 = no LED wired
	FirePulseMs int `yaml:"fire_pulse_ms"` // how long the fire relay stays closed
}

// DeviceConfig selects how the launcher is reached.
type DeviceConfig struct {
	Type     string     `yaml:"type"`      // "usb" (Thunder/Original, auto-detected) or "gpio"
	MockGPIO bool       `yaml:"mock_gpio"` // use mock GPIO (true=dev/test, false=real Raspberry Pi)
	GPIO     GPIOConfig `yaml:"gpio"`
}

// StorageConfig locates the persisted position.
type StorageConfig struct {
	Path            string `yaml:"path"`             // two-line x/y file
	RequirePosition bool   `yaml:"require_position"` // unreadable position at startup is fatal
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	DebugLevel int `yaml:"debug_level"` // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
}

// RawStep is a macro entry as written in YAML: a two-element sequence
// [command, value] where value is a scalar such as 300 or "85,10".
type RawStep struct {
	Command string
	Value   string
}

// UnmarshalYAML accepts `[command, value]` and a bare `command` scalar.
func (r *RawStep) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		r.Command = node.Value
		return nil
	case yaml.SequenceNode:
		if len(node.Content) < 1 || len(node.Content) > 2 {
			return errors.Errorf("line %d: macro step must be [command, value], got %d items", node.Line, len(node.Content))
		}
		for _, c := range node.Content {
			if c.Kind != yaml.ScalarNode {
				return errors.Errorf("line %d: macro step items must be scalars", c.Line)
			}
		}
		r.Command = node.Content[0].Value
		if len(node.Content) == 2 {
			r.Value = node.Content[1].Value
		}
		return nil
	default:
		return errors.Errorf("line %d: macro step must be [command, value]", node.Line)
	}
}

// Config aggregates all application configuration.
type Config struct {
	Device   DeviceConfig         `yaml:"device"`
	Storage  StorageConfig        `yaml:"storage"`
	Defaults DefaultsConfig       `yaml:"defaults"`
	Macros   map[string][]RawStep `yaml:"macros"`

	// Warnings collects non-fatal findings from Parse, logged once the
	// logger is configured.
	Warnings []string `yaml:"-"`

	macros map[string]command.Macro
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}
	return Parse(data)
}

// Parse decodes, defaults and validates a YAML document. Macros are turned
// into typed steps here, once.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal yaml")
	}

	if cfg.Device.Type == "" {
		cfg.Device.Type = DeviceUSB
	}
	cfg.Device.Type = strings.ToLower(cfg.Device.Type)
	switch cfg.Device.Type {
	case DeviceUSB:
	case DeviceGPIO:
		if err := cfg.Device.GPIO.validate(); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("device.type must be %q or %q, got %q", DeviceUSB, DeviceGPIO, cfg.Device.Type)
	}
	if cfg.Device.GPIO.FirePulseMs <= 0 {
		cfg.Device.GPIO.FirePulseMs = 200 // reasonable default
	}

	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "rocket_coordinates"
	}

	if cfg.Defaults.DebugLevel < debug.LevelOff || cfg.Defaults.DebugLevel > debug.LevelTrace {
		return nil, errors.Errorf("debug_level must be between 0 and 4, got %d", cfg.Defaults.DebugLevel)
	}

	cfg.macros = make(map[string]command.Macro, len(cfg.Macros))
	for name, raw := range cfg.Macros {
		if _, builtin := command.Lookup(name); builtin {
			return nil, errors.Errorf("macro %q shadows a built-in command", name)
		}
		m := command.Macro{Name: name, Steps: make([]command.Step, 0, len(raw))}
		for i, r := range raw {
			step, err := command.Parse(r.Command, r.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "macro %q step %d", name, i+1)
			}
			if step.Kind == command.KindUnknown {
				cfg.Warnings = append(cfg.Warnings,
					fmt.Sprintf("macro %q step %d: unknown command %q will be skipped", name, i+1, r.Command))
			}
			m.Steps = append(m.Steps, step)
		}
		cfg.macros[name] = m
	}

	return &cfg, nil
}

func (g GPIOConfig) validate() error {
	pins := map[string]int{
		"up_pin":    g.UpPin,
		"down_pin":  g.DownPin,
		"left_pin":  g.LeftPin,
		"right_pin": g.RightPin,
		"fire_pin":  g.FirePin,
	}
	seen := make(map[int]string)
	for _, name := range []string{"up_pin", "down_pin", "left_pin", "right_pin", "fire_pin"} {
		pin := pins[name]
		if pin <= 0 {
			return errors.Errorf("device.gpio.%s is required for the gpio device", name)
		}
		if other, dup := seen[pin]; dup {
			return errors.Errorf("device.gpio.%s and %s share pin %d", other, name, pin)
		}
		seen[pin] = name
	}
	if other, dup := seen[g.LEDPin]; g.LEDPin > 0 && dup {
		return errors.Errorf("device.gpio.led_pin shares pin %d with %s", g.LEDPin, other)
	}
	return nil
}

// Macro returns the named macro.
func (c *Config) Macro(name string) (command.Macro, bool) {
	m, ok := c.macros[name]
	return m, ok
}

// MacroNames returns the macro names in sorted order.
func (c *Config) MacroNames() []string {
	names := make([]string, 0, len(c.macros))
	for name := range c.macros {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FirePulse returns how long the relay fire line is held.
func (c *Config) FirePulse() time.Duration {
	return time.Duration(c.Device.GPIO.FirePulseMs) * time.Millisecond
}
