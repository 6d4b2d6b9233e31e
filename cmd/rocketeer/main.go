package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/cjeanneret/rocketeer/internal/command"
	"github.com/cjeanneret/rocketeer/internal/config"
	"github.com/cjeanneret/rocketeer/internal/debug"
	"github.com/cjeanneret/rocketeer/internal/errcode"
	"github.com/cjeanneret/rocketeer/internal/hw/gpio"
	"github.com/cjeanneret/rocketeer/internal/hw/launcher"
	"github.com/cjeanneret/rocketeer/internal/logic/motion"
	"github.com/cjeanneret/rocketeer/internal/logic/sequence"
	"github.com/cjeanneret/rocketeer/internal/position"
)

// Exit codes.
const (
	exitOK         = 0
	exitFailure    = 1 // usage, config or device error; nothing was run
	exitStepErrors = 2 // the sequence ran but some steps reported errors
)

type mainOptions struct {
	ConfigPath string
	DebugLevel int
	List       bool
}

// invocation is what the command line asked for, resolved against the
// macro table.
type invocation struct {
	Label string
	Steps []command.Step
}

func main() {
	var options mainOptions

	flag.StringVarP(&options.ConfigPath, "config", "c", filepath.Join("configs", "default.yaml"), "path to config file")
	flag.IntVar(&options.DebugLevel, "debug", -1, "override debug level 0-4 (-1 = use config)")
	flag.BoolVarP(&options.List, "list", "l", false, "list configured macros and exit")
	flag.Usage = func() { usage(os.Stderr) }
	// everything after the command is a value, including negative numbers
	flag.SetInterspersed(false)
	flag.Parse()

	os.Exit(execute(&options, flag.Args(), os.Stdout, os.Stderr))
}

func execute(options *mainOptions, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(options.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: load config: %v\n", err)
		return exitFailure
	}

	level := cfg.Defaults.DebugLevel
	if options.DebugLevel >= 0 {
		level = options.DebugLevel
	}
	debug.SetOutput(stdout)
	debug.Init(level)
	debug.Value("Config path", options.ConfigPath)
	debug.Value("Debug level", level)
	debug.PrintStruct("Device", cfg.Device)
	debug.PrintStruct("Storage", cfg.Storage)
	for _, w := range cfg.Warnings {
		debug.Warn("%s", w)
	}

	if options.List {
		listMacros(stdout, cfg)
		return exitOK
	}

	inv, err := resolveInvocation(cfg, args)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n\n", err)
		usage(stderr)
		return exitFailure
	}

	dev, closeDevice, err := openLauncher(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		if errcode.Of(err) == errcode.DeviceNotFound {
			fmt.Fprintln(stderr, "Is the launcher plugged in? Set device.type: gpio for a relay turret.")
		}
		return exitFailure
	}
	defer func() {
		if err := closeDevice(); err != nil {
			debug.Warn("closing launcher failed: %v", err)
		}
	}()
	debug.Value("Launcher", dev.Variant())

	store := position.NewFileStore(cfg.Storage.Path)
	debug.Value("State file", store.Path())
	start, known, err := position.LoadOrOrigin(store)
	if err != nil && cfg.Storage.RequirePosition {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return exitFailure
	}
	if known {
		debug.Info("Welcome, Commander. Your current coordinates are: %s", start)
	} else {
		debug.Warn("Position unknown; run `rocketeer zero` to recalibrate")
	}

	seq := sequence.NewSequencer(motion.NewController(dev), store, start)
	debug.Section(inv.Label)
	if err := seq.Run(inv.Steps); err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintf(stderr, "ERROR: %v\n", e)
		}
		debug.Info("Finished with errors at coordinates %s", seq.Position())
		return exitStepErrors
	}

	debug.Info("Done. Current coordinates: %s", seq.Position())
	return exitOK
}

// resolveInvocation maps `<command|macro> [value] [value2]` to steps. Macro
// names never collide with built-in commands; config.Parse rejects those.
func resolveInvocation(cfg *config.Config, args []string) (invocation, error) {
	if len(args) == 0 {
		return invocation{}, errors.New("missing command")
	}
	name := args[0]

	if m, ok := cfg.Macro(name); ok {
		if len(args) > 1 {
			return invocation{}, errors.Wrapf(errcode.InvalidValue, "macro %q takes no values", name)
		}
		return invocation{Label: "Macro " + name, Steps: m.Steps}, nil
	}

	step, err := command.FromArgs(name, args[1:])
	if err != nil {
		return invocation{}, err
	}
	if step.Kind == command.KindUnknown {
		return invocation{}, errors.Wrapf(errcode.UnknownCommand, "%q is neither a command nor a configured macro", name)
	}
	return invocation{Label: "Command " + step.String(), Steps: []command.Step{step}}, nil
}

// openLauncher opens the configured device. The returned func releases it.
func openLauncher(cfg *config.Config) (launcher.Launcher, func() error, error) {
	switch cfg.Device.Type {
	case config.DeviceGPIO:
		drv, err := gpio.NewDriver(cfg.Device.MockGPIO)
		if err != nil {
			return nil, nil, errors.Wrap(err, "init GPIO")
		}
		g := cfg.Device.GPIO
		relay, err := launcher.NewRelay(drv, launcher.RelayConfig{
			UpPin:     g.UpPin,
			DownPin:   g.DownPin,
			LeftPin:   g.LeftPin,
			RightPin:  g.RightPin,
			FirePin:   g.FirePin,
			LEDPin:    g.LEDPin,
			FirePulse: cfg.FirePulse(),
		})
		if err != nil {
			return nil, nil, multierr.Append(errors.Wrap(err, "init relay launcher"), drv.Close())
		}
		return relay, func() error { return multierr.Append(relay.Close(), drv.Close()) }, nil
	default:
		usb, err := launcher.OpenUSB()
		if err != nil {
			return nil, nil, err
		}
		return usb, usb.Close, nil
	}
}

func listMacros(w io.Writer, cfg *config.Config) {
	names := cfg.MacroNames()
	if len(names) == 0 {
		fmt.Fprintln(w, "no macros configured")
		return
	}
	for _, name := range names {
		m, _ := cfg.Macro(name)
		steps := make([]string, len(m.Steps))
		for i, s := range m.Steps {
			steps[i] = s.String()
		}
		fmt.Fprintf(w, "%-12s %s\n", name, strings.Join(steps, "; "))
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `Usage: rocketeer [flags] <command> [value] [value2]

   commands:
     up          - move up <value> milliseconds
     down        - move down <value> milliseconds
     right       - move right <value> milliseconds
     left        - move left <value> milliseconds
     fire        - fire <value> times (between 1-4)
     coordinates - aim at <x> <y> (or "x,y"), relative to zero
     zero        - park at zero position (bottom-left)
     pause       - pause <value> milliseconds
     led         - turn the led on or off (1 or 0)

     <macro_name> - run a macro defined in the config file,
             e.g. rocketeer sequence

   flags:`)
	flag.CommandLine.SetOutput(w)
	flag.PrintDefaults()
}
