// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/chip8emu/internal/options"
)

// ParseFlags parses command line flags and returns program and emulator options
func ParseFlags() (options.Program, options.Emulator, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	emuOpts := options.NewEmulator()
	readOptionFlags(flags, &opts, &emuOpts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, emuOpts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, emuOpts, err
	}

	if err := validateOptions(opts, emuOpts); err != nil {
		return opts, emuOpts, err
	}

	opts.Input = args[0]
	return opts, emuOpts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: chip8emu [options] <ROM file to run>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// validateOptions validates option values
func validateOptions(opts options.Program, emuOpts options.Emulator) error {
	if emuOpts.ClockHz < 0 {
		return fmt.Errorf("invalid instruction rate %d, must be 0 (unthrottled) or positive", emuOpts.ClockHz)
	}
	if opts.Scale < 1 {
		return fmt.Errorf("invalid window scale %d, must be at least 1", opts.Scale)
	}
	if opts.Steps < 0 {
		return fmt.Errorf("invalid step count %d, must be 0 (unlimited) or positive", opts.Steps)
	}
	if opts.Steps > 0 && !opts.Headless {
		return fmt.Errorf("step count is only supported in headless mode")
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program, emuOpts *options.Emulator) {
	flags.StringVar(&opts.Font, "font", "", "name of a replacement font file (80 bytes, 16 glyphs of 5 bytes)")
	flags.IntVar(&opts.Scale, "scale", 12, "window scale factor for the 64x32 display")
	flags.BoolVar(&opts.Headless, "headless", false, "run without a window, for smoke testing ROMs")
	flags.IntVar(&opts.Steps, "steps", 0, "stop after the given number of instructions in headless mode")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	flags.IntVar(&emuOpts.ClockHz, "hz", options.DefaultClockHz, "CPU instruction rate in instructions per second, 0 runs unthrottled")
	flags.BoolVar(&emuOpts.Trace, "trace", false, "log every executed instruction, implies -debug")
}
