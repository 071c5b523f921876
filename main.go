// Package main implements a CHIP-8 virtual machine
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/chip8emu/internal/cli"
	"github.com/retroenv/chip8emu/internal/config"
	"github.com/retroenv/chip8emu/internal/emulator"
	"github.com/retroenv/chip8emu/internal/gui"
	"github.com/retroenv/chip8emu/internal/options"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, emuOpts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			printBanner(logger, opts)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug || emuOpts.Trace, opts.Quiet)
	printBanner(logger, opts)

	if err := run(ctx, logger, opts, emuOpts); err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Fatal("Emulation failed", log.Err(err))
	}
}

func printBanner(logger *log.Logger, opts options.Program) {
	if opts.Quiet {
		return
	}
	logger.Info("chip8emu - CHIP-8 virtual machine",
		log.String("version", buildinfo.Version(version, commit, date)))
}

func run(ctx context.Context, logger *log.Logger, opts options.Program,
	emuOpts options.Emulator) error {

	rom, err := os.ReadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("reading ROM file %s: %w", opts.Input, err)
	}

	emu := emulator.New(logger, emuOpts)

	if opts.Font != "" {
		font, err := os.ReadFile(opts.Font)
		if err != nil {
			return fmt.Errorf("reading font file %s: %w", opts.Font, err)
		}
		if err := emu.SetFont(font); err != nil {
			return fmt.Errorf("setting font: %w", err)
		}
	}

	if err := emu.LoadROM(rom); err != nil {
		return fmt.Errorf("loading ROM %s: %w", opts.Input, err)
	}

	logger.Info("Running ROM",
		log.String("file", opts.Input),
		log.Int("size", len(rom)),
		log.Int("hz", emuOpts.ClockHz),
	)

	if opts.Headless {
		return emu.RunSteps(ctx, opts.Steps)
	}
	return runWindowed(ctx, logger, emu, opts)
}

// runWindowed runs the emulation goroutines next to the SDL event loop,
// which has to stay on the main thread.
func runWindowed(ctx context.Context, logger *log.Logger, emu *emulator.Emulator,
	opts options.Program) error {

	window, err := gui.New(logger, emu, opts.Scale)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer window.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	emuErr := make(chan error, 1)
	go func() {
		emuErr <- emu.Run(ctx)
	}()

	guiErr := window.Run(ctx)
	cancel()

	if err := <-emuErr; err != nil {
		return err
	}
	return guiErr
}
