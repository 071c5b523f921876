package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/chip8emu/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantProg options.Program
		wantEmu  options.Emulator
	}{
		{
			name:     "default flags",
			args:     []string{"prog", "game.ch8"},
			wantProg: options.Program{Input: "game.ch8", Scale: 12},
			wantEmu:  options.Emulator{ClockHz: options.DefaultClockHz},
		},
		{
			name:     "custom rate and scale",
			args:     []string{"prog", "-hz", "700", "-scale", "8", "game.ch8"},
			wantProg: options.Program{Input: "game.ch8", Scale: 8},
			wantEmu:  options.Emulator{ClockHz: 700},
		},
		{
			name:     "headless with step limit",
			args:     []string{"prog", "-headless", "-steps", "1000", "game.ch8"},
			wantProg: options.Program{Input: "game.ch8", Scale: 12, Headless: true, Steps: 1000},
			wantEmu:  options.Emulator{ClockHz: options.DefaultClockHz},
		},
		{
			name:     "trace flag",
			args:     []string{"prog", "-trace", "game.ch8"},
			wantProg: options.Program{Input: "game.ch8", Scale: 12},
			wantEmu:  options.Emulator{ClockHz: options.DefaultClockHz, Trace: true},
		},
		{
			name:     "font flag",
			args:     []string{"prog", "-font", "custom.bin", "game.ch8"},
			wantProg: options.Program{Input: "game.ch8", Font: "custom.bin", Scale: 12},
			wantEmu:  options.Emulator{ClockHz: options.DefaultClockHz},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			opts, emuOpts, err := ParseFlags()
			assert.NoError(t, err)
			assert.Equal(t, tt.wantProg, opts)
			assert.Equal(t, tt.wantEmu, emuOpts)
		})
	}
}

func TestParseFlagsMissingROM(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"prog"}

	_, _, err := ParseFlags()
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
}

func TestValidateArgs(t *testing.T) {
	assert.NoError(t, validateArgs([]string{"game.ch8"}))

	err := validateArgs([]string{"game.ch8", "-headless"})
	assert.Error(t, err)
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name        string
		opts        options.Program
		emuOpts     options.Emulator
		expectError bool
	}{
		{
			name:    "defaults",
			opts:    options.Program{Scale: 12},
			emuOpts: options.Emulator{ClockHz: options.DefaultClockHz},
		},
		{
			name:    "unthrottled rate",
			opts:    options.Program{Scale: 1},
			emuOpts: options.Emulator{ClockHz: 0},
		},
		{
			name:        "negative rate",
			opts:        options.Program{Scale: 12},
			emuOpts:     options.Emulator{ClockHz: -1},
			expectError: true,
		},
		{
			name:        "zero scale",
			opts:        options.Program{Scale: 0},
			emuOpts:     options.Emulator{ClockHz: options.DefaultClockHz},
			expectError: true,
		},
		{
			name:        "negative steps",
			opts:        options.Program{Scale: 12, Headless: true, Steps: -1},
			emuOpts:     options.Emulator{ClockHz: options.DefaultClockHz},
			expectError: true,
		},
		{
			name:        "steps without headless",
			opts:        options.Program{Scale: 12, Steps: 100},
			emuOpts:     options.Emulator{ClockHz: options.DefaultClockHz},
			expectError: true,
		},
		{
			name:    "steps with headless",
			opts:    options.Program{Scale: 12, Headless: true, Steps: 100},
			emuOpts: options.Emulator{ClockHz: options.DefaultClockHz},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOptions(tt.opts, tt.emuOpts)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
