// Package options contains the program options.
package options

// DefaultClockHz is the default instruction rate of the CPU loop.
// Most original CHIP-8 programs were written for interpreters running
// at around 500 instructions per second.
const DefaultClockHz = 500

// Program options of the emulator application.
type Program struct {
	Input string // ROM file to load
	Font  string // optional replacement font file

	Scale    int  // window scale factor
	Headless bool // run without a window
	Steps    int  // stop after n instructions in headless mode, 0 for unlimited

	Debug bool
	Quiet bool
}

// Emulator defines options to control the emulation core.
type Emulator struct {
	ClockHz int  // instructions per second, 0 runs unthrottled
	Trace   bool // log every executed instruction
}

// NewEmulator returns a new options instance with default options.
func NewEmulator() Emulator {
	return Emulator{
		ClockHz: DefaultClockHz,
	}
}
