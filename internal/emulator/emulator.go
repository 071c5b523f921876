// Package emulator implements the execution scheduler owning the
// whole CHIP-8 machine. It drives the CPU instruction loop at a
// configurable rate and the timers at their fixed 60 Hz cadence on
// independent goroutines, and exposes a synchronized snapshot and
// input boundary to the presentation layer.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/retroenv/chip8emu/internal/cpu"
	"github.com/retroenv/chip8emu/internal/display"
	"github.com/retroenv/chip8emu/internal/input"
	"github.com/retroenv/chip8emu/internal/memory"
	"github.com/retroenv/chip8emu/internal/options"
	"github.com/retroenv/chip8emu/internal/timer"
	"github.com/retroenv/retrogolib/log"
)

// timerHz is the fixed cadence of the delay and sound timers.
const timerHz = 60

// ErrNoROM is returned when running without a loaded ROM.
var ErrNoROM = errors.New("no ROM loaded")

// ErrAlreadyStarted is returned for operations that are only valid
// before execution starts.
var ErrAlreadyStarted = errors.New("emulator already started")

// Snapshot is an internally consistent read of the presentation state,
// a full copy of the pixel grid and the sound active flag. It is never
// observed mid-update.
type Snapshot struct {
	Pixels      display.Pixels
	SoundActive bool
}

// Emulator owns the machine as one cohesive unit. All state mutation
// is serialized through an internal lock: the CPU loop, the timer loop
// and the consumer-facing snapshot and input methods never observe
// torn state. Cancellation is honored at instruction boundaries only,
// the CPU state is always left consistent.
type Emulator struct {
	mu sync.Mutex

	mem    *memory.Memory
	disp   *display.Display
	keys   *input.Keypad
	timers *timer.Timers
	cpu    *cpu.CPU

	logger *log.Logger
	opts   options.Emulator

	soundHandler func(active bool)
	romLoaded    bool
	started      bool
}

// New creates a new emulator with a cleared machine.
func New(logger *log.Logger, opts options.Emulator) *Emulator {
	mem := memory.New()
	disp := display.New()
	keys := input.New()
	timers := timer.New()

	e := &Emulator{
		mem:    mem,
		disp:   disp,
		keys:   keys,
		timers: timers,
		cpu:    cpu.New(mem, disp, keys, timers),
		logger: logger,
		opts:   opts,
	}

	if opts.Trace {
		e.cpu.SetTracer(logger)
	}

	timers.OnSound = func(active bool) {
		logger.Debug("Sound", log.String("state", soundStateString(active)))
		if e.soundHandler != nil {
			e.soundHandler(active)
		}
	}
	return e
}

// SetSoundHandler registers a callback for sound start and stop
// events. It has to be set before Run. The callback runs on the
// emulation goroutines with the machine lock held and must not call
// back into the emulator.
func (e *Emulator) SetSoundHandler(handler func(active bool)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return ErrAlreadyStarted
	}
	e.soundHandler = handler
	return nil
}

// SetFont replaces the built-in font table. It has to be called before
// execution starts.
func (e *Emulator) SetFont(font []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return ErrAlreadyStarted
	}
	return e.mem.SetFont(font)
}

// LoadROM resets the whole machine and loads a ROM into the program
// region. A failed load leaves the previous state untouched.
func (e *Emulator) LoadROM(rom []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := memory.ValidateROM(rom); err != nil {
		return err
	}

	e.reset()
	if err := e.mem.LoadROM(rom); err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}
	e.romLoaded = true

	e.logger.Debug("ROM loaded", log.Int("size", len(rom)))
	return nil
}

// Reset reinitializes CPU, memory, display, timers and keypad
// together. A new ROM has to be loaded before running again, partial
// resets are not supported.
func (e *Emulator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reset()
}

func (e *Emulator) reset() {
	e.cpu.Reset()
	e.mem.Reset()
	e.disp.Clear()
	e.keys.Reset()
	e.timers.Reset()
	e.romLoaded = false
}

// SetKey sets or clears one of the 16 key flags, identified by the
// hexadecimal key code 0x0-0xF. Safe for concurrent use with the
// running emulation.
func (e *Emulator) SetKey(key byte, pressed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.keys.Set(key, pressed)
}

// Snapshot returns a consistent copy of the display grid and the
// sound active flag. After a fatal halt the last produced frame
// remains readable.
func (e *Emulator) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Snapshot{
		Pixels:      e.disp.Pixels(),
		SoundActive: e.timers.SoundActive(),
	}
}

// Run drives the CPU loop and the timer loop until the context is
// cancelled or a fatal execution error occurs. It returns nil on
// cancellation and the halting error otherwise.
func (e *Emulator) Run(ctx context.Context) error {
	if err := e.start(); err != nil {
		return err
	}
	defer e.stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		e.timerLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		defer cancel()
		if err := e.cpuLoop(ctx); err != nil {
			errCh <- err
		}
	}()

	wg.Wait()

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

// RunSteps executes a bounded number of instructions on the calling
// goroutine, as fast as possible, ticking the timers after the number
// of instructions that corresponds to one 60 Hz period at the
// configured rate. It serves the headless mode, where wall-clock
// pacing would only slow down smoke tests. A step count of zero runs
// until the context is cancelled.
func (e *Emulator) RunSteps(ctx context.Context, steps int) error {
	if err := e.start(); err != nil {
		return err
	}
	defer e.stop()

	clockHz := e.opts.ClockHz
	if clockHz <= 0 {
		clockHz = options.DefaultClockHz
	}
	stepsPerTick := max(1, clockHz/timerHz)

	for i := 0; steps == 0 || i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := e.step(); err != nil {
			return err
		}
		if (i+1)%stepsPerTick == 0 {
			e.tick()
		}
	}
	return nil
}

func (e *Emulator) start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.romLoaded {
		return ErrNoROM
	}
	if e.started {
		return ErrAlreadyStarted
	}
	e.started = true
	return nil
}

func (e *Emulator) stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.started = false
}

// cpuLoop runs the instruction loop, rate limited by a ticker when an
// instruction rate is configured and unthrottled otherwise. The
// cancellation signal is checked once per completed instruction.
func (e *Emulator) cpuLoop(ctx context.Context) error {
	var tick <-chan time.Time
	if e.opts.ClockHz > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(e.opts.ClockHz))
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if tick == nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
		} else {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		}

		if err := e.step(); err != nil {
			e.logger.Error("Execution halted", log.Err(err))
			return err
		}
	}
}

// timerLoop ticks the timers at 60 Hz, decoupled from instruction
// throughput. The ticker schedules against the monotonic clock, so
// individual tick jitter does not accumulate into drift.
func (e *Emulator) timerLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second / timerHz)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

func (e *Emulator) step() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.cpu.Step()
}

func (e *Emulator) tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.timers.Tick()
}

func soundStateString(active bool) string {
	if active {
		return "start"
	}
	return "stop"
}
