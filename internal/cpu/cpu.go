// Package cpu implements the CHIP-8 CPU: the register file, the call
// stack and the decoder/executor for the 35 instruction set.
package cpu

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/chip8emu/internal/display"
	"github.com/retroenv/chip8emu/internal/input"
	"github.com/retroenv/chip8emu/internal/memory"
	"github.com/retroenv/chip8emu/internal/timer"
	"github.com/retroenv/retrogolib/log"
)

const (
	// RegisterCount is the number of general purpose registers V0-VF.
	// VF doubles as the flag register for carry, borrow and collision
	// results, programs can not rely on it surviving such instructions.
	RegisterCount = 16

	// StackDepth is the number of return addresses the call stack holds.
	StackDepth = 16
)

var (
	// ErrUnknownOpcode is returned when a fetched word matches no
	// instruction pattern. The run halts, silently skipping would mask
	// ROM correctness bugs.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrStackOverflow is returned when a call exceeds the stack depth.
	ErrStackOverflow = errors.New("stack overflow")

	// ErrStackUnderflow is returned on a return with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
)

// State describes the execution state of the CPU.
type State uint8

const (
	// StateRunning executes one instruction per step.
	StateRunning State = iota

	// StateWaitingForKey suspends execution until any key is pressed,
	// entered by the LD Vx, K instruction. Steps taken while waiting
	// poll the keypad and are a no-op otherwise, which keeps the
	// instruction loop cooperative and cancellable.
	StateWaitingForKey
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateWaitingForKey:
		return "waiting for key"
	default:
		return fmt.Sprintf("invalid state %d", uint8(s))
	}
}

// CPU holds the register file and executes instructions against the
// memory, display, keypad and timers it was created with. It is not
// safe for concurrent use, the emulator serializes all access.
type CPU struct {
	v     [RegisterCount]byte
	i     uint16
	pc    uint16
	stack [StackDepth]uint16
	sp    byte

	state   State
	waitReg byte // target register of LD Vx, K while waiting

	mem    *memory.Memory
	disp   *display.Display
	keys   *input.Keypad
	timers *timer.Timers

	randByte func() byte
	tracer   *log.Logger
}

// New creates a new CPU with the program counter at the program start
// address.
func New(mem *memory.Memory, disp *display.Display, keys *input.Keypad,
	timers *timer.Timers) *CPU {

	return &CPU{
		pc:     memory.ProgramStart,
		mem:    mem,
		disp:   disp,
		keys:   keys,
		timers: timers,
		randByte: func() byte {
			return byte(rand.UintN(256))
		},
	}
}

// SetTracer enables logging of every executed instruction at debug
// level. A nil logger disables tracing.
func (c *CPU) SetTracer(logger *log.Logger) {
	c.tracer = logger
}

// State returns the current execution state.
func (c *CPU) State() State {
	return c.state
}

// PC returns the current program counter.
func (c *CPU) PC() uint16 {
	return c.pc
}

// Step executes a single instruction.
//
// In the waiting state it polls the keypad: without a pressed key the
// step is a no-op, otherwise the key code is stored into the target
// register and execution resumes. The program counter is already past
// the blocking instruction and stays unchanged.
//
// In the running state it fetches the big-endian instruction word at
// PC, advances PC by two and applies the instruction effect. Jumps,
// calls and skips overwrite the advanced PC as needed. All returned
// errors are fatal, the CPU state is left as the failing instruction
// produced it and only a reset recovers.
func (c *CPU) Step() error {
	if c.state == StateWaitingForKey {
		key, ok := c.keys.FirstPressed()
		if !ok {
			return nil
		}
		c.v[c.waitReg] = key
		c.state = StateRunning
		return nil
	}

	word, err := c.mem.ReadWord(c.pc)
	if err != nil {
		return fmt.Errorf("fetching instruction: %w", err)
	}
	opcode := Opcode(word)

	if c.tracer != nil {
		c.tracer.Debug("Executing",
			log.Hex("pc", c.pc),
			log.String("instruction", opcode.String()),
		)
	}

	c.pc += 2
	return c.execute(opcode)
}

// Reset reinitializes all registers, the stack and the execution
// state. Memory, display, keypad and timers are reset by their owner.
func (c *CPU) Reset() {
	c.v = [RegisterCount]byte{}
	c.i = 0
	c.pc = memory.ProgramStart
	c.stack = [StackDepth]uint16{}
	c.sp = 0
	c.state = StateRunning
	c.waitReg = 0
}
