// Package memory implements the flat 4KB address space of the CHIP-8 machine.
//
// Memory map:
//
//	0x000-0x1FF: interpreter region, holds the font glyphs at 0x050
//	0x200-0xFFF: program region, ROMs are loaded here verbatim
package memory

import (
	"errors"
	"fmt"
)

const (
	// Size is the total amount of addressable memory in bytes.
	Size = 0x1000

	// MaxAddress is the highest valid address.
	MaxAddress = Size - 1

	// FontAddress is the base address of the built-in font glyphs.
	FontAddress = 0x050

	// FontSize is the size of the font table, 16 glyphs of 5 bytes each.
	FontSize = 16 * 5

	// ProgramStart is the address where loaded ROMs begin execution.
	ProgramStart = 0x200

	// MaxROMSize is the largest ROM that fits into the program region.
	MaxROMSize = Size - ProgramStart
)

var (
	// ErrInvalidROM is returned when a ROM is empty or does not fit
	// into the program region.
	ErrInvalidROM = errors.New("invalid ROM")

	// ErrInvalidFont is returned when a replacement font table does not
	// have the expected 16x5 byte shape.
	ErrInvalidFont = errors.New("invalid font table")

	// ErrOutOfBounds is returned for accesses beyond the address space.
	// The instruction executor keeps addresses in range for all decoded
	// instructions operating on valid state, so hitting this error
	// indicates either a ROM addressing past the end of memory or an
	// internal consistency bug.
	ErrOutOfBounds = errors.New("memory access out of bounds")
)

// Memory is the byte store of the machine. The backing array is fixed
// size and never reallocated.
type Memory struct {
	data [Size]byte
	font [FontSize]byte
}

// New creates a new memory instance with the built-in font installed.
func New() *Memory {
	m := &Memory{
		font: defaultFont,
	}
	copy(m.data[FontAddress:], m.font[:])
	return m
}

// ValidateROM checks that a ROM fits into the program region.
func ValidateROM(rom []byte) error {
	if len(rom) == 0 {
		return fmt.Errorf("%w: ROM is empty", ErrInvalidROM)
	}
	if len(rom) > MaxROMSize {
		return fmt.Errorf("%w: ROM size %d exceeds %d bytes of program space",
			ErrInvalidROM, len(rom), MaxROMSize)
	}
	return nil
}

// LoadROM copies a ROM into the program region. The previous memory
// content stays untouched when validation fails.
func (m *Memory) LoadROM(rom []byte) error {
	if err := ValidateROM(rom); err != nil {
		return err
	}

	copy(m.data[ProgramStart:], rom)
	return nil
}

// SetFont replaces the font table wholesale. The table has to have the
// same shape as the built-in one, 16 glyphs of 5 bytes.
func (m *Memory) SetFont(font []byte) error {
	if len(font) != FontSize {
		return fmt.Errorf("%w: got %d bytes, expected %d", ErrInvalidFont, len(font), FontSize)
	}

	copy(m.font[:], font)
	copy(m.data[FontAddress:], m.font[:])
	return nil
}

// ReadByte reads the byte at the given address.
func (m *Memory) ReadByte(address uint16) (byte, error) {
	if address > MaxAddress {
		return 0, fmt.Errorf("reading byte at %04X: %w", address, ErrOutOfBounds)
	}
	return m.data[address], nil
}

// WriteByte writes a byte to the given address.
func (m *Memory) WriteByte(address uint16, value byte) error {
	if address > MaxAddress {
		return fmt.Errorf("writing byte at %04X: %w", address, ErrOutOfBounds)
	}
	m.data[address] = value
	return nil
}

// ReadWord reads a big-endian 16 bit value from two consecutive bytes.
func (m *Memory) ReadWord(address uint16) (uint16, error) {
	if address+1 > MaxAddress || address+1 < address {
		return 0, fmt.Errorf("reading word at %04X: %w", address, ErrOutOfBounds)
	}
	return uint16(m.data[address])<<8 | uint16(m.data[address+1]), nil
}

// Reset zeroes all memory and reinstalls the current font table.
func (m *Memory) Reset() {
	m.data = [Size]byte{}
	copy(m.data[FontAddress:], m.font[:])
}
