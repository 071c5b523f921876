package cpu

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Opcode is a fetched 16 bit instruction word. The decoding helpers
// extract the standard sub-fields used by the instruction set:
//
//	X   second nibble, a register index
//	Y   third nibble, a register index
//	N   lowest nibble, the sprite height of DRW
//	NN  low byte, an immediate value
//	NNN lowest 12 bits, an address
type Opcode uint16

// X returns the register index in the second nibble.
func (o Opcode) X() byte {
	return byte(o>>8) & 0x0F
}

// Y returns the register index in the third nibble.
func (o Opcode) Y() byte {
	return byte(o>>4) & 0x0F
}

// N returns the lowest nibble.
func (o Opcode) N() byte {
	return byte(o) & 0x0F
}

// NN returns the low byte.
func (o Opcode) NN() byte {
	return byte(o)
}

// NNN returns the address in the lowest 12 bits.
func (o Opcode) NNN() uint16 {
	return uint16(o) & 0x0FFF
}

// Instruction returns the instruction metadata for the opcode, or nil
// if the word matches no known instruction pattern. Matching uses the
// canonical opcode table, indexed by the first nibble and compared by
// mask and value.
func (o Opcode) Instruction() *chip8.Instruction {
	for _, op := range chip8.Opcodes[int(o>>12)] {
		if op.Info.Mask&uint16(o) == op.Info.Value {
			return op.Instruction
		}
	}
	return nil
}

// Name returns the instruction mnemonic, or an empty string for an
// unknown opcode pattern.
func (o Opcode) Name() string {
	ins := o.Instruction()
	if ins == nil {
		return ""
	}
	return ins.Name
}

// String returns the opcode as assembly source, for trace logging and
// error messages.
func (o Opcode) String() string {
	ins := o.Instruction()
	if ins == nil {
		return fmt.Sprintf(".word $%04X", uint16(o))
	}

	if params := o.formatParams(ins.Name); params != "" {
		return fmt.Sprintf("%s %s", ins.Name, params)
	}
	return ins.Name
}
