package cpu

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// formatParams formats the operands of an opcode for the given
// instruction mnemonic. Returns an empty string for instructions
// without operands.
func (o Opcode) formatParams(name string) string {
	switch name {
	case chip8.ClsInst.Name, chip8.RetInst.Name:
		return "" // No parameters
	case chip8.JpInst.Name:
		return o.formatJump()
	case chip8.CallInst.Name:
		return fmt.Sprintf("$%03X", o.NNN())
	case chip8.SeInst.Name, chip8.SneInst.Name:
		return o.formatCompare()
	case chip8.LdInst.Name:
		return o.formatLoad()
	case chip8.AddInst.Name:
		return o.formatAdd()
	case chip8.OrInst.Name, chip8.AndInst.Name, chip8.XorInst.Name, chip8.SubInst.Name, chip8.SubnInst.Name:
		return fmt.Sprintf("V%X, V%X", o.X(), o.Y())
	case chip8.ShrInst.Name, chip8.ShlInst.Name:
		return fmt.Sprintf("V%X, V%X", o.X(), o.Y())
	case chip8.RndInst.Name:
		return fmt.Sprintf("V%X, $%02X", o.X(), o.NN())
	case chip8.DrwInst.Name:
		return fmt.Sprintf("V%X, V%X, $%X", o.X(), o.Y(), o.N())
	case chip8.SkpInst.Name, chip8.SknpInst.Name:
		return fmt.Sprintf("V%X", o.X())
	}
	return ""
}

// formatJump formats jump instructions (JP addr, JP V0+addr).
func (o Opcode) formatJump() string {
	if o&0xF000 == 0xB000 {
		return fmt.Sprintf("V0, $%03X", o.NNN())
	}
	return fmt.Sprintf("$%03X", o.NNN())
}

// formatCompare formats comparison instructions (SE, SNE).
// 3XNN/4XNN compare against an immediate, 5XY0/9XY0 against a register.
func (o Opcode) formatCompare() string {
	switch o & 0xF000 {
	case 0x3000, 0x4000:
		return fmt.Sprintf("V%X, $%02X", o.X(), o.NN())
	case 0x5000, 0x9000:
		return fmt.Sprintf("V%X, V%X", o.X(), o.Y())
	}
	return ""
}

// formatLoad formats the load instruction family.
func (o Opcode) formatLoad() string {
	x := o.X()
	switch o & 0xF000 {
	case 0x6000:
		return fmt.Sprintf("V%X, $%02X", x, o.NN())
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, o.Y())
	case 0xA000:
		return fmt.Sprintf("I, $%03X", o.NNN())
	case 0xF000:
		switch o.NN() {
		case 0x07:
			return fmt.Sprintf("V%X, DT", x)
		case 0x0A:
			return fmt.Sprintf("V%X, K", x)
		case 0x15:
			return fmt.Sprintf("DT, V%X", x)
		case 0x18:
			return fmt.Sprintf("ST, V%X", x)
		case 0x29:
			return fmt.Sprintf("F, V%X", x)
		case 0x33:
			return fmt.Sprintf("B, V%X", x)
		case 0x55:
			return fmt.Sprintf("[I], V%X", x)
		case 0x65:
			return fmt.Sprintf("V%X, [I]", x)
		}
	}
	return ""
}

// formatAdd formats add instructions (ADD Vx, byte/Vy and ADD I, Vx).
func (o Opcode) formatAdd() string {
	switch o & 0xF000 {
	case 0x7000:
		return fmt.Sprintf("V%X, $%02X", o.X(), o.NN())
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", o.X(), o.Y())
	case 0xF000:
		return fmt.Sprintf("I, V%X", o.X())
	}
	return ""
}
