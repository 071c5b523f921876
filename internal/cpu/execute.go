package cpu

import (
	"fmt"

	"github.com/retroenv/chip8emu/internal/memory"
)

// execute applies the effect of a single decoded instruction. PC has
// already been advanced past the instruction, skip instructions
// advance it by another two and jumps and calls overwrite it.
//
// Quirk conventions follow the original COSMAC VIP interpreter:
// SHR/SHL shift VY into VX, JP V0 uses V0, and the register block
// store and load instructions leave I unmodified.
func (c *CPU) execute(opcode Opcode) error {
	switch uint16(opcode) & 0xF000 {
	case 0x0000:
		switch opcode.NN() {
		case 0xE0: // CLS
			c.disp.Clear()
		case 0xEE: // RET
			return c.ret(opcode)
		default:
			// 0NNN machine code routines of the host CPU are not part
			// of the supported instruction set.
			return unknownOpcode(opcode)
		}

	case 0x1000: // JP addr
		c.pc = opcode.NNN()

	case 0x2000: // CALL addr
		return c.call(opcode)

	case 0x3000: // SE Vx, byte
		if c.v[opcode.X()] == opcode.NN() {
			c.pc += 2
		}

	case 0x4000: // SNE Vx, byte
		if c.v[opcode.X()] != opcode.NN() {
			c.pc += 2
		}

	case 0x5000: // SE Vx, Vy
		if opcode.N() != 0 {
			return unknownOpcode(opcode)
		}
		if c.v[opcode.X()] == c.v[opcode.Y()] {
			c.pc += 2
		}

	case 0x6000: // LD Vx, byte
		c.v[opcode.X()] = opcode.NN()

	case 0x7000: // ADD Vx, byte - no carry flag
		c.v[opcode.X()] += opcode.NN()

	case 0x8000:
		return c.executeArithmetic(opcode)

	case 0x9000: // SNE Vx, Vy
		if opcode.N() != 0 {
			return unknownOpcode(opcode)
		}
		if c.v[opcode.X()] != c.v[opcode.Y()] {
			c.pc += 2
		}

	case 0xA000: // LD I, addr
		c.i = opcode.NNN()

	case 0xB000: // JP V0, addr
		c.pc = opcode.NNN() + uint16(c.v[0])

	case 0xC000: // RND Vx, byte
		c.v[opcode.X()] = c.randByte() & opcode.NN()

	case 0xD000: // DRW Vx, Vy, nibble
		return c.draw(opcode)

	case 0xE000:
		switch opcode.NN() {
		case 0x9E: // SKP Vx
			if c.keys.Pressed(c.v[opcode.X()]) {
				c.pc += 2
			}
		case 0xA1: // SKNP Vx
			if !c.keys.Pressed(c.v[opcode.X()]) {
				c.pc += 2
			}
		default:
			return unknownOpcode(opcode)
		}

	case 0xF000:
		return c.executeMisc(opcode)

	default:
		return unknownOpcode(opcode)
	}

	return nil
}

// executeArithmetic handles the 8XYn register arithmetic family.
// The flag register VF is written after the result, so instructions
// targeting VF keep the flag, the standard convention.
func (c *CPU) executeArithmetic(opcode Opcode) error {
	x := opcode.X()
	y := opcode.Y()

	switch opcode.N() {
	case 0x0: // LD Vx, Vy
		c.v[x] = c.v[y]

	case 0x1: // OR Vx, Vy
		c.v[x] |= c.v[y]

	case 0x2: // AND Vx, Vy
		c.v[x] &= c.v[y]

	case 0x3: // XOR Vx, Vy
		c.v[x] ^= c.v[y]

	case 0x4: // ADD Vx, Vy - VF is 1 on carry
		sum := uint16(c.v[x]) + uint16(c.v[y])
		carry := byte(0)
		if sum > 0xFF {
			carry = 1
		}
		c.v[x] = byte(sum)
		c.v[0xF] = carry

	case 0x5: // SUB Vx, Vy - VF is 1 when no borrow occurs
		noBorrow := byte(0)
		if c.v[x] >= c.v[y] {
			noBorrow = 1
		}
		c.v[x] -= c.v[y]
		c.v[0xF] = noBorrow

	case 0x6: // SHR Vx, Vy - VF receives the shifted out bit
		value := c.v[y]
		c.v[x] = value >> 1
		c.v[0xF] = value & 0x01

	case 0x7: // SUBN Vx, Vy - VF is 1 when no borrow occurs
		noBorrow := byte(0)
		if c.v[y] >= c.v[x] {
			noBorrow = 1
		}
		c.v[x] = c.v[y] - c.v[x]
		c.v[0xF] = noBorrow

	case 0xE: // SHL Vx, Vy - VF receives the shifted out bit
		value := c.v[y]
		c.v[x] = value << 1
		c.v[0xF] = value >> 7

	default:
		return unknownOpcode(opcode)
	}

	return nil
}

// executeMisc handles the FXnn instruction family.
func (c *CPU) executeMisc(opcode Opcode) error {
	x := opcode.X()

	switch opcode.NN() {
	case 0x07: // LD Vx, DT
		c.v[x] = c.timers.Delay()

	case 0x0A: // LD Vx, K - suspend until any key is pressed
		c.state = StateWaitingForKey
		c.waitReg = x

	case 0x15: // LD DT, Vx
		c.timers.SetDelay(c.v[x])

	case 0x18: // LD ST, Vx
		c.timers.SetSound(c.v[x])

	case 0x1E: // ADD I, Vx
		c.i += uint16(c.v[x])

	case 0x29: // LD F, Vx - font glyph address of the hex digit in Vx
		c.i = memory.FontAddress + 5*uint16(c.v[x]&0x0F)

	case 0x33: // LD B, Vx - BCD of Vx at I, I+1, I+2
		value := c.v[x]
		if err := c.mem.WriteByte(c.i, value/100); err != nil {
			return fmt.Errorf("writing BCD hundreds: %w", err)
		}
		if err := c.mem.WriteByte(c.i+1, value/10%10); err != nil {
			return fmt.Errorf("writing BCD tens: %w", err)
		}
		if err := c.mem.WriteByte(c.i+2, value%10); err != nil {
			return fmt.Errorf("writing BCD units: %w", err)
		}

	case 0x55: // LD [I], Vx - store V0..Vx at I, I stays unmodified
		for reg := byte(0); reg <= x; reg++ {
			if err := c.mem.WriteByte(c.i+uint16(reg), c.v[reg]); err != nil {
				return fmt.Errorf("storing register V%X: %w", reg, err)
			}
		}

	case 0x65: // LD Vx, [I] - load V0..Vx from I, I stays unmodified
		for reg := byte(0); reg <= x; reg++ {
			value, err := c.mem.ReadByte(c.i + uint16(reg))
			if err != nil {
				return fmt.Errorf("loading register V%X: %w", reg, err)
			}
			c.v[reg] = value
		}

	default:
		return unknownOpcode(opcode)
	}

	return nil
}

// draw executes DRW: reads N sprite bytes starting at I and XORs them
// into the display at (Vx, Vy) with wraparound. VF is set to 1 if any
// pixel was flipped from on to off.
func (c *CPU) draw(opcode Opcode) error {
	height := opcode.N()
	sprite := make([]byte, 0, height)

	for row := byte(0); row < height; row++ {
		spriteByte, err := c.mem.ReadByte(c.i + uint16(row))
		if err != nil {
			return fmt.Errorf("reading sprite row %d: %w", row, err)
		}
		sprite = append(sprite, spriteByte)
	}

	collision := c.disp.Draw(c.v[opcode.X()], c.v[opcode.Y()], sprite)

	c.v[0xF] = 0
	if collision {
		c.v[0xF] = 1
	}
	return nil
}

func unknownOpcode(opcode Opcode) error {
	return fmt.Errorf("opcode %04X: %w", uint16(opcode), ErrUnknownOpcode)
}

// ret returns from a subroutine by popping the return address.
func (c *CPU) ret(opcode Opcode) error {
	if c.sp == 0 {
		return fmt.Errorf("%s at %04X: %w", opcode, c.pc-2, ErrStackUnderflow)
	}
	c.sp--
	c.pc = c.stack[c.sp]
	return nil
}

// call pushes the address of the next instruction and jumps.
func (c *CPU) call(opcode Opcode) error {
	if c.sp == StackDepth {
		return fmt.Errorf("%s at %04X: %w", opcode, c.pc-2, ErrStackOverflow)
	}
	c.stack[c.sp] = c.pc
	c.sp++
	c.pc = opcode.NNN()
	return nil
}
