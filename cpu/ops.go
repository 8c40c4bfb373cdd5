package cpu

// execute runs the semantics for op against the resolved addressing-mode
// workspace d, mutating registers/status/memory as required by §4.3 of
// the specification this interpreter implements. It returns any cycle
// count beyond the table's base (only branches ever produce a non-zero
// value) and an error from a propagated memory fault.
func (c *Chip) execute(o op, m mode, d *decoded) (int, error) {
	switch o {
	case opLDA:
		c.A = d.value
		c.setZN(c.A)
	case opLDX:
		c.X = d.value
		c.setZN(c.X)
	case opLDY:
		c.Y = d.value
		c.setZN(c.Y)
	case opSTA:
		return 0, c.write(d.addr, c.A)
	case opSTX:
		return 0, c.write(d.addr, c.X)
	case opSTY:
		return 0, c.write(d.addr, c.Y)

	case opTAX:
		c.X = c.A
		c.setZN(c.X)
	case opTAY:
		c.Y = c.A
		c.setZN(c.Y)
	case opTXA:
		c.A = c.X
		c.setZN(c.A)
	case opTYA:
		c.A = c.Y
		c.setZN(c.A)
	case opTSX:
		c.X = c.S
		c.setZN(c.X)
	case opTXS:
		// TXS does not affect status flags.
		c.S = c.X

	case opPHA:
		return 0, c.push(c.A)
	case opPHP:
		return 0, c.push(c.P | FlagB | FlagU)
	case opPLA:
		v, err := c.pull()
		if err != nil {
			return 0, err
		}
		c.A = v
		c.setZN(c.A)
	case opPLP:
		v, err := c.pull()
		if err != nil {
			return 0, err
		}
		c.P = (v &^ FlagB) | FlagU

	case opAND:
		c.A &= d.value
		c.setZN(c.A)
	case opORA:
		c.A |= d.value
		c.setZN(c.A)
	case opEOR:
		c.A ^= d.value
		c.setZN(c.A)
	case opBIT:
		res := c.A & d.value
		c.P &^= FlagZ | FlagV | FlagN
		if res == 0 {
			c.P |= FlagZ
		}
		if d.value&0x80 != 0 {
			c.P |= FlagN
		}
		if d.value&0x40 != 0 {
			c.P |= FlagV
		}

	case opADC:
		c.adc(d.value)
	case opSBC:
		c.adc(d.value ^ 0xFF)

	case opCMP:
		c.compare(c.A, d.value)
	case opCPX:
		c.compare(c.X, d.value)
	case opCPY:
		c.compare(c.Y, d.value)

	case opINC:
		res := d.value + 1
		if err := c.write(d.addr, res); err != nil {
			return 0, err
		}
		c.setZN(res)
	case opDEC:
		res := d.value - 1
		if err := c.write(d.addr, res); err != nil {
			return 0, err
		}
		c.setZN(res)
	case opINX:
		c.X++
		c.setZN(c.X)
	case opDEX:
		c.X--
		c.setZN(c.X)
	case opINY:
		c.Y++
		c.setZN(c.Y)
	case opDEY:
		c.Y--
		c.setZN(c.Y)

	case opASL:
		return 0, c.shiftRotate(m, d, func(in uint8) (uint8, bool) {
			return in << 1, in&0x80 != 0
		})
	case opLSR:
		return 0, c.shiftRotate(m, d, func(in uint8) (uint8, bool) {
			return in >> 1, in&0x01 != 0
		})
	case opROL:
		carryIn := c.P & FlagC
		return 0, c.shiftRotate(m, d, func(in uint8) (uint8, bool) {
			return (in << 1) | carryIn, in&0x80 != 0
		})
	case opROR:
		carryIn := (c.P & FlagC) << 7
		return 0, c.shiftRotate(m, d, func(in uint8) (uint8, bool) {
			return carryIn | (in >> 1), in&0x01 != 0
		})

	case opJMP:
		c.PC = d.addr
	case opJSR:
		if err := c.push16(c.PC - 1); err != nil {
			return 0, err
		}
		c.PC = d.addr
	case opRTS:
		v, err := c.pull16()
		if err != nil {
			return 0, err
		}
		c.PC = v + 1

	case opBPL:
		return c.branch(c.P&FlagN == 0, d)
	case opBMI:
		return c.branch(c.P&FlagN != 0, d)
	case opBVC:
		return c.branch(c.P&FlagV == 0, d)
	case opBVS:
		return c.branch(c.P&FlagV != 0, d)
	case opBCC:
		return c.branch(c.P&FlagC == 0, d)
	case opBCS:
		return c.branch(c.P&FlagC != 0, d)
	case opBNE:
		return c.branch(c.P&FlagZ == 0, d)
	case opBEQ:
		return c.branch(c.P&FlagZ != 0, d)

	case opCLC:
		c.P &^= FlagC
	case opSEC:
		c.P |= FlagC
	case opCLI:
		c.P &^= FlagI
	case opSEI:
		c.P |= FlagI
	case opCLV:
		c.P &^= FlagV
	case opCLD:
		c.P &^= FlagD
	case opSED:
		c.P |= FlagD

	case opBRK:
		c.PC++ // skip the padding byte
		if err := c.push16(c.PC); err != nil {
			return 0, err
		}
		if err := c.push(c.P | FlagB | FlagU); err != nil {
			return 0, err
		}
		c.P |= FlagI
		pc, err := c.read16(IRQVector)
		if err != nil {
			return 0, err
		}
		c.PC = pc
	case opRTI:
		v, err := c.pull()
		if err != nil {
			return 0, err
		}
		c.P = (v &^ FlagB) | FlagU
		pc, err := c.pull16()
		if err != nil {
			return 0, err
		}
		c.PC = pc

	case opNOP:
		// No effect.
	}
	return 0, nil
}

// adc implements ADC's flag contract; SBC is executed as ADC of the
// one's complement of the operand by the caller. D is never consulted:
// this interpreter targets the Ricoh variant used in the NES, which
// ignores decimal mode in ADC/SBC.
func (c *Chip) adc(value uint8) {
	sum := uint16(c.A) + uint16(value) + uint16(c.P&FlagC)
	result := uint8(sum)

	c.P &^= FlagC | FlagV
	if sum > 0xFF {
		c.P |= FlagC
	}
	if (^(c.A ^ value) & (c.A ^ result) & 0x80) != 0 {
		c.P |= FlagV
	}
	c.A = result
	c.setZN(c.A)
}

// compare implements CMP/CPX/CPY's shared flag contract.
func (c *Chip) compare(reg, value uint8) {
	t := uint16(reg) - uint16(value)
	c.P &^= FlagC | FlagZ | FlagN
	if reg >= value {
		c.P |= FlagC
	}
	if reg == value {
		c.P |= FlagZ
	}
	if t&0x80 != 0 {
		c.P |= FlagN
	}
}

// shiftRotate applies fn to the operand of an ASL/LSR/ROL/ROR
// instruction - A in Accumulator mode, mem[addr] otherwise - writing the
// result back (to A or memory, per §4.4 step 6) and setting C from the
// bit fn reports was shifted out, Z/N from the result.
func (c *Chip) shiftRotate(m mode, d *decoded, fn func(in uint8) (result uint8, carryOut bool)) error {
	in := d.value
	result, carryOut := fn(in)

	c.P &^= FlagC
	if carryOut {
		c.P |= FlagC
	}
	c.setZN(result)

	if m == modeAccumulator {
		c.A = result
		return nil
	}
	return c.write(d.addr, result)
}

// branch evaluates a conditional branch. If not taken it costs nothing
// extra; if taken it costs +1 cycle, +1 more if the target lands in a
// different page than the instruction following the branch operand.
func (c *Chip) branch(taken bool, d *decoded) (int, error) {
	if !taken {
		return 0, nil
	}
	c.PC = d.addr
	if d.crossedPage {
		return 2, nil
	}
	return 1, nil
}
