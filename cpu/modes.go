package cpu

// decoded is the ephemeral per-instruction effective-address workspace.
// It is rebuilt by resolveMode on every Step and never persisted across
// instructions.
type decoded struct {
	addr        uint16
	value       uint8
	hasValue    bool
	crossedPage bool
}

// resolveMode computes addr and/or value for the given addressing mode,
// advancing PC as each mode's operand bytes are consumed. It never
// itself loads mem[addr] for modes that need a deferred read (Step does
// that once it knows whether the operation requires it); the exceptions
// are Immediate (the operand byte doubles as the value) and Accumulator
// (the value is A, not memory).
func (c *Chip) resolveMode(m mode) (decoded, error) {
	var d decoded
	switch m {
	case modeImplied:
		// No operand.

	case modeAccumulator:
		d.value = c.A
		d.hasValue = true

	case modeImmediate:
		v, err := c.read(c.PC)
		if err != nil {
			return d, err
		}
		c.PC++
		d.value = v
		d.hasValue = true

	case modeZeroPage:
		zp, err := c.read(c.PC)
		if err != nil {
			return d, err
		}
		c.PC++
		d.addr = uint16(zp)

	case modeZeroPageX:
		zp, err := c.read(c.PC)
		if err != nil {
			return d, err
		}
		c.PC++
		d.addr = uint16(zp + c.X)

	case modeZeroPageY:
		zp, err := c.read(c.PC)
		if err != nil {
			return d, err
		}
		c.PC++
		d.addr = uint16(zp + c.Y)

	case modeAbsolute:
		addr, err := c.read16(c.PC)
		if err != nil {
			return d, err
		}
		c.PC += 2
		d.addr = addr

	case modeAbsoluteX:
		base, err := c.read16(c.PC)
		if err != nil {
			return d, err
		}
		c.PC += 2
		addr := base + uint16(c.X)
		d.addr = addr
		d.crossedPage = (addr & 0xFF00) != (base & 0xFF00)

	case modeAbsoluteY:
		base, err := c.read16(c.PC)
		if err != nil {
			return d, err
		}
		c.PC += 2
		addr := base + uint16(c.Y)
		d.addr = addr
		d.crossedPage = (addr & 0xFF00) != (base & 0xFF00)

	case modeIndirect:
		ptr, err := c.read16(c.PC)
		if err != nil {
			return d, err
		}
		c.PC += 2
		addr, err := c.readIndirectBug(ptr)
		if err != nil {
			return d, err
		}
		d.addr = addr

	case modeIndirectX:
		zp, err := c.read(c.PC)
		if err != nil {
			return d, err
		}
		c.PC++
		ptr := zp + c.X
		addr, err := c.readZPAddr(ptr)
		if err != nil {
			return d, err
		}
		d.addr = addr

	case modeIndirectY:
		zp, err := c.read(c.PC)
		if err != nil {
			return d, err
		}
		c.PC++
		base, err := c.readZPAddr(zp)
		if err != nil {
			return d, err
		}
		addr := base + uint16(c.Y)
		d.addr = addr
		d.crossedPage = (addr & 0xFF00) != (base & 0xFF00)

	case modeRelative:
		off, err := c.read(c.PC)
		if err != nil {
			return d, err
		}
		c.PC++
		disp := int16(int8(off))
		target := uint16(int32(c.PC) + int32(disp))
		d.addr = target
		d.crossedPage = (target & 0xFF00) != (c.PC & 0xFF00)
	}
	return d, nil
}

// readZPAddr reads a little-endian pointer out of zero page, wrapping
// strictly within page zero for both bytes of the pointer.
func (c *Chip) readZPAddr(zp uint8) (uint16, error) {
	lo, err := c.read(uint16(zp))
	if err != nil {
		return 0, err
	}
	hi, err := c.read(uint16(zp + 1))
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// readIndirectBug resolves the operand of JMP (ind), faithfully
// reproducing the 6502's page-boundary bug: if the pointer's low byte is
// 0xFF, the high byte of the target is read from the start of the same
// page instead of the next one.
func (c *Chip) readIndirectBug(ptr uint16) (uint16, error) {
	lo, err := c.read(ptr)
	if err != nil {
		return 0, err
	}
	var hiAddr uint16
	if ptr&0xFF == 0xFF {
		hiAddr = ptr & 0xFF00
	} else {
		hiAddr = ptr + 1
	}
	hi, err := c.read(hiAddr)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}
