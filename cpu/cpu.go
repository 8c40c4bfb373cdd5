// Package cpu defines the 6502 instruction interpreter and provides the
// methods needed to run it and interface with it for emulation. It is
// deliberately scoped to the interpreter alone: the fetch/decode/execute
// loop, addressing modes, instruction semantics, flag discipline, and
// the stack/interrupt protocols. It never reaches outside the Chip/Bank
// boundary for ROM loading, host I/O, or peripheral emulation.
package cpu

import (
	"fmt"

	"github.com/sixtwofive/emu6502/memory"
)

// Status flag bits, LSB to MSB per the 6502 processor status byte.
const (
	FlagC = uint8(0x01) // Carry
	FlagZ = uint8(0x02) // Zero
	FlagI = uint8(0x04) // Interrupt disable
	FlagD = uint8(0x08) // Decimal mode (settable, never consulted by ADC/SBC here)
	FlagB = uint8(0x10) // Break - only meaningful in a pushed copy of P
	FlagU = uint8(0x20) // Unused - always reads as 1 when pushed
	FlagV = uint8(0x40) // Overflow
	FlagN = uint8(0x80) // Negative
)

// Vector addresses. These are read from memory, never hardcoded as the
// values themselves - callers inject them by writing memory.
const (
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)
)

const stackBase = uint16(0x0100)

// IllegalOpcode is returned from Step when the decoded byte has no
// populated table entry. PC (as read from the Chip after the error)
// points one past the illegal byte.
type IllegalOpcode struct {
	Opcode uint8
	PC     uint16
}

// Error implements the error interface.
func (e IllegalOpcode) Error() string {
	return fmt.Sprintf("illegal opcode 0x%.2X at PC 0x%.4X", e.Opcode, e.PC)
}

// MemoryFault wraps an error surfaced by the memory collaborator when it
// models invalid regions. The interpreter introduces no address checks
// of its own; this is purely propagated.
type MemoryFault struct {
	Addr uint16
	Err  error
}

// Error implements the error interface.
func (e MemoryFault) Error() string {
	return fmt.Sprintf("memory fault at 0x%.4X: %v", e.Addr, e.Err)
}

// Unwrap allows callers to use errors.Is/As against the underlying cause.
func (e MemoryFault) Unwrap() error {
	return e.Err
}

// InvalidConfig is returned from New when the supplied ChipConfig cannot
// produce a usable Chip.
type InvalidConfig struct {
	Reason string
}

// Error implements the error interface.
func (e InvalidConfig) Error() string {
	return fmt.Sprintf("invalid cpu config: %s", e.Reason)
}

// ChipConfig configures a new Chip.
type ChipConfig struct {
	// Memory is the required memory collaborator the interpreter reads
	// and writes through for the lifetime of every Step.
	Memory memory.Bank
}

// Chip is a 6502 instruction interpreter: the register file, processor
// status, and the fetch/decode/execute loop bound to a memory
// collaborator. A *Chip is not safe for concurrent use; callers own
// serializing access the same way they own the Bank for the duration of
// a Step. Interrupt lines are not a Chip concern: a driving loop that
// wants NMI/IRQ polls its own irq.Sender between Step calls and invokes
// Chip.NMI/Chip.IRQ directly (see cmd/monitor) - the Chip never reaches
// into a Sender itself.
type Chip struct {
	PC uint16
	S  uint8
	A  uint8
	X  uint8
	Y  uint8
	P  uint8

	mem memory.Bank
}

// New creates an interpreter bound to the given memory collaborator.
// Registers are left undefined (matching real power-on state); callers
// should call Reset before the first Step.
func New(cfg ChipConfig) (*Chip, error) {
	if cfg.Memory == nil {
		return nil, InvalidConfig{"Memory must be non-nil"}
	}
	return &Chip{
		mem: cfg.Memory,
	}, nil
}

// Reset loads PC from the reset vector, sets S to 0xFD, P to 0x24
// (I=1, U=1), and clears A, X, Y. Always costs 7 cycles.
func (c *Chip) Reset() (int, error) {
	pc, err := c.read16(ResetVector)
	if err != nil {
		return 0, err
	}
	c.PC = pc
	c.S = 0xFD
	c.P = FlagU | FlagI
	c.A, c.X, c.Y = 0, 0, 0
	return 7, nil
}

// Step fetches, decodes, and executes exactly one instruction, reporting
// the number of cycles it consumed. It is atomic: on IllegalOpcode no
// memory or register state has changed except PC, which is left one past
// the illegal byte; on a propagated MemoryFault,
// whatever side effects occurred strictly before the faulting access are
// visible (this matches hardware and callers must not depend on register
// state beyond PC in that case).
func (c *Chip) Step() (int, error) {
	opcode, err := c.read(c.PC)
	if err != nil {
		return 0, err
	}
	c.PC++

	e := opcodeTable[opcode]
	if e.op == opIllegal {
		return 0, IllegalOpcode{Opcode: opcode, PC: c.PC}
	}

	d, err := c.resolveMode(e.mode)
	if err != nil {
		return 0, err
	}
	if readsMemory(e.op) && !d.hasValue {
		v, err := c.read(d.addr)
		if err != nil {
			return 0, err
		}
		d.value = v
	}

	extra, err := c.execute(e.op, e.mode, &d)
	if err != nil {
		return 0, err
	}

	cycles := int(e.cycles) + extra
	if d.crossedPage && pageCrossSensitive(e.op) {
		cycles++
	}
	return cycles, nil
}

// NMI services a non-maskable interrupt unconditionally: push PC, push P
// with B=0/U=1, set I, load PC from the NMI vector. Always 7 cycles.
func (c *Chip) NMI() (int, error) {
	return c.serviceInterrupt(NMIVector)
}

// IRQ services a maskable interrupt unless I is set, in which case it is
// a no-op (0 cycles, not serviced). Otherwise identical to NMI but uses
// the IRQ/BRK vector.
func (c *Chip) IRQ() (int, error) {
	if c.P&FlagI != 0 {
		return 0, nil
	}
	return c.serviceInterrupt(IRQVector)
}

func (c *Chip) serviceInterrupt(vector uint16) (int, error) {
	if err := c.push16(c.PC); err != nil {
		return 0, err
	}
	if err := c.push((c.P &^ FlagB) | FlagU); err != nil {
		return 0, err
	}
	c.P |= FlagI
	pc, err := c.read16(vector)
	if err != nil {
		return 0, err
	}
	c.PC = pc
	return 7, nil
}

// Read-only accessors for tracing and tests.
func (c *Chip) GetPC() uint16 { return c.PC }
func (c *Chip) GetS() uint8   { return c.S }
func (c *Chip) GetA() uint8   { return c.A }
func (c *Chip) GetX() uint8   { return c.X }
func (c *Chip) GetY() uint8   { return c.Y }
func (c *Chip) GetP() uint8   { return c.P }

// read reads a single byte through the memory collaborator, propagating
// a MemoryFault if the Bank optionally implements memory.Faulting and
// reports one.
func (c *Chip) read(addr uint16) (uint8, error) {
	v := c.mem.Read(addr)
	if f, ok := c.mem.(memory.Faulting); ok {
		if err := f.LastFault(); err != nil {
			return 0, MemoryFault{Addr: addr, Err: err}
		}
	}
	return v, nil
}

// write writes a single byte through the memory collaborator, with the
// same fault-propagation behavior as read.
func (c *Chip) write(addr uint16, val uint8) error {
	c.mem.Write(addr, val)
	if f, ok := c.mem.(memory.Faulting); ok {
		if err := f.LastFault(); err != nil {
			return MemoryFault{Addr: addr, Err: err}
		}
	}
	return nil
}

// read16 reads a little-endian 16-bit value from addr/addr+1.
func (c *Chip) read16(addr uint16) (uint16, error) {
	lo, err := c.read(addr)
	if err != nil {
		return 0, err
	}
	hi, err := c.read(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// push writes val to the stack page at 0x0100|S then decrements S (with
// 8-bit wrap). S is always the index of the next free slot.
func (c *Chip) push(val uint8) error {
	if err := c.write(stackBase|uint16(c.S), val); err != nil {
		return err
	}
	c.S--
	return nil
}

// pull increments S (with 8-bit wrap) then reads 0x0100|S.
func (c *Chip) pull() (uint8, error) {
	c.S++
	return c.read(stackBase | uint16(c.S))
}

// push16 pushes a 16-bit value high byte first, so the matching pull16
// (low then high) reconstructs it.
func (c *Chip) push16(val uint16) error {
	if err := c.push(uint8(val >> 8)); err != nil {
		return err
	}
	return c.push(uint8(val))
}

// pull16 pulls a 16-bit value, low byte then high byte.
func (c *Chip) pull16() (uint16, error) {
	lo, err := c.pull()
	if err != nil {
		return 0, err
	}
	hi, err := c.pull()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// setZN sets Z and N from the 8-bit result of an operation.
func (c *Chip) setZN(v uint8) {
	c.P &^= FlagZ | FlagN
	if v == 0 {
		c.P |= FlagZ
	}
	if v&0x80 != 0 {
		c.P |= FlagN
	}
}
