package cpu

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"

	"github.com/sixtwofive/emu6502/memory"
)

// flatMemory is a 64K memory.Bank test double with no banking or faults.
type flatMemory struct {
	mem [65536]uint8
	db  uint8
}

func (m *flatMemory) Read(addr uint16) uint8 {
	m.db = m.mem[addr]
	return m.db
}

func (m *flatMemory) Write(addr uint16, val uint8) {
	m.mem[addr] = val
	m.db = val
}

func (m *flatMemory) PowerOn()              {}
func (m *flatMemory) Parent() memory.Bank   { return nil }
func (m *flatMemory) DatabusVal() uint8     { return m.db }

func (m *flatMemory) setResetVector(addr uint16) {
	m.mem[ResetVector] = uint8(addr)
	m.mem[ResetVector+1] = uint8(addr >> 8)
}

func newChip(t *testing.T) (*Chip, *flatMemory) {
	t.Helper()
	mem := &flatMemory{}
	mem.setResetVector(0x0200)
	c, err := New(ChipConfig{Memory: mem})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	return c, mem
}

// TestResetVectorState covers invariant #1: Reset always loads PC from
// the reset vector and produces the documented power-on register state.
func TestResetVectorState(t *testing.T) {
	mem := &flatMemory{}
	mem.setResetVector(0xC000)
	c, err := New(ChipConfig{Memory: mem})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cycles, err := c.Reset()
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if cycles != 7 {
		t.Errorf("Reset cycles = %d, want 7", cycles)
	}
	if c.PC != 0xC000 {
		t.Errorf("PC after reset = %.4X, want C000", c.PC)
	}
	if c.S != 0xFD {
		t.Errorf("S after reset = %.2X, want FD", c.S)
	}
	if c.P != FlagU|FlagI {
		t.Errorf("P after reset = %.2X, want %.2X", c.P, FlagU|FlagI)
	}
}

// TestLDAImmediate covers invariant #2: PC always advances by the
// instruction's documented size and the base cycle count is charged.
func TestLDAImmediate(t *testing.T) {
	c, mem := newChip(t)
	mem.mem[0x0200] = 0xA9 // LDA #imm
	mem.mem[0x0201] = 0x00
	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cycles != 2 {
		t.Errorf("cycles = %d, want 2", cycles)
	}
	if c.PC != 0x0202 {
		t.Errorf("PC = %.4X, want 0202", c.PC)
	}
	if c.P&FlagZ == 0 {
		t.Error("Z not set loading 0")
	}
	if c.P&FlagN != 0 {
		t.Error("N set loading 0")
	}

	c.PC = 0x0200
	mem.mem[0x0201] = 0x80
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.P&FlagN == 0 {
		t.Error("N not set loading 0x80")
	}
	if c.P&FlagZ != 0 {
		t.Error("Z set loading 0x80")
	}
}

// TestIllegalOpcode verifies Step is atomic on an illegal opcode: no
// register other than PC changes, PC is left one past the illegal byte,
// and the error names the faulting byte and PC.
func TestIllegalOpcode(t *testing.T) {
	c, mem := newChip(t)
	mem.mem[0x0200] = 0x02 // unpopulated table entry
	before := *c
	_, err := c.Step()
	if err == nil {
		t.Fatal("Step returned nil error for illegal opcode")
	}
	var ill IllegalOpcode
	if !asIllegalOpcode(err, &ill) {
		t.Fatalf("error = %v, want IllegalOpcode", err)
	}
	if ill.Opcode != 0x02 {
		t.Errorf("Opcode = %.2X, want 02", ill.Opcode)
	}
	if ill.PC != 0x0201 {
		t.Errorf("PC in error = %.4X, want 0201", ill.PC)
	}
	after := *c
	before.PC = 0x0201 // the only register the failed decode advances
	if diff := deep.Equal(before, after); diff != nil {
		t.Errorf("register state changed on illegal opcode: %v\nbefore: %s\nafter:  %s",
			diff, spew.Sdump(before), spew.Sdump(after))
	}
}

func asIllegalOpcode(err error, out *IllegalOpcode) bool {
	ill, ok := err.(IllegalOpcode)
	if ok {
		*out = ill
	}
	return ok
}

// TestADCExtendedResult covers invariant #3: ADC's 9-bit extended result
// (carry:result) always equals A + operand + carry-in, independent of
// the overflow flag's unrelated signed-overflow semantics.
func TestADCExtendedResult(t *testing.T) {
	tests := []struct {
		name       string
		a, operand uint8
		carryIn    bool
		wantA      uint8
		wantCarry  bool
		wantOv     bool
	}{
		{"no carry, no overflow", 0x10, 0x20, false, 0x30, false, false},
		{"carry out", 0xFF, 0x01, false, 0x00, true, false},
		{"signed overflow pos+pos", 0x50, 0x50, false, 0xA0, false, true},
		{"signed overflow neg+neg", 0x90, 0x90, false, 0x20, true, true},
		{"carry in consumed", 0x00, 0x00, true, 0x01, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, mem := newChip(t)
			c.A = tc.a
			if tc.carryIn {
				c.P |= FlagC
			} else {
				c.P &^= FlagC
			}
			mem.mem[0x0200] = 0x69 // ADC #imm
			mem.mem[0x0201] = tc.operand
			if _, err := c.Step(); err != nil {
				t.Fatalf("Step: %v", err)
			}
			sum := uint16(tc.a) + uint16(tc.operand)
			if tc.carryIn {
				sum++
			}
			if got := uint16(c.A) | boolBit(c.P&FlagC != 0)<<8; got != sum {
				t.Errorf("9-bit extended result = %.3X, want %.3X", got, sum)
			}
			if c.A != tc.wantA {
				t.Errorf("A = %.2X, want %.2X", c.A, tc.wantA)
			}
			if (c.P&FlagC != 0) != tc.wantCarry {
				t.Errorf("C = %v, want %v", c.P&FlagC != 0, tc.wantCarry)
			}
			if (c.P&FlagV != 0) != tc.wantOv {
				t.Errorf("V = %v, want %v", c.P&FlagV != 0, tc.wantOv)
			}
		})
	}
}

func boolBit(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

// TestShiftRoundTrip covers invariant #4: ASL then LSR (or ROL then ROR
// with the same carry-in) on the same value recovers the original byte
// modulo the bit that fell off the far end.
func TestShiftRoundTrip(t *testing.T) {
	c, mem := newChip(t)
	c.A = 0x55
	mem.mem[0x0200] = 0x0A // ASL A
	mem.mem[0x0201] = 0x4A // LSR A
	if _, err := c.Step(); err != nil {
		t.Fatalf("ASL Step: %v", err)
	}
	shifted := c.A
	if _, err := c.Step(); err != nil {
		t.Fatalf("LSR Step: %v", err)
	}
	if c.A != 0x55 {
		t.Errorf("A after ASL;LSR = %.2X, want 55 (shifted through %.2X)", c.A, shifted)
	}
}

// TestStackRoundTrip covers invariant #5: PHA;PLA recovers A and leaves
// S unchanged.
func TestStackRoundTrip(t *testing.T) {
	c, mem := newChip(t)
	startS := c.S
	c.A = 0x42
	mem.mem[0x0200] = 0x48 // PHA
	mem.mem[0x0201] = 0xA9 // LDA #imm (clobber A)
	mem.mem[0x0202] = 0x00
	mem.mem[0x0203] = 0x68 // PLA
	for i := 0; i < 3; i++ {
		if _, err := c.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	if c.A != 0x42 {
		t.Errorf("A after PHA;LDA;PLA = %.2X, want 42", c.A)
	}
	if c.S != startS {
		t.Errorf("S = %.2X, want %.2X (unchanged)", c.S, startS)
	}
}

// TestJSRRTSRoundTrip covers invariant #6: JSR;RTS returns to the
// instruction immediately following the JSR.
func TestJSRRTSRoundTrip(t *testing.T) {
	c, mem := newChip(t)
	mem.mem[0x0200] = 0x20 // JSR $0300
	mem.mem[0x0201] = 0x00
	mem.mem[0x0202] = 0x03
	mem.mem[0x0300] = 0x60 // RTS
	if _, err := c.Step(); err != nil {
		t.Fatalf("JSR Step: %v", err)
	}
	if c.PC != 0x0300 {
		t.Fatalf("PC after JSR = %.4X, want 0300", c.PC)
	}
	if _, err := c.Step(); err != nil {
		t.Fatalf("RTS Step: %v", err)
	}
	if c.PC != 0x0203 {
		t.Errorf("PC after RTS = %.4X, want 0203", c.PC)
	}
}

// TestJMPIndirectPageBug covers invariant #7: JMP (ind) with a pointer
// whose low byte is 0xFF fetches its high byte from the start of the
// same page rather than crossing into the next one.
func TestJMPIndirectPageBug(t *testing.T) {
	c, mem := newChip(t)
	mem.mem[0x0200] = 0x6C // JMP (ind)
	mem.mem[0x0201] = 0xFF
	mem.mem[0x0202] = 0x02 // pointer = 0x02FF
	mem.mem[0x02FF] = 0x34
	mem.mem[0x0300] = 0x12 // would be the high byte without the bug
	mem.mem[0x0200] = 0x6C
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	// The high byte comes from 0x0200, which holds the JMP opcode (0x6C).
	if c.PC != 0x6C34 {
		t.Errorf("PC after buggy JMP (ind) = %.4X, want 6C34", c.PC)
	}
}

// TestZeroPageIndexedWrap covers invariant #8: zero-page indexed
// addressing wraps within page zero and never carries into page one.
func TestZeroPageIndexedWrap(t *testing.T) {
	c, mem := newChip(t)
	c.X = 0x01
	mem.mem[0x0200] = 0xB5 // LDA zp,X
	mem.mem[0x0201] = 0xFF // 0xFF + 0x01 wraps to 0x00, not 0x0100
	mem.mem[0x0000] = 0x7E
	mem.mem[0x0100] = 0x00
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0x7E {
		t.Errorf("A = %.2X, want 7E (read from wrapped zero page address)", c.A)
	}
}

// TestIRQMasked verifies IRQ is a no-op while the interrupt disable
// flag is set and services normally once it is cleared.
func TestIRQMasked(t *testing.T) {
	c, mem := newChip(t)
	mem.mem[IRQVector] = 0x00
	mem.mem[IRQVector+1] = 0x04
	c.P |= FlagI
	cycles, err := c.IRQ()
	if err != nil {
		t.Fatalf("IRQ: %v", err)
	}
	if cycles != 0 {
		t.Errorf("masked IRQ cycles = %d, want 0", cycles)
	}
	if c.PC != 0x0200 {
		t.Errorf("PC changed on masked IRQ: %.4X", c.PC)
	}

	c.P &^= FlagI
	cycles, err = c.IRQ()
	if err != nil {
		t.Fatalf("IRQ: %v", err)
	}
	if cycles != 7 {
		t.Errorf("serviced IRQ cycles = %d, want 7", cycles)
	}
	if c.PC != 0x0400 {
		t.Errorf("PC after IRQ = %.4X, want 0400", c.PC)
	}
	if c.P&FlagI == 0 {
		t.Error("I not set after servicing IRQ")
	}
}

// TestNMIUnmasked verifies NMI always services regardless of I.
func TestNMIUnmasked(t *testing.T) {
	c, mem := newChip(t)
	mem.mem[NMIVector] = 0x00
	mem.mem[NMIVector+1] = 0x05
	c.P |= FlagI
	cycles, err := c.NMI()
	if err != nil {
		t.Fatalf("NMI: %v", err)
	}
	if cycles != 7 {
		t.Errorf("NMI cycles = %d, want 7", cycles)
	}
	if c.PC != 0x0500 {
		t.Errorf("PC after NMI = %.4X, want 0500", c.PC)
	}
}

// TestBRKRTIRoundTrip verifies BRK pushes PC+2 and P with B/U forced,
// and the matching RTI restores both without RTS's off-by-one.
func TestBRKRTIRoundTrip(t *testing.T) {
	c, mem := newChip(t)
	mem.mem[IRQVector] = 0x00
	mem.mem[IRQVector+1] = 0x06
	mem.mem[0x0200] = 0x00 // BRK
	mem.mem[0x0201] = 0xEA // padding byte, skipped
	mem.mem[0x0600] = 0x40 // RTI
	c.P = FlagU | FlagC

	if _, err := c.Step(); err != nil {
		t.Fatalf("BRK Step: %v", err)
	}
	if c.PC != 0x0600 {
		t.Fatalf("PC after BRK = %.4X, want 0600", c.PC)
	}
	if c.P&FlagI == 0 {
		t.Error("I not set after BRK")
	}

	if _, err := c.Step(); err != nil {
		t.Fatalf("RTI Step: %v", err)
	}
	if c.PC != 0x0202 {
		t.Errorf("PC after RTI = %.4X, want 0202 (BRK's PC+2)", c.PC)
	}
	if c.P&FlagC == 0 {
		t.Error("C lost across BRK/RTI")
	}
	if c.P&FlagB != 0 {
		t.Error("B leaked into live P after RTI")
	}
}

// faultingMemory wraps flatMemory and starts reporting a sentinel error
// from LastFault once a configured number of accesses have occurred,
// exercising the memory.Faulting path Chip.read/Chip.write check.
type faultingMemory struct {
	flatMemory
	accessesUntilFault int
	fault              error
}

var errSimulatedFault = errors.New("simulated bus fault")

func (m *faultingMemory) Read(addr uint16) uint8 {
	m.accessesUntilFault--
	if m.accessesUntilFault <= 0 {
		m.fault = errSimulatedFault
	}
	return m.flatMemory.Read(addr)
}

func (m *faultingMemory) Write(addr uint16, val uint8) {
	m.accessesUntilFault--
	if m.accessesUntilFault <= 0 {
		m.fault = errSimulatedFault
	}
	m.flatMemory.Write(addr, val)
}

func (m *faultingMemory) LastFault() error { return m.fault }

// TestMemoryFaultPropagation verifies that a Bank implementing
// memory.Faulting and reporting a fault is surfaced from Step as a
// MemoryFault wrapping the original error, with Unwrap intact for
// errors.Is/As.
func TestMemoryFaultPropagation(t *testing.T) {
	mem := &faultingMemory{accessesUntilFault: 1000}
	mem.setResetVector(0x0200)
	mem.mem[0x0200] = 0xA9 // LDA #imm
	mem.mem[0x0201] = 0x00

	c, err := New(ChipConfig{Memory: mem})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	mem.accessesUntilFault = 1
	_, err = c.Step()
	if err == nil {
		t.Fatal("Step returned nil error for a faulting memory access")
	}

	var mf MemoryFault
	if !errors.As(err, &mf) {
		t.Fatalf("error = %v (%T), want MemoryFault", err, err)
	}
	if mf.Addr != 0x0200 {
		t.Errorf("MemoryFault.Addr = %.4X, want 0200", mf.Addr)
	}
	if !errors.Is(err, errSimulatedFault) {
		t.Errorf("errors.Is(err, errSimulatedFault) = false, want true (Unwrap must expose the cause)")
	}
}
