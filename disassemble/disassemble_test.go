package disassemble

import (
	"strings"
	"testing"

	"github.com/sixtwofive/emu6502/memory"
)

type flatMemory struct {
	mem [65536]uint8
}

func (m *flatMemory) Read(addr uint16) uint8        { return m.mem[addr] }
func (m *flatMemory) Write(addr uint16, val uint8)  { m.mem[addr] = val }
func (m *flatMemory) PowerOn()                      {}
func (m *flatMemory) Parent() memory.Bank           { return nil }
func (m *flatMemory) DatabusVal() uint8             { return 0 }

func TestStepImmediate(t *testing.T) {
	mem := &flatMemory{}
	mem.mem[0x0200] = 0xA9 // LDA #$2A
	mem.mem[0x0201] = 0x2A
	text, size := Step(0x0200, mem)
	if size != 2 {
		t.Errorf("size = %d, want 2", size)
	}
	if !strings.Contains(text, "LDA") || !strings.Contains(text, "#2A") {
		t.Errorf("text = %q, want mention of LDA #2A", text)
	}
}

func TestStepAbsolute(t *testing.T) {
	mem := &flatMemory{}
	mem.mem[0x0300] = 0x4C // JMP $1234
	mem.mem[0x0301] = 0x34
	mem.mem[0x0302] = 0x12
	text, size := Step(0x0300, mem)
	if size != 3 {
		t.Errorf("size = %d, want 3", size)
	}
	if !strings.Contains(text, "JMP") || !strings.Contains(text, "1234") {
		t.Errorf("text = %q, want mention of JMP 1234", text)
	}
}

func TestStepImplied(t *testing.T) {
	mem := &flatMemory{}
	mem.mem[0x0400] = 0xEA // NOP
	text, size := Step(0x0400, mem)
	if size != 1 {
		t.Errorf("size = %d, want 1", size)
	}
	if !strings.Contains(text, "NOP") {
		t.Errorf("text = %q, want mention of NOP", text)
	}
}

func TestStepIllegalOpcode(t *testing.T) {
	mem := &flatMemory{}
	mem.mem[0x0500] = 0x02 // unpopulated table entry
	text, _ := Step(0x0500, mem)
	if !strings.Contains(text, "???") {
		t.Errorf("text = %q, want mnemonic ???", text)
	}
}
