package cpu

// op is an exhaustive enumeration of the operations the interpreter
// knows how to execute. Re-architected from the source lineage's
// pointer-to-member dispatch into a tagged enum (per the accompanying
// design notes) so the dispatch in ops.go is a single compiler-checked
// switch rather than 256 stored closures.
type op uint8

const (
	opIllegal op = iota

	opLDA
	opLDX
	opLDY
	opSTA
	opSTX
	opSTY

	opTAX
	opTAY
	opTXA
	opTYA
	opTSX
	opTXS

	opPHA
	opPHP
	opPLA
	opPLP

	opAND
	opORA
	opEOR
	opBIT

	opADC
	opSBC

	opCMP
	opCPX
	opCPY

	opINC
	opDEC
	opINX
	opDEX
	opINY
	opDEY

	opASL
	opLSR
	opROL
	opROR

	opJMP
	opJSR
	opRTS

	opBPL
	opBMI
	opBVC
	opBVS
	opBCC
	opBCS
	opBNE
	opBEQ

	opCLC
	opSEC
	opCLI
	opSEI
	opCLV
	opCLD
	opSED

	opBRK
	opRTI
	opNOP
)

// mode is an exhaustive enumeration of the 13 addressing modes.
type mode uint8

const (
	modeImplied mode = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect
	modeIndirectX
	modeIndirectY
	modeRelative
)

// entry fully characterizes one opcode byte.
type entry struct {
	mnemonic string
	op       op
	mode     mode
	size     uint8
	cycles   uint8
}

// illegal is the zero-value entry every unpopulated cell in opcodeTable
// gets implicitly; spelled out here only for Mnemonic's benefit.
var illegal = entry{mnemonic: "???", op: opIllegal}

// Mnemonic returns the stable 3-letter mnemonic for an opcode byte, or
// "???" for an illegal/reserved one.
func Mnemonic(opcode uint8) string {
	if m := opcodeTable[opcode].mnemonic; m != "" {
		return m
	}
	return illegal.mnemonic
}

// Size returns the instruction length in bytes (1, 2, or 3) for opcode,
// or 1 for an illegal/reserved opcode (so a disassembler can still step
// over it one byte at a time).
func Size(opcode uint8) int {
	if e := opcodeTable[opcode]; e.op != opIllegal {
		return int(e.size)
	}
	return 1
}

// IsIllegal reports whether opcode has no populated table entry.
func IsIllegal(opcode uint8) bool {
	return opcodeTable[opcode].op == opIllegal
}

// modeNames gives a short disassembler-facing label for each mode,
// independent of the internal enum ordering.
var modeNames = map[mode]string{
	modeImplied:     "impl",
	modeAccumulator: "acc",
	modeImmediate:   "imm",
	modeZeroPage:    "zp",
	modeZeroPageX:   "zp,x",
	modeZeroPageY:   "zp,y",
	modeAbsolute:    "abs",
	modeAbsoluteX:   "abs,x",
	modeAbsoluteY:   "abs,y",
	modeIndirect:    "ind",
	modeIndirectX:   "(ind,x)",
	modeIndirectY:   "(ind),y",
	modeRelative:    "rel",
}

// ModeName returns the disassembler-facing addressing mode label for
// opcode, or "impl" for an illegal/reserved opcode.
func ModeName(opcode uint8) string {
	e := opcodeTable[opcode]
	if e.op == opIllegal {
		return modeNames[modeImplied]
	}
	return modeNames[e.mode]
}

// opcodeTable is the dense 256-entry instruction decode table. Every
// populated row below reproduces the documented 6502 encoding exactly;
// gaps default to the zero value (op: opIllegal) and are reserved.
var opcodeTable = [256]entry{
	0x00: {"BRK", opBRK, modeImplied, 1, 7},
	0x01: {"ORA", opORA, modeIndirectX, 2, 6},
	0x05: {"ORA", opORA, modeZeroPage, 2, 3},
	0x06: {"ASL", opASL, modeZeroPage, 2, 5},
	0x08: {"PHP", opPHP, modeImplied, 1, 3},
	0x09: {"ORA", opORA, modeImmediate, 2, 2},
	0x0A: {"ASL", opASL, modeAccumulator, 1, 2},
	0x0D: {"ORA", opORA, modeAbsolute, 3, 4},
	0x0E: {"ASL", opASL, modeAbsolute, 3, 6},

	0x10: {"BPL", opBPL, modeRelative, 2, 2},
	0x11: {"ORA", opORA, modeIndirectY, 2, 5},
	0x15: {"ORA", opORA, modeZeroPageX, 2, 4},
	0x16: {"ASL", opASL, modeZeroPageX, 2, 6},
	0x18: {"CLC", opCLC, modeImplied, 1, 2},
	0x19: {"ORA", opORA, modeAbsoluteY, 3, 4},
	0x1D: {"ORA", opORA, modeAbsoluteX, 3, 4},
	0x1E: {"ASL", opASL, modeAbsoluteX, 3, 7},

	0x20: {"JSR", opJSR, modeAbsolute, 3, 6},
	0x21: {"AND", opAND, modeIndirectX, 2, 6},
	0x24: {"BIT", opBIT, modeZeroPage, 2, 3},
	0x25: {"AND", opAND, modeZeroPage, 2, 3},
	0x26: {"ROL", opROL, modeZeroPage, 2, 5},
	0x28: {"PLP", opPLP, modeImplied, 1, 4},
	0x29: {"AND", opAND, modeImmediate, 2, 2},
	0x2A: {"ROL", opROL, modeAccumulator, 1, 2},
	0x2C: {"BIT", opBIT, modeAbsolute, 3, 4},
	0x2D: {"AND", opAND, modeAbsolute, 3, 4},
	0x2E: {"ROL", opROL, modeAbsolute, 3, 6},

	0x30: {"BMI", opBMI, modeRelative, 2, 2},
	0x31: {"AND", opAND, modeIndirectY, 2, 5},
	0x35: {"AND", opAND, modeZeroPageX, 2, 4},
	0x36: {"ROL", opROL, modeZeroPageX, 2, 6},
	0x38: {"SEC", opSEC, modeImplied, 1, 2},
	0x39: {"AND", opAND, modeAbsoluteY, 3, 4},
	0x3D: {"AND", opAND, modeAbsoluteX, 3, 4},
	0x3E: {"ROL", opROL, modeAbsoluteX, 3, 7},

	0x40: {"RTI", opRTI, modeImplied, 1, 6},
	0x41: {"EOR", opEOR, modeIndirectX, 2, 6},
	0x45: {"EOR", opEOR, modeZeroPage, 2, 3},
	0x46: {"LSR", opLSR, modeZeroPage, 2, 5},
	0x48: {"PHA", opPHA, modeImplied, 1, 3},
	0x49: {"EOR", opEOR, modeImmediate, 2, 2},
	0x4A: {"LSR", opLSR, modeAccumulator, 1, 2},
	0x4C: {"JMP", opJMP, modeAbsolute, 3, 3},
	0x4D: {"EOR", opEOR, modeAbsolute, 3, 4},
	0x4E: {"LSR", opLSR, modeAbsolute, 3, 6},

	0x50: {"BVC", opBVC, modeRelative, 2, 2},
	0x51: {"EOR", opEOR, modeIndirectY, 2, 5},
	0x55: {"EOR", opEOR, modeZeroPageX, 2, 4},
	0x56: {"LSR", opLSR, modeZeroPageX, 2, 6},
	0x58: {"CLI", opCLI, modeImplied, 1, 2},
	0x59: {"EOR", opEOR, modeAbsoluteY, 3, 4},
	0x5D: {"EOR", opEOR, modeAbsoluteX, 3, 4},
	0x5E: {"LSR", opLSR, modeAbsoluteX, 3, 7},

	0x60: {"RTS", opRTS, modeImplied, 1, 6},
	0x61: {"ADC", opADC, modeIndirectX, 2, 6},
	0x65: {"ADC", opADC, modeZeroPage, 2, 3},
	0x66: {"ROR", opROR, modeZeroPage, 2, 5},
	0x68: {"PLA", opPLA, modeImplied, 1, 4},
	0x69: {"ADC", opADC, modeImmediate, 2, 2},
	0x6A: {"ROR", opROR, modeAccumulator, 1, 2},
	0x6C: {"JMP", opJMP, modeIndirect, 3, 5},
	0x6D: {"ADC", opADC, modeAbsolute, 3, 4},
	0x6E: {"ROR", opROR, modeAbsolute, 3, 6},

	0x70: {"BVS", opBVS, modeRelative, 2, 2},
	0x71: {"ADC", opADC, modeIndirectY, 2, 5},
	0x75: {"ADC", opADC, modeZeroPageX, 2, 4},
	0x76: {"ROR", opROR, modeZeroPageX, 2, 6},
	0x78: {"SEI", opSEI, modeImplied, 1, 2},
	0x79: {"ADC", opADC, modeAbsoluteY, 3, 4},
	0x7D: {"ADC", opADC, modeAbsoluteX, 3, 4},
	0x7E: {"ROR", opROR, modeAbsoluteX, 3, 7},

	0x81: {"STA", opSTA, modeIndirectX, 2, 6},
	0x84: {"STY", opSTY, modeZeroPage, 2, 3},
	0x85: {"STA", opSTA, modeZeroPage, 2, 3},
	0x86: {"STX", opSTX, modeZeroPage, 2, 3},
	0x88: {"DEY", opDEY, modeImplied, 1, 2},
	0x8A: {"TXA", opTXA, modeImplied, 1, 2},
	0x8C: {"STY", opSTY, modeAbsolute, 3, 4},
	0x8D: {"STA", opSTA, modeAbsolute, 3, 4},
	0x8E: {"STX", opSTX, modeAbsolute, 3, 4},

	0x90: {"BCC", opBCC, modeRelative, 2, 2},
	0x91: {"STA", opSTA, modeIndirectY, 2, 6},
	0x94: {"STY", opSTY, modeZeroPageX, 2, 4},
	0x95: {"STA", opSTA, modeZeroPageX, 2, 4},
	0x96: {"STX", opSTX, modeZeroPageY, 2, 4},
	0x98: {"TYA", opTYA, modeImplied, 1, 2},
	0x99: {"STA", opSTA, modeAbsoluteY, 3, 5},
	0x9A: {"TXS", opTXS, modeImplied, 1, 2},
	0x9D: {"STA", opSTA, modeAbsoluteX, 3, 5},

	0xA0: {"LDY", opLDY, modeImmediate, 2, 2},
	0xA1: {"LDA", opLDA, modeIndirectX, 2, 6},
	0xA2: {"LDX", opLDX, modeImmediate, 2, 2},
	0xA4: {"LDY", opLDY, modeZeroPage, 2, 3},
	0xA5: {"LDA", opLDA, modeZeroPage, 2, 3},
	0xA6: {"LDX", opLDX, modeZeroPage, 2, 3},
	0xA8: {"TAY", opTAY, modeImplied, 1, 2},
	0xA9: {"LDA", opLDA, modeImmediate, 2, 2},
	0xAA: {"TAX", opTAX, modeImplied, 1, 2},
	0xAC: {"LDY", opLDY, modeAbsolute, 3, 4},
	0xAD: {"LDA", opLDA, modeAbsolute, 3, 4},
	0xAE: {"LDX", opLDX, modeAbsolute, 3, 4},

	0xB0: {"BCS", opBCS, modeRelative, 2, 2},
	0xB1: {"LDA", opLDA, modeIndirectY, 2, 5},
	0xB4: {"LDY", opLDY, modeZeroPageX, 2, 4},
	0xB5: {"LDA", opLDA, modeZeroPageX, 2, 4},
	0xB6: {"LDX", opLDX, modeZeroPageY, 2, 4},
	0xB8: {"CLV", opCLV, modeImplied, 1, 2},
	0xB9: {"LDA", opLDA, modeAbsoluteY, 3, 4},
	0xBA: {"TSX", opTSX, modeImplied, 1, 2},
	0xBC: {"LDY", opLDY, modeAbsoluteX, 3, 4},
	0xBD: {"LDA", opLDA, modeAbsoluteX, 3, 4},
	0xBE: {"LDX", opLDX, modeAbsoluteY, 3, 4},

	0xC0: {"CPY", opCPY, modeImmediate, 2, 2},
	0xC1: {"CMP", opCMP, modeIndirectX, 2, 6},
	0xC4: {"CPY", opCPY, modeZeroPage, 2, 3},
	0xC5: {"CMP", opCMP, modeZeroPage, 2, 3},
	0xC6: {"DEC", opDEC, modeZeroPage, 2, 5},
	0xC8: {"INY", opINY, modeImplied, 1, 2},
	0xC9: {"CMP", opCMP, modeImmediate, 2, 2},
	0xCA: {"DEX", opDEX, modeImplied, 1, 2},
	0xCC: {"CPY", opCPY, modeAbsolute, 3, 4},
	0xCD: {"CMP", opCMP, modeAbsolute, 3, 4},
	0xCE: {"DEC", opDEC, modeAbsolute, 3, 6},

	0xD0: {"BNE", opBNE, modeRelative, 2, 2},
	0xD1: {"CMP", opCMP, modeIndirectY, 2, 5},
	0xD5: {"CMP", opCMP, modeZeroPageX, 2, 4},
	0xD6: {"DEC", opDEC, modeZeroPageX, 2, 6},
	0xD8: {"CLD", opCLD, modeImplied, 1, 2},
	0xD9: {"CMP", opCMP, modeAbsoluteY, 3, 4},
	0xDD: {"CMP", opCMP, modeAbsoluteX, 3, 4},
	0xDE: {"DEC", opDEC, modeAbsoluteX, 3, 7},

	0xE0: {"CPX", opCPX, modeImmediate, 2, 2},
	0xE1: {"SBC", opSBC, modeIndirectX, 2, 6},
	0xE4: {"CPX", opCPX, modeZeroPage, 2, 3},
	0xE5: {"SBC", opSBC, modeZeroPage, 2, 3},
	0xE6: {"INC", opINC, modeZeroPage, 2, 5},
	0xE8: {"INX", opINX, modeImplied, 1, 2},
	0xE9: {"SBC", opSBC, modeImmediate, 2, 2},
	0xEA: {"NOP", opNOP, modeImplied, 1, 2},
	0xEC: {"CPX", opCPX, modeAbsolute, 3, 4},
	0xED: {"SBC", opSBC, modeAbsolute, 3, 4},
	0xEE: {"INC", opINC, modeAbsolute, 3, 6},

	0xF0: {"BEQ", opBEQ, modeRelative, 2, 2},
	0xF1: {"SBC", opSBC, modeIndirectY, 2, 5},
	0xF5: {"SBC", opSBC, modeZeroPageX, 2, 4},
	0xF6: {"INC", opINC, modeZeroPageX, 2, 6},
	0xF8: {"SED", opSED, modeImplied, 1, 2},
	0xF9: {"SBC", opSBC, modeAbsoluteY, 3, 4},
	0xFD: {"SBC", opSBC, modeAbsoluteX, 3, 4},
	0xFE: {"INC", opINC, modeAbsoluteX, 3, 7},
}

// readsMemory reports whether op needs `value` loaded before execution:
// either from mem[addr] or, in Accumulator mode, from A. Immediate mode
// loads the value as part of addressing-mode resolution itself.
func readsMemory(o op) bool {
	switch o {
	case opADC, opAND, opASL, opBIT, opCMP, opCPX, opCPY, opDEC, opEOR,
		opINC, opLDA, opLDX, opLDY, opLSR, opORA, opROL, opROR, opSBC:
		return true
	}
	return false
}

// pageCrossSensitive reports whether op earns the +1 cycle penalty when
// its addressing mode (absX/absY/indY) crosses a page boundary. Writes
// (STA/STX/STY) and read-modify-write ops always take the worst-case
// cycle count from the table instead, so they are deliberately excluded.
func pageCrossSensitive(o op) bool {
	switch o {
	case opADC, opAND, opCMP, opEOR, opLDA, opLDX, opLDY, opORA, opSBC:
		return true
	}
	return false
}
