// Package disassemble renders 6502 opcodes as human-readable assembly
// text, reading operand bytes directly out of a memory.Bank. It shares
// the cpu package's decode table (via Mnemonic/Size/ModeName) rather
// than keeping its own copy of the instruction set, so disassembly can
// never drift from what Step actually executes.
package disassemble

import (
	"fmt"

	"github.com/sixtwofive/emu6502/cpu"
	"github.com/sixtwofive/emu6502/memory"
)

// Step disassembles the instruction at pc, returning its text rendering
// and the number of bytes the caller should advance pc to reach the
// next instruction. It does not interpret the instruction, so a JMP
// target is never followed: LDA, JMP, LDA in memory disassembles as
// that literal sequence. This always reads at least one byte past pc,
// so pc+2 must be a valid address even for one-byte instructions.
func Step(pc uint16, bank memory.Bank) (string, int) {
	opcode := bank.Read(pc)
	operand1 := bank.Read(pc + 1)
	operand2 := bank.Read(pc + 2)

	mnemonic := cpu.Mnemonic(opcode)
	size := cpu.Size(opcode)
	modeText := cpu.ModeName(opcode)

	out := fmt.Sprintf("%.4X %.2X ", pc, opcode)
	switch modeText {
	case "imm":
		out += fmt.Sprintf("%.2X      %s #%.2X       ", operand1, mnemonic, operand1)
	case "zp":
		out += fmt.Sprintf("%.2X      %s %.2X        ", operand1, mnemonic, operand1)
	case "zp,x":
		out += fmt.Sprintf("%.2X      %s %.2X,X      ", operand1, mnemonic, operand1)
	case "zp,y":
		out += fmt.Sprintf("%.2X      %s %.2X,Y      ", operand1, mnemonic, operand1)
	case "(ind,x)":
		out += fmt.Sprintf("%.2X      %s (%.2X,X)    ", operand1, mnemonic, operand1)
	case "(ind),y":
		out += fmt.Sprintf("%.2X      %s (%.2X),Y    ", operand1, mnemonic, operand1)
	case "abs":
		out += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X      ", operand1, operand2, mnemonic, operand2, operand1)
	case "abs,x":
		out += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X,X    ", operand1, operand2, mnemonic, operand2, operand1)
	case "abs,y":
		out += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X,Y    ", operand1, operand2, mnemonic, operand2, operand1)
	case "ind":
		out += fmt.Sprintf("%.2X %.2X   %s (%.2X%.2X)    ", operand1, operand2, mnemonic, operand2, operand1)
	case "acc":
		out += fmt.Sprintf("        %s A         ", mnemonic)
	case "rel":
		disp := int16(int8(operand1))
		target := uint16(int32(pc) + 2 + int32(disp))
		out += fmt.Sprintf("%.2X      %s %.2X (%.4X) ", operand1, mnemonic, operand1, target)
	default: // impl
		out += fmt.Sprintf("        %s           ", mnemonic)
	}
	return out, size
}
