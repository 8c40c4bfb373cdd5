// Command functest runs a flat 6502 test-ROM image to completion and
// reports success or failure based on where execution traps. It
// generalizes the hardcoded Klaus Dormann functional-test runner into
// flags so any similarly-shaped conformance ROM (success/failure
// self-jump, known success PC) can be driven the same way.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sixtwofive/emu6502/cpu"
	"github.com/sixtwofive/emu6502/memory"
)

var (
	romPath   = flag.String("rom", "", "Path to the flat binary test ROM (required)")
	loadAddr  = flag.Uint("load_addr", 0x0000, "Address to load the ROM image at")
	startPC   = flag.Uint("start_pc", 0x0400, "PC to begin execution at")
	successPC = flag.Uint("success_pc", 0x3469, "PC the ROM traps at on success")
	maxInst   = flag.Uint64("max_instructions", 100_000_000, "Abort if this many instructions execute without trapping")
	verbose   = flag.Bool("verbose", false, "Log every 1,000,000 instructions executed")
)

func main() {
	flag.Parse()
	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "-rom is required")
		os.Exit(2)
	}

	data, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("can't read rom: %v", err)
	}

	bank, err := memory.NewRAM(1<<16, nil)
	if err != nil {
		log.Fatalf("can't create memory: %v", err)
	}
	for i, b := range data {
		bank.Write(uint16(*loadAddr)+uint16(i), b)
	}

	chip, err := cpu.New(cpu.ChipConfig{Memory: bank})
	if err != nil {
		log.Fatalf("can't create cpu: %v", err)
	}
	chip.PC = uint16(*startPC)

	var totalCycles uint64
	var instructions uint64
	for ; instructions < *maxInst; instructions++ {
		pc := chip.GetPC()
		cycles, err := chip.Step()
		if err != nil {
			log.Fatalf("step error at PC %.4X after %d instructions: %v", pc, instructions, err)
		}
		totalCycles += uint64(cycles)

		if chip.GetPC() == pc {
			if pc == uint16(*successPC) {
				fmt.Printf("PASS: trapped at success PC %.4X after %d instructions, %d cycles\n", pc, instructions+1, totalCycles)
				return
			}
			log.Fatalf("FAIL: trapped at PC %.4X (expected success at %.4X) after %d instructions, %d cycles",
				pc, *successPC, instructions+1, totalCycles)
		}
		if *verbose && instructions%1_000_000 == 0 && instructions > 0 {
			log.Printf("%d instructions, PC=%.4X", instructions, chip.GetPC())
		}
	}
	log.Fatalf("FAIL: did not trap within %d instructions", *maxInst)
}
