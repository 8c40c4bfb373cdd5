// Command disasm loads a flat binary image and disassembles it to
// stdout starting at -start_pc, continuing until the loaded bytes are
// exhausted.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sixtwofive/emu6502/disassemble"
	"github.com/sixtwofive/emu6502/memory"
)

var (
	startPC = flag.Int("start_pc", 0x0000, "PC value to start disassembling at")
	offset  = flag.Int("offset", 0x0000, "Offset into RAM to load the file at; everything else reads as zero")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("usage: %s [-start_pc <pc>] [-offset <offset>] <filename>", os.Args[0])
	}
	fn := flag.Args()[0]

	bank, err := memory.NewRAM(1<<16, nil)
	if err != nil {
		log.Fatalf("can't create memory: %v", err)
	}

	data, err := os.ReadFile(fn)
	if err != nil {
		log.Fatalf("can't read %q: %v", fn, err)
	}
	max := 1<<16 - *offset
	if l := len(data); l > max {
		log.Printf("length %d at offset %d too long, truncating to 64k", l, *offset)
		data = data[:max]
	}
	for i, b := range data {
		bank.Write(uint16(*offset+i), b)
	}

	fmt.Printf("0x%.2X bytes at PC %.4X\n", len(data), *startPC)
	pc := uint16(*startPC)
	count := 0
	for count < len(data) {
		text, size := disassemble.Step(pc, bank)
		pc += uint16(size)
		count += size
		fmt.Println(text)
	}
}
