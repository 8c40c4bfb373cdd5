// Command wraptest wraps a raw machine-code blob into a runnable 64k
// test image: it loads the blob at -load_addr, synthesizes a one-shot
// JSR to -start_pc followed by a jump to a self-trapping halt loop, and
// points NMI/RESET/IRQ all at that JSR stub so an interpreter running the
// image traps cleanly instead of fetching garbage once the payload
// finishes. Useful for turning a short hand-assembled snippet (see
// cmd/handasm) into something cmd/functest or cmd/monitor can load
// directly.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/sixtwofive/emu6502/cpu"
)

const (
	haltAddr = uint16(0xC000) // JMP haltAddr - an infinite loop
	stubAddr = uint16(0xD000) // JSR startPC; JMP haltAddr
)

var (
	loadAddr = flag.Uint("load_addr", 0x0200, "Address to load the raw payload at")
	startPC  = flag.Uint("start_pc", 0x0200, "Address the stub JSRs to after loading")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("usage: %s [-load_addr <addr>] [-start_pc <addr>] <input>", os.Args[0])
	}
	if *startPC > 0xFFFF || *loadAddr > 0xFFFF {
		log.Fatal("addresses must fit in 16 bits")
	}

	payload, err := os.ReadFile(os.Args[len(os.Args)-1])
	if err != nil {
		log.Fatalf("can't read %q: %v", os.Args[len(os.Args)-1], err)
	}
	if int(*loadAddr)+len(payload) > 1<<16 {
		log.Fatalf("payload of %d bytes at 0x%.4X overflows the 64k address space", len(payload), *loadAddr)
	}

	out := make([]byte, 1<<16)
	copy(out[*loadAddr:], payload)

	out[haltAddr] = 0x4C // JMP haltAddr
	out[haltAddr+1] = byte(haltAddr & 0xFF)
	out[haltAddr+2] = byte(haltAddr >> 8)

	out[stubAddr] = 0x20 // JSR startPC
	out[stubAddr+1] = byte(*startPC)
	out[stubAddr+2] = byte(*startPC >> 8)
	out[stubAddr+3] = 0x4C // JMP haltAddr
	out[stubAddr+4] = byte(haltAddr & 0xFF)
	out[stubAddr+5] = byte(haltAddr >> 8)

	for _, vector := range []uint16{cpu.NMIVector, cpu.ResetVector, cpu.IRQVector} {
		out[vector] = byte(stubAddr & 0xFF)
		out[vector+1] = byte(stubAddr >> 8)
	}

	outName := os.Args[len(os.Args)-1] + ".bin"
	if err := os.WriteFile(outName, out, 0o644); err != nil {
		log.Fatalf("can't write %q: %v", outName, err)
	}
	log.Printf("wrote %s: payload 0x%.4X-0x%.4X, stub at 0x%.4X, halt loop at 0x%.4X",
		outName, *loadAddr, int(*loadAddr)+len(payload), stubAddr, haltAddr)
}
