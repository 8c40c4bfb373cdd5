// Command handasm assembles a hand-written listing file into a flat
// binary image. Input lines look like:
//
//	XXXX OP A1 A2 ...
//
// where XXXX is a 4-hex-digit address (ignored - output is purely
// sequential from -offset) and the rest are hex byte values, one
// instruction's encoding per line. Useful for hand-authoring small test
// programs (page-cross cases, interrupt sequences) without a full
// assembler.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

var offset = flag.Int("offset", 0x0000, "Offset to start writing assembled data. Everything prior is zero filled.")

func main() {
	flag.Parse()
	if len(flag.Args()) != 2 {
		log.Fatalf("usage: %s <input> <output>", os.Args[0])
	}
	fn := flag.Args()[0]
	out := flag.Args()[1]

	b, err := exec.Command("/bin/sh", "-c",
		fmt.Sprintf(`egrep ^[0-9A-F][0-9A-F][0-9A-F][0-9A-F] %s | sed -e 's:\t.*$::' -e 's:(\*).*$::'| cut -c6-`, fn)).Output()
	if err != nil {
		log.Fatalf("can't process input %q: %v", fn, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(b))
	var output []byte
	for i := 0; i < *offset; i++ {
		output = append(output, 0x00)
	}
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		toks := strings.Split(text, " ")
		if len(toks) > 3 {
			log.Fatalf("invalid line %d: %q", line, text)
		}
		for _, v := range toks {
			val, err := strconv.ParseUint(v, 16, 8)
			if err != nil {
				log.Fatalf("can't parse line %d %q: %v", line, text, err)
			}
			output = append(output, byte(val))
		}
	}

	of, err := os.Create(out)
	if err != nil {
		log.Fatalf("can't open output %q: %v", out, err)
	}
	defer of.Close()
	n, err := of.Write(output)
	if err != nil {
		log.Fatalf("write to %q: %v", out, err)
	}
	if n != len(output) {
		log.Fatalf("short write to %q: wrote %d, want %d", out, n, len(output))
	}
}
