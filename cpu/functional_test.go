package cpu

import (
	"os"
	"path/filepath"
	"testing"
)

const testDir = "../testdata"

// TestKlausDormannFunctional runs Klaus Dormann's 6502 functional test
// binary end to end. The ROM isn't checked into the repository (it's a
// multi-hundred-KB third-party binary); the test skips cleanly when
// testdata/6502_functional_test.bin isn't present locally.
func TestKlausDormannFunctional(t *testing.T) {
	path := filepath.Join(testDir, "6502_functional_test.bin")
	rom, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Skipf("skipping: %s not present", path)
	}
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	mem := &flatMemory{}
	for i, b := range rom {
		if i >= len(mem.mem) {
			break
		}
		mem.mem[i] = b
	}

	c, err := New(ChipConfig{Memory: mem})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.PC = 0x0400

	const successPC = 0x3469
	const maxInstructions = 100_000_000

	var lastPC uint16 = 0xFFFF
	for i := 0; i < maxInstructions; i++ {
		pc := c.PC
		if _, err := c.Step(); err != nil {
			t.Fatalf("Step at PC %.4X: %v", pc, err)
		}
		if c.PC == pc {
			// Trap loop: the test ROM jumps to itself on both
			// success and failure: success lands at successPC.
			if pc == successPC {
				return
			}
			t.Fatalf("CPU trapped at PC %.4X (expected success at %.4X)", pc, successPC)
		}
		lastPC = c.PC
	}
	t.Fatalf("did not halt within %d instructions, last PC %.4X", maxInstructions, lastPC)
}
