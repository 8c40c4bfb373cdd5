// Package memory defines the basic interfaces for working with a 6502
// family memory map. Since each implementation that is emulated has
// specific mappings (including shadowed regions) this is defined as an
// interface rather than a concrete type.
package memory

import (
	"fmt"
	"math/rand"
	"time"
)

// Bank is the memory contract the interpreter consumes. Both Read and
// Write are total: every address in 0x0000-0xFFFF must return or accept
// a value, and neither call has any visible side effect the interpreter
// needs to reason about.
type Bank interface {
	// Read returns the data byte stored at addr.
	Read(addr uint16) uint8
	// Write updates addr with the new value.
	Write(addr uint16, val uint8)
	// PowerOn performs a cold-start fill of the memory. Implementation
	// specific as to whether it's randomized or preset to all zeros.
	PowerOn()
	// Parent holds a reference (if non-nil) to the next level memory
	// controller. A chain of these can be created so a caller can walk
	// up to the outermost bank, e.g. to inspect shared databus state.
	Parent() Bank
	// DatabusVal returns the last value seen to go across the data bus.
	DatabusVal() uint8
}

// Faulting is optionally implemented by a Bank that wants to surface
// invalid accesses to the interpreter instead of always returning some
// best-effort value from Read/Write. The interpreter checks this after
// every access it makes and, if present and non-nil, wraps it as a
// MemoryFault rather than introducing any address validation of its own.
type Faulting interface {
	LastFault() error
}

// LatestDatabusVal hunts up a chain of Banks until it finds the outermost
// one and returns the DatabusVal from it.
func LatestDatabusVal(b Bank) uint8 {
	if b.Parent() != nil {
		return LatestDatabusVal(b.Parent())
	}
	return b.DatabusVal()
}

// ram implements a flat R/W interface to an address space. If this is
// mapped into a larger memory map it's up to a parent Bank to properly
// mask addr before calling Read/Write.
type ram struct {
	mem        []uint8
	parent     Bank
	databusVal uint8
}

// NewRAM creates a R/W RAM bank of the given size. size must be a power
// of 2 and no larger than 64k; addresses alias (wrap) beyond that.
func NewRAM(size int, parent Bank) (Bank, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("invalid size: %d must be a power of 2", size)
	}
	if size > 1<<16 {
		return nil, fmt.Errorf("invalid size: %d is bigger than 64k", size)
	}
	return &ram{
		mem:    make([]uint8, size),
		parent: parent,
	}, nil
}

// Read implements the interface for Bank. Address is clipped based on
// the length of the backing buffer.
func (r *ram) Read(addr uint16) uint8 {
	addr &= uint16(len(r.mem) - 1)
	val := r.mem[addr]
	r.databusVal = val
	return val
}

// Write implements the interface for Bank. Address is clipped based on
// the length of the backing buffer.
func (r *ram) Write(addr uint16, val uint8) {
	addr &= uint16(len(r.mem) - 1)
	r.databusVal = val
	r.mem[addr] = val
}

// PowerOn implements the interface for memory.Bank and randomizes the RAM,
// matching real hardware where contents are undefined at power on.
func (r *ram) PowerOn() {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range r.mem {
		r.mem[i] = uint8(rnd.Intn(256))
	}
}

// Parent implements the interface for returning a possible parent
// memory.Bank.
func (r *ram) Parent() Bank {
	return r.parent
}

// DatabusVal returns the most recently seen databus item.
func (r *ram) DatabusVal() uint8 {
	return r.databusVal
}
