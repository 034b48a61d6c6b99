// Package regs provides access to the LED peripheral register file.
package regs

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Register offsets from the base address of the peripheral.
const (
	LED         uint32 = 0x00
	Direction   uint32 = 0x04
	ActiveCount uint32 = 0x08
	BlinkEnable uint32 = 0x0C

	// Span is the size in bytes of the register file.
	Span uint32 = 0x10
)

// DefaultBaseAddr is where the AXI LED IP is usually placed.
const DefaultBaseAddr uint64 = 0x43C00000

var (
	// ErrUnsupported indicates direct memory access isn't available.
	ErrUnsupported = errors.New("memory mapped registers unsupported on this platform")
	// ErrMisaligned indicates an address isn't 32-bit aligned.
	ErrMisaligned = errors.New("address not 32-bit aligned")
)

// Bank is a window of 32-bit registers.
// Accesses never fail: a bad offset is a bus fault and panics.
type Bank interface {
	// Read32 loads the register at offset.
	Read32(offset uint32) uint32
	// Write32 stores value into the register at offset.
	Write32(offset, value uint32)
}

// BankCloser is a Bank which must be released after use.
type BankCloser interface {
	Bank
	io.Closer
}

var names = map[uint32]string{
	LED:         "led",
	Direction:   "dir",
	ActiveCount: "count",
	BlinkEnable: "blink",
}

var aliases = map[string]uint32{
	"led":       LED,
	"dir":       Direction,
	"direction": Direction,
	"count":     ActiveCount,
	"non":       ActiveCount,
	"blink":     BlinkEnable,
}

// Offsets returns all register offsets in ascending order.
func Offsets() []uint32 {
	offsets := make([]uint32, 0, len(names))
	for off := range names {
		offsets = append(offsets, off)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	return offsets
}

// IsRegister tells if a register exists at offset.
func IsRegister(offset uint32) bool {
	_, ok := names[offset]
	return ok
}

// Name returns the short name of the register at offset.
func Name(offset uint32) string {
	if name, ok := names[offset]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", offset)
}

// ParseOffset accepts a register name or a numeric offset.
func ParseOffset(s string) (uint32, error) {
	if off, ok := aliases[strings.ToLower(s)]; ok {
		return off, nil
	}
	var off uint32
	if _, err := fmt.Sscan(s, &off); err != nil {
		return 0, fmt.Errorf("unknown register %q", s)
	}
	if !IsRegister(off) {
		return 0, fmt.Errorf("no register at offset 0x%02x", off)
	}
	return off, nil
}

func checkOffset(offset, span uint32) {
	if offset%4 != 0 {
		panic(fmt.Sprintf("register offset 0x%x: %v", offset, ErrMisaligned))
	}
	if offset >= span {
		panic(fmt.Sprintf("register offset 0x%x out of range", offset))
	}
}
