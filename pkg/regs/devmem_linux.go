// +build linux

package regs

import (
	"fmt"
	"os"
	"sync/atomic"
	"syscall"
	"unsafe"
)

// DevMem maps the register file from /dev/mem.
type DevMem struct {
	file  *os.File
	mem   []byte
	words []uint32
	// index of the first register word within words.
	first uint32
}

// OpenDevMem maps the register file located at physical address base.
func OpenDevMem(path string, base uint64) (*DevMem, error) {
	if base%4 != 0 {
		return nil, fmt.Errorf("base 0x%x: %v", base, ErrMisaligned)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v", path, err)
	}
	pageSize := uint64(os.Getpagesize())
	pageBase := base &^ (pageSize - 1)
	delta := base - pageBase
	length := (delta + uint64(Span) + pageSize - 1) &^ (pageSize - 1)
	mem, err := syscall.Mmap(int(f.Fd()), int64(pageBase), int(length),
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap 0x%x at %s: %v", pageBase, path, err)
	}
	n := len(mem) / 4
	words := (*[1 << 28]uint32)(unsafe.Pointer(&mem[0]))[:n:n]
	return &DevMem{
		file:  f,
		mem:   mem,
		words: words,
		first: uint32(delta / 4),
	}, nil
}

// Read32 implements Bank.
func (d *DevMem) Read32(offset uint32) uint32 {
	checkOffset(offset, Span)
	return atomic.LoadUint32(&d.words[d.first+offset/4])
}

// Write32 implements Bank.
func (d *DevMem) Write32(offset, value uint32) {
	checkOffset(offset, Span)
	atomic.StoreUint32(&d.words[d.first+offset/4], value)
}

// Close unmaps the registers.
func (d *DevMem) Close() error {
	d.words = nil
	err := syscall.Munmap(d.mem)
	if e := d.file.Close(); err == nil {
		err = e
	}
	return err
}
