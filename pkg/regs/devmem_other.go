// +build !linux

package regs

// DevMem is unavailable on this platform.
type DevMem struct{}

// OpenDevMem always fails with ErrUnsupported.
func OpenDevMem(path string, base uint64) (*DevMem, error) {
	return nil, ErrUnsupported
}

// Read32 implements Bank.
func (d *DevMem) Read32(offset uint32) uint32 { panic(ErrUnsupported) }

// Write32 implements Bank.
func (d *DevMem) Write32(offset, value uint32) { panic(ErrUnsupported) }

// Close implements io.Closer.
func (d *DevMem) Close() error { return nil }
