package regs

import "sync"

// SimBank is an in-memory register file standing in for the hardware.
type SimBank struct {
	words []uint32
	lock  sync.RWMutex
}

// NewSimBank creates a zeroed SimBank covering the LED register file.
func NewSimBank() *SimBank {
	return &SimBank{words: make([]uint32, Span/4)}
}

// Read32 implements Bank.
func (b *SimBank) Read32(offset uint32) uint32 {
	checkOffset(offset, uint32(len(b.words))*4)
	b.lock.RLock()
	defer b.lock.RUnlock()
	return b.words[offset/4]
}

// Write32 implements Bank.
func (b *SimBank) Write32(offset, value uint32) {
	checkOffset(offset, uint32(len(b.words))*4)
	b.lock.Lock()
	b.words[offset/4] = value
	b.lock.Unlock()
}

// Close implements io.Closer.
func (b *SimBank) Close() error {
	return nil
}
