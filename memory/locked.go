package memory

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/awnumar/memguard"
	"go.uber.org/zap"
)

// Locked allocates every block as its own memguard LockedBuffer: the pages
// are mlocked so they never reach swap, surrounded by guard pages, and
// wiped when freed.
//
// Each block costs at least three pages, so Locked suits a small number of
// sensitive arrays rather than many small ones. The process must have a
// sufficient RLIMIT_MEMLOCK.
type Locked struct {
	host

	mu     sync.Mutex
	bufs   map[uintptr]lockedBlock
	stats  Stats
	closed bool
}

type lockedBlock struct {
	buf  *memguard.LockedBuffer
	size int
}

// NewLocked returns an empty mlock-backed provider.
func NewLocked() *Locked {
	return &Locked{bufs: make(map[uintptr]lockedBlock)}
}

// Allocate returns the address of size zeroed, locked bytes.
func (l *Locked) Allocate(size int) (uintptr, error) {
	if err := checkSize(size); err != nil {
		return 0, err
	}
	if size == 0 {
		return 0, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, ErrClosed
	}

	// memguard places the data flush against the trailing guard page, so a
	// size rounded to Align keeps the start aligned too.
	reserved := int(alignUp(uintptr(size)))
	buf := memguard.NewBuffer(reserved)
	if buf == nil || !buf.IsAlive() {
		Logger().Warn("locked allocation failed", zap.Int("size", size))
		return 0, fmt.Errorf("memory: failed to allocate locked buffer of %d bytes", size)
	}
	buf.Melt()

	b := buf.Bytes()
	addr := uintptr(unsafe.Pointer(&b[0]))
	l.bufs[addr] = lockedBlock{buf: buf, size: size}
	l.stats.onAlloc(size, buf.Size())
	return addr, nil
}

// Free wipes and releases a block returned by Allocate.
func (l *Locked) Free(addr uintptr) error {
	if addr == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}

	blk, ok := l.bufs[addr]
	if !ok {
		return fmt.Errorf("%w: %#x", ErrUnknownAddress, addr)
	}
	reserved := blk.buf.Size()
	blk.buf.Destroy()
	delete(l.bufs, addr)
	l.stats.onFree(blk.size, reserved)
	return nil
}

// Stats returns a snapshot of the allocation counters.
func (l *Locked) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Close destroys every live block.
func (l *Locked) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	for addr, blk := range l.bufs {
		blk.buf.Destroy()
		delete(l.bufs, addr)
	}
	l.stats.LiveAllocs, l.stats.BytesInUse, l.stats.Capacity = 0, 0, 0
	return nil
}
