package memory

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	mm "modernc.org/memory"
)

// Mmap allocates from pages mapped directly from the operating system,
// outside the Go heap. It is the default provider.
//
// The underlying allocator is not goroutine-safe, so every Allocate/Free is
// serialized by a mutex.
type Mmap struct {
	host

	mu     sync.Mutex
	a      mm.Allocator
	sizes  map[uintptr]int // live block -> requested size
	stats  Stats
	closed bool
}

// NewMmap returns an empty mmap-backed provider.
func NewMmap() *Mmap {
	return &Mmap{sizes: make(map[uintptr]int)}
}

// Allocate returns the address of size zeroed bytes.
func (m *Mmap) Allocate(size int) (uintptr, error) {
	if err := checkSize(size); err != nil {
		return 0, err
	}
	if size == 0 {
		return 0, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}

	p, err := m.a.UintptrCalloc(size)
	if err != nil {
		Logger().Warn("mmap allocation failed", zap.Int("size", size), zap.Error(err))
		return 0, fmt.Errorf("memory: mmap calloc %d bytes: %w", size, err)
	}
	m.sizes[p] = size
	m.stats.onAlloc(size, mm.UintptrUsableSize(p))
	Logger().Debug("mmap allocate", zap.Uintptr("addr", p), zap.Int("size", size))
	return p, nil
}

// Free releases a block returned by Allocate.
func (m *Mmap) Free(addr uintptr) error {
	if addr == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	size, ok := m.sizes[addr]
	if !ok {
		return fmt.Errorf("%w: %#x", ErrUnknownAddress, addr)
	}
	reserved := mm.UintptrUsableSize(addr)
	if err := m.a.UintptrFree(addr); err != nil {
		return fmt.Errorf("memory: mmap free %#x: %w", addr, err)
	}
	delete(m.sizes, addr)
	m.stats.onFree(size, reserved)
	Logger().Debug("mmap free", zap.Uintptr("addr", addr), zap.Int("size", size))
	return nil
}

// Stats returns a snapshot of the allocation counters.
func (m *Mmap) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Close unmaps every page still held by the provider, live blocks included.
// Any subsequent Allocate or Free returns ErrClosed.
func (m *Mmap) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	if n := len(m.sizes); n > 0 {
		Logger().Warn("mmap provider closed with live blocks", zap.Int("live", n))
	}
	m.sizes = nil
	m.stats.LiveAllocs, m.stats.BytesInUse, m.stats.Capacity = 0, 0, 0
	return m.a.Close()
}
