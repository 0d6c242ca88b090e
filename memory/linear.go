package memory

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// PageSize is the WebAssembly page size.
const PageSize = 1 << 16

// DefaultLinearMaxPages caps a Linear provider at 1 GiB unless configured
// otherwise.
const DefaultLinearMaxPages = 1 << 14

// linearModule is a module with no code that defines and exports a single
// memory of one initial page and no declared maximum.
var linearModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version 1
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: one memory, min 1 page
	0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00, // export "memory"
}

// Linear allocates inside a WebAssembly linear memory owned by a private
// wazero runtime. Addresses are offsets into that memory, so arrays built
// on it can be handed to guest code that imports the memory returned by
// Memory.
//
// Blocks are bump allocated; see arena for the reuse rules. Growing the
// memory may move its backing buffer, so Allocate must not run
// concurrently with loads and stores.
type Linear struct {
	mu     sync.Mutex
	rt     wazero.Runtime
	mem    api.Memory
	arena  *arena
	live   map[uintptr]int
	stats  Stats
	closed bool
}

// NewLinear instantiates a fresh linear memory limited to maxPages pages.
// If maxPages is 0, DefaultLinearMaxPages is used.
func NewLinear(ctx context.Context, maxPages uint32) (*Linear, error) {
	if maxPages == 0 {
		maxPages = DefaultLinearMaxPages
	}
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithMemoryLimitPages(maxPages))
	mod, err := rt.Instantiate(ctx, linearModule)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("memory: instantiate linear memory: %w", err)
	}
	mem := mod.Memory()
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("memory: linear module defines no memory")
	}

	l := &Linear{rt: rt, mem: mem, live: make(map[uintptr]int)}
	l.arena = newArena(Align, uintptr(mem.Size()), l.grow)
	l.stats.Capacity = l.arena.capacity()
	return l, nil
}

// Memory returns the underlying linear memory.
func (l *Linear) Memory() api.Memory {
	return l.mem
}

func (l *Linear) grow(min uintptr) (uintptr, bool) {
	cur := uintptr(l.mem.Size())
	if min <= cur {
		return cur, true
	}
	pages := (min - cur + PageSize - 1) / PageSize
	if pages > math.MaxUint32 {
		return 0, false
	}
	if _, ok := l.mem.Grow(uint32(pages)); !ok {
		return 0, false
	}
	return uintptr(l.mem.Size()), true
}

// Allocate returns the offset of size zeroed bytes.
func (l *Linear) Allocate(size int) (uintptr, error) {
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

	off, ok := l.arena.alloc(size)
	if !ok {
		Logger().Warn("linear memory exhausted",
			zap.Int("size", size),
			zap.Int("in_use", l.arena.sizeInUse()),
			zap.Int("capacity", l.arena.capacity()))
		return 0, fmt.Errorf("%w: %d bytes in linear memory of %d pages", ErrTooLarge, size, l.mem.Size()/PageSize)
	}
	// Space below the bump pointer may be reused after a rewind.
	b, _ := l.mem.Read(uint32(off), uint32(size))
	clear(b)

	l.live[off] = size
	l.stats.Allocs++
	l.stats.LiveAllocs++
	l.stats.BytesInUse += size
	l.stats.Capacity = l.arena.capacity()
	Logger().Debug("linear allocate",
		zap.Uintptr("addr", off),
		zap.Int("size", size),
		zap.Int("in_use", l.arena.sizeInUse()))
	return off, nil
}

// Free releases a block returned by Allocate.
func (l *Linear) Free(addr uintptr) error {
	if addr == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}

	size, ok := l.live[addr]
	if !ok {
		return fmt.Errorf("%w: %#x", ErrUnknownAddress, addr)
	}
	delete(l.live, addr)
	l.arena.release(addr, size)
	if len(l.live) == 0 {
		l.arena.reset()
	}
	l.stats.Frees++
	l.stats.LiveAllocs--
	l.stats.BytesInUse -= size
	return nil
}

// Stats returns a snapshot of the allocation counters.
func (l *Linear) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Close shuts down the runtime, releasing the linear memory.
func (l *Linear) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	l.live = nil
	l.stats.LiveAllocs, l.stats.BytesInUse, l.stats.Capacity = 0, 0, 0
	return l.rt.Close(context.Background())
}

func (l *Linear) Load8(addr uintptr) uint8 {
	v, ok := l.mem.ReadByte(uint32(addr))
	if !ok {
		panic(outOfRange(addr, 1))
	}
	return v
}

func (l *Linear) Load16(addr uintptr) uint16 {
	v, ok := l.mem.ReadUint16Le(uint32(addr))
	if !ok {
		panic(outOfRange(addr, 2))
	}
	return v
}

func (l *Linear) Load32(addr uintptr) uint32 {
	v, ok := l.mem.ReadUint32Le(uint32(addr))
	if !ok {
		panic(outOfRange(addr, 4))
	}
	return v
}

func (l *Linear) Load64(addr uintptr) uint64 {
	v, ok := l.mem.ReadUint64Le(uint32(addr))
	if !ok {
		panic(outOfRange(addr, 8))
	}
	return v
}

func (l *Linear) Store8(addr uintptr, v uint8) {
	if !l.mem.WriteByte(uint32(addr), v) {
		panic(outOfRange(addr, 1))
	}
}

func (l *Linear) Store16(addr uintptr, v uint16) {
	if !l.mem.WriteUint16Le(uint32(addr), v) {
		panic(outOfRange(addr, 2))
	}
}

func (l *Linear) Store32(addr uintptr, v uint32) {
	if !l.mem.WriteUint32Le(uint32(addr), v) {
		panic(outOfRange(addr, 4))
	}
}

func (l *Linear) Store64(addr uintptr, v uint64) {
	if !l.mem.WriteUint64Le(uint32(addr), v) {
		panic(outOfRange(addr, 8))
	}
}

// Copy copies n bytes between two offsets of the linear memory.
func (l *Linear) Copy(src, dst uintptr, n int) {
	if n <= 0 {
		return
	}
	b, ok := l.mem.Read(uint32(src), uint32(n))
	if !ok {
		panic(outOfRange(src, n))
	}
	if !l.mem.Write(uint32(dst), b) {
		panic(outOfRange(dst, n))
	}
}

func outOfRange(addr uintptr, n int) string {
	return fmt.Sprintf("memory: linear access out of range: addr=%#x width=%d", addr, n)
}
