// Package memory provides the raw, manually managed memory that offheap
// arrays are built on.
//
// A [Provider] hands out zeroed, 8-byte aligned blocks identified by an
// address, and performs width-typed loads and stores at addresses inside
// those blocks. Addresses are only meaningful to the Provider that issued
// them. Nothing here is tracked by the Go garbage collector: every block
// must be returned with Free, or reclaimed in bulk by Close.
package memory

import (
	"errors"
	"math"
	"unsafe"
)

var (
	// ErrUnknownAddress is returned by Free for an address the provider did
	// not issue, or one that was already freed.
	ErrUnknownAddress = errors.New("memory: unknown address")

	// ErrClosed is returned by operations on a closed provider.
	ErrClosed = errors.New("memory: provider closed")

	// ErrTooLarge is returned when a request cannot be satisfied by the
	// backing address space.
	ErrTooLarge = errors.New("memory: allocation too large")
)

// Align is the alignment of every address returned by Allocate.
const Align = 8

// Provider is the low level memory primitive: allocate/free plus typed
// load/store at an address.
//
// Allocate, Free, Stats and Close are safe for concurrent use. Loads,
// stores and copies are not synchronized.
type Provider interface {
	// Allocate returns the address of size zeroed bytes. A zero size
	// returns address 0 and allocates nothing.
	Allocate(size int) (uintptr, error)
	// Free releases a block returned by Allocate. Freeing address 0 is a no-op.
	Free(addr uintptr) error

	Load8(addr uintptr) uint8
	Load16(addr uintptr) uint16
	Load32(addr uintptr) uint32
	Load64(addr uintptr) uint64

	Store8(addr uintptr, v uint8)
	Store16(addr uintptr, v uint16)
	Store32(addr uintptr, v uint32)
	Store64(addr uintptr, v uint64)

	// Copy copies n bytes from src to dst. The ranges must not overlap.
	Copy(src, dst uintptr, n int)

	Stats() Stats
	Close() error
}

// Stats is a snapshot of a provider's allocation counters.
type Stats struct {
	Allocs     uint64 // Successful Allocate calls with a non-zero size
	Frees      uint64 // Successful Free calls with a non-zero address
	LiveAllocs int    // Blocks currently allocated
	BytesInUse int    // Bytes requested by live blocks
	Capacity   int    // Bytes reserved from the backing store
}

func (s *Stats) onAlloc(size, reserved int) {
	s.Allocs++
	s.LiveAllocs++
	s.BytesInUse += size
	s.Capacity += reserved
}

func (s *Stats) onFree(size, reserved int) {
	s.Frees++
	s.LiveAllocs--
	s.BytesInUse -= size
	s.Capacity -= reserved
}

// host implements the load/store half of Provider for addresses that are
// real pointers into this process, i.e. memory mapped outside the Go heap.
type host struct{}

func (host) Load8(addr uintptr) uint8   { return *(*uint8)(unsafe.Pointer(addr)) }
func (host) Load16(addr uintptr) uint16 { return *(*uint16)(unsafe.Pointer(addr)) }
func (host) Load32(addr uintptr) uint32 { return *(*uint32)(unsafe.Pointer(addr)) }
func (host) Load64(addr uintptr) uint64 { return *(*uint64)(unsafe.Pointer(addr)) }

func (host) Store8(addr uintptr, v uint8)   { *(*uint8)(unsafe.Pointer(addr)) = v }
func (host) Store16(addr uintptr, v uint16) { *(*uint16)(unsafe.Pointer(addr)) = v }
func (host) Store32(addr uintptr, v uint32) { *(*uint32)(unsafe.Pointer(addr)) = v }
func (host) Store64(addr uintptr, v uint64) { *(*uint64)(unsafe.Pointer(addr)) = v }

func (host) Copy(src, dst uintptr, n int) {
	if n <= 0 {
		return
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(dst)), n), unsafe.Slice((*byte)(unsafe.Pointer(src)), n))
}

// checkSize validates an Allocate request.
func checkSize(size int) error {
	if size < 0 || size > math.MaxInt-Align {
		return ErrTooLarge
	}
	return nil
}

// alignUp rounds off up to the next multiple of Align.
func alignUp(off uintptr) uintptr {
	const mask = Align - 1
	return (off + mask) &^ mask
}
