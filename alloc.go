package offheap

import (
	"math"
	"unsafe"

	"github.com/pavanmanishd/offheap/memory"
)

// region is one provider allocation, shared by its owning Buffer and every
// View derived from it.
type region struct {
	p     memory.Provider
	addr  uintptr
	size  int // bytes
	freed bool
}

// NewBuffer allocates an untracked array of n zeroed elements from p.
// The caller owns the result and must Free it.
//
// Most callers want New, which also registers the array with a leak
// detector.
func NewBuffer[T Element](p memory.Provider, n int) (*Buffer[T], error) {
	if n < 0 {
		return nil, &Error{Op: "new", Kind: KindOutOfBounds, Elem: ElemName[T](), Len: n, Detail: "negative length"}
	}
	w := Width[T]()
	if n > (math.MaxInt-memory.Align)/w {
		return nil, &Error{Op: "new", Kind: KindAllocation, Elem: ElemName[T](), Len: n, Cause: memory.ErrTooLarge}
	}
	addr, err := p.Allocate(n * w)
	if err != nil {
		return nil, &Error{Op: "new", Kind: KindAllocation, Elem: ElemName[T](), Len: n, Cause: err}
	}
	return &Buffer[T]{r: &region{p: p, addr: addr, size: n * w}, n: n}, nil
}

// load reads the T at addr through the provider primitive of T's width.
func load[T Element](p memory.Provider, addr uintptr) T {
	var v T
	switch unsafe.Sizeof(v) {
	case 1:
		x := p.Load8(addr)
		v = *(*T)(unsafe.Pointer(&x))
	case 2:
		x := p.Load16(addr)
		v = *(*T)(unsafe.Pointer(&x))
	case 4:
		x := p.Load32(addr)
		v = *(*T)(unsafe.Pointer(&x))
	case 8:
		x := p.Load64(addr)
		v = *(*T)(unsafe.Pointer(&x))
	}
	return v
}

// store writes v at addr through the provider primitive of T's width.
func store[T Element](p memory.Provider, addr uintptr, v T) {
	switch unsafe.Sizeof(v) {
	case 1:
		p.Store8(addr, *(*uint8)(unsafe.Pointer(&v)))
	case 2:
		p.Store16(addr, *(*uint16)(unsafe.Pointer(&v)))
	case 4:
		p.Store32(addr, *(*uint32)(unsafe.Pointer(&v)))
	case 8:
		p.Store64(addr, *(*uint64)(unsafe.Pointer(&v)))
	}
}
