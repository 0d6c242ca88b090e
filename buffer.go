package offheap

import "iter"

// Buffer is an owning array of T in provider memory. It is the only handle
// that may Free its allocation. Views taken from it share its memory and
// become unusable once it is freed.
//
// A Buffer is not safe for concurrent mutation.
type Buffer[T Element] struct {
	r *region
	n int
}

// Len returns the number of elements.
func (b *Buffer[T]) Len() int {
	return b.n
}

// Get returns the element at i. It panics if i is out of range or the
// buffer was freed.
func (b *Buffer[T]) Get(i int) T {
	b.mustLive("get")
	if indexOutOfRange(i, b.n) {
		panic(indexError("get", ElemName[T](), i, b.n))
	}
	return b.load(i)
}

// Set stores v at i. It panics if i is out of range or the buffer was freed.
func (b *Buffer[T]) Set(i int, v T) {
	b.mustLive("set")
	if indexOutOfRange(i, b.n) {
		panic(indexError("set", ElemName[T](), i, b.n))
	}
	b.store(i, v)
}

// Clear zeroes every element.
func (b *Buffer[T]) Clear() {
	b.mustLive("clear")
	zeroFill(b.r.p, b.r.addr, b.n*Width[T]())
}

// Slice returns a view of [from, from+n).
func (b *Buffer[T]) Slice(from, n int) (View[T], error) {
	if b.r.freed {
		return View[T]{}, freedError("slice", ElemName[T]())
	}
	if outOfRange(from, n, b.n) {
		return View[T]{}, rangeError("slice", ElemName[T](), from, n, b.n)
	}
	return View[T]{root: b, off: from, n: n}, nil
}

// Duplicate returns a new Buffer holding a copy of [from, from+n).
func (b *Buffer[T]) Duplicate(from, n int) (Array[T], error) {
	d, err := b.duplicate(from, n)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (b *Buffer[T]) duplicate(from, n int) (*Buffer[T], error) {
	if b.r.freed {
		return nil, freedError("duplicate", ElemName[T]())
	}
	if outOfRange(from, n, b.n) {
		return nil, rangeError("duplicate", ElemName[T](), from, n, b.n)
	}
	d, err := NewBuffer[T](b.r.p, n)
	if err != nil {
		return nil, err
	}
	b.r.p.Copy(b.addr(from), d.r.addr, n*Width[T]())
	return d, nil
}

// Iterator returns a fresh forward cursor over the elements.
func (b *Buffer[T]) Iterator() *Iterator[T] {
	return newIterator[T](b)
}

// All returns an iterator over index/value pairs.
func (b *Buffer[T]) All() iter.Seq2[int, T] {
	return all[T](b)
}

// Free releases the backing memory. Every view of the buffer becomes
// unusable. Freeing twice returns an error of kind KindFreed.
func (b *Buffer[T]) Free() error {
	if b.r.freed {
		return freedError("free", ElemName[T]())
	}
	if err := b.r.p.Free(b.r.addr); err != nil {
		return &Error{Op: "free", Kind: KindAllocation, Elem: ElemName[T](), Cause: err}
	}
	b.r.freed = true
	b.r.addr = 0
	return nil
}

// MemoryAddress returns the base address of the allocation, or 0 once freed.
func (b *Buffer[T]) MemoryAddress() uintptr {
	return b.r.addr
}

// Freed reports whether Free has been called.
func (b *Buffer[T]) Freed() bool {
	return b.r.freed
}

func (b *Buffer[T]) mustLive(op string) {
	if b.r.freed {
		panic(freedError(op, ElemName[T]()))
	}
}

// addr returns the address of element i. No bounds check.
func (b *Buffer[T]) addr(i int) uintptr {
	return b.r.addr + uintptr(i*Width[T]())
}

// load and store skip every check; callers validate first.
func (b *Buffer[T]) load(i int) T {
	return load[T](b.r.p, b.addr(i))
}

func (b *Buffer[T]) store(i int, v T) {
	store(b.r.p, b.addr(i), v)
}
