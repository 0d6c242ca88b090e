package memory

// arena is a bump allocator over a single growable address space, such as
// a WebAssembly linear memory. Offsets are handed out sequentially with
// Align alignment; when the space is exhausted it is extended through grow.
//
// Individual blocks cannot be returned to the middle of the space. release
// rewinds the bump pointer when the freed block is the most recent one, and
// reset rewinds to the start once nothing is live.
type arena struct {
	base   uintptr // first usable offset; offset 0 stays reserved as "no block"
	offset uintptr // next free offset
	limit  uintptr // end of the address space

	// grow extends the address space to hold at least min bytes and returns
	// the new limit, or false when the space cannot grow that far.
	grow func(min uintptr) (uintptr, bool)
}

func newArena(base, limit uintptr, grow func(uintptr) (uintptr, bool)) *arena {
	base = alignUp(base)
	return &arena{base: base, offset: base, limit: limit, grow: grow}
}

// alloc returns the offset of n bytes, growing the space if needed.
func (a *arena) alloc(n int) (uintptr, bool) {
	off := alignUp(a.offset)
	end := off + uintptr(n)
	if end < off {
		return 0, false
	}

	// Fast path: fits in the current space
	if end <= a.limit {
		a.offset = end
		return off, true
	}

	// Slow path: extend the space
	limit, ok := a.grow(end)
	if !ok || end > limit {
		return 0, false
	}
	a.limit = limit
	a.offset = end
	return off, true
}

// release rewinds the bump pointer if [off, off+n) is the top block.
func (a *arena) release(off uintptr, n int) {
	if off+uintptr(n) == a.offset {
		a.offset = off
	}
}

// reset rewinds the bump pointer to the start but keeps the grown space
// for reuse.
func (a *arena) reset() {
	a.offset = a.base
}

// sizeInUse returns the number of bytes between base and the bump pointer,
// including alignment padding and holes left by non-top frees.
func (a *arena) sizeInUse() int {
	return int(a.offset - a.base)
}

// capacity returns the usable size of the address space.
func (a *arena) capacity() int {
	return int(a.limit - a.base)
}
