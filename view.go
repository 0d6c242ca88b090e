package offheap

import "iter"

// View is a non-owning window over [off, off+n) of a root Buffer. Views of
// views are flattened: root is always the owning Buffer and off is the
// cumulative offset, so access costs the same at any slicing depth.
//
// Writes through a view are immediately visible through the owner and every
// other overlapping view. A View cannot free memory and becomes unusable
// once its root is freed.
type View[T Element] struct {
	root *Buffer[T]
	off  int
	n    int
}

// Len returns the number of elements in the view.
func (v View[T]) Len() int {
	return v.n
}

// Get returns element i of the view.
func (v View[T]) Get(i int) T {
	v.root.mustLive("get")
	if indexOutOfRange(i, v.n) {
		panic(indexError("get", ElemName[T](), i, v.n))
	}
	return v.root.load(v.off + i)
}

// Set stores x at element i of the view.
func (v View[T]) Set(i int, x T) {
	v.root.mustLive("set")
	if indexOutOfRange(i, v.n) {
		panic(indexError("set", ElemName[T](), i, v.n))
	}
	v.root.store(v.off+i, x)
}

// Clear zeroes the elements of the view and nothing outside it.
func (v View[T]) Clear() {
	v.root.mustLive("clear")
	zeroFill(v.root.r.p, v.root.addr(v.off), v.n*Width[T]())
}

// Slice returns a view of [from, from+n) relative to this view.
func (v View[T]) Slice(from, n int) (View[T], error) {
	if v.root.r.freed {
		return View[T]{}, freedError("slice", ElemName[T]())
	}
	if outOfRange(from, n, v.n) {
		return View[T]{}, rangeError("slice", ElemName[T](), from, n, v.n)
	}
	return View[T]{root: v.root, off: v.off + from, n: n}, nil
}

// Duplicate returns a new Buffer holding a copy of [from, from+n) of the view.
func (v View[T]) Duplicate(from, n int) (Array[T], error) {
	if v.root.r.freed {
		return nil, freedError("duplicate", ElemName[T]())
	}
	if outOfRange(from, n, v.n) {
		return nil, rangeError("duplicate", ElemName[T](), from, n, v.n)
	}
	return v.root.Duplicate(v.off+from, n)
}

// Iterator returns a fresh forward cursor over the view.
func (v View[T]) Iterator() *Iterator[T] {
	return newIterator[T](v)
}

// All returns an iterator over index/value pairs of the view.
func (v View[T]) All() iter.Seq2[int, T] {
	return all[T](v)
}

// Free always fails: only the owning Buffer may release memory.
func (v View[T]) Free() error {
	return &Error{Op: "free", Kind: KindUnsupported, Elem: ElemName[T](), Detail: "a view cannot free its owner's memory"}
}

// MemoryAddress returns the address of element 0 of the view.
func (v View[T]) MemoryAddress() uintptr {
	if v.root.r.freed {
		return 0
	}
	return v.root.addr(v.off)
}

// Offset returns the position of the view's element 0 within its root.
func (v View[T]) Offset() int {
	return v.off
}

// Unwrap returns a view spanning the whole root the view aliases. It does
// not hand out the owner: the result cannot free memory either.
func (v View[T]) Unwrap() View[T] {
	return View[T]{root: v.root, n: v.root.n}
}
