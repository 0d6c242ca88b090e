package offheap

// Iterator is a forward-only cursor over an Array.
//
//	it := a.Iterator()
//	for it.Next() {
//		if it.Value() < 0 {
//			it.Remove()
//		}
//	}
//
// Remove zeroes the last yielded element in place; elements never shift.
type Iterator[T Element] struct {
	a      Array[T]
	cursor int // index of the next element to yield
	last   int // index of the last yielded element, -1 if none
	cur    T
}

func newIterator[T Element](a Array[T]) *Iterator[T] {
	return &Iterator[T]{a: a, last: -1}
}

// Next advances to the next element and reports whether there is one.
func (it *Iterator[T]) Next() bool {
	if it.cursor >= it.a.Len() {
		it.last = -1
		return false
	}
	it.cur = it.a.Get(it.cursor)
	it.last = it.cursor
	it.cursor++
	return true
}

// Value returns the element yielded by the last call to Next.
func (it *Iterator[T]) Value() T {
	return it.cur
}

// Index returns the index of the element yielded by the last call to Next,
// or -1.
func (it *Iterator[T]) Index() int {
	return it.last
}

// Remove writes the zero value over the element yielded by the last call
// to Next. It may be called once per Next.
func (it *Iterator[T]) Remove() error {
	if it.last < 0 {
		return &Error{Op: "remove", Kind: KindIllegalState, Elem: ElemName[T](), Detail: "Remove without a preceding Next"}
	}
	var zero T
	it.a.Set(it.last, zero)
	it.last = -1
	return nil
}
