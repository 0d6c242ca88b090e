package offheap

import (
	"iter"
	"sort"
)

// Array is the capability set shared by every array handle: owning
// buffers, views and tracked buffers.
//
// Get, Set and Clear panic with an *Error on a bad index or a freed owner,
// like indexing a Go slice. Range operations return the *Error instead.
type Array[T Element] interface {
	// Len returns the number of elements.
	Len() int
	// Get returns the element at i.
	Get(i int) T
	// Set stores v at i.
	Set(i int, v T)
	// Clear zeroes every element.
	Clear()
	// Slice returns a view aliasing [from, from+n). It copies nothing and is
	// valid until the owner is freed.
	Slice(from, n int) (View[T], error)
	// Duplicate returns a new, independently owned copy of [from, from+n).
	Duplicate(from, n int) (Array[T], error)
	// Iterator returns a fresh forward cursor over the elements.
	Iterator() *Iterator[T]
	// All returns an iterator over index/value pairs.
	All() iter.Seq2[int, T]
	// Free releases the backing memory. Only owners may free.
	Free() error
	// MemoryAddress returns the address of element 0, for diagnostics and
	// interop with code sharing the same provider.
	MemoryAddress() uintptr
}

var (
	_ Array[int32] = (*Buffer[int32])(nil)
	_ Array[int32] = View[int32]{}
	_ Array[int32] = (*Tracked[int32])(nil)
)

func all[T Element](a Array[T]) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		n := a.Len()
		for i := 0; i < n; i++ {
			if !yield(i, a.Get(i)) {
				return
			}
		}
	}
}

// Sort sorts a in place in ascending order as determined by cmp, which
// returns a negative number when x < y, a positive number when x > y and
// zero otherwise. cmp.Compare works for every Element type.
//
// The sort is not stable. Sorting a view sorts that window of the owner.
func Sort[T Element](a Array[T], cmp func(x, y T) int) {
	sort.Sort(sorter[T]{a: a, cmp: cmp})
}

type sorter[T Element] struct {
	a   Array[T]
	cmp func(x, y T) int
}

func (s sorter[T]) Len() int           { return s.a.Len() }
func (s sorter[T]) Less(i, j int) bool { return s.cmp(s.a.Get(i), s.a.Get(j)) < 0 }
func (s sorter[T]) Swap(i, j int) {
	x, y := s.a.Get(i), s.a.Get(j)
	s.a.Set(i, y)
	s.a.Set(j, x)
}
