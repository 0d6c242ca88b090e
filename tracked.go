package offheap

import (
	"errors"
	"iter"
)

// Tracked is an owning Buffer registered with a leak Detector. It forwards
// every operation to the inner buffer; Free additionally closes the
// tracker. Tracked values are only created by a Factory.
type Tracked[T Element] struct {
	inner *Buffer[T]
	det   *Detector            // nil when leak detection is off
	leak  *Tracker[Tracked[T]] // nil when leak detection is off
}

func newTracked[T Element](b *Buffer[T], det *Detector) *Tracked[T] {
	t := &Tracked[T]{inner: b, det: det}
	if det != nil {
		t.leak = Track(det, t, ElemName[T]())
	}
	return t
}

func (t *Tracked[T]) Len() int       { return t.inner.Len() }
func (t *Tracked[T]) Get(i int) T    { return t.inner.Get(i) }
func (t *Tracked[T]) Set(i int, v T) { t.inner.Set(i, v) }
func (t *Tracked[T]) Clear()         { t.inner.Clear() }
func (t *Tracked[T]) Iterator() *Iterator[T] {
	return t.inner.Iterator()
}

func (t *Tracked[T]) All() iter.Seq2[int, T] {
	return t.inner.All()
}

func (t *Tracked[T]) MemoryAddress() uintptr {
	return t.inner.MemoryAddress()
}

// Slice returns a view of the inner buffer. The view is not tracked; it
// keeps the inner buffer, but not t, reachable.
func (t *Tracked[T]) Slice(from, n int) (View[T], error) {
	return t.inner.Slice(from, n)
}

// Duplicate returns a copy of [from, from+n) tracked by the same detector.
func (t *Tracked[T]) Duplicate(from, n int) (Array[T], error) {
	d, err := t.inner.duplicate(from, n)
	if err != nil {
		return nil, err
	}
	return newTracked(d, t.det), nil
}

// Free releases the inner buffer and closes the tracker. The tracker is
// also closed when the inner buffer turns out to be freed already, so the
// array is never reported as leaked once its memory is gone.
func (t *Tracked[T]) Free() error {
	err := t.inner.Free()
	if err != nil && !errors.Is(err, ErrFreed) {
		return err
	}
	closed := t.leak != nil && t.leak.Close(t)
	if err != nil {
		return err
	}
	if t.leak != nil && !closed {
		return &Error{Op: "free", Kind: KindIllegalState, Elem: ElemName[T](), Detail: "leak tracker already closed"}
	}
	return nil
}

// Unwrap returns a view spanning the whole array. Only t itself can free
// the memory.
func (t *Tracked[T]) Unwrap() View[T] {
	return View[T]{root: t.inner, n: t.inner.n}
}
