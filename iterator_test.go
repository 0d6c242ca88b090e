package offheap

import (
	"errors"
	"testing"
)

func TestIterator(t *testing.T) {
	p := newTestProvider(t)
	b, err := NewBuffer[int32](p, 5)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Free()
	for i := 0; i < b.Len(); i++ {
		b.Set(i, int32(i+1))
	}

	it := b.Iterator()
	var got []int32
	for it.Next() {
		if it.Index() != len(got) {
			t.Errorf("Index() = %d, want %d", it.Index(), len(got))
		}
		got = append(got, it.Value())
	}
	if len(got) != 5 || got[0] != 1 || got[4] != 5 {
		t.Errorf("iterated %v, want [1 2 3 4 5]", got)
	}
	if it.Next() {
		t.Error("Next() = true after exhaustion")
	}

	// Each call starts over.
	if it2 := b.Iterator(); !it2.Next() || it2.Value() != 1 {
		t.Error("fresh iterator does not start at element 0")
	}
}

func TestIteratorRemove(t *testing.T) {
	p := newTestProvider(t)
	b, err := NewBuffer[float32](p, 6)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Free()
	for i := 0; i < b.Len(); i++ {
		b.Set(i, float32(i)-2.5)
	}

	it := b.Iterator()
	if err := it.Remove(); !errors.Is(err, ErrIllegalState) {
		t.Errorf("Remove before Next error = %v, want illegal state", err)
	}

	visited := 0
	for it.Next() {
		visited++
		if it.Value() < 0 {
			if err := it.Remove(); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if err := it.Remove(); !errors.Is(err, ErrIllegalState) {
				t.Errorf("second Remove error = %v, want illegal state", err)
			}
		}
	}
	if visited != 6 {
		t.Errorf("visited %d elements, want 6 (Remove must not rewind)", visited)
	}

	want := []float32{0, 0, 0, 0.5, 1.5, 2.5}
	for i, w := range want {
		if got := b.Get(i); got != w {
			t.Errorf("element %d = %v, want %v", i, got, w)
		}
	}

	if err := it.Remove(); !errors.Is(err, ErrIllegalState) {
		t.Errorf("Remove after exhaustion error = %v, want illegal state", err)
	}
}

func TestIteratorOverView(t *testing.T) {
	p := newTestProvider(t)
	b, err := NewBuffer[uint16](p, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Free()
	for i := 0; i < b.Len(); i++ {
		b.Set(i, uint16(i))
	}
	v, err := b.Slice(2, 3)
	if err != nil {
		t.Fatal(err)
	}

	it := v.Iterator()
	for it.Next() {
		if it.Index() == 1 {
			it.Remove()
		}
	}
	if b.Get(3) != 0 {
		t.Errorf("owner[3] = %d, want 0 after Remove through view", b.Get(3))
	}
	if b.Get(2) != 2 || b.Get(4) != 4 {
		t.Error("Remove through view touched other elements")
	}
}

func TestAll(t *testing.T) {
	p := newTestProvider(t)
	b, err := NewBuffer[int64](p, 10)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Free()
	for i := 0; i < b.Len(); i++ {
		b.Set(i, int64(i*i))
	}

	var sum int64
	for i, v := range b.All() {
		if v != int64(i*i) {
			t.Errorf("All yielded (%d, %d)", i, v)
		}
		sum += v
	}
	if sum != 285 {
		t.Errorf("sum = %d, want 285", sum)
	}

	// Early break stops the sequence.
	n := 0
	for range b.All() {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("iterated %d after break, want 3", n)
	}

	v, _ := b.Slice(7, 3)
	var got []int64
	for _, x := range v.All() {
		got = append(got, x)
	}
	if len(got) != 3 || got[0] != 49 || got[2] != 81 {
		t.Errorf("view All = %v, want [49 64 81]", got)
	}
}
