package memory

import "testing"

func TestLockedRoundsToAlign(t *testing.T) {
	l := openLocked(t)
	defer l.Close()

	a, err := l.Allocate(5)
	if err != nil {
		t.Fatal(err)
	}
	if a%Align != 0 {
		t.Errorf("address %#x is not aligned", a)
	}

	s := l.Stats()
	if s.BytesInUse != 5 || s.Capacity != Align {
		t.Errorf("Stats = %+v, want 5 bytes in use, capacity %d", s, Align)
	}

	// The rounded tail is writable
	l.Store64(a, ^uint64(0))
	if v := l.Load64(a); v != ^uint64(0) {
		t.Errorf("Load64 = %#x", v)
	}
	if err := l.Free(a); err != nil {
		t.Fatal(err)
	}
	if c := l.Stats().Capacity; c != 0 {
		t.Errorf("Capacity after Free = %d, want 0", c)
	}
}

func TestLockedCloseDestroysLiveBlocks(t *testing.T) {
	l := openLocked(t).(*Locked)

	for _, size := range []int{32, 64} {
		if _, err := l.Allocate(size); err != nil {
			t.Fatal(err)
		}
	}

	bufs := make([]interface{ IsAlive() bool }, 0, 2)
	for _, blk := range l.bufs {
		bufs = append(bufs, blk.buf)
	}

	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	for i, b := range bufs {
		if b.IsAlive() {
			t.Errorf("buffer %d still alive after Close", i)
		}
	}
	if n := l.Stats().LiveAllocs; n != 0 {
		t.Errorf("LiveAllocs = %d, want 0", n)
	}
}
