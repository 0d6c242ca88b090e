package memory

import (
	"fmt"
	"testing"
)

// growTo returns a grow func that extends a space in step-sized increments
// up to max bytes, counting its calls.
func growTo(max, step uintptr, calls *int) func(uintptr) (uintptr, bool) {
	limit := step
	return func(min uintptr) (uintptr, bool) {
		*calls++
		for limit < min {
			limit += step
		}
		if limit > max {
			return 0, false
		}
		return limit, true
	}
}

func TestNewArena(t *testing.T) {
	tests := []struct {
		base     uintptr
		wantBase uintptr
	}{
		{0, 0},
		{1, 8},
		{8, 8},
		{13, 16},
	}

	for _, tt := range tests {
		a := newArena(tt.base, 64, nil)
		if a.base != tt.wantBase || a.offset != a.base {
			t.Errorf("newArena(%d): base %d offset %d, want %d", tt.base, a.base, a.offset, tt.wantBase)
		}
		if a.sizeInUse() != 0 {
			t.Errorf("newArena(%d): sizeInUse = %d, want 0", tt.base, a.sizeInUse())
		}
		if want := int(64 - tt.wantBase); a.capacity() != want {
			t.Errorf("newArena(%d): capacity = %d, want %d", tt.base, a.capacity(), want)
		}
	}
}

func TestArenaAlloc(t *testing.T) {
	calls := 0
	a := newArena(Align, 64, growTo(256, 64, &calls))

	if off, ok := a.alloc(3); !ok || off != 8 {
		t.Fatalf("alloc(3) = %d, %v; want 8, true", off, ok)
	}

	// Next block starts aligned after the 3 bytes
	if off, ok := a.alloc(16); !ok || off != 16 {
		t.Fatalf("alloc(16) = %d, %v; want 16, true", off, ok)
	}
	if a.sizeInUse() != 24 {
		t.Errorf("sizeInUse = %d, want 24", a.sizeInUse())
	}
	if calls != 0 {
		t.Errorf("fast path called grow %d times", calls)
	}

	// Larger than what is left: slow path
	if off, ok := a.alloc(100); !ok || off != 32 {
		t.Fatalf("alloc(100) = %d, %v; want 32, true", off, ok)
	}
	if calls != 1 {
		t.Errorf("grow called %d times, want 1", calls)
	}
	if a.capacity() != 192-8 {
		t.Errorf("capacity after grow = %d, want %d", a.capacity(), 192-8)
	}

	// Beyond max
	if _, ok := a.alloc(1000); ok {
		t.Error("alloc beyond the grow limit succeeded")
	}
	if a.sizeInUse() != 124 {
		t.Errorf("failed alloc moved the bump pointer: sizeInUse = %d, want 124", a.sizeInUse())
	}
}

func TestArenaRelease(t *testing.T) {
	a := newArena(Align, 1024, nil)

	x, _ := a.alloc(16)
	y, _ := a.alloc(16)

	// Not the top block: no effect
	a.release(x, 16)
	if a.sizeInUse() != 32 {
		t.Errorf("sizeInUse after lower release = %d, want 32", a.sizeInUse())
	}

	// Top block rewinds
	a.release(y, 16)
	if a.sizeInUse() != 16 {
		t.Errorf("sizeInUse after top release = %d, want 16", a.sizeInUse())
	}
	if z, _ := a.alloc(8); z != y {
		t.Errorf("alloc after top release = %d, want %d", z, y)
	}
}

func TestArenaReset(t *testing.T) {
	a := newArena(Align, 64, growTo(1024, 64, new(int)))

	a.alloc(500)
	capBefore := a.capacity()
	if a.sizeInUse() == 0 {
		t.Fatal("sizeInUse = 0 after alloc")
	}

	a.reset()
	if a.sizeInUse() != 0 {
		t.Errorf("sizeInUse after reset = %d, want 0", a.sizeInUse())
	}
	if a.capacity() != capBefore {
		t.Errorf("capacity after reset = %d, want %d (space kept)", a.capacity(), capBefore)
	}
	if off, ok := a.alloc(8); !ok || off != a.base {
		t.Errorf("alloc after reset = %d, %v; want %d", off, ok, a.base)
	}
}

func TestArenaOverflow(t *testing.T) {
	a := newArena(Align, 64, func(uintptr) (uintptr, bool) { return ^uintptr(0), true })
	a.offset = ^uintptr(0) - 16

	if _, ok := a.alloc(64); ok {
		t.Error("alloc succeeded although offset arithmetic overflows")
	}
}

func TestAlignUp(t *testing.T) {
	tests := []struct {
		input    uintptr
		expected uintptr
	}{
		{0, 0},
		{1, Align},
		{Align, Align},
		{Align + 1, Align * 2},
		{PageSize - 1, PageSize},
	}

	for _, tt := range tests {
		result := alignUp(tt.input)
		if result != tt.expected {
			t.Errorf("alignUp(%d) = %d, want %d", tt.input, result, tt.expected)
		}
	}
}

func BenchmarkArenaAlloc(b *testing.B) {
	a := newArena(Align, 1<<20, nil)
	sizes := []int{8, 64, 256, 1024}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("size-%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				a.alloc(size)
				if i%500 == 499 { // Reset periodically to stay inside the space
					a.reset()
				}
			}
		})
	}
}
