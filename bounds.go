package offheap

import "github.com/pavanmanishd/offheap/memory"

// outOfRange reports whether [from, from+n) falls outside [0, size).
// A single sign test over from, n, from+n and size-(from+n) catches both
// out-of-bounds ranges and overflow of from+n.
func outOfRange(from, n, size int) bool {
	return from|n|(from+n)|(size-(from+n)) < 0
}

// indexOutOfRange reports whether i falls outside [0, size).
func indexOutOfRange(i, size int) bool {
	return i|(size-1-i) < 0
}

// fillCounts decomposes byteLen into the fewest 8, 4, 2 and 1 byte writes.
func fillCounts(byteLen int) (n8, n4, n2, n1 int) {
	n8 = byteLen / 8
	rem := byteLen % 8
	n4 = rem / 4
	rem %= 4
	n2 = rem / 2
	n1 = rem % 2
	return n8, n4, n2, n1
}

// zeroFill zeroes byteLen bytes at addr: all 8-byte writes first, then the
// 4, 2 and 1 byte writes, each placed directly after the previous one.
func zeroFill(p memory.Provider, addr uintptr, byteLen int) {
	n8, n4, n2, n1 := fillCounts(byteLen)
	for i := 0; i < n8; i++ {
		p.Store64(addr, 0)
		addr += 8
	}
	for i := 0; i < n4; i++ {
		p.Store32(addr, 0)
		addr += 4
	}
	for i := 0; i < n2; i++ {
		p.Store16(addr, 0)
		addr += 2
	}
	for i := 0; i < n1; i++ {
		p.Store8(addr, 0)
		addr++
	}
}
