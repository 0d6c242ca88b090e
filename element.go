package offheap

import (
	"fmt"
	"unsafe"
)

// Element is the set of fixed-width numeric types an array can hold.
type Element interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// Width returns the size in bytes of one T.
func Width[T Element]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// ElemName returns the Go name of T, e.g. "int32".
func ElemName[T Element]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
