// Package offheap implements fixed-length arrays of primitive numbers stored
// in manually managed memory outside the Go heap.
//
// # Overview
//
// Large numeric buffers held in ordinary Go slices are scanned, moved and
// accounted for by the garbage collector. offheap stores the elements in
// memory obtained from a [memory.Provider] instead, which is useful for:
//
//   - Multi-gigabyte numeric buffers that should not count toward GOGC
//   - Buffers shared with a WebAssembly guest (see [memory.Linear])
//   - Sensitive data that must stay out of swap (see [memory.Locked])
//
// # Basic Usage
//
//	a, err := offheap.NewIntArray(1 << 20)
//	if err != nil {
//		return err
//	}
//	defer a.Free() // Memory is only released by Free
//
//	a.Set(3, 7)
//	v := a.Get(3)
//
//	// Views alias the owner's memory (O(1), no copy)
//	win, _ := a.Slice(2, 5)
//	win.Get(1) // == a.Get(3)
//
//	// Duplicates are independent owners and must be freed too
//	d, _ := a.Duplicate(2, 5)
//	defer d.Free()
//
// # Ownership
//
// Every allocation has exactly one owner: a [Buffer], or the [Tracked]
// wrapper around one that a [Factory] returns. Views never own memory;
// calling Free on a view returns an error of kind [KindUnsupported]. Once
// an owner is freed, every operation on it or on any of its views panics
// with an error of kind [KindFreed] instead of touching released memory.
//
// # Thread Safety
//
// Arrays and views are not synchronized. Concurrent writes to one array,
// or to a view and its owner, must be coordinated by the caller. Providers
// and the leak detector are safe for concurrent use.
//
// # Leak Detection
//
// Arrays created by a Factory are registered with a [Detector]. If one is
// garbage-collected before Free was called, the detector logs
//
//	LEAK: offheap.Array.Free() was not called before it was garbage-collected.
//
// through zap at Error level. Install a logger with [SetLogger] or
// [WithLogger]; with the default no-op logger leaks are still counted
// but not reported. Reports are collected on each new array and on
// [Detector.Poll].
//
// # Metrics and Monitoring
//
//	m := offheap.Default().Metrics()
//	fmt.Printf("Live arrays: %d, bytes in use: %d\n", m.LiveAllocs, m.BytesInUse)
//
// [NewCollector] exposes the same numbers to Prometheus.
package offheap
