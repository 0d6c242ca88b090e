package memory

import "sync"

// Store is one recorded store: the address written and its width in bytes.
type Store struct {
	Addr  uintptr
	Width int
}

// Recorder wraps a Provider and records every store made through it, in
// order. It is meant for tests that assert on the exact write pattern of
// an algorithm.
type Recorder struct {
	Provider

	mu     sync.Mutex
	stores []Store
}

// NewRecorder returns a Recorder forwarding to p.
func NewRecorder(p Provider) *Recorder {
	return &Recorder{Provider: p}
}

func (r *Recorder) record(addr uintptr, width int) {
	r.mu.Lock()
	r.stores = append(r.stores, Store{Addr: addr, Width: width})
	r.mu.Unlock()
}

func (r *Recorder) Store8(addr uintptr, v uint8) {
	r.record(addr, 1)
	r.Provider.Store8(addr, v)
}

func (r *Recorder) Store16(addr uintptr, v uint16) {
	r.record(addr, 2)
	r.Provider.Store16(addr, v)
}

func (r *Recorder) Store32(addr uintptr, v uint32) {
	r.record(addr, 4)
	r.Provider.Store32(addr, v)
}

func (r *Recorder) Store64(addr uintptr, v uint64) {
	r.record(addr, 8)
	r.Provider.Store64(addr, v)
}

// Stores returns a copy of the recorded stores.
func (r *Recorder) Stores() []Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Store, len(r.stores))
	copy(out, r.stores)
	return out
}

// Reset discards the recorded stores.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.stores = r.stores[:0]
	r.mu.Unlock()
}
