package offheap

// Metrics contains statistical information about a factory's memory.
type Metrics struct {
	Allocs      uint64  // Allocations made by the provider
	Frees       uint64  // Allocations released
	LiveAllocs  int     // Allocations currently live
	BytesInUse  int     // Bytes requested by live allocations
	Capacity    int     // Bytes reserved from the backing store
	Tracked     int64   // Arrays registered with the leak detector and not yet freed
	Leaks       uint64  // Leaks reported by the detector
	Utilization float64 // Ratio of BytesInUse to Capacity (0.0-1.0)
}

// SizeInUse returns the number of bytes requested by live allocations.
func (f *Factory) SizeInUse() int {
	return f.provider.Stats().BytesInUse
}

// Capacity returns the number of bytes the provider has reserved.
func (f *Factory) Capacity() int {
	return f.provider.Stats().Capacity
}

// Utilization returns the ratio of bytes in use to capacity (0.0 to 1.0).
// Returns 0.0 if the provider has no capacity.
func (f *Factory) Utilization() float64 {
	s := f.provider.Stats()
	return utilization(s.BytesInUse, s.Capacity)
}

// Metrics returns a snapshot of provider and leak detector statistics.
func (f *Factory) Metrics() Metrics {
	s := f.provider.Stats()
	m := Metrics{
		Allocs:      s.Allocs,
		Frees:       s.Frees,
		LiveAllocs:  s.LiveAllocs,
		BytesInUse:  s.BytesInUse,
		Capacity:    s.Capacity,
		Utilization: utilization(s.BytesInUse, s.Capacity),
	}
	if f.detector != nil {
		m.Tracked = f.detector.Tracked()
		m.Leaks = f.detector.Leaks()
	}
	return m
}

func utilization(inUse, capacity int) float64 {
	if capacity == 0 {
		return 0
	}
	return float64(inUse) / float64(capacity)
}
