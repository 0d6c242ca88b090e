package offheap

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/pavanmanishd/offheap/memory"
	"go.uber.org/zap"
)

// BenchmarkConcurrencyPatterns tests allocation through a shared provider
// from many goroutines
func BenchmarkConcurrencyPatterns(b *testing.B) {

	b.Run("Mmap_Sequential", func(b *testing.B) {
		p := newTestProvider(b)

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			a, err := NewBuffer[byte](p, 64)
			if err != nil {
				b.Fatal(err)
			}
			a.Free()
		}
	})

	b.Run("Mmap_Parallel", func(b *testing.B) {
		p := newTestProvider(b)

		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				a, err := NewBuffer[byte](p, 64)
				if err != nil {
					b.Error(err)
					return
				}
				a.Free()
			}
		})
	})

	// Provider per goroutine vs shared provider
	b.Run("Mmap_PerGoroutine", func(b *testing.B) {
		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			p := memory.NewMmap()
			defer p.Close()

			for pb.Next() {
				a, err := NewBuffer[byte](p, 64)
				if err != nil {
					b.Error(err)
					return
				}
				a.Free()
			}
		})
	})

	// Standard allocation parallel baseline
	b.Run("Builtin_Parallel", func(b *testing.B) {
		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				_ = make([]byte, 64)
			}
		})
	})

	// Different element counts under contention
	sizes := []int{4, 16, 64}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("Tracked_Contention_%dLongs", size), func(b *testing.B) {
			f := NewFactory(WithProvider(newTestProvider(b)), WithLogger(zap.NewNop()))

			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					a, err := New[int64](f, size)
					if err != nil {
						b.Error(err)
						return
					}
					a.Free()
				}
			})
		})
	}
}

// BenchmarkFactoryOperations tests read-only factory operations under
// concurrent access
func BenchmarkFactoryOperations(b *testing.B) {
	f := NewFactory(WithProvider(newTestProvider(b)), WithLogger(zap.NewNop()))

	// Pre-allocate some data for metrics tests
	for i := 0; i < 100; i++ {
		a, err := New[byte](f, 1000)
		if err != nil {
			b.Fatal(err)
		}
		defer a.Free()
	}

	b.Run("Metrics", func(b *testing.B) {
		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				_ = f.Metrics()
			}
		})
	})

	b.Run("SizeInUse", func(b *testing.B) {
		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				_ = f.SizeInUse()
			}
		})
	})
}

// BenchmarkScalability tests how performance scales with number of goroutines
func BenchmarkScalability(b *testing.B) {
	goroutineCounts := []int{1, 2, 4, 8, 16}

	for _, numGoroutines := range goroutineCounts {
		b.Run(fmt.Sprintf("Mmap_%dGoroutines", numGoroutines), func(b *testing.B) {
			p := newTestProvider(b)

			// Limit parallelism to test specific goroutine counts
			oldProcs := runtime.GOMAXPROCS(numGoroutines)
			defer runtime.GOMAXPROCS(oldProcs)

			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					a, err := NewBuffer[int32](p, 32)
					if err != nil {
						b.Error(err)
						return
					}
					a.Free()
				}
			})
		})

		b.Run(fmt.Sprintf("Builtin_%dGoroutines", numGoroutines), func(b *testing.B) {
			oldProcs := runtime.GOMAXPROCS(numGoroutines)
			defer runtime.GOMAXPROCS(oldProcs)

			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					_ = make([]int32, 32)
				}
			})
		})
	}
}
