package offheap

import (
	"runtime"
	"sync"
	"sync/atomic"
	"weak"

	"go.uber.org/zap"
)

// allTracks holds every open leak record in the process. A record leaves it
// exactly once: through Tracker.Close, or when a detector drains it after
// the tracked object was collected.
var (
	allTracks sync.Map // *leakRecord -> struct{}
	trackSeq  atomic.Uint64
)

// Detector reports tracked objects that were garbage-collected without
// being explicitly released.
//
// When a tracked object becomes unreachable the runtime queues its record
// on the detector. The queue is drained on every Track call and on Poll.
// Each drained record that was never closed counts as a leak and is logged
// if the logger has Error level enabled. Detection is purely diagnostic: it
// never blocks, panics or fails an operation.
type Detector struct {
	resourceType string
	log          *zap.Logger // nil: package Logger()

	mu    sync.Mutex
	queue []*leakRecord

	tracked atomic.Int64
	leaks   atomic.Uint64
}

// NewDetector returns a detector naming leaked objects resourceType in its
// reports. A nil logger defers to the package Logger.
func NewDetector(resourceType string, log *zap.Logger) *Detector {
	return &Detector{resourceType: resourceType, log: log}
}

type leakRecord struct {
	id   uint64
	elem string
	det  *Detector
}

// enqueue runs on the runtime's cleanup goroutine and must not block.
func (r *leakRecord) enqueue() {
	r.det.mu.Lock()
	r.det.queue = append(r.det.queue, r)
	r.det.mu.Unlock()
}

// Tracker is the handle returned by Track. It holds only a weak reference
// to the tracked object.
type Tracker[T any] struct {
	rec     *leakRecord
	ref     weak.Pointer[T]
	cleanup runtime.Cleanup
}

// Track starts tracking obj. elem is an optional label included in leak
// reports.
func Track[T any](d *Detector, obj *T, elem string) *Tracker[T] {
	d.drain()

	rec := &leakRecord{id: trackSeq.Add(1), elem: elem, det: d}
	allTracks.Store(rec, struct{}{})
	d.tracked.Add(1)
	return &Tracker[T]{
		rec:     rec,
		ref:     weak.Make(obj),
		cleanup: runtime.AddCleanup(obj, (*leakRecord).enqueue, rec),
	}
}

// Close stops tracking obj, which must be the object passed to Track. It
// reports whether this call closed the record; only the first call does.
func (t *Tracker[T]) Close(obj *T) bool {
	if weak.Make(obj) != t.ref {
		panic(&Error{Op: "close", Kind: KindIllegalState, Detail: "tracker closed with a different object"})
	}
	if _, ok := allTracks.LoadAndDelete(t.rec); !ok {
		return false
	}
	t.cleanup.Stop()
	t.rec.det.tracked.Add(-1)
	return true
}

// ID returns the tracker's process-unique identity.
func (t *Tracker[T]) ID() uint64 {
	return t.rec.id
}

// Poll drains the notification queue and returns the number of leaks
// found. Track drains it too; Poll lets a caller collect reports without
// allocating.
func (d *Detector) Poll() int {
	return d.drain()
}

// Tracked returns the number of open records created by this detector.
func (d *Detector) Tracked() int64 {
	return d.tracked.Load()
}

// Leaks returns the number of leaks reported so far.
func (d *Detector) Leaks() uint64 {
	return d.leaks.Load()
}

func (d *Detector) logger() *zap.Logger {
	if d.log != nil {
		return d.log
	}
	return Logger()
}

func (d *Detector) drain() int {
	d.mu.Lock()
	q := d.queue
	d.queue = nil
	d.mu.Unlock()

	n := 0
	for _, rec := range q {
		// Closed concurrently with collection: not a leak.
		if _, ok := allTracks.LoadAndDelete(rec); !ok {
			continue
		}
		d.tracked.Add(-1)
		d.leaks.Add(1)
		n++
		// Records are dropped even when the entry is filtered out.
		if ce := d.logger().Check(zap.ErrorLevel, "LEAK: "+d.resourceType+".Free() was not called before it was garbage-collected."); ce != nil {
			ce.Write(
				zap.String("resource", d.resourceType),
				zap.Uint64("id", rec.id),
				zap.String("elem", rec.elem))
		}
	}
	return n
}
