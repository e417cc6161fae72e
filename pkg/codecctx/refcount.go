package codecctx

import (
	"sync"
	"sync/atomic"
)

// live tracks outstanding foreign allocations per resource kind, for the
// debug-only leak-detection facility called out in the Design Notes: every
// codec context, packet, frame, subtitle and option dictionary this module
// hands out is counted here and decremented on release, so tests can assert
// the pipeline leaves nothing allocated after shutdown.
var live sync.Map // kind string -> *int64

func counter(kind string) *int64 {
	v, _ := live.LoadOrStore(kind, new(int64))
	return v.(*int64)
}

// TrackAlloc records one new live allocation of kind.
func TrackAlloc(kind string) {
	atomic.AddInt64(counter(kind), 1)
}

// TrackFree records the release of one allocation of kind.
func TrackFree(kind string) {
	atomic.AddInt64(counter(kind), -1)
}

// LiveCounts returns a snapshot of live allocation counts per kind.
func LiveCounts() map[string]int64 {
	out := make(map[string]int64)
	live.Range(func(k, v any) bool {
		out[k.(string)] = atomic.LoadInt64(v.(*int64))
		return true
	})
	return out
}

// LiveTotal sums every tracked kind's live count, used by shutdown tests to
// assert zero outstanding foreign allocations.
func LiveTotal() int64 {
	var total int64
	for _, n := range LiveCounts() {
		total += n
	}
	return total
}
