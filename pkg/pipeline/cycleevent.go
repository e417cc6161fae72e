package pipeline

import "sync"

// cycleLatch is a manual-reset gate: Begin re-arms it (not-complete), Complete
// releases every current and future Wait call until the next Begin. Grounded
// on mediamtx's Stream.hasReaders close-once channel latch
// (internal/stream/stream.go's AddReader/WaitForReaders), generalized here to
// be re-armable across repeated cycles instead of closed exactly once for the
// life of the stream.
type cycleLatch struct {
	mu sync.Mutex
	ch chan struct{}
}

// newCycleLatch returns a latch that starts already complete, so an initial
// Wait call from another loop never blocks on a cycle that hasn't begun yet.
func newCycleLatch() *cycleLatch {
	ch := make(chan struct{})
	close(ch)
	return &cycleLatch{ch: ch}
}

// Begin marks the start of a new cycle; Wait calls block until Complete.
func (l *cycleLatch) Begin() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ch = make(chan struct{})
}

// Complete releases every Wait call blocked on the current cycle.
func (l *cycleLatch) Complete() {
	l.mu.Lock()
	defer l.mu.Unlock()
	close(l.ch)
}

// Wait blocks until the current cycle completes.
func (l *cycleLatch) Wait() {
	l.mu.Lock()
	ch := l.ch
	l.mu.Unlock()
	<-ch
}
