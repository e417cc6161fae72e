package mediapacket

import "testing"

func TestQueuePushDequeueOrder(t *testing.T) {
	q := NewQueue()
	a := CreateEmptyPacket(0)
	b := CreateEmptyPacket(0)
	q.Push(a)
	q.Push(b)

	if got := q.Dequeue(); got != a {
		t.Fatalf("expected FIFO order, got different packet first")
	}
	if got := q.Dequeue(); got != b {
		t.Fatalf("expected FIFO order, got different packet second")
	}
	if got := q.Dequeue(); got != nil {
		t.Fatalf("expected nil on empty queue, got %v", got)
	}
}

func TestQueueBufferLengthIgnoresSentinels(t *testing.T) {
	q := NewQueue()
	q.Push(CreateFlushPacket(0))
	if got := q.BufferLength(); got != 0 {
		t.Fatalf("flush sentinel must not contribute to BufferLength, got %d", got)
	}
	if got := q.Count(); got != 1 {
		t.Fatalf("sentinel should still count as one packet, got %d", got)
	}
}

func TestQueueClearReleasesEveryPacket(t *testing.T) {
	q := NewQueue()
	packets := []*Packet{CreateEmptyPacket(1), CreateFlushPacket(1), CreateEmptyPacket(1)}
	for _, p := range packets {
		q.Push(p)
	}
	q.Clear()

	for i, p := range packets {
		if !p.isReleased.Load() {
			t.Fatalf("packet %d not released by Clear", i)
		}
	}
	if got := q.Count(); got != 0 {
		t.Fatalf("queue should be empty after Clear, got count %d", got)
	}
}

func TestPeekDoesNotRemove(t *testing.T) {
	q := NewQueue()
	p := CreateEmptyPacket(0)
	q.Push(p)

	if got := q.Peek(); got != p {
		t.Fatalf("Peek returned wrong packet")
	}
	if got := q.Count(); got != 1 {
		t.Fatalf("Peek must not remove the packet, count=%d", got)
	}
}

func TestReleasePacketIsIdempotent(t *testing.T) {
	p := CreateEmptyPacket(0)
	ReleasePacket(p)
	ReleasePacket(p)
	if !p.isReleased.Load() {
		t.Fatalf("expected packet marked released")
	}
}

func TestFlushPacketIdentity(t *testing.T) {
	p := CreateFlushPacket(3)
	if !p.IsFlushPacket() {
		t.Fatalf("expected flush packet to report IsFlushPacket")
	}
	if p.IsEmptyPacket() {
		t.Fatalf("flush packet must not also report as an empty packet")
	}

	e := CreateEmptyPacket(3)
	if e.IsFlushPacket() {
		t.Fatalf("empty packet must not report as flush")
	}
	if !e.IsEmptyPacket() {
		t.Fatalf("expected zero-size real packet to report IsEmptyPacket")
	}
}
