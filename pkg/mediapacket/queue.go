package mediapacket

import "sync"

// Queue is a FIFO of owned packets for one stream. It is safe for a single
// producer (reader) and a single consumer (decoder) to use concurrently;
// Clear/BufferLength/Count may additionally be probed from either side.
type Queue struct {
	mu           sync.Mutex
	items        []*Packet
	bufferLength int64
}

// NewQueue returns an empty packet queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends p to the tail and, for a non-sentinel packet, adds its size
// to BufferLength.
func (q *Queue) Push(p *Packet) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, p)
	if p.size > 0 {
		q.bufferLength += int64(p.size)
	}
}

// Peek returns the head packet without removing it, or nil if empty.
func (q *Queue) Peek() *Packet {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0]
}

// Dequeue removes and returns the head packet, or nil if empty.
func (q *Queue) Dequeue() *Packet {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	p := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	if p.size > 0 {
		q.bufferLength -= int64(p.size)
	}
	return p
}

// Clear dequeues and releases every remaining packet.
func (q *Queue) Clear() {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.bufferLength = 0
	q.mu.Unlock()

	for _, p := range items {
		ReleasePacket(p)
	}
}

// BufferLength reports the sum of payload bytes currently queued.
func (q *Queue) BufferLength() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.bufferLength
}

// Count reports the number of packets currently queued, sentinels included.
func (q *Queue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
