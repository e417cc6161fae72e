package mediablock

import (
	"sync"
	"time"

	"mediacore/pkg/component"
)

// Buffer holds the most recent decoded Blocks for one MediaComponent, up to
// a fixed per-MediaType capacity. Once full, adding a new block evicts the
// oldest one still held. A block arriving with a PTS already present
// replaces the existing block at that position rather than appending.
type Buffer struct {
	mu           sync.Mutex
	mediaType    component.MediaType
	max          int
	materializer Materializer
	blocks       []*Block
}

// NewBuffer returns an empty buffer sized for mt. A nil materializer falls
// back to the passthrough Materializer.
func NewBuffer(mt component.MediaType, materializer Materializer) *Buffer {
	if materializer == nil {
		materializer = passthroughMaterializer{}
	}
	return &Buffer{mediaType: mt, max: maxBlocksFor(mt), materializer: materializer}
}

// Add materializes f and inserts the resulting Block, evicting the oldest
// block if the buffer is already at capacity, or replacing an existing
// block at the same PTS.
func (buf *Buffer) Add(f *component.MediaFrame) (*Block, error) {
	payload, err := buf.materializer.Materialize(f)
	if err != nil {
		return nil, err
	}

	// Subtitle frames carry an explicit start/end range; audio/video frames
	// only carry a PTS plus duration, so their covering range is derived.
	startTime, endTime := f.StartTime, f.EndTime
	if f.MediaType != component.Subtitle {
		startTime, endTime = f.PTS, f.PTS+f.Duration
	}

	block := &Block{
		MediaType: f.MediaType,
		PTS:       f.PTS,
		Duration:  f.Duration,
		StartTime: startTime,
		EndTime:   endTime,
		Payload:   payload,
		frame:     f,
	}

	buf.mu.Lock()
	defer buf.mu.Unlock()

	for i, existing := range buf.blocks {
		if existing.PTS == block.PTS {
			existing.Release()
			buf.blocks[i] = block
			return block, nil
		}
	}

	if len(buf.blocks) >= buf.max {
		buf.blocks[0].Release()
		buf.blocks = buf.blocks[1:]
	}
	buf.blocks = append(buf.blocks, block)
	return block, nil
}

// IndexOf returns the position of the block covering pts -- StartTime ≤ pts
// ≤ EndTime -- or -1 if none does.
func (buf *Buffer) IndexOf(pts time.Duration) int {
	buf.mu.Lock()
	defer buf.mu.Unlock()
	for i, b := range buf.blocks {
		if b.StartTime <= pts && pts <= b.EndTime {
			return i
		}
	}
	return -1
}

// GetSnapPosition returns the block covering at, or, failing that, the
// nearest block with PTS ≤ at -- playback never snaps forward past the
// clock. Returns (nil, false) if no buffered block starts at or before at.
func (buf *Buffer) GetSnapPosition(at time.Duration) (*Block, bool) {
	buf.mu.Lock()
	defer buf.mu.Unlock()

	var best *Block
	for _, b := range buf.blocks {
		if b.StartTime <= at && at <= b.EndTime {
			return b, true
		}
		if b.PTS > at {
			continue
		}
		if best == nil || b.PTS > best.PTS {
			best = b
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

// Count reports how many blocks are currently buffered.
func (buf *Buffer) Count() int {
	buf.mu.Lock()
	defer buf.mu.Unlock()
	return len(buf.blocks)
}

// Clear releases every buffered block, used on seek and shutdown.
func (buf *Buffer) Clear() {
	buf.mu.Lock()
	blocks := buf.blocks
	buf.blocks = nil
	buf.mu.Unlock()

	for _, b := range blocks {
		b.Release()
	}
}
