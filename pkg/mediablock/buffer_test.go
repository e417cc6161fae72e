package mediablock

import (
	"errors"
	"testing"
	"time"

	"mediacore/pkg/component"
)

var errUnsupportedMaterialize = errors.New("mediablock: materialize not supported in test")

func frameAt(mt component.MediaType, pts time.Duration) *component.MediaFrame {
	return &component.MediaFrame{MediaType: mt, PTS: pts, Duration: 40 * time.Millisecond}
}

func TestBufferEvictsOldestPastCapacity(t *testing.T) {
	buf := NewBuffer(component.Video, nil)
	for i := 0; i < MaxVideoBlocks+3; i++ {
		if _, err := buf.Add(frameAt(component.Video, time.Duration(i)*time.Millisecond)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if buf.Count() != MaxVideoBlocks {
		t.Fatalf("expected buffer capped at %d, got %d", MaxVideoBlocks, buf.Count())
	}
	if buf.IndexOf(0) != -1 {
		t.Fatalf("expected the earliest 3 blocks evicted")
	}
	if buf.IndexOf(3 * time.Millisecond) == -1 {
		t.Fatalf("expected block at pts=3ms to survive eviction")
	}
}

func TestBufferReplacesDuplicateTimestamp(t *testing.T) {
	buf := NewBuffer(component.Audio, nil)
	first, _ := buf.Add(frameAt(component.Audio, 10*time.Millisecond))
	second, _ := buf.Add(frameAt(component.Audio, 10*time.Millisecond))

	if buf.Count() != 1 {
		t.Fatalf("expected duplicate pts to replace, not append; count=%d", buf.Count())
	}
	idx := buf.IndexOf(10 * time.Millisecond)
	if idx == -1 {
		t.Fatalf("expected a block at pts=10ms")
	}
	if first == second {
		t.Fatalf("expected Add to return a distinct Block each call")
	}
}

func TestBufferGetSnapPositionReturnsCoveringBlock(t *testing.T) {
	buf := NewBuffer(component.Video, nil)
	buf.Add(frameAt(component.Video, 0))
	buf.Add(frameAt(component.Video, 100*time.Millisecond))
	buf.Add(frameAt(component.Video, 200*time.Millisecond))

	block, ok := buf.GetSnapPosition(110 * time.Millisecond)
	if !ok {
		t.Fatalf("expected a snap position in a non-empty buffer")
	}
	if block.PTS != 100*time.Millisecond {
		t.Fatalf("expected the covering block at pts=100ms, got %v", block.PTS)
	}
}

func TestBufferGetSnapPositionNeverSnapsForward(t *testing.T) {
	buf := NewBuffer(component.Video, nil)
	buf.Add(frameAt(component.Video, 0))
	buf.Add(frameAt(component.Video, 100*time.Millisecond))

	// t=90ms falls in the gap between block 0's end (40ms) and block 100's
	// start -- the nearest block in absolute terms is the future one, but
	// the nearest past block must be returned instead.
	block, ok := buf.GetSnapPosition(90 * time.Millisecond)
	if !ok {
		t.Fatalf("expected a snap position in a non-empty buffer")
	}
	if block.PTS != 0 {
		t.Fatalf("expected the nearest past block at pts=0, got %v", block.PTS)
	}
}

func TestBufferGetSnapPositionNoPastBlockReportsFalse(t *testing.T) {
	buf := NewBuffer(component.Video, nil)
	buf.Add(frameAt(component.Video, 100*time.Millisecond))

	if _, ok := buf.GetSnapPosition(10 * time.Millisecond); ok {
		t.Fatalf("expected false when every buffered block starts after t")
	}
}

func TestBufferGetSnapPositionEmptyReportsFalse(t *testing.T) {
	buf := NewBuffer(component.Subtitle, nil)
	if _, ok := buf.GetSnapPosition(0); ok {
		t.Fatalf("expected false on an empty buffer")
	}
}

func TestBufferClearReleasesEverything(t *testing.T) {
	buf := NewBuffer(component.Video, nil)
	buf.Add(frameAt(component.Video, 0))
	buf.Add(frameAt(component.Video, time.Millisecond))

	buf.Clear()

	if buf.Count() != 0 {
		t.Fatalf("expected buffer empty after Clear")
	}
}

type errMaterializer struct{}

func (errMaterializer) Materialize(*component.MediaFrame) (interface{}, error) {
	return nil, errUnsupportedMaterialize
}

func TestBufferAddPropagatesMaterializeError(t *testing.T) {
	buf := NewBuffer(component.Video, errMaterializer{})
	if _, err := buf.Add(frameAt(component.Video, 0)); err == nil {
		t.Fatalf("expected Materialize error to propagate")
	}
	if buf.Count() != 0 {
		t.Fatalf("expected nothing inserted when Materialize fails")
	}
}
