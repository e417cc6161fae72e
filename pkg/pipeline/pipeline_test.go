package pipeline

import (
	"io"
	"sync/atomic"
	"testing"
	"time"

	"mediacore/pkg/component"
	"mediacore/pkg/demux"
	"mediacore/pkg/mediablock"
	"mediacore/pkg/mediaclock"
	"mediacore/pkg/mediaopts"
	"mediacore/pkg/mediapacket"
	"mediacore/pkg/renderer"
)

type fakeContainer struct {
	aborted atomic.Bool
	atEOF   atomic.Bool
}

func (f *fakeContainer) Streams() []demux.StreamInfo                 { return nil }
func (f *fakeContainer) ReadNextPacket() (*mediapacket.Packet, error) { return nil, io.EOF }
func (f *fakeContainer) IsReadAborted() bool                         { return f.aborted.Load() }
func (f *fakeContainer) IsAtEndOfStream() bool                       { return f.atEOF.Load() }
func (f *fakeContainer) SignalAbortReads()                           { f.aborted.Store(true) }
func (f *fakeContainer) MediaStartTimeOffset() time.Duration         { return 0 }

var _ demux.Container = (*fakeContainer)(nil)

type fakeRenderer struct {
	rendered []*mediablock.Block
	closed   bool
}

func (r *fakeRenderer) Render(b *mediablock.Block, _ mediaclock.Clock) error {
	r.rendered = append(r.rendered, b)
	return nil
}
func (r *fakeRenderer) Close() error { r.closed = true; return nil }

var _ renderer.Renderer = (*fakeRenderer)(nil)

func TestShouldReadMorePacketsRespectsDownloadCacheLength(t *testing.T) {
	container := &fakeContainer{}
	opts := &mediaopts.MediaOptions{DownloadCacheLength: 100}
	p := New(container, component.NewComponentSet(), opts, mediaclock.NewWallClock(), nil, nil)

	if !p.shouldReadMorePackets() {
		t.Fatalf("expected true with an empty buffer and no shutdown pending")
	}

	opts.DownloadCacheLength = 0
	if p.shouldReadMorePackets() {
		t.Fatalf("expected false once the packet buffer length reaches DownloadCacheLength")
	}
	opts.DownloadCacheLength = 100

	p.shutdownPending.Store(true)
	if p.shouldReadMorePackets() {
		t.Fatalf("expected false once shutdown is pending")
	}
}

func TestCanReadMorePacketsFalseOnEOF(t *testing.T) {
	container := &fakeContainer{}
	container.atEOF.Store(true)
	p := New(container, component.NewComponentSet(), &mediaopts.MediaOptions{}, mediaclock.NewWallClock(), nil, nil)

	if p.canReadMorePackets() {
		t.Fatalf("expected false once the container reports end of stream")
	}
}

func TestCanReadMorePacketsFalseOnceAborted(t *testing.T) {
	container := &fakeContainer{}
	container.SignalAbortReads()
	p := New(container, component.NewComponentSet(), &mediaopts.MediaOptions{}, mediaclock.NewWallClock(), nil, nil)

	if p.canReadMorePackets() {
		t.Fatalf("expected false once reads are aborted")
	}
}

func TestStartStopWorkersTerminatesCleanly(t *testing.T) {
	container := &fakeContainer{}
	clock := mediaclock.NewWallClock()
	opts := &mediaopts.MediaOptions{DownloadCacheLength: 1 << 20}
	p := New(container, component.NewComponentSet(), opts, clock, nil, nil)
	p.SetRenderInterval(5 * time.Millisecond)
	p.Start()

	done := make(chan struct{})
	go func() {
		p.StopWorkers()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected StopWorkers to return without deadlocking")
	}
}

func TestRenderTickRendersSnappedBlockOncePerPTS(t *testing.T) {
	container := &fakeContainer{}
	clock := mediaclock.NewWallClock()
	rend := &fakeRenderer{}
	renderers := map[component.MediaType]renderer.Renderer{component.Video: rend}
	p := New(container, component.NewComponentSet(), &mediaopts.MediaOptions{}, clock, renderers, nil)

	// PTS=0 so the block covers the clock's initial (paused, never-played)
	// position of zero.
	frame := &component.MediaFrame{MediaType: component.Video, PTS: 0}
	if _, err := p.BlockBuffer(component.Video).Add(frame); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.renderTick()
	p.renderTick()

	if len(rend.rendered) != 1 {
		t.Fatalf("expected exactly one render call for an unchanged snapped block, got %d", len(rend.rendered))
	}
}

func TestWaitForDecodeCycleReturnsAfterStartedLoopCompletesOne(t *testing.T) {
	container := &fakeContainer{}
	clock := mediaclock.NewWallClock()
	opts := &mediaopts.MediaOptions{DownloadCacheLength: 1 << 20}
	p := New(container, component.NewComponentSet(), opts, clock, nil, nil)
	p.Start()

	done := make(chan struct{})
	go func() {
		p.WaitForDecodeCycle()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected WaitForDecodeCycle to return once the decoder loop completes a cycle")
	}

	p.StopWorkers()
}

func TestRenderTickSkipsMediaTypeWithEmptyBuffer(t *testing.T) {
	container := &fakeContainer{}
	clock := mediaclock.NewWallClock()
	rend := &fakeRenderer{}
	renderers := map[component.MediaType]renderer.Renderer{component.Audio: rend}
	p := New(container, component.NewComponentSet(), &mediaopts.MediaOptions{}, clock, renderers, nil)

	p.renderTick()

	if len(rend.rendered) != 0 {
		t.Fatalf("expected no render call when the audio buffer is empty, got %d", len(rend.rendered))
	}
}
