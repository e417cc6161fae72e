// Package pipeline runs the three cooperating loops that turn demuxed
// packets into rendered blocks: a packet reader, a frame decoder, and a
// block renderer timer, synchronized by cycleLatch gates.
// Grounded on flow-frame's screens/videoPlayer/screen.go Update/Draw split
// (decode-then-render every tick, periodic health logging) and the
// reader/writer goroutine separation in mediamtx's internal/stream package,
// adapted from "push data to readers as it arrives" to "pull packets ahead
// of playback position with soft backpressure."
package pipeline

import (
	"io"
	"log"
	"sync/atomic"
	"time"

	"mediacore/pkg/component"
	"mediacore/pkg/demux"
	"mediacore/pkg/mediablock"
	"mediacore/pkg/mediaclock"
	"mediacore/pkg/mediaopts"
	"mediacore/pkg/mediapacket"
	"mediacore/pkg/performance"
	"mediacore/pkg/renderer"
)

// defaultRenderInterval is the renderer timer's own cadence; it makes no
// frame-accurate guarantee, matching the ~60Hz update rate flow-frame's
// screen.go assumes for its frame/performance accounting.
const defaultRenderInterval = 16 * time.Millisecond

// defaultLookahead is the initial value of Pipeline.lookahead. The decoder
// loop does not read it: each component is decoded until its block buffer
// reaches capacity or a pump step produces no block.
const defaultLookahead = 500 * time.Millisecond

// Pipeline wires one demuxer Container, its ComponentSet, a playback Clock,
// and one Renderer per MediaType together and drives them with the reader,
// decoder, and renderer-timer loops.
type Pipeline struct {
	container  demux.Container
	components *component.ComponentSet
	options    *mediaopts.MediaOptions
	clock      mediaclock.Clock

	blockBuffers map[component.MediaType]*mediablock.Buffer
	renderers    map[component.MediaType]renderer.Renderer

	renderInterval time.Duration
	lookahead      time.Duration

	shutdownPending atomic.Bool

	readCycle   *cycleLatch
	decodeCycle *cycleLatch
	renderCycle *cycleLatch

	lastRenderTime map[component.MediaType]time.Duration
	lastAdded      bool

	readerDone   chan struct{}
	decoderDone  chan struct{}
	rendererStop chan struct{}
	rendererDone chan struct{}

	// OnFrameDecoded and OnSubtitleDecoded are the engine callbacks exposed
	// to the embedding application; they run synchronously on the decoder
	// loop's goroutine after the frame has already been appended to its
	// MediaBlockBuffer.
	OnFrameDecoded    func(f *component.MediaFrame)
	OnSubtitleDecoded func(f *component.MediaFrame)
}

// New builds a Pipeline ready to Start. renderers supplies at most one
// Renderer per MediaType the caller cares about; any MediaType without an
// entry falls back to renderer.Noop. materializers optionally overrides the
// default passthrough Materializer per MediaType, e.g. to convert decoded
// video frames to RGBA before a Renderer ever sees them; pass nil to use the
// default for every MediaType.
func New(container demux.Container, components *component.ComponentSet, options *mediaopts.MediaOptions, clock mediaclock.Clock, renderers map[component.MediaType]renderer.Renderer, materializers map[component.MediaType]mediablock.Materializer) *Pipeline {
	p := &Pipeline{
		container:      container,
		components:     components,
		options:        options,
		clock:          clock,
		blockBuffers:   make(map[component.MediaType]*mediablock.Buffer),
		renderers:      make(map[component.MediaType]renderer.Renderer),
		renderInterval: defaultRenderInterval,
		lookahead:      defaultLookahead,
		readCycle:      newCycleLatch(),
		decodeCycle:    newCycleLatch(),
		renderCycle:    newCycleLatch(),
		lastRenderTime: make(map[component.MediaType]time.Duration),
	}

	for _, mt := range []component.MediaType{component.Audio, component.Video, component.Subtitle} {
		p.blockBuffers[mt] = mediablock.NewBuffer(mt, materializers[mt])
		if r, ok := renderers[mt]; ok && r != nil {
			p.renderers[mt] = r
		} else {
			p.renderers[mt] = renderer.Noop{}
		}
	}

	p.components.OnFrameDecoded = p.onFrameDecoded
	p.components.OnSubtitleDecoded = p.onSubtitleDecoded

	return p
}

// SetRenderInterval overrides the renderer timer's cadence.
func (p *Pipeline) SetRenderInterval(d time.Duration) { p.renderInterval = d }

// SetLookahead stores d as the pipeline's lookahead. The decoder loop does
// not consult this value when deciding how far to decode.
func (p *Pipeline) SetLookahead(d time.Duration) { p.lookahead = d }

// BlockBuffer exposes one MediaType's buffer, e.g. for a seek to consult
// GetSnapPosition before restarting the reader.
func (p *Pipeline) BlockBuffer(mt component.MediaType) *mediablock.Buffer {
	return p.blockBuffers[mt]
}

// WaitForReadCycle blocks until the reader loop's in-flight cycle completes.
// A seek or other collaborator that needs the packet queue quiescent before
// acting calls this instead of polling.
func (p *Pipeline) WaitForReadCycle() { p.readCycle.Wait() }

// WaitForDecodeCycle blocks until the decoder loop's in-flight cycle completes.
func (p *Pipeline) WaitForDecodeCycle() { p.decodeCycle.Wait() }

// WaitForRenderCycle blocks until the renderer timer's in-flight tick completes.
func (p *Pipeline) WaitForRenderCycle() { p.renderCycle.Wait() }

func (p *Pipeline) onFrameDecoded(_ *component.MediaComponent, f *component.MediaFrame) {
	p.appendBlock(f)
	if p.OnFrameDecoded != nil {
		p.OnFrameDecoded(f)
	}
}

func (p *Pipeline) onSubtitleDecoded(_ *component.MediaComponent, f *component.MediaFrame) {
	p.appendBlock(f)
	if p.OnSubtitleDecoded != nil {
		p.OnSubtitleDecoded(f)
	}
}

func (p *Pipeline) appendBlock(f *component.MediaFrame) {
	buf := p.blockBuffers[f.MediaType]
	if buf == nil {
		f.Release()
		return
	}
	if _, err := buf.Add(f); err != nil {
		log.Printf("pipeline: materialize failed for %s block: %v", f.MediaType, err)
		f.Release()
		return
	}
	p.lastAdded = true
}

// canReadMorePackets reports whether the demuxer itself still has packets to
// give: reads haven't been aborted and the container hasn't hit EOF.
func (p *Pipeline) canReadMorePackets() bool {
	return !p.container.IsReadAborted() && !p.container.IsAtEndOfStream()
}

// shouldReadMorePackets gates the reader loop's admission control: keep
// pulling packets only while shutdown isn't pending and the combined packet
// buffer hasn't hit its configured cache length.
func (p *Pipeline) shouldReadMorePackets() bool {
	if p.shutdownPending.Load() || p.container == nil {
		return false
	}
	return p.canReadMorePackets() && p.components.PacketBufferLength() < p.options.DownloadCacheLength
}

// canReadMoreFramesOf reports whether c might still produce another frame:
// either the demuxer can still feed it, or it already has packets queued or
// held inside the codec.
func (p *Pipeline) canReadMoreFramesOf(c *component.MediaComponent) bool {
	return p.canReadMorePackets() || c.PacketBufferLength() > 0 || c.HasCodecPackets()
}

// Start launches the reader, decoder, and renderer-timer loops. It logs a
// memory snapshot first, the same diagnostic flow-frame's videoPlayer screen
// takes before starting playback of a fresh video.
func (p *Pipeline) Start() {
	performance.LogMemorySnapshot()

	p.rendererStop = make(chan struct{})
	p.rendererDone = make(chan struct{})
	p.readerDone = make(chan struct{})
	p.decoderDone = make(chan struct{})

	go p.readerLoop()
	go p.decoderLoop()
	go p.rendererLoop()
}

func (p *Pipeline) readerLoop() {
	defer close(p.readerDone)

	for !p.shutdownPending.Load() {
		p.readCycle.Begin()
		for p.shouldReadMorePackets() {
			pkt, err := p.container.ReadNextPacket()
			if err != nil {
				if err != io.EOF {
					log.Printf("pipeline: reader: %v", err)
				}
				break
			}
			if !p.components.DispatchPacket(pkt.StreamIndex(), pkt) {
				// No component opened this stream; the packet is ours to
				// release since DispatchPacket only takes ownership when it
				// finds an owner.
				mediapacket.ReleasePacket(pkt)
			}
		}
		p.readCycle.Complete()

		if p.shutdownPending.Load() {
			return
		}
		time.Sleep(time.Millisecond)
	}
}

func (p *Pipeline) decoderLoop() {
	defer close(p.decoderDone)

	for !p.shutdownPending.Load() {
		p.decodeCycle.Begin()

		p.components.ForEach(func(c *component.MediaComponent) {
			for p.canReadMoreFramesOf(c) {
				added, err := p.addNextBlock(c)
				if err != nil {
					log.Printf("pipeline: decode stream %d: %v", c.StreamIndex(), err)
					break
				}
				if !added {
					break
				}
				if p.blockBuffers[c.MediaType()].Count() >= maxBlocksFor(c.MediaType()) {
					break
				}
			}
		})

		p.decodeCycle.Complete()

		if p.shutdownPending.Load() {
			return
		}
		time.Sleep(time.Millisecond)
	}
}

// addNextBlock runs one DecodeOne pump step for c and reports whether it
// produced a block.
func (p *Pipeline) addNextBlock(c *component.MediaComponent) (bool, error) {
	p.lastAdded = false
	if err := p.components.DecodeOne(c); err != nil {
		return false, err
	}
	return p.lastAdded, nil
}

func (p *Pipeline) rendererLoop() {
	defer close(p.rendererDone)

	ticker := time.NewTicker(p.renderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.rendererStop:
			return
		case <-ticker.C:
			p.renderTick()
		}
	}
}

func (p *Pipeline) renderTick() {
	p.renderCycle.Begin()
	defer p.renderCycle.Complete()

	clock := p.clock.Now()
	for _, mt := range []component.MediaType{component.Audio, component.Video, component.Subtitle} {
		buf := p.blockBuffers[mt]
		block, ok := buf.GetSnapPosition(clock)
		if !ok {
			continue
		}
		if last, seen := p.lastRenderTime[mt]; seen && block.PTS == last {
			continue
		}
		if err := p.renderers[mt].Render(block, p.clock); err != nil {
			log.Printf("pipeline: render %s block: %v", mt, err)
			continue
		}
		p.lastRenderTime[mt] = block.PTS
	}
}

// StopWorkers shuts the pipeline down in a fixed order: pause the clock, set
// the shutdown flag, abort demuxer reads, stop the renderer timer, close
// every renderer, join the reader then the decoder, clear every block
// buffer, then reset the clock. Thread abort is never used; only
// cooperative join.
func (p *Pipeline) StopWorkers() {
	p.clock.Pause()
	p.shutdownPending.Store(true)
	if p.container != nil {
		p.container.SignalAbortReads()
	}

	close(p.rendererStop)
	<-p.rendererDone

	for _, mt := range []component.MediaType{component.Audio, component.Video, component.Subtitle} {
		if err := p.renderers[mt].Close(); err != nil {
			log.Printf("pipeline: close %s renderer: %v", mt, err)
		}
	}

	<-p.readerDone
	<-p.decoderDone

	for _, buf := range p.blockBuffers {
		buf.Clear()
	}

	if resettable, ok := p.clock.(interface{ Reset() }); ok {
		resettable.Reset()
	}
}

func maxBlocksFor(mt component.MediaType) int {
	switch mt {
	case component.Video:
		return mediablock.MaxVideoBlocks
	case component.Audio:
		return mediablock.MaxAudioBlocks
	case component.Subtitle:
		return mediablock.MaxSubtitleBlocks
	default:
		return 0
	}
}
