// Package component implements MediaComponent, the per-stream decode unit
// that owns one codec context, its packet queue, and the frame source that
// turns decode results into MediaFrames (spec §4.2-§4.4).
package component

import (
	"log"
	"strconv"
	"sync/atomic"
	"time"

	"mediacore/pkg/codecctx"
	"mediacore/pkg/demux"
	"mediacore/pkg/hwaccel"
	"mediacore/pkg/mediaopts"
	"mediacore/pkg/mediapacket"
)

// MediaComponent drives decode for exactly one demuxed stream.
type MediaComponent struct {
	Main bool

	streamIndex   int
	mediaType     MediaType
	stream        demux.StreamInfo
	ctx           Decoder
	codecName     string
	hardwareName  string
	usingHardware bool

	timebaseNum, timebaseDen int
	startTimeOffset          time.Duration
	duration                 time.Duration

	source FrameSource
	queue  *mediapacket.Queue

	hasCodecPackets atomic.Bool
	isDisposed      atomic.Bool

	lifetimeBytesRead int64
}

// NewComponent opens a decoder for container's stream at streamIndex,
// resolving MediaType from the opened codec context rather than trusting
// the caller, per the "unsupported media type" edge case in spec §4.2.
func NewComponent(container demux.Container, streamIndex int, options *mediaopts.MediaOptions, accel hwaccel.Accelerator) (*MediaComponent, error) {
	if container == nil {
		return nil, &ArgumentError{Reason: "container is nil"}
	}
	var stream demux.StreamInfo
	for _, s := range container.Streams() {
		if s.Index() == streamIndex {
			stream = s
			break
		}
	}
	if stream == nil {
		return nil, &ArgumentError{Reason: "invalid stream index"}
	}

	mc := &MediaComponent{streamIndex: streamIndex, stream: stream}

	candidate := codecctx.FindDecoder(stream.CodecID())
	if forced := options.ForcedCodecName(streamIndex); forced != "" {
		candidate = codecctx.FindDecoderByName(forced)
	}
	if candidate == nil {
		return nil, containerErrorf("no decoder available for stream %d", streamIndex)
	}

	candidates := []*codecctx.Codec{candidate}
	if options.ForcedCodecName(streamIndex) == "" && options.VideoHardwareDevice != "" && accel != nil && stream.RawMediaType() == avMediaTypeVideo {
		if err := accel.Attach(mc, candidate.Name(), options.VideoHardwareDevice); err == nil {
			if hw := mc.hardwareName; hw != "" && hw != candidate.Name() {
				if hwCodec := codecctx.FindDecoderByName(hw); hwCodec != nil {
					candidates = []*codecctx.Codec{hwCodec, candidate}
				}
			}
		} else {
			mc.usingHardware = false
		}
	}

	ctx, opened, err := tryOpenCandidates(candidates, stream, options, streamIndex)
	if err != nil {
		return nil, err
	}

	mt, ok := mediaTypeFromRaw(ctx.MediaType())
	if !ok {
		ctx.Close()
		return nil, containerErrorf("stream %d has unsupported media type", streamIndex)
	}
	stream.SetDiscardDefault()

	num, den := stream.Timebase()
	mc.mediaType = mt
	mc.ctx = ctx
	mc.codecName = opened.Name()
	mc.timebaseNum, mc.timebaseDen = num, den
	mc.source = newFrameSource(mt, num, den)
	mc.queue = mediapacket.NewQueue()

	if pts, valid := stream.StartTime(); valid {
		mc.startTimeOffset = ptsToDuration(pts, num, den)
	} else {
		mc.startTimeOffset = container.MediaStartTimeOffset()
	}
	if dur, valid := stream.Duration(); valid {
		mc.duration = ptsToDuration(dur, num, den)
	}

	mc.queue.Push(mediapacket.CreateFlushPacket(streamIndex))

	return mc, nil
}

func tryOpenCandidates(candidates []*codecctx.Codec, stream demux.StreamInfo, options *mediaopts.MediaOptions, streamIndex int) (*codecctx.Context, *codecctx.Codec, error) {
	var lastErr error
	for _, cand := range candidates {
		ctx := codecctx.AllocContext()
		if err := ctx.CopyParamsFrom(stream.ParamsPtr()); err != nil {
			log.Printf("component: stream %d: %v", streamIndex, err)
		}
		ctx.SetCodecID(cand.ID())
		num, den := stream.Timebase()
		ctx.SetPacketTimebase(num, den)
		ctx.SetFastDecoding(options.DecoderParams.EnableFastDecoding)
		ctx.SetLowDelay(options.DecoderParams.EnableLowDelayDecoding)
		ctx.SetRefCountedFrames(options.DecoderParams.RefCountedFrames)

		dict := codecctx.NewDictionary(options.DecoderParams.GetStreamCodecOptions(streamIndex))
		if lr := int(options.DecoderParams.LowResolutionIndex); lr > 0 && cand.MaxLowres() > 0 {
			dict.Set("lowres", strconv.Itoa(min(cand.MaxLowres(), lr)))
		}
		err := ctx.Open(cand, dict)
		if err != nil {
			dict.Free()
			ctx.Close()
			lastErr = err
			continue
		}
		if remaining := dict.RemainingKeys(); len(remaining) > 0 {
			log.Printf("component: stream %d ignored unsupported codec options %v", streamIndex, remaining)
		}
		dict.Free()
		return ctx, cand, nil
	}
	if lastErr == nil {
		return nil, nil, containerErrorf("no candidate codec could be opened for stream %d", streamIndex)
	}
	return nil, nil, containerErrorf("no candidate codec could be opened for stream %d: %v", streamIndex, lastErr)
}

// SetHardwareInfo implements hwaccel.VideoComponent.
func (c *MediaComponent) SetHardwareInfo(name string, usingHardware bool) {
	c.hardwareName = name
	c.usingHardware = usingHardware
}

func (c *MediaComponent) StreamIndex() int                { return c.streamIndex }
func (c *MediaComponent) MediaType() MediaType             { return c.mediaType }
func (c *MediaComponent) CodecName() string                { return c.codecName }
func (c *MediaComponent) UsingHardware() bool               { return c.usingHardware }
func (c *MediaComponent) StartTimeOffset() time.Duration   { return c.startTimeOffset }
func (c *MediaComponent) Duration() time.Duration           { return c.duration }
func (c *MediaComponent) Bitrate() int64                    { return c.ctx.Bitrate() }
func (c *MediaComponent) HasCodecPackets() bool             { return c.hasCodecPackets.Load() }
func (c *MediaComponent) IsDisposed() bool                  { return c.isDisposed.Load() }
func (c *MediaComponent) PacketBufferLength() int64         { return c.queue.BufferLength() }
func (c *MediaComponent) PacketCount() int                  { return c.queue.Count() }

// LifetimeBytesRead returns the sum of every non-sentinel packet's size ever
// passed to SendPacket on this component.
func (c *MediaComponent) LifetimeBytesRead() int64 { return atomic.LoadInt64(&c.lifetimeBytesRead) }

// EnqueuePacket accepts one demuxed packet for this stream's queue.
// HasCodecPackets only becomes true once the codec actually accepts a
// packet from this queue, in FeedPacketsToDecoder.
func (c *MediaComponent) EnqueuePacket(p *mediapacket.Packet) {
	c.queue.Push(p)
}

// Dispose releases the codec context and drains the packet queue. Safe to
// call more than once.
func (c *MediaComponent) Dispose() {
	if !c.isDisposed.CompareAndSwap(false, true) {
		return
	}
	c.queue.Clear()
	if c.ctx != nil {
		c.ctx.Close()
	}
}
