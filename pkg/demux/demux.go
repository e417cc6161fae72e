// Package demux pins the container/demuxer interfaces the pipeline consumes
// as an external collaborator and is not itself part of the decode core.
// pkg/demux/avformatdemux supplies one concrete, cgo-backed implementation
// so the pipeline can be exercised end to end.
package demux

import (
	"time"
	"unsafe"

	"mediacore/pkg/mediapacket"
)

// Container is the open demuxer the reader loop pulls packets from.
type Container interface {
	// Streams lists every demuxed stream, in container order.
	Streams() []StreamInfo

	// ReadNextPacket blocks until the next packet is available, the
	// container reaches end of stream, or reads are aborted. It returns
	// (nil, io.EOF) at end of stream.
	ReadNextPacket() (*mediapacket.Packet, error)

	// IsReadAborted reports whether SignalAbortReads has been called.
	IsReadAborted() bool

	// IsAtEndOfStream reports whether the underlying format context has
	// observed EOF.
	IsAtEndOfStream() bool

	// SignalAbortReads breaks any in-flight or future ReadNextPacket call.
	SignalAbortReads()

	// MediaStartTimeOffset is the container-level start time offset used
	// by streams that report no timestamp of their own.
	MediaStartTimeOffset() time.Duration
}

// StreamInfo is one demuxed stream's metadata and codec parameters, read and
// mutated (discard policy) during MediaComponent initialization.
type StreamInfo interface {
	Index() int
	CodecID() int
	// RawMediaType returns the codec library's AVMediaType for this stream.
	RawMediaType() int

	// Timebase returns the stream's rational timebase.
	Timebase() (num, den int)

	// StartTime returns the stream's reported start PTS in its own
	// timebase, and whether the stream reported one at all.
	StartTime() (pts int64, valid bool)

	// Duration returns the stream's reported duration in its own
	// timebase, and whether it is non-zero.
	Duration() (dur int64, valid bool)

	// SetFrameRate stamps a forced frame rate onto the stream (video only).
	// MediaComponent initialization does not call it.
	SetFrameRate(num, den int)

	// SetDiscardDefault marks the stream with the codec library's default
	// discard policy once initialization completes.
	SetDiscardDefault()

	// ParamsPtr exposes the stream's AVCodecParameters as an opaque
	// pointer for codecctx.Context.CopyParamsFrom.
	ParamsPtr() unsafe.Pointer
}
