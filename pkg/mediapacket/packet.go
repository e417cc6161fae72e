// Package mediapacket owns demuxed codec units: the foreign AVPacket handle,
// the two sentinel kinds the decoder pump recognizes, and the FIFO queue a
// MediaComponent drains them from.
package mediapacket

/*
#cgo pkg-config: libavcodec libavutil

#include <stdlib.h>
#include <libavcodec/avcodec.h>
#include <libavutil/mem.h>

// flush_marker is a dedicated, never-dereferenced address. A packet's data
// pointer is stamped to this address to mark it as the flush sentinel, so
// identity can be tested with a pointer comparison instead of inspecting
// payload bytes.
static unsigned char flush_marker_byte;

static void *mc_flush_marker(void) {
	return (void *)&flush_marker_byte;
}

static AVPacket *mc_packet_alloc(void) {
	return av_packet_alloc();
}

static void mc_packet_free(AVPacket *p) {
	av_packet_free(&p);
}

static void mc_packet_mark_flush(AVPacket *p) {
	p->data = (uint8_t *)mc_flush_marker();
	p->size = 0;
}

static int mc_packet_is_flush(AVPacket *p) {
	return p->data == (uint8_t *)mc_flush_marker();
}

static int mc_packet_stream_index(AVPacket *p) {
	return p->stream_index;
}

static void mc_packet_set_stream_index(AVPacket *p, int idx) {
	p->stream_index = idx;
}

static int mc_packet_size(AVPacket *p) {
	return p->size;
}
*/
import "C"

import (
	"sync/atomic"
	"unsafe"

	"mediacore/pkg/codecctx"
)

// Packet is an owned handle to one demuxed codec unit.
type Packet struct {
	cpkt       *C.AVPacket
	streamIdx  int
	size       int
	isReleased atomic.Bool
}

// StreamIndex reports which container stream this packet belongs to.
func (p *Packet) StreamIndex() int { return p.streamIdx }

// Size reports the payload size in bytes. Sentinels report 0.
func (p *Packet) Size() int { return p.size }

// IsFlushPacket reports whether p carries the flush marker in place of a
// data pointer, tested by pointer equality rather than by dereferencing the
// payload.
func (p *Packet) IsFlushPacket() bool {
	return p.cpkt != nil && C.mc_packet_is_flush(p.cpkt) != 0
}

// IsEmptyPacket reports whether p is a real (non-flush) zero-size packet
// used to request drain / attached-picture refresh.
func (p *Packet) IsEmptyPacket() bool {
	return p.size == 0 && !p.IsFlushPacket()
}

// Ptr exposes the raw AVPacket pointer as an opaque handle for codecctx to
// pass into avcodec_send_packet. Flush sentinels never reach this call path;
// callers must check IsFlushPacket first.
func (p *Packet) Ptr() unsafe.Pointer { return unsafe.Pointer(p.cpkt) }

// NewFromDemuxer wraps a freshly read AVPacket (cast in from the demuxer's
// own cgo preamble, which lays out an identical AVPacket struct) as an owned
// Packet.
func NewFromDemuxer(raw unsafe.Pointer, streamIndex int) *Packet {
	cpkt := (*C.AVPacket)(raw)
	codecctx.TrackAlloc("packet")
	return &Packet{
		cpkt:      cpkt,
		streamIdx: streamIndex,
		size:      int(C.mc_packet_size(cpkt)),
	}
}

// CreateFlushPacket produces the flush sentinel for streamIndex. Its storage
// is a real AVPacket (so ReleasePacket always has something to free) whose
// data pointer is stamped with the flush marker address.
func CreateFlushPacket(streamIndex int) *Packet {
	cpkt := C.mc_packet_alloc()
	C.mc_packet_set_stream_index(cpkt, C.int(streamIndex))
	C.mc_packet_mark_flush(cpkt)
	codecctx.TrackAlloc("packet")
	return &Packet{cpkt: cpkt, streamIdx: streamIndex}
}

// CreateEmptyPacket produces a real, zero-size packet requesting the codec
// enter drain mode or refresh its attached-picture output.
func CreateEmptyPacket(streamIndex int) *Packet {
	cpkt := C.mc_packet_alloc()
	C.mc_packet_set_stream_index(cpkt, C.int(streamIndex))
	codecctx.TrackAlloc("packet")
	return &Packet{cpkt: cpkt, streamIdx: streamIndex}
}

// ReleasePacket returns p's storage (including sentinel storage) to the
// codec library. Safe to call more than once; only the first call frees.
func ReleasePacket(p *Packet) {
	if p == nil {
		return
	}
	if !p.isReleased.CompareAndSwap(false, true) {
		return
	}
	if p.cpkt != nil {
		C.mc_packet_free(p.cpkt)
		p.cpkt = nil
	}
	codecctx.TrackFree("packet")
}
