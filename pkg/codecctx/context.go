// Package codecctx wraps the codec library's per-stream context lifecycle:
// allocation, candidate codec selection, the global open/dispose lock, and
// the send-packet/receive-frame contract MediaComponent drives. It is the
// only package in this module that imports "C" against libavcodec/libavutil;
// everything else talks to it through opaque Go types.
package codecctx

/*
#cgo pkg-config: libavcodec libavutil

#include <stdlib.h>
#include <libavcodec/avcodec.h>
#include <libavutil/avutil.h>
#include <libavutil/dict.h>
#include <libavutil/rational.h>

static AVCodecContext *mc_ctx_alloc(const AVCodec *codec) {
	return avcodec_alloc_context3(codec);
}

static void mc_ctx_free(AVCodecContext *ctx) {
	avcodec_free_context(&ctx);
}

static int mc_ctx_params_to_context(AVCodecContext *ctx, void *params) {
	return avcodec_parameters_to_context(ctx, (const AVCodecParameters *)params);
}

static void mc_ctx_set_pkt_timebase(AVCodecContext *ctx, int num, int den) {
	ctx->pkt_timebase.num = num;
	ctx->pkt_timebase.den = den;
}

static void mc_ctx_set_codec_id(AVCodecContext *ctx, int id) {
	ctx->codec_id = (enum AVCodecID)id;
}

static void mc_ctx_set_fast(AVCodecContext *ctx, int on) {
	if (on) {
		ctx->flags2 |= AV_CODEC_FLAG2_FAST;
	} else {
		ctx->flags2 &= ~AV_CODEC_FLAG2_FAST;
	}
}

static void mc_ctx_set_low_delay(AVCodecContext *ctx, int on) {
	if (on) {
		ctx->flags |= AV_CODEC_FLAG_LOW_DELAY;
	} else {
		ctx->flags &= ~AV_CODEC_FLAG_LOW_DELAY;
	}
}

static void mc_ctx_set_refcounted_frames(AVCodecContext *ctx, int on) {
#if LIBAVCODEC_VERSION_MAJOR < 60
	ctx->refcounted_frames = on;
#endif
	(void)ctx;
	(void)on;
}

static int mc_ctx_media_type(AVCodecContext *ctx) {
	return (int)ctx->codec_type;
}

static int mc_ctx_max_lowres(const AVCodec *codec) {
	return codec ? (int)codec->max_lowres : 0;
}

static const char *mc_codec_name(const AVCodec *codec) {
	return codec ? codec->name : "";
}

static int mc_codec_id(const AVCodec *codec) {
	return codec ? (int)codec->id : -1;
}

static int mc_ctx_codec_id(AVCodecContext *ctx) {
	return (int)ctx->codec_id;
}

static long long mc_ctx_bit_rate(AVCodecContext *ctx) {
	return (long long)ctx->bit_rate;
}

static int mc_open2(AVCodecContext *ctx, const AVCodec *codec, AVDictionary **options) {
	return avcodec_open2(ctx, codec, options);
}

static void mc_flush_buffers(AVCodecContext *ctx) {
	avcodec_flush_buffers(ctx);
}

static int mc_send_packet(AVCodecContext *ctx, void *pkt) {
	return avcodec_send_packet(ctx, (const AVPacket *)pkt);
}

static int mc_receive_frame(AVCodecContext *ctx, void *frame) {
	return avcodec_receive_frame(ctx, (AVFrame *)frame);
}

static int mc_is_again(int ret) {
	return ret == AVERROR(EAGAIN);
}

static int mc_is_eof(int ret) {
	return ret == AVERROR_EOF;
}

static int mc_averror_eagain(void) {
	return AVERROR(EAGAIN);
}

static int mc_averror_eof(void) {
	return AVERROR_EOF;
}
*/
import "C"

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// Codec is a found decoder candidate (AVCodec*), immutable once looked up.
type Codec struct {
	c *C.AVCodec
}

// FindDecoder looks up the default decoder for a codec id.
func FindDecoder(codecID int) *Codec {
	c := C.avcodec_find_decoder(C.enum_AVCodecID(codecID))
	if c == nil {
		return nil
	}
	return &Codec{c: c}
}

// FindDecoderByName looks up a decoder by its registered name.
func FindDecoderByName(name string) *Codec {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	c := C.avcodec_find_decoder_by_name(cname)
	if c == nil {
		return nil
	}
	return &Codec{c: c}
}

// Name returns the candidate's registered decoder name.
func (c *Codec) Name() string {
	if c == nil {
		return ""
	}
	return C.GoString(C.mc_codec_name(c.c))
}

// ID returns the candidate's AVCodecID.
func (c *Codec) ID() int {
	if c == nil {
		return -1
	}
	return int(C.mc_codec_id(c.c))
}

// MaxLowres returns the candidate's maximum supported low-resolution index,
// 0 if the decoder does not support low-resolution decoding at all.
func (c *Codec) MaxLowres() int {
	if c == nil {
		return 0
	}
	return int(C.mc_ctx_max_lowres(c.c))
}

// Context wraps one AVCodecContext for the lifetime of a MediaComponent.
type Context struct {
	c        *C.AVCodecContext
	codec    *Codec
	disposed atomic.Bool
}

// AllocContext allocates a fresh, codec-less codec context.
func AllocContext() *Context {
	c := C.mc_ctx_alloc(nil)
	TrackAlloc("codec_context")
	return &Context{c: c}
}

// CopyParamsFrom copies stream codec parameters (an AVCodecParameters*
// owned by the demuxer package, passed in as an opaque pointer) into ctx.
// A non-nil error here is logged as a warning by the caller; it does not
// abort initialization by itself.
func (ctx *Context) CopyParamsFrom(params unsafe.Pointer) error {
	if ret := C.mc_ctx_params_to_context(ctx.c, params); ret < 0 {
		return fmt.Errorf("avcodec_parameters_to_context: %d", int(ret))
	}
	return nil
}

// SetPacketTimebase stamps the context's pkt_timebase.
func (ctx *Context) SetPacketTimebase(num, den int) {
	C.mc_ctx_set_pkt_timebase(ctx.c, C.int(num), C.int(den))
}

// SetCodecID stamps the codec id a candidate will be opened against.
func (ctx *Context) SetCodecID(id int) {
	C.mc_ctx_set_codec_id(ctx.c, C.int(id))
}

// SetFastDecoding toggles the codec's fast-decoding flag.
func (ctx *Context) SetFastDecoding(on bool) {
	C.mc_ctx_set_fast(ctx.c, boolToC(on))
}

// SetLowDelay toggles the codec's low-delay flag.
func (ctx *Context) SetLowDelay(on bool) {
	C.mc_ctx_set_low_delay(ctx.c, boolToC(on))
}

// SetRefCountedFrames forces refcounted frame output where the linked codec
// library version still exposes the (now-default, now-deprecated) field.
func (ctx *Context) SetRefCountedFrames(on bool) {
	C.mc_ctx_set_refcounted_frames(ctx.c, boolToC(on))
}

// MediaType returns the raw AVMediaType of the context's codec.
func (ctx *Context) MediaType() int {
	return int(C.mc_ctx_media_type(ctx.c))
}

// Open acquires the global codec lock and opens ctx against candidate with
// the given options. Unconsumed option keys remain in options after return
// so the caller can warn about them.
func (ctx *Context) Open(candidate *Codec, options *Dictionary) error {
	globalLock.Lock()
	defer globalLock.Unlock()

	var dictPtr *C.AVDictionary
	if options != nil {
		dictPtr = options.d
	}
	ret := C.mc_open2(ctx.c, candidate.c, &dictPtr)
	if options != nil {
		options.d = dictPtr
	}
	if ret < 0 {
		return fmt.Errorf("avcodec_open2(%s): %d", candidate.Name(), int(ret))
	}
	ctx.codec = candidate
	return nil
}

// Close releases ctx's foreign context. Idempotent; safe to call while a
// concurrent ReceiveNextFrame might still be mid-flight elsewhere only in
// the sense that Close itself never double-frees -- callers are responsible
// for not invoking decode operations on a context concurrently with Close.
func (ctx *Context) Close() {
	if !ctx.disposed.CompareAndSwap(false, true) {
		return
	}
	globalLock.Lock()
	defer globalLock.Unlock()
	if ctx.c != nil {
		C.mc_ctx_free(ctx.c)
		ctx.c = nil
	}
	TrackFree("codec_context")
}

// FlushBuffers drains any buffered input/output inside the codec.
func (ctx *Context) FlushBuffers() {
	if ctx.c == nil {
		return
	}
	C.mc_flush_buffers(ctx.c)
}

// SendPacket forwards a non-sentinel packet (an AVPacket* owned by
// mediapacket, passed as an opaque pointer) to the codec.
func (ctx *Context) SendPacket(pkt unsafe.Pointer) int {
	return int(C.mc_send_packet(ctx.c, pkt))
}

// SendEmptyPacket sends a nil packet, requesting drain / attached-picture
// refresh semantics from the codec.
func (ctx *Context) SendEmptyPacket() int {
	return int(C.mc_send_packet(ctx.c, nil))
}

// ReceiveFrame pulls one decoded frame (an AVFrame* owned by Frame) from the
// codec.
func (ctx *Context) ReceiveFrame(f *Frame) int {
	return int(C.mc_receive_frame(ctx.c, unsafe.Pointer(f.c)))
}

// CodecID returns the AVCodecID actually stamped on the context.
func (ctx *Context) CodecID() int {
	return int(C.mc_ctx_codec_id(ctx.c))
}

// CodecName returns the name of the candidate this context was opened
// against, or "" if it is not yet open.
func (ctx *Context) CodecName() string {
	if ctx.codec == nil {
		return ""
	}
	return ctx.codec.Name()
}

// Bitrate returns the stream's declared bitrate.
func (ctx *Context) Bitrate() int64 {
	return int64(C.mc_ctx_bit_rate(ctx.c))
}

// IsAgain reports whether ret is the codec's AGAIN transient status.
func IsAgain(ret int) bool { return C.mc_is_again(C.int(ret)) != 0 }

// IsEOF reports whether ret is the codec's drain-complete status.
func IsEOF(ret int) bool { return C.mc_is_eof(C.int(ret)) != 0 }

// RetAgain and RetEOF are the codec library's AGAIN/EOF return codes,
// exported so collaborators (and their tests) can construct matching
// statuses without their own cgo dependency on libavutil's error macros.
var (
	RetAgain = int(C.mc_averror_eagain())
	RetEOF   = int(C.mc_averror_eof())
)

func boolToC(b bool) C.int {
	if b {
		return 1
	}
	return 0
}
