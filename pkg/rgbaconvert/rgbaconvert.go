// Package rgbaconvert turns a decoded video AVFrame into an RGBA32 pixel
// buffer a Renderer can hand straight to a texture. Pixel format conversion
// is explicitly out of this core's scope (mediablock's default Materializer
// passes the raw frame through); this package is the reference converter a
// caller's own Materializer wires in, grounded on flow-frame's
// Player.updateTexture sws_getContext/sws_scale pair in pkg/mpeg/player.go.
package rgbaconvert

/*
#cgo pkg-config: libavutil libswscale

#include <libavutil/frame.h>
#include <libswscale/swscale.h>

static struct SwsContext *mc_sws_get(struct SwsContext *old, int srcW, int srcH, int srcFmt, int dstW, int dstH) {
	return sws_getCachedContext(old, srcW, srcH, (enum AVPixelFormat)srcFmt, dstW, dstH, AV_PIX_FMT_RGBA, SWS_BILINEAR, NULL, NULL, NULL);
}

static int mc_sws_scale(struct SwsContext *ctx, AVFrame *src, uint8_t *dst, int dstLinesize) {
	uint8_t *dstData[4] = { dst, NULL, NULL, NULL };
	int dstLinesizes[4] = { dstLinesize, 0, 0, 0 };
	return sws_scale(ctx, (const uint8_t * const *)src->data, src->linesize, 0, src->height, dstData, dstLinesizes);
}

static void mc_sws_free(struct SwsContext *ctx) {
	if (ctx != NULL) {
		sws_freeContext(ctx);
	}
}

static int mc_frame_width(AVFrame *f) { return f->width; }
static int mc_frame_height(AVFrame *f) { return f->height; }
static int mc_frame_format(AVFrame *f) { return f->format; }
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// Converter holds a cached libswscale context, reused across Convert calls
// as long as the source frame's size and pixel format stay the same.
type Converter struct {
	ctx *C.struct_SwsContext
}

// NewConverter returns a Converter with no cached context yet; the first
// Convert call allocates one sized to that frame.
func NewConverter() *Converter { return &Converter{} }

// Convert reads framePtr as an *AVFrame (the pointer codecctx.Frame.Ptr
// exposes) and returns a freshly allocated RGBA32 buffer sized width*height*4,
// plus the frame's width and height.
func (c *Converter) Convert(framePtr unsafe.Pointer) (pixels []byte, width, height int, err error) {
	if framePtr == nil {
		return nil, 0, 0, fmt.Errorf("rgbaconvert: nil frame")
	}
	f := (*C.AVFrame)(framePtr)
	w := int(C.mc_frame_width(f))
	h := int(C.mc_frame_height(f))
	if w <= 0 || h <= 0 {
		return nil, 0, 0, fmt.Errorf("rgbaconvert: frame has no dimensions")
	}
	format := C.mc_frame_format(f)

	c.ctx = C.mc_sws_get(c.ctx, C.int(w), C.int(h), format, C.int(w), C.int(h))
	if c.ctx == nil {
		return nil, 0, 0, fmt.Errorf("rgbaconvert: sws_getCachedContext failed")
	}

	dst := make([]byte, w*h*4)
	linesize := w * 4
	ret := C.mc_sws_scale(c.ctx, f, (*C.uint8_t)(unsafe.Pointer(&dst[0])), C.int(linesize))
	if ret <= 0 {
		return nil, 0, 0, fmt.Errorf("rgbaconvert: sws_scale: %d", int(ret))
	}
	return dst, w, h, nil
}

// Close releases the cached scaling context. Safe to call more than once or
// on a Converter that never converted a frame.
func (c *Converter) Close() {
	if c.ctx != nil {
		C.mc_sws_free(c.ctx)
		c.ctx = nil
	}
}
