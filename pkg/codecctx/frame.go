package codecctx

/*
#cgo pkg-config: libavutil libavcodec

#include <libavutil/frame.h>

static AVFrame *mc_frame_alloc(void) {
	return av_frame_alloc();
}

static void mc_frame_free(AVFrame *f) {
	av_frame_free(&f);
}

static long long mc_frame_pts(AVFrame *f) {
	return (long long)f->pts;
}

static int mc_frame_width(AVFrame *f) {
	return f->width;
}

static int mc_frame_height(AVFrame *f) {
	return f->height;
}

static int mc_frame_nb_samples(AVFrame *f) {
	return f->nb_samples;
}

static int mc_frame_sample_rate(AVFrame *f) {
	return f->sample_rate;
}
*/
import "C"

import "unsafe"

// Frame is a foreign AVFrame handle, allocated fresh by the AV pump for each
// ReceiveFrame call and released explicitly once its contents have been
// materialized or discarded.
type Frame struct {
	c *C.AVFrame
}

// AllocFrame allocates a fresh, empty frame.
func AllocFrame() *Frame {
	f := &Frame{c: C.mc_frame_alloc()}
	TrackAlloc("frame")
	return f
}

// Ptr exposes the raw AVFrame pointer so a MediaType-specific materializer
// can read picture/sample data directly.
func (f *Frame) Ptr() unsafe.Pointer { return unsafe.Pointer(f.c) }

// PTS returns the frame's presentation timestamp in its stream timebase.
func (f *Frame) PTS() int64 { return int64(C.mc_frame_pts(f.c)) }

// Dimensions returns a video frame's width and height.
func (f *Frame) Dimensions() (int, int) {
	return int(C.mc_frame_width(f.c)), int(C.mc_frame_height(f.c))
}

// AudioShape returns an audio frame's sample count and sample rate.
func (f *Frame) AudioShape() (samples, rate int) {
	return int(C.mc_frame_nb_samples(f.c)), int(C.mc_frame_sample_rate(f.c))
}

// Free releases the underlying AVFrame. Safe on a nil Frame.
func (f *Frame) Free() {
	if f == nil || f.c == nil {
		return
	}
	C.mc_frame_free(f.c)
	f.c = nil
	TrackFree("frame")
}
