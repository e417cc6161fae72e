package codecctx

/*
#cgo pkg-config: libavcodec libavutil

#include <libavcodec/avcodec.h>

static AVSubtitle *mc_subtitle_alloc(void) {
	AVSubtitle *s = (AVSubtitle *)av_mallocz(sizeof(AVSubtitle));
	return s;
}

static void mc_subtitle_free(AVSubtitle *s) {
	if (!s) {
		return;
	}
	avsubtitle_free(s);
	av_free(s);
}

static int mc_decode_subtitle2(AVCodecContext *ctx, AVSubtitle *sub, void *pkt) {
	int got = 0;
	int ret = avcodec_decode_subtitle2(ctx, sub, &got, (AVPacket *)pkt);
	if (ret < 0) {
		return ret;
	}
	return got ? 1 : 0;
}

static long long mc_subtitle_pts(AVSubtitle *s) {
	return (long long)s->pts;
}

static unsigned int mc_subtitle_start_display_time(AVSubtitle *s) {
	return s->start_display_time;
}

static unsigned int mc_subtitle_end_display_time(AVSubtitle *s) {
	return s->end_display_time;
}
*/
import "C"

import (
	"time"
	"unsafe"
)

// Subtitle is a foreign AVSubtitle output buffer for the older synchronous
// decode_subtitle2 contract.
type Subtitle struct {
	c *C.AVSubtitle
}

// AllocSubtitle allocates a zeroed AVSubtitle ready to receive output.
func AllocSubtitle() *Subtitle {
	s := &Subtitle{c: C.mc_subtitle_alloc()}
	TrackAlloc("subtitle")
	return s
}

// Ptr exposes the raw AVSubtitle pointer for materialization.
func (s *Subtitle) Ptr() unsafe.Pointer { return unsafe.Pointer(s.c) }

// Free releases the subtitle, including any rectangles FFmpeg allocated
// inside it.
func (s *Subtitle) Free() {
	if s == nil || s.c == nil {
		return
	}
	C.mc_subtitle_free(s.c)
	s.c = nil
	TrackFree("subtitle")
}

// TimeRange returns the subtitle's absolute display start/end times, derived
// from AVSubtitle.pts (AV_TIME_BASE units) plus the start/end_display_time
// millisecond offsets FFmpeg fills in relative to it.
func (s *Subtitle) TimeRange() (start, end time.Duration) {
	base := time.Duration(int64(C.mc_subtitle_pts(s.c))) * time.Microsecond
	start = base + time.Duration(C.mc_subtitle_start_display_time(s.c))*time.Millisecond
	end = base + time.Duration(C.mc_subtitle_end_display_time(s.c))*time.Millisecond
	return start, end
}

// DecodeSubtitle2 runs the synchronous decode_subtitle2 contract. The
// returned bool reports whether a subtitle was produced ("got_sub_ptr" != 0);
// ret is the codec's raw return status (negative on hard error).
func (ctx *Context) DecodeSubtitle2(sub *Subtitle, pkt unsafe.Pointer) (got bool, ret int) {
	r := int(C.mc_decode_subtitle2(ctx.c, sub.c, pkt))
	if r < 0 {
		return false, r
	}
	return r == 1, 0
}
