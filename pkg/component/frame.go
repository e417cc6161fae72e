package component

import (
	"time"

	"mediacore/pkg/codecctx"
)

// MediaFrame is a short-lived handle to one decoded audio sample batch,
// video frame, or subtitle. Subtitles carry explicit start/end times;
// audio carries a PTS plus a duration derived from its sample count and
// rate; video carries a PTS only, and its Duration is left at zero.
type MediaFrame struct {
	MediaType MediaType
	PTS       time.Duration
	Duration  time.Duration

	// Only meaningful for Subtitle frames.
	StartTime time.Duration
	EndTime   time.Duration

	// Exactly one of these is non-nil, matching MediaType.
	avFrame  *codecctx.Frame
	subtitle *codecctx.Subtitle
}

// AVFrame exposes the underlying decoded frame for audio/video materializers
// downstream (pixel/sample conversion is the renderer's job, not ours).
func (f *MediaFrame) AVFrame() *codecctx.Frame { return f.avFrame }

// Subtitle exposes the underlying decoded subtitle for the subtitle
// materializer.
func (f *MediaFrame) Subtitle() *codecctx.Subtitle { return f.subtitle }

// Release returns the frame's foreign storage. Safe to call once ownership
// has passed to a MediaBlock only if the block itself did not take over
// release (see mediablock.Block.Release, which calls this).
func (f *MediaFrame) Release() {
	if f == nil {
		return
	}
	f.avFrame.Free()
	f.subtitle.Free()
}
