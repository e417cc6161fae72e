package component

import (
	"fmt"

	"mediacore/pkg/codecctx"
)

// FrameSource converts one decoded foreign-memory result into a MediaFrame.
// Each MediaComponent owns exactly one FrameSource, chosen by MediaType at
// construction time, so audio/video/subtitle decode results never pass
// through a branch that doesn't apply to them (sum type via variant structs,
// dispatched on the tag already carried by the component, not inheritance).
type FrameSource interface {
	CreateFrameSource(f *codecctx.Frame) (*MediaFrame, error)
	CreateSubtitleSource(s *codecctx.Subtitle) (*MediaFrame, error)
}

func newFrameSource(mt MediaType, timebaseNum, timebaseDen int) FrameSource {
	switch mt {
	case Audio:
		return &audioSource{num: timebaseNum, den: timebaseDen}
	case Video:
		return &videoSource{num: timebaseNum, den: timebaseDen}
	default:
		return &subtitleSource{}
	}
}

type audioSource struct{ num, den int }

func (a *audioSource) CreateFrameSource(f *codecctx.Frame) (*MediaFrame, error) {
	samples, rate := f.AudioShape()
	dur := durationFromSamples(samples, rate)
	return &MediaFrame{
		MediaType: Audio,
		PTS:       ptsToDuration(f.PTS(), a.num, a.den),
		Duration:  dur,
		avFrame:   f,
	}, nil
}

func (a *audioSource) CreateSubtitleSource(*codecctx.Subtitle) (*MediaFrame, error) {
	return nil, fmt.Errorf("component: audio source cannot materialize a subtitle")
}

type videoSource struct{ num, den int }

func (v *videoSource) CreateFrameSource(f *codecctx.Frame) (*MediaFrame, error) {
	return &MediaFrame{
		MediaType: Video,
		PTS:       ptsToDuration(f.PTS(), v.num, v.den),
		avFrame:   f,
	}, nil
}

func (v *videoSource) CreateSubtitleSource(*codecctx.Subtitle) (*MediaFrame, error) {
	return nil, fmt.Errorf("component: video source cannot materialize a subtitle")
}

type subtitleSource struct{}

func (s *subtitleSource) CreateFrameSource(*codecctx.Frame) (*MediaFrame, error) {
	return nil, fmt.Errorf("component: subtitle source cannot materialize an AV frame")
}

func (s *subtitleSource) CreateSubtitleSource(sub *codecctx.Subtitle) (*MediaFrame, error) {
	start, end := sub.TimeRange()
	return &MediaFrame{
		MediaType: Subtitle,
		StartTime: start,
		EndTime:   end,
		subtitle:  sub,
	}, nil
}
