// Package mediaopts is the MediaOptions configuration surface consumed by
// MediaComponent initialization and the Pipeline, grounded on flow-frame's
// pkg/settings (a small JSON-backed settings struct) and its main.go use of
// godotenv for .env-driven overrides.
package mediaopts

import "time"

// LowResolutionIndex selects how aggressively a decoder should downscale
// internally, mirroring the codec library's own `lowres` option.
type LowResolutionIndex int

const (
	LowResFull LowResolutionIndex = iota
	LowResHalf
	LowResQuarter
	LowResEighth
)

// DecoderParams groups the per-decoder tuning flags applied to every codec
// candidate before it's opened.
type DecoderParams struct {
	EnableFastDecoding     bool
	EnableLowDelayDecoding bool
	LowResolutionIndex     LowResolutionIndex
	RefCountedFrames       bool

	// streamCodecOptions holds raw codec options per stream index, as
	// returned by GetStreamCodecOptions.
	streamCodecOptions map[int]map[string]string
}

// GetStreamCodecOptions returns the raw codec option map configured for
// streamIndex, or nil if none was configured.
func (d *DecoderParams) GetStreamCodecOptions(streamIndex int) map[string]string {
	if d == nil || d.streamCodecOptions == nil {
		return nil
	}
	return d.streamCodecOptions[streamIndex]
}

// SetStreamCodecOptions installs the raw codec option map for streamIndex.
func (d *DecoderParams) SetStreamCodecOptions(streamIndex int, opts map[string]string) {
	if d.streamCodecOptions == nil {
		d.streamCodecOptions = make(map[int]map[string]string)
	}
	d.streamCodecOptions[streamIndex] = opts
}

// MediaOptions is the full configuration surface this core reads from.
type MediaOptions struct {
	// VideoForcedFps is a forced video frame rate, set from the JSON config
	// file or VIDEO_FORCED_FPS. MediaComponent initialization does not read
	// it: neither the stream's frame rate nor the codec's packet timebase is
	// changed by it.
	VideoForcedFps float64

	// DecoderCodec maps a stream index to a forced decoder name.
	DecoderCodec map[int]string

	DecoderParams DecoderParams

	// VideoHardwareDevice, non-empty, triggers hardware accelerator attach
	// for the video component.
	VideoHardwareDevice string

	SubtitlesUrl      string
	SubtitlesDelay    time.Duration
	IsSubtitleDisabled bool

	// DownloadCacheLength bounds the reader's soft backpressure threshold,
	// in bytes of aggregated packet buffer length.
	DownloadCacheLength int64
}

// Default returns sane defaults matching flow-frame's settings.Load pattern
// of always returning a usable configuration, never a zero value the caller
// has to special-case.
func Default() MediaOptions {
	return MediaOptions{
		DecoderCodec:        map[int]string{},
		DownloadCacheLength: 16 << 20, // 16 MiB
	}
}

// ForcedCodecName returns the configured decoder name for streamIndex, or ""
// if none was set.
func (o *MediaOptions) ForcedCodecName(streamIndex int) string {
	if o == nil || o.DecoderCodec == nil {
		return ""
	}
	return o.DecoderCodec[streamIndex]
}
