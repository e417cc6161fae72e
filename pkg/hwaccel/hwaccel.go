// Package hwaccel pins the hardware-acceleration attach shim as an external
// collaborator and supplies a reference implementation that tries the same
// platform/codec-family decoder names flow-frame's cgo layer probes in
// pkg/mpeg/player.go's init_decoder before giving up to software.
package hwaccel

import (
	"fmt"
	"strings"
)

// VideoComponent is the narrow view of a video MediaComponent the
// accelerator needs: enough to record what it attached, nothing more.
type VideoComponent interface {
	SetHardwareInfo(name string, usingHardware bool)
}

// Accelerator attaches hardware decoding to a video component for a given
// candidate codec name and device spec (e.g. "vaapi", "videotoolbox",
// "rkmpp"). It is consulted once per video component, with the software
// candidate's name, before any candidate is opened.
type Accelerator interface {
	Attach(video VideoComponent, candidateCodecName, device string) error
}

// candidatesByFamily mirrors flow-frame's priority_decoders table: for a
// software decoder name, the hardware variants worth trying first.
var candidatesByFamily = map[string][]string{
	"h264": {"h264_vaapi", "h264_nvdec", "h264_videotoolbox", "h264_rkmpp"},
	"hevc": {"hevc_vaapi", "hevc_nvdec", "hevc_videotoolbox", "hevc_rkmpp"},
	"vp9":  {"vp9_vaapi"},
	"vp8":  {"vp8_vaapi"},
	"av1":  {"av1_vaapi"},
}

// probeFunc reports whether a named hardware decoder is usable on this host.
// It is a package variable so tests can stub host probing without touching
// real hardware.
var probeFunc = func(name, device string) bool { return false }

// Default is a best-effort Accelerator: it walks the candidate list for the
// component's current software codec family and records the first one that
// probes usable, otherwise leaves the component on software decoding.
type Default struct{}

// Attach implements Accelerator.
func (Default) Attach(video VideoComponent, candidateCodecName, device string) error {
	if device == "" {
		return nil
	}
	family := codecFamily(candidateCodecName)
	for _, candidate := range candidatesByFamily[family] {
		if probeFunc(candidate, device) {
			video.SetHardwareInfo(candidate, true)
			return nil
		}
	}
	return fmt.Errorf("hwaccel: no hardware decoder available for %q on device %q", candidateCodecName, device)
}

func codecFamily(codecName string) string {
	lower := strings.ToLower(codecName)
	switch {
	case strings.Contains(lower, "hevc") || strings.Contains(lower, "h265"):
		return "hevc"
	case strings.Contains(lower, "h264") || strings.Contains(lower, "avc"):
		return "h264"
	case strings.Contains(lower, "vp9"):
		return "vp9"
	case strings.Contains(lower, "vp8"):
		return "vp8"
	case strings.Contains(lower, "av1"):
		return "av1"
	default:
		return ""
	}
}
