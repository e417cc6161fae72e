package mediaopts

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// fileOverrides mirrors the JSON-persisted subset of MediaOptions, matching
// flow-frame's pkg/settings.Settings shape: a small struct decoded straight
// off disk, falling back to defaults on any error rather than failing.
type fileOverrides struct {
	VideoForcedFps      float64 `json:"videoForcedFps"`
	VideoHardwareDevice string  `json:"videoHardwareDevice"`
	SubtitlesUrl        string  `json:"subtitlesUrl"`
	SubtitlesDelayMs    int64   `json:"subtitlesDelayMs"`
	IsSubtitleDisabled  bool    `json:"isSubtitleDisabled"`
	DownloadCacheLength int64   `json:"downloadCacheLength"`
}

// Load builds a MediaOptions the way flow-frame's main.go assembles its own
// configuration: load .env (warning, not fatal, if absent), start from
// Default(), layer a JSON config file over it if present, then let a
// handful of environment variables win last.
func Load(jsonPath string) MediaOptions {
	if err := godotenv.Load(); err != nil {
		log.Printf("mediaopts: .env not loaded: %v", err)
	}

	opts := Default()

	if jsonPath != "" {
		if f, err := os.Open(jsonPath); err == nil {
			defer f.Close()
			var fo fileOverrides
			if err := json.NewDecoder(f).Decode(&fo); err != nil {
				log.Printf("mediaopts: malformed config %s, using defaults: %v", jsonPath, err)
			} else {
				applyFileOverrides(&opts, fo)
			}
		}
	}

	applyEnvOverrides(&opts)
	return opts
}

func applyFileOverrides(opts *MediaOptions, fo fileOverrides) {
	if fo.VideoForcedFps > 0 {
		opts.VideoForcedFps = fo.VideoForcedFps
	}
	if fo.VideoHardwareDevice != "" {
		opts.VideoHardwareDevice = fo.VideoHardwareDevice
	}
	if fo.SubtitlesUrl != "" {
		opts.SubtitlesUrl = fo.SubtitlesUrl
	}
	if fo.SubtitlesDelayMs != 0 {
		opts.SubtitlesDelay = time.Duration(fo.SubtitlesDelayMs) * time.Millisecond
	}
	opts.IsSubtitleDisabled = fo.IsSubtitleDisabled
	if fo.DownloadCacheLength > 0 {
		opts.DownloadCacheLength = fo.DownloadCacheLength
	}
}

func applyEnvOverrides(opts *MediaOptions) {
	if v := os.Getenv("VIDEO_FORCED_FPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			opts.VideoForcedFps = f
		}
	}
	if v := os.Getenv("VIDEO_HARDWARE_DEVICE"); v != "" {
		opts.VideoHardwareDevice = v
	}
	if v := os.Getenv("SUBTITLES_URL"); v != "" {
		opts.SubtitlesUrl = v
	}
	if v := os.Getenv("DOWNLOAD_CACHE_LENGTH_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			opts.DownloadCacheLength = n
		}
	}
}
