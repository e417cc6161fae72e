package mediaopts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFallsBackToDefaultsWithoutFile(t *testing.T) {
	opts := Load(filepath.Join(t.TempDir(), "missing.json"))
	if opts.DownloadCacheLength != Default().DownloadCacheLength {
		t.Fatalf("expected default DownloadCacheLength, got %d", opts.DownloadCacheLength)
	}
}

func TestLoadAppliesFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	fo := fileOverrides{VideoForcedFps: 29.97, SubtitlesUrl: "https://example.com/s.srt"}
	data, err := json.Marshal(fo)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	opts := Load(path)
	if opts.VideoForcedFps != 29.97 {
		t.Fatalf("VideoForcedFps = %v, want 29.97", opts.VideoForcedFps)
	}
	if opts.SubtitlesUrl != "https://example.com/s.srt" {
		t.Fatalf("SubtitlesUrl = %q", opts.SubtitlesUrl)
	}
}

func TestForcedCodecNameHandlesNilMap(t *testing.T) {
	opts := MediaOptions{}
	if got := opts.ForcedCodecName(0); got != "" {
		t.Fatalf("expected empty string for unset forced codec, got %q", got)
	}
}

func TestDecoderParamsStreamCodecOptionsRoundTrip(t *testing.T) {
	var dp DecoderParams
	if got := dp.GetStreamCodecOptions(3); got != nil {
		t.Fatalf("expected nil for unset stream options, got %v", got)
	}
	dp.SetStreamCodecOptions(3, map[string]string{"flags2": "+export_mvs"})
	got := dp.GetStreamCodecOptions(3)
	if got["flags2"] != "+export_mvs" {
		t.Fatalf("GetStreamCodecOptions(3) = %v", got)
	}
}
