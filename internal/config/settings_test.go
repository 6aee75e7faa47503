package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/handiism/deezer-downloader/internal/model"
)

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("DEEZER_ARL", "")

	settings, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	defaults := DefaultSettings()
	if settings.Bitrate != defaults.Bitrate {
		t.Errorf("Bitrate = %q, want %q", settings.Bitrate, defaults.Bitrate)
	}
	if settings.Concurrency != defaults.Concurrency {
		t.Errorf("Concurrency = %d, want %d", settings.Concurrency, defaults.Concurrency)
	}
	if settings.CoverSize != defaults.CoverSize {
		t.Errorf("CoverSize = %q, want %q", settings.CoverSize, defaults.CoverSize)
	}
	if settings.CoverMaxEdge != defaults.CoverMaxEdge {
		t.Errorf("CoverMaxEdge = %d, want %d", settings.CoverMaxEdge, defaults.CoverMaxEdge)
	}
	if settings.ARL != "" {
		t.Errorf("ARL = %q, want empty", settings.ARL)
	}
}

func TestSettings_RoundTrip(t *testing.T) {
	t.Setenv("DEEZER_ARL", "")
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	in := DefaultSettings()
	in.ARL = "file-arl"
	in.OutputDir = "/music/deezer"
	in.Bitrate = "FLAC"
	in.Concurrency = 5
	in.SkipFailedTracks = true
	in.CoverSize = "medium"
	in.WritePlaylist = true

	if err := in.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *out != *in {
		t.Errorf("loaded settings = %+v, want %+v", out, in)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("DEEZER_ARL", "")
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"bitrate": "FLAC"}`), 0644); err != nil {
		t.Fatalf("writing fixture failed: %v", err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.Bitrate != "FLAC" {
		t.Errorf("Bitrate = %q, want %q", settings.Bitrate, "FLAC")
	}
	if settings.Concurrency != DefaultSettings().Concurrency {
		t.Errorf("Concurrency = %d, want default %d", settings.Concurrency, DefaultSettings().Concurrency)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("writing fixture failed: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestLoad_EnvOverridesARL(t *testing.T) {
	t.Setenv("DEEZER_ARL", "env-arl")
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"arl": "file-arl"}`), 0644); err != nil {
		t.Fatalf("writing fixture failed: %v", err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.ARL != "env-arl" {
		t.Errorf("ARL = %q, want %q", settings.ARL, "env-arl")
	}
}

func TestSettings_ParsedValues(t *testing.T) {
	tests := []struct {
		name      string
		bitrate   string
		coverSize string
		wantBR    model.Bitrate
		wantCover model.CoverSize
	}{
		{
			name:      "canonical labels",
			bitrate:   "FLAC",
			coverSize: "medium",
			wantBR:    model.BitrateFLAC,
			wantCover: model.CoverMedium,
		},
		{
			name:      "lowercase bitrate",
			bitrate:   "mp3_320",
			coverSize: "small",
			wantBR:    model.BitrateMP3320,
			wantCover: model.CoverSmall,
		},
		{
			name:      "unknown cover size falls back to xl",
			bitrate:   "MP3_128",
			coverSize: "huge",
			wantBR:    model.BitrateMP3128,
			wantCover: model.CoverXL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Settings{Bitrate: tt.bitrate, CoverSize: tt.coverSize}
			if got := s.ParsedBitrate(); got != tt.wantBR {
				t.Errorf("ParsedBitrate() = %q, want %q", got, tt.wantBR)
			}
			if got := s.ParsedCoverSize(); got != tt.wantCover {
				t.Errorf("ParsedCoverSize() = %v, want %v", got, tt.wantCover)
			}
		})
	}
}
