package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/handiism/deezer-downloader/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	// ARL is the authentication cookie copied from a logged-in browser
	// session. The DEEZER_ARL environment variable takes precedence, so
	// the secret can stay out of the settings file.
	ARL string `json:"arl"`

	// Download settings
	OutputDir        string `json:"output_dir"`
	Bitrate          string `json:"bitrate"` // FLAC, MP3_320, MP3_256, MP3_128
	Concurrency      int    `json:"concurrency"`
	SkipFailedTracks bool   `json:"skip_failed_tracks"`

	// Cover art settings
	CoverSize    string `json:"cover_size"` // small, medium, big, xl
	CoverMaxEdge int    `json:"cover_max_edge"`

	// Playlist settings
	WritePlaylist bool `json:"write_playlist"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		OutputDir:    filepath.Join(homeDir, "Music", "Deezer"),
		Bitrate:      "MP3_320",
		Concurrency:  3,
		CoverSize:    "xl",
		CoverMaxEdge: 1000,
	}
}

// Load reads settings from a JSON file and applies the environment
// overlay. An empty path or a missing file yields the defaults.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := json.Unmarshal(data, settings); err != nil {
				return nil, err
			}
		}
	}

	settings.applyEnv()
	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ParsedBitrate converts the stored bitrate label.
func (s *Settings) ParsedBitrate() model.Bitrate {
	return model.ParseBitrate(s.Bitrate)
}

// ParsedCoverSize converts the stored cover size label.
func (s *Settings) ParsedCoverSize() model.CoverSize {
	return model.ParseCoverSize(s.CoverSize)
}

// applyEnv overrides file values with environment variables. The arl
// cookie is the only secret and the only override.
func (s *Settings) applyEnv() {
	if arl := os.Getenv("DEEZER_ARL"); arl != "" {
		s.ARL = arl
	}
}
