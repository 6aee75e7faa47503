// Package config provides configuration management for deezer-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - The environment overlay for the arl cookie
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Music/Deezer/<Artist>/<Album>
//	// MP3 320 preferred, three concurrent track downloads
//	// XL covers, downscaled to 1000px before embedding
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// The DEEZER_ARL environment variable always wins over the file, so
// the cookie can live in the environment or a .env file instead of on
// disk next to ordinary preferences.
//
// # Saving Settings
//
//	settings.OutputDir = "/music/deezer"
//	err := settings.Save("/path/to/config.json")
//
// # Configuration Options
//
// Settings includes options for:
//   - The arl authentication cookie
//   - Output directory and preferred bitrate
//   - Concurrent download limits and the failed-track policy
//   - Cover art size and embed resizing
//   - Playlist generation
package config
