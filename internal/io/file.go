package ioutils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// forbiddenChars are the characters stripped from file and directory
// names. The set covers every platform the output may land on; Windows
// is the most restrictive.
var forbiddenChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]`)

// SanitizeFileName strips characters that are invalid in file or
// folder names.
//
// The following transformations are applied:
//   - Invalid characters (\/:*?"<>| and control chars 0x00-0x1f) → removed
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("AC/DC")           // Returns "ACDC"
//	SanitizeFileName("Track...")        // Returns "Track"
//	SanitizeFileName("Name   with  spaces") // Returns "Name with spaces"
func SanitizeFileName(name string) string {
	name = forbiddenChars.ReplaceAllString(name, "")

	// Windows rejects names ending with dots
	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	return strings.TrimRight(name, " ")
}

// TrackFileName builds the final file name for a saved track:
// a zero-padded track number, the sanitized title, and the container
// extension.
//
// Example:
//
//	TrackFileName(4, "Harder, Better, Faster, Stronger", ".mp3")
//	// Returns "04 Harder, Better, Faster, Stronger.mp3"
func TrackFileName(number int, title, ext string) string {
	return SanitizeFileName(fmt.Sprintf("%02d %s", number, title)) + ext
}

// AlbumDir builds the relative directory for an album's files,
// <Artist>/<Album>, with both segments sanitized.
func AlbumDir(artist, album string) string {
	return filepath.Join(SanitizeFileName(artist), SanitizeFileName(album))
}

// WriteFile writes data to a file with mode 0644, truncating any
// existing content.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// EnsureDir creates a directory and all parents with mode 0755. An
// existing directory is not an error.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
