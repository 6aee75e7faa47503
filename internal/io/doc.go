// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Filename sanitization for cross-platform compatibility
//   - Track and album path layout
//   - Directory creation and file writing
//   - Cover art resizing and format conversion
//
// # File Layout
//
// Downloads are laid out as Artist/Album/NN Title.ext:
//
//	dir := ioutils.AlbumDir("Daft Punk", "Discovery")   // "Daft Punk/Discovery"
//	name := ioutils.TrackFileName(1, "One More Time", ".mp3") // "01 One More Time.mp3"
//
//	err := ioutils.EnsureDir(filepath.Join(base, dir))
//	err = ioutils.WriteFile(path, data)
//
// # Filename Sanitization
//
// Use SanitizeFileName to strip characters that are invalid on at
// least one supported platform:
//
//	safe := ioutils.SanitizeFileName(`Song: Part 1/2?`) // Returns "Song Part 12"
//
// # Image Processing
//
// The ImageService handles cover art manipulation:
//
//	svc := ioutils.NewImageService()
//
//	// Resize cover to fit within 800x800
//	resized, _ := svc.ResizeImage(ctx, coverData, 800, 800)
//
//	// Convert to JPEG
//	jpegData, _ := svc.ConvertToJPEG(ctx, pngData)
package ioutils
