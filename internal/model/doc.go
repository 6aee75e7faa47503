// Package model defines the core data structures used throughout
// the deezer-downloader application.
//
// # Track
//
// Track represents a single Deezer track. Core metadata comes from one
// public API lookup; the extended block (origin hash, media version,
// contributors, lyrics) is only present after an authenticated page
// lookup:
//
//	track, _ := catalog.Track(ctx, 3135556)
//	if !track.Hydrated() {
//	    _ = catalog.Hydrate(ctx, track)
//	}
//
// # Album
//
// Album carries album metadata plus the member-track summaries embedded
// in the album payload, and lazily caches its cover art per resolution:
//
//	album, _ := catalog.Album(ctx, 302127)
//	cover, _ := album.Cover(ctx, httpClient, model.CoverXL)
//
// # Bitrate
//
// Bitrate names a download quality and knows its stream URL code, its
// file extension, and the next step of the degradation chain:
//
//	b := model.ParseBitrate("flac") // BitrateFLAC
//	b.Code()                        // "9"
//	next, ok := b.Next()            // BitrateMP3320, true
package model
